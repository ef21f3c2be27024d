package gsc

import (
	"context"
	"fmt"

	"github.com/propscope/propscope/pkg/gapi"
)

// maxQueryRows is the largest rowLimit the search analytics endpoint
// accepts per request.
const maxQueryRows = 25000

// Client provides access to the Search Console API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	api  *gapi.Client
	base string
}

// NewClient creates a Search Console client on top of the shared API client.
func NewClient(api *gapi.Client) *Client {
	return &Client{
		api:  api,
		base: "https://searchconsole.googleapis.com/webmasters/v3",
	}
}

// Site is a verified Search Console property.
type Site struct {
	SiteURL         string `json:"siteUrl"`
	PermissionLevel string `json:"permissionLevel"`
}

// Sitemap describes one submitted sitemap.
type Sitemap struct {
	Path           string `json:"path"`
	LastSubmitted  string `json:"lastSubmitted,omitempty"`
	LastDownloaded string `json:"lastDownloaded,omitempty"`
	IsPending      bool   `json:"isPending"`
	Warnings       string `json:"warnings,omitempty"`
	Errors         string `json:"errors,omitempty"`
}

// Sites returns every site the authenticated user has access to.
func (c *Client) Sites(ctx context.Context) ([]Site, error) {
	var resp struct {
		SiteEntry []Site `json:"siteEntry"`
	}
	if err := c.api.GetJSON(ctx, c.base+"/sites", &resp); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return resp.SiteEntry, nil
}

// Sitemaps returns the sitemaps submitted for a site.
func (c *Client) Sitemaps(ctx context.Context, siteURL string) ([]Sitemap, error) {
	var resp struct {
		Sitemap []Sitemap `json:"sitemap"`
	}
	url := fmt.Sprintf("%s/sites/%s/sitemaps", c.base, gapi.URLEncode(siteURL))
	if err := c.api.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("list sitemaps for %s: %w", siteURL, err)
	}
	return resp.Sitemap, nil
}

// QueryRequest describes a search analytics query over a site.
type QueryRequest struct {
	SiteURL    string
	StartDate  string
	EndDate    string
	Dimensions []string
	// Filters restrict results by dimension, e.g. {"page": "https://example.com/pricing"}.
	// Multiple filters are combined with AND.
	Filters  map[string]string
	RowLimit int
	StartRow int
}

// QueryRow is one row of search analytics output. Keys line up with the
// requested dimensions.
type QueryRow struct {
	Keys        []string `json:"keys"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

// Query runs a search analytics query and returns the matching rows.
func (c *Client) Query(ctx context.Context, req QueryRequest) ([]QueryRow, error) {
	limit := req.RowLimit
	if limit <= 0 || limit > maxQueryRows {
		limit = maxQueryRows
	}

	body := map[string]any{
		"startDate":  req.StartDate,
		"endDate":    req.EndDate,
		"dimensions": req.Dimensions,
		"rowLimit":   limit,
	}
	if req.StartRow > 0 {
		body["startRow"] = req.StartRow
	}
	if len(req.Filters) > 0 {
		var filters []map[string]string
		for dim, val := range req.Filters {
			filters = append(filters, map[string]string{
				"dimension":  dim,
				"operator":   "equals",
				"expression": val,
			})
		}
		body["dimensionFilterGroups"] = []map[string]any{
			{"groupType": "and", "filters": filters},
		}
	}

	var resp struct {
		Rows []QueryRow `json:"rows"`
	}
	url := fmt.Sprintf("%s/sites/%s/searchAnalytics/query", c.base, gapi.URLEncode(req.SiteURL))
	if err := c.api.PostJSON(ctx, url, body, &resp); err != nil {
		return nil, fmt.Errorf("search analytics query for %s: %w", req.SiteURL, err)
	}
	return resp.Rows, nil
}
