package ga4

import (
	"context"
	"fmt"
	"strings"

	"github.com/propscope/propscope/pkg/gapi"
)

// Client provides access to the GA4 Admin and Data APIs.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	api       *gapi.Client
	adminBase string
	dataBase  string
}

// NewClient creates a GA4 client on top of the shared API client.
func NewClient(api *gapi.Client) *Client {
	return &Client{
		api:       api,
		adminBase: "https://analyticsadmin.googleapis.com/v1beta",
		dataBase:  "https://analyticsdata.googleapis.com/v1beta",
	}
}

// PropertyName converts a property identifier to resource-name form.
//
//	PropertyName("213025502")            == "properties/213025502"
//	PropertyName("properties/213025502") == "properties/213025502"
func PropertyName(id string) string {
	if strings.HasPrefix(id, "properties/") {
		return id
	}
	return "properties/" + id
}

// AccountSummary is a lightweight view of an account and its properties.
type AccountSummary struct {
	Account           string            `json:"account"`
	DisplayName       string            `json:"displayName"`
	PropertySummaries []PropertySummary `json:"propertySummaries"`
}

// PropertySummary describes one property within an account summary.
type PropertySummary struct {
	Property     string `json:"property"`
	DisplayName  string `json:"displayName"`
	PropertyType string `json:"propertyType,omitempty"`
	WebsiteURL   string `json:"websiteUrl,omitempty"`
	Parent       string `json:"parent,omitempty"`
}

// DataStream is a property's data collection stream.
type DataStream struct {
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	Type          string `json:"type"`
	WebStreamData *struct {
		MeasurementID string `json:"measurementId"`
		DefaultURI    string `json:"defaultUri"`
	} `json:"webStreamData,omitempty"`
}

// ConversionEvent is a conversion (or key) event configured on a property.
type ConversionEvent struct {
	Name           string `json:"name"`
	EventName      string `json:"eventName"`
	Custom         bool   `json:"custom"`
	Deletable      bool   `json:"deletable"`
	CountingMethod string `json:"countingMethod,omitempty"`
}

// CustomDimension is a user-defined dimension on a property.
type CustomDimension struct {
	Name          string `json:"name"`
	ParameterName string `json:"parameterName"`
	DisplayName   string `json:"displayName"`
	Scope         string `json:"scope"`
}

// GoogleAdsLink is a link between a property and a Google Ads account.
type GoogleAdsLink struct {
	Name                      string `json:"name"`
	CustomerID                string `json:"customerId"`
	CanManageClients          bool   `json:"canManageClients"`
	AdsPersonalizationEnabled bool   `json:"adsPersonalizationEnabled"`
	CreateTime                string `json:"createTime,omitempty"`
	CreatorEmailAddress       string `json:"creatorEmailAddress,omitempty"`
}

// CustomMetric is a user-defined metric on a property.
type CustomMetric struct {
	Name            string `json:"name"`
	ParameterName   string `json:"parameterName"`
	DisplayName     string `json:"displayName"`
	MeasurementUnit string `json:"measurementUnit"`
	Scope           string `json:"scope"`
}

// AccountSummaries returns summaries for every account and property the
// authenticated user can access, following pagination to the end.
func (c *Client) AccountSummaries(ctx context.Context) ([]AccountSummary, error) {
	var out []AccountSummary
	pageToken := ""
	for {
		url := c.adminBase + "/accountSummaries?pageSize=200"
		if pageToken != "" {
			url += "&pageToken=" + gapi.URLEncode(pageToken)
		}

		var page struct {
			AccountSummaries []AccountSummary `json:"accountSummaries"`
			NextPageToken    string           `json:"nextPageToken"`
		}
		if err := c.api.GetJSON(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("list account summaries: %w", err)
		}
		out = append(out, page.AccountSummaries...)
		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}

// DataStreams returns the data streams configured on a property.
func (c *Client) DataStreams(ctx context.Context, propertyID string) ([]DataStream, error) {
	var resp struct {
		DataStreams []DataStream `json:"dataStreams"`
	}
	url := fmt.Sprintf("%s/%s/dataStreams", c.adminBase, PropertyName(propertyID))
	if err := c.api.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("list data streams for %s: %w", propertyID, err)
	}
	return resp.DataStreams, nil
}

// ConversionEvents returns the conversion events configured on a property.
func (c *Client) ConversionEvents(ctx context.Context, propertyID string) ([]ConversionEvent, error) {
	var resp struct {
		ConversionEvents []ConversionEvent `json:"conversionEvents"`
	}
	url := fmt.Sprintf("%s/%s/conversionEvents", c.adminBase, PropertyName(propertyID))
	if err := c.api.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("list conversion events for %s: %w", propertyID, err)
	}
	return resp.ConversionEvents, nil
}

// KeyEvents returns the key events configured on a property. Key events
// are the successor of conversion events in newer properties.
func (c *Client) KeyEvents(ctx context.Context, propertyID string) ([]ConversionEvent, error) {
	var resp struct {
		KeyEvents []ConversionEvent `json:"keyEvents"`
	}
	url := fmt.Sprintf("%s/%s/keyEvents", c.adminBase, PropertyName(propertyID))
	if err := c.api.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("list key events for %s: %w", propertyID, err)
	}
	return resp.KeyEvents, nil
}

// GoogleAdsLinks returns the Google Ads accounts linked to a property.
func (c *Client) GoogleAdsLinks(ctx context.Context, propertyID string) ([]GoogleAdsLink, error) {
	var resp struct {
		GoogleAdsLinks []GoogleAdsLink `json:"googleAdsLinks"`
	}
	url := fmt.Sprintf("%s/%s/googleAdsLinks", c.adminBase, PropertyName(propertyID))
	if err := c.api.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("list Google Ads links for %s: %w", propertyID, err)
	}
	return resp.GoogleAdsLinks, nil
}

// CustomDimensions returns the custom dimensions defined on a property.
func (c *Client) CustomDimensions(ctx context.Context, propertyID string) ([]CustomDimension, error) {
	var resp struct {
		CustomDimensions []CustomDimension `json:"customDimensions"`
	}
	url := fmt.Sprintf("%s/%s/customDimensions", c.adminBase, PropertyName(propertyID))
	if err := c.api.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("list custom dimensions for %s: %w", propertyID, err)
	}
	return resp.CustomDimensions, nil
}

// CustomMetrics returns the custom metrics defined on a property.
func (c *Client) CustomMetrics(ctx context.Context, propertyID string) ([]CustomMetric, error) {
	var resp struct {
		CustomMetrics []CustomMetric `json:"customMetrics"`
	}
	url := fmt.Sprintf("%s/%s/customMetrics", c.adminBase, PropertyName(propertyID))
	if err := c.api.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("list custom metrics for %s: %w", propertyID, err)
	}
	return resp.CustomMetrics, nil
}
