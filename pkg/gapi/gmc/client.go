package gmc

import (
	"context"
	"fmt"
	"strings"

	"github.com/propscope/propscope/pkg/gapi"
)

// maxProductPages bounds pagination so a huge catalog cannot run a
// single call unboundedly.
const maxProductPages = 20

// Client provides access to the Merchant Center Content API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	api  *gapi.Client
	base string
}

// NewClient creates a Merchant Center client on top of the shared API client.
func NewClient(api *gapi.Client) *Client {
	return &Client{
		api:  api,
		base: "https://shoppingcontent.googleapis.com/content/v2.1",
	}
}

// Account is a Merchant Center account.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	WebsiteURL   string `json:"websiteUrl,omitempty"`
	AdultContent bool   `json:"adultContent,omitempty"`
}

// Product is one catalog item.
type Product struct {
	ID           string `json:"id"`
	OfferID      string `json:"offerId"`
	Title        string `json:"title"`
	Link         string `json:"link,omitempty"`
	Brand        string `json:"brand,omitempty"`
	Availability string `json:"availability,omitempty"`
	Price        *Price `json:"price,omitempty"`
}

// Price is an amount with its currency.
type Price struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ProductStatus is the per-destination approval state of a product.
type ProductStatus struct {
	ProductID           string `json:"productId"`
	Title               string `json:"title"`
	DestinationStatuses []struct {
		Destination string `json:"destination"`
		Status      string `json:"status"`
	} `json:"destinationStatuses"`
	ItemLevelIssues []struct {
		Code        string `json:"code"`
		Severity    string `json:"servability"`
		Description string `json:"description"`
	} `json:"itemLevelIssues,omitempty"`
}

// AccountStatus summarizes account-level issues and product statistics.
type AccountStatus struct {
	AccountID          string `json:"accountId"`
	AccountLevelIssues []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Severity string `json:"severity"`
	} `json:"accountLevelIssues,omitempty"`
	Products []struct {
		Channel    string `json:"channel"`
		Statistics struct {
			Active      string `json:"active"`
			Pending     string `json:"pending"`
			Disapproved string `json:"disapproved"`
			Expiring    string `json:"expiring"`
		} `json:"statistics"`
	} `json:"products,omitempty"`
}

// AuthInfo returns the merchant IDs the authenticated user can access.
func (c *Client) AuthInfo(ctx context.Context) ([]string, error) {
	var resp struct {
		AccountIdentifiers []struct {
			MerchantID   string `json:"merchantId"`
			AggregatorID string `json:"aggregatorId"`
		} `json:"accountIdentifiers"`
	}
	if err := c.api.GetJSON(ctx, c.base+"/accounts/authinfo", &resp); err != nil {
		return nil, fmt.Errorf("get authinfo: %w", err)
	}
	var ids []string
	for _, ai := range resp.AccountIdentifiers {
		switch {
		case ai.MerchantID != "":
			ids = append(ids, ai.MerchantID)
		case ai.AggregatorID != "":
			ids = append(ids, ai.AggregatorID)
		}
	}
	return ids, nil
}

// Accounts resolves every accessible merchant ID to its account record.
// Accounts that fail to load are skipped rather than failing the whole
// listing.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	ids, err := c.AuthInfo(ctx)
	if err != nil {
		return nil, err
	}
	var out []Account
	for _, id := range ids {
		acct, err := c.Account(ctx, id)
		if err != nil {
			if gapi.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, *acct)
	}
	return out, nil
}

// Account fetches the merchant account itself.
func (c *Client) Account(ctx context.Context, merchantID string) (*Account, error) {
	var acct Account
	url := fmt.Sprintf("%s/%s/accounts/%s", c.base, merchantID, merchantID)
	if err := c.api.GetJSON(ctx, url, &acct); err != nil {
		return nil, fmt.Errorf("get account %s: %w", merchantID, err)
	}
	return &acct, nil
}

// Products returns the product catalog, following pagination up to a
// bounded number of pages.
func (c *Client) Products(ctx context.Context, merchantID string) ([]Product, error) {
	var out []Product
	pageToken := ""
	for page := 0; page < maxProductPages; page++ {
		url := fmt.Sprintf("%s/%s/products?maxResults=250", c.base, merchantID)
		if pageToken != "" {
			url += "&pageToken=" + gapi.URLEncode(pageToken)
		}

		var resp struct {
			Resources     []Product `json:"resources"`
			NextPageToken string    `json:"nextPageToken"`
		}
		if err := c.api.GetJSON(ctx, url, &resp); err != nil {
			return nil, fmt.Errorf("list products for %s: %w", merchantID, err)
		}
		out = append(out, resp.Resources...)
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return out, nil
}

// ProductStatuses returns the approval state of every catalog item.
func (c *Client) ProductStatuses(ctx context.Context, merchantID string) ([]ProductStatus, error) {
	var out []ProductStatus
	pageToken := ""
	for page := 0; page < maxProductPages; page++ {
		url := fmt.Sprintf("%s/%s/productstatuses?maxResults=250", c.base, merchantID)
		if pageToken != "" {
			url += "&pageToken=" + gapi.URLEncode(pageToken)
		}

		var resp struct {
			Resources     []ProductStatus `json:"resources"`
			NextPageToken string          `json:"nextPageToken"`
		}
		if err := c.api.GetJSON(ctx, url, &resp); err != nil {
			return nil, fmt.Errorf("list product statuses for %s: %w", merchantID, err)
		}
		out = append(out, resp.Resources...)
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return out, nil
}

// AccountStatus fetches account-level issues and product statistics.
func (c *Client) AccountStatus(ctx context.Context, merchantID string) (*AccountStatus, error) {
	var st AccountStatus
	url := fmt.Sprintf("%s/%s/accountstatuses/%s", c.base, merchantID, merchantID)
	if err := c.api.GetJSON(ctx, url, &st); err != nil {
		return nil, fmt.Errorf("get account status for %s: %w", merchantID, err)
	}
	return &st, nil
}

// FindProducts filters products by a case-insensitive substring match on
// title, offer ID, or brand.
func FindProducts(products []Product, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	var out []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.OfferID), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) {
			out = append(out, p)
		}
	}
	return out
}
