package gmc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/propscope/propscope/pkg/gapi"
	"github.com/propscope/propscope/pkg/retry"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := gapi.NewClient(gapi.StaticToken("tok"), retry.Config{
		Retries: 1, Base: time.Millisecond, Cap: time.Millisecond,
	})
	c := NewClient(api)
	c.base = server.URL
	return c
}

func TestAccount(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/accounts/12345" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Account{
			ID: "12345", Name: "Example Shop", WebsiteURL: "https://shop.example.com",
		})
	}))

	got, err := c.Account(context.Background(), "12345")
	if err != nil {
		t.Fatalf("Account() failed: %v", err)
	}
	if got.Name != "Example Shop" || got.WebsiteURL != "https://shop.example.com" {
		t.Errorf("Account() = %+v", got)
	}
}

func TestProductsPaged(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.URL.Query().Get("pageToken") {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"resources": []Product{
					{ID: "online:en:US:sku-1", OfferID: "sku-1", Title: "Red Widget"},
				},
				"nextPageToken": "p2",
			})
		case "p2":
			json.NewEncoder(w).Encode(map[string]any{
				"resources": []Product{
					{ID: "online:en:US:sku-2", OfferID: "sku-2", Title: "Blue Widget"},
				},
			})
		default:
			t.Errorf("unexpected pageToken %q", r.URL.Query().Get("pageToken"))
		}
	}))

	got, err := c.Products(context.Background(), "12345")
	if err != nil {
		t.Fatalf("Products() failed: %v", err)
	}
	if len(got) != 2 || got[1].OfferID != "sku-2" {
		t.Errorf("Products() = %+v", got)
	}
}

func TestProductStatuses(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/productstatuses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"resources": []map[string]any{{
				"productId": "online:en:US:sku-1",
				"title":     "Red Widget",
				"destinationStatuses": []map[string]string{
					{"destination": "Shopping", "status": "disapproved"},
				},
			}},
		})
	}))

	got, err := c.ProductStatuses(context.Background(), "12345")
	if err != nil {
		t.Fatalf("ProductStatuses() failed: %v", err)
	}
	if len(got) != 1 || got[0].DestinationStatuses[0].Status != "disapproved" {
		t.Errorf("ProductStatuses() = %+v", got)
	}
}

func TestAccountStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/accountstatuses/12345" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"accountId": "12345",
			"accountLevelIssues": []map[string]string{
				{"id": "missing-policy", "title": "Missing return policy", "severity": "critical"},
			},
		})
	}))

	got, err := c.AccountStatus(context.Background(), "12345")
	if err != nil {
		t.Fatalf("AccountStatus() failed: %v", err)
	}
	if got.AccountID != "12345" || len(got.AccountLevelIssues) != 1 {
		t.Errorf("AccountStatus() = %+v", got)
	}
}

func TestFindProducts(t *testing.T) {
	products := []Product{
		{OfferID: "sku-1", Title: "Red Widget", Brand: "Acme"},
		{OfferID: "sku-2", Title: "Blue Gadget", Brand: "Globex"},
		{OfferID: "widget-3", Title: "Spare Part", Brand: "Acme"},
	}

	tests := []struct {
		query string
		want  int
	}{
		{"widget", 2},
		{"acme", 2},
		{"SKU-2", 1},
		{"", 3},
		{"nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := FindProducts(products, tt.query); len(got) != tt.want {
				t.Errorf("FindProducts(%q) matched %d products, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}
