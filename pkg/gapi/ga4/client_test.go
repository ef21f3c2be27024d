package ga4

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
	c.adminBase = server.URL
	c.dataBase = server.URL
	return c
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"213025502", "properties/213025502"},
		{"properties/213025502", "properties/213025502"},
	}
	for _, tt := range tests {
		if got := PropertyName(tt.in); got != tt.want {
			t.Errorf("PropertyName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAccountSummariesPaged(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accountSummaries" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.URL.Query().Get("pageToken") {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"accountSummaries": []AccountSummary{{
					Account:     "accounts/100",
					DisplayName: "First",
					PropertySummaries: []PropertySummary{
						{Property: "properties/1", DisplayName: "Site One", WebsiteURL: "https://one.example.com"},
					},
				}},
				"nextPageToken": "page2",
			})
		case "page2":
			json.NewEncoder(w).Encode(map[string]any{
				"accountSummaries": []AccountSummary{{
					Account:     "accounts/200",
					DisplayName: "Second",
				}},
			})
		default:
			t.Errorf("unexpected pageToken %q", r.URL.Query().Get("pageToken"))
		}
	}))

	got, err := c.AccountSummaries(context.Background())
	if err != nil {
		t.Fatalf("AccountSummaries() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("AccountSummaries() returned %d summaries, want 2", len(got))
	}
	if got[0].PropertySummaries[0].WebsiteURL != "https://one.example.com" {
		t.Errorf("websiteUrl not decoded: %+v", got[0].PropertySummaries[0])
	}
	if got[1].Account != "accounts/200" {
		t.Errorf("second page account = %q, want accounts/200", got[1].Account)
	}
}

func TestDataStreams(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/properties/42/dataStreams" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"dataStreams": []map[string]any{{
				"name":        "properties/42/dataStreams/7",
				"displayName": "Web",
				"type":        "WEB_DATA_STREAM",
				"webStreamData": map[string]string{
					"measurementId": "G-ABC123",
					"defaultUri":    "https://example.com",
				},
			}},
		})
	}))

	// Bare numeric ID must be accepted.
	got, err := c.DataStreams(context.Background(), "42")
	if err != nil {
		t.Fatalf("DataStreams() failed: %v", err)
	}
	if len(got) != 1 || got[0].WebStreamData == nil || got[0].WebStreamData.MeasurementID != "G-ABC123" {
		t.Errorf("DataStreams() = %+v", got)
	}
}

func TestConversionAndKeyEvents(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/properties/42/conversionEvents":
			json.NewEncoder(w).Encode(map[string]any{
				"conversionEvents": []ConversionEvent{{EventName: "purchase", Custom: false}},
			})
		case "/properties/42/keyEvents":
			json.NewEncoder(w).Encode(map[string]any{
				"keyEvents": []ConversionEvent{{EventName: "sign_up", Custom: true}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	conv, err := c.ConversionEvents(context.Background(), "42")
	if err != nil {
		t.Fatalf("ConversionEvents() failed: %v", err)
	}
	if len(conv) != 1 || conv[0].EventName != "purchase" {
		t.Errorf("ConversionEvents() = %+v", conv)
	}

	key, err := c.KeyEvents(context.Background(), "42")
	if err != nil {
		t.Fatalf("KeyEvents() failed: %v", err)
	}
	if len(key) != 1 || key[0].EventName != "sign_up" {
		t.Errorf("KeyEvents() = %+v", key)
	}
}

func TestCustomDefinitions(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/properties/42/customDimensions":
			json.NewEncoder(w).Encode(map[string]any{
				"customDimensions": []CustomDimension{{ParameterName: "plan", Scope: "USER"}},
			})
		case "/properties/42/customMetrics":
			json.NewEncoder(w).Encode(map[string]any{
				"customMetrics": []CustomMetric{{ParameterName: "score", MeasurementUnit: "STANDARD"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	dims, err := c.CustomDimensions(context.Background(), "properties/42")
	if err != nil {
		t.Fatalf("CustomDimensions() failed: %v", err)
	}
	if len(dims) != 1 || dims[0].ParameterName != "plan" {
		t.Errorf("CustomDimensions() = %+v", dims)
	}

	mets, err := c.CustomMetrics(context.Background(), "properties/42")
	if err != nil {
		t.Fatalf("CustomMetrics() failed: %v", err)
	}
	if len(mets) != 1 || mets[0].ParameterName != "score" {
		t.Errorf("CustomMetrics() = %+v", mets)
	}
}

func TestGoogleAdsLinks(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/properties/42/googleAdsLinks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"googleAdsLinks": []GoogleAdsLink{{
				Name:                      "properties/42/googleAdsLinks/9",
				CustomerID:                "1234567890",
				AdsPersonalizationEnabled: true,
			}},
		})
	}))

	got, err := c.GoogleAdsLinks(context.Background(), "42")
	if err != nil {
		t.Fatalf("GoogleAdsLinks() failed: %v", err)
	}
	if len(got) != 1 || got[0].CustomerID != "1234567890" {
		t.Errorf("GoogleAdsLinks() = %+v", got)
	}
	if !got[0].AdsPersonalizationEnabled {
		t.Errorf("AdsPersonalizationEnabled not decoded: %+v", got[0])
	}
}

func TestRunReport(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/properties/42:runReport" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := body["limit"]; !ok {
			t.Error("request carries no limit")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"dimensionHeaders": []map[string]string{{"name": "country"}},
			"metricHeaders":    []map[string]string{{"name": "sessions"}},
			"rows": []map[string]any{{
				"dimensionValues": []map[string]string{{"value": "US"}},
				"metricValues":    []map[string]string{{"value": "1234"}},
			}},
			"rowCount": 1,
		})
	}))

	got, err := c.RunReport(context.Background(), ReportRequest{
		PropertyID: "42",
		Dimensions: []string{"country"},
		Metrics:    []string{"sessions"},
		StartDate:  "2025-01-01",
		EndDate:    "2025-01-31",
	})
	if err != nil {
		t.Fatalf("RunReport() failed: %v", err)
	}
	if got.RowCount != 1 || len(got.Rows) != 1 {
		t.Fatalf("RunReport() = %+v", got)
	}
	if got.Rows[0].DimensionValues[0] != "US" || got.Rows[0].MetricValues[0] != "1234" {
		t.Errorf("row = %+v", got.Rows[0])
	}
	if got.DimensionHeaders[0] != "country" || got.MetricHeaders[0] != "sessions" {
		t.Errorf("headers = %v / %v", got.DimensionHeaders, got.MetricHeaders)
	}
}
