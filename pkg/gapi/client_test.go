package gapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/propscope/propscope/pkg/retry"
)

func fastRetry() retry.Config {
	return retry.Config{Retries: 3, Base: time.Millisecond, Cap: 4 * time.Millisecond}
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"kind": "ok"})
	}))
	defer server.Close()

	c := NewClient(StaticToken("tok"), fastRetry())

	var resp map[string]string
	if err := c.GetJSON(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("GetJSON() failed: %v", err)
	}
	if resp["kind"] != "ok" {
		t.Errorf("GetJSON() decoded %v, want kind=ok", resp)
	}
}

func TestPostJSONEncodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body["rowLimit"] != float64(100) {
			t.Errorf("rowLimit = %v, want 100", body["rowLimit"])
		}
		json.NewEncoder(w).Encode(map[string]any{"rows": []any{}})
	}))
	defer server.Close()

	c := NewClient(StaticToken("tok"), fastRetry())

	var resp map[string]any
	err := c.PostJSON(context.Background(), server.URL, map[string]any{"rowLimit": 100}, &resp)
	if err != nil {
		t.Fatalf("PostJSON() failed: %v", err)
	}
}

func TestTransientStatusRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"kind": "ok"})
	}))
	defer server.Close()

	c := NewClient(StaticToken("tok"), fastRetry())

	var resp map[string]string
	if err := c.GetJSON(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("GetJSON() failed after transient errors: %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("server hit %d times, want 3", n)
	}
}

func TestPermanentStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    403,
				"message": "insufficient scopes",
				"status":  "PERMISSION_DENIED",
			},
		})
	}))
	defer server.Close()

	c := NewClient(StaticToken("tok"), fastRetry())

	err := c.GetJSON(context.Background(), server.URL, &map[string]any{})
	if err == nil {
		t.Fatal("GetJSON() succeeded on a 403")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server hit %d times for a 403, want 1", n)
	}

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error %v does not carry a StatusError", err)
	}
	if se.Status != 403 || se.Reason != "PERMISSION_DENIED" || se.Message != "insufficient scopes" {
		t.Errorf("StatusError = %+v, want 403/PERMISSION_DENIED/insufficient scopes", se)
	}
}

func TestNotFoundMapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(StaticToken("tok"), fastRetry())
	err := c.GetJSON(context.Background(), server.URL, &map[string]any{})
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestEmptyTokenRejected(t *testing.T) {
	c := NewClient(StaticToken(""), fastRetry())
	err := c.GetJSON(context.Background(), "http://127.0.0.1:0/", &map[string]any{})
	if err == nil {
		t.Error("GetJSON() succeeded without a token")
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.Example.com/", "example.com"},
		{"http://example.com", "example.com"},
		{"www.example.com", "example.com"},
		{"EXAMPLE.COM/", "example.com"},
		{"sub.example.com/path", "sub.example.com/path"},
		{"", ""},
		{"  https://shop.example.org  ", "shop.example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeDomain(tt.in); got != tt.want {
				t.Errorf("NormalizeDomain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
