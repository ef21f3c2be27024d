package gapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/propscope/propscope/pkg/observability"
	"github.com/propscope/propscope/pkg/retry"
)

const httpTimeout = 10 * time.Second

// TokenSource supplies the OAuth bearer token attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token, typically loaded
// from configuration or the environment.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", fmt.Errorf("gapi: no access token configured")
	}
	return string(t), nil
}

// Client performs authenticated JSON requests against Google APIs.
// It handles retry of transient failures and common request headers.
//
// All methods are safe for concurrent use.
type Client struct {
	http  *http.Client
	token TokenSource
	retry retry.Config
}

// NewClient creates a Client authenticating with token and retrying
// transient failures per retryCfg. A zero retryCfg uses the default
// schedule.
func NewClient(token TokenSource, retryCfg retry.Config) *Client {
	return &Client{
		http:  &http.Client{Timeout: httpTimeout},
		token: token,
		retry: retryCfg,
	}
}

// GetJSON performs a GET request and decodes the JSON response into v.
// Transient upstream failures are retried automatically.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	return retry.Void(ctx, c.retry, func() error {
		return c.do(ctx, http.MethodGet, url, nil, v)
	})
}

// PostJSON performs a POST request with a JSON-encoded body and decodes the
// JSON response into v. Transient upstream failures are retried; the body
// is re-encoded per attempt.
func (c *Client) PostJSON(ctx context.Context, url string, body, v any) error {
	return retry.Void(ctx, c.retry, func() error {
		return c.do(ctx, http.MethodPost, url, body, v)
	})
}

// do performs a single request attempt.
func (c *Client) do(ctx context.Context, method, url string, body, v any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gapi: encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	tok, err := c.token.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	observability.HTTP().OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failures carry no status and are not retried.
		return fmt.Errorf("gapi: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	observability.HTTP().OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("gapi: decode response from %s: %w", url, err)
	}
	return nil
}

// statusError maps a non-2xx response to a *StatusError, extracting the
// standard Google error envelope when the body carries one.
func statusError(resp *http.Response) error {
	se := &StatusError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		var ge googleError
		if json.Unmarshal(data, &ge) == nil && ge.Error.Message != "" {
			se.Reason = ge.Error.Status
			se.Message = ge.Error.Message
		}
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, se)
	}
	return se
}
