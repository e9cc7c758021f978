// Package dsers talks to the local DSers bridge, a small automation service
// that imports supplier listings and pushes pending orders. The bridge drives
// a browser session; this client only knows its HTTP contract.
package dsers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the supplier-sync operations.
type Client interface {
	// Submit queues a supplier listing URL for import. Returns whether the
	// bridge accepted the listing.
	Submit(ctx context.Context, listingURL string) (bool, error)
	// PushPending asks the bridge to push all pending supplier orders.
	PushPending(ctx context.Context) (bool, error)
}

// Option configures the DSers bridge client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for a DSers bridge at baseURL
// (e.g. http://localhost:8787).
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			// Imports drive a browser on the far side; they are slow.
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type bridgeResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (c *httpClient) Submit(ctx context.Context, listingURL string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"url": listingURL})
	if err != nil {
		return false, eris.Wrap(err, "dsers: marshal submit request")
	}

	resp, err := c.post(ctx, "/import", payload)
	if err != nil {
		return false, eris.Wrap(err, "dsers: submit listing")
	}
	return resp.OK, nil
}

func (c *httpClient) PushPending(ctx context.Context) (bool, error) {
	resp, err := c.post(ctx, "/push-pending", nil)
	if err != nil {
		return false, eris.Wrap(err, "dsers: push pending")
	}
	return resp.OK, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload []byte) (*bridgeResponse, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, eris.Wrap(err, "dsers: create request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "dsers: request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "dsers: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("dsers: status %d: %s", resp.StatusCode, string(raw))
	}

	var out bridgeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, eris.Wrap(err, "dsers: unmarshal response")
	}
	return &out, nil
}
