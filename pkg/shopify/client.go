// Package shopify provides a client for the Shopify Admin REST API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Admin REST operations the catalog tooling needs.
type Client interface {
	// ListProducts fetches all products, following pagination to exhaustion.
	ListProducts(ctx context.Context, opts ...ListOption) ([]Product, error)
	// GetProduct fetches a single product by id.
	GetProduct(ctx context.Context, id int64) (*Product, error)
	// UpdateProduct applies a partial update to product-level fields.
	UpdateProduct(ctx context.Context, upd ProductUpdate) (*Product, error)
	// UpdateVariant applies a partial update to a single variant.
	UpdateVariant(ctx context.Context, upd VariantUpdate) (*Variant, error)
	// ListImages returns a product's images in position order.
	ListImages(ctx context.Context, productID int64) ([]Image, error)
	// DeleteImage removes one image from a product.
	DeleteImage(ctx context.Context, productID, imageID int64) error
	// CreateImage uploads a base64-encoded image at an explicit position.
	CreateImage(ctx context.Context, productID int64, img ImageUpload) (*Image, error)
	// ListSmartCollections returns every smart collection.
	ListSmartCollections(ctx context.Context) ([]SmartCollection, error)
	// CreateSmartCollection creates a tag-equals smart collection.
	CreateSmartCollection(ctx context.Context, title, tag string) (*SmartCollection, error)
	// CountProducts returns the total product count.
	CountProducts(ctx context.Context) (int, error)
	// GetShop fetches shop metadata; used as a connectivity check.
	GetShop(ctx context.Context) (*Shop, error)
}

// APIError is a non-2xx response from the Admin API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify: status %d: %s", e.StatusCode, e.Body)
}

// RateLimitError is a 429 response. RetryAfter carries the server's
// Retry-After header when present, zero otherwise.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("shopify: rate limited, retry after %s", e.RetryAfter)
	}
	return "shopify: rate limited"
}

// Option configures the Shopify client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the steady-state request rate in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Admin REST client for one store. The REST Admin API
// allows 2 requests/second on standard plans; the default limiter stays
// just under that.
func NewClient(storeURL, accessToken, apiVersion string, opts ...Option) Client {
	c := &httpClient{
		baseURL: fmt.Sprintf("https://%s/admin/api/%s", strings.TrimRight(storeURL, "/"), apiVersion),
		token:   accessToken,
		limiter: rate.NewLimiter(rate.Limit(1.8), 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do executes one paced request and returns the body, status and headers.
// 429 is mapped to *RateLimitError, other non-2xx to *APIError.
func (c *httpClient) do(ctx context.Context, method, path string, payload any) ([]byte, http.Header, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, eris.Wrap(err, "shopify: rate limiter wait")
		}
	}

	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, eris.Wrap(err, "shopify: marshal request")
		}
		reqBody = bytes.NewReader(buf)
	}

	url := path
	if !strings.HasPrefix(path, "http") {
		url = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, nil, eris.Wrap(err, "shopify: create request")
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, eris.Wrap(err, "shopify: request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, eris.Wrap(err, "shopify: read response body")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, resp.Header, &RateLimitError{RetryAfter: parseRetryAfter(resp.Header)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, resp.Header, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, resp.Header, nil
}

func parseRetryAfter(h http.Header) time.Duration {
	raw := h.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// nextPageURL extracts the rel="next" target from a Link header, or "" when
// the last page has been reached.
func nextPageURL(h http.Header) string {
	link := h.Get("Link")
	if link == "" {
		return ""
	}
	for _, part := range strings.Split(link, ",") {
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		if !strings.Contains(segs[1], `rel="next"`) {
			continue
		}
		url := strings.TrimSpace(segs[0])
		url = strings.TrimPrefix(url, "<")
		url = strings.TrimSuffix(url, ">")
		return url
	}
	return ""
}
