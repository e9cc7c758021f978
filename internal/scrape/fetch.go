package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

// Fetcher retrieves live search pages, paced well below the marketplace's
// tolerance. Mining is a background activity; getting blocked costs more
// than going slow.
type Fetcher struct {
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	maxPerPage int
}

// NewFetcher builds a Fetcher for a marketplace search endpoint.
func NewFetcher(baseURL string, cfg config.ScrapeConfig) *Fetcher {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 0.5
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxPerPage := cfg.MaxPerPage
	if maxPerPage <= 0 {
		maxPerPage = 20
	}
	return &Fetcher{
		baseURL:    baseURL,
		http:       &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxPerPage: maxPerPage,
	}
}

// FetchCategory pulls one search page for a category and parses it.
func (f *Fetcher) FetchCategory(ctx context.Context, category string) ([]model.Candidate, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "scrape: rate limiter wait")
	}

	searchURL := fmt.Sprintf("%s/search?q=%s", f.baseURL, url.QueryEscape(category))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: fetch category %s", category)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("scrape: status %d for category %s", resp.StatusCode, category)
	}

	candidates, err := ParseListing(resp.Body, category)
	if err != nil {
		return nil, err
	}
	if len(candidates) > f.maxPerPage {
		candidates = candidates[:f.maxPerPage]
	}

	zap.L().Info("category scraped",
		zap.String("category", category),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}
