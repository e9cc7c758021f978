package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/twp-acessorios/garimpo-cli/internal/catalog"
	"github.com/twp-acessorios/garimpo-cli/internal/images"
	"github.com/twp-acessorios/garimpo-cli/internal/ledger"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
	"github.com/twp-acessorios/garimpo-cli/internal/pipeline"
	"github.com/twp-acessorios/garimpo-cli/internal/pricing"
	"github.com/twp-acessorios/garimpo-cli/internal/scoring"
	"github.com/twp-acessorios/garimpo-cli/pkg/claude"
	"github.com/twp-acessorios/garimpo-cli/pkg/dsers"
	"github.com/twp-acessorios/garimpo-cli/pkg/shopify"
)

// batchEnv holds the initialized clients and the pipeline runner used by
// the process/serve commands.
type batchEnv struct {
	Shopify shopify.Client
	Ledger  ledger.Ledger
	Runner  *pipeline.Runner
}

// Close releases resources held by the batch environment.
func (e *batchEnv) Close() {
	if e.Ledger != nil {
		_ = e.Ledger.Close()
	}
}

// initShopify builds the storefront client from config.
func initShopify() shopify.Client {
	return shopify.NewClient(
		cfg.Shopify.StoreURL,
		cfg.Shopify.AccessToken,
		cfg.Shopify.APIVersion,
		shopify.WithRateLimit(cfg.Shopify.RateLimitRPS),
	)
}

// initScorer builds the scoring adapter. Without an API key the adapter runs
// fallback-only.
func initScorer() *scoring.Adapter {
	var oracle claude.Client
	if cfg.Anthropic.Key != "" {
		oracle = claude.NewClient(cfg.Anthropic.Key)
	}
	return scoring.NewAdapter(oracle, cfg.Anthropic, cfg.Scoring, cfg.Pricing.Markup)
}

// initDsers builds the supplier-sync bridge client, nil when unconfigured.
func initDsers() dsers.Client {
	if cfg.Dsers.BridgeURL == "" {
		return nil
	}
	return dsers.NewClient(cfg.Dsers.BridgeURL,
		dsers.WithTimeout(time.Duration(cfg.Dsers.TimeoutSecs)*time.Second))
}

// initBatch sets up every component the batch pipeline needs. Callers
// should defer env.Close().
func initBatch(ctx context.Context, force bool) (*batchEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api := initShopify()

	led, err := ledger.Open(ctx, cfg.Ledger)
	if err != nil {
		return nil, err
	}

	index, err := catalog.BuildIndex(ctx, api, cfg.Shopify.Vendor)
	if err != nil {
		_ = led.Close()
		return nil, err
	}

	batch := cfg.Batch
	batch.Force = batch.Force || force

	runner := pipeline.NewRunner(
		cfg,
		pricing.NewEngine(cfg.Pricing),
		initScorer(),
		catalog.NewReconciler(api, led, batch),
		index,
		images.NewDownloader(cfg.Images),
	)

	return &batchEnv{Shopify: api, Ledger: led, Runner: runner}, nil
}

// loadCandidates reads a candidate batch from a JSON file.
func loadCandidates(path string) ([]model.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read candidates %s", path)
	}
	var candidates []model.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, eris.Wrapf(err, "parse candidates %s", path)
	}
	return candidates, nil
}
