// Package pipeline orchestrates a candidate batch from acceptance filtering
// through catalog reconciliation. Candidates run sequentially: remote quota
// is the bottleneck, and one product's failure must never take the batch
// down with it.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twp-acessorios/garimpo-cli/internal/catalog"
	"github.com/twp-acessorios/garimpo-cli/internal/config"
	"github.com/twp-acessorios/garimpo-cli/internal/filter"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
	"github.com/twp-acessorios/garimpo-cli/internal/pricing"
)

// Scorer produces a merchandising verdict for one candidate.
type Scorer interface {
	Score(ctx context.Context, c model.Candidate) model.ScoredCandidate
}

// Reconciler applies one desired product state against the storefront.
type Reconciler interface {
	Reconcile(ctx context.Context, externalID string, desired model.CatalogProductState) (*catalog.Result, error)
}

// Locator resolves a supplier external id to its remote product id.
type Locator interface {
	Locate(externalID string) (int64, bool)
}

// ImageFetcher downloads image payloads for upload, in order.
type ImageFetcher interface {
	Fetch(ctx context.Context, urls []string) ([][]byte, error)
}

// Runner drives the full qualification and normalization pipeline.
type Runner struct {
	cfg        *config.Config
	engine     *pricing.Engine
	scorer     Scorer
	reconciler Reconciler
	locator    Locator
	images     ImageFetcher // nil skips image replacement
}

// NewRunner wires a Runner. The image fetcher is optional.
func NewRunner(cfg *config.Config, engine *pricing.Engine, scorer Scorer, rec Reconciler, loc Locator, images ImageFetcher) *Runner {
	return &Runner{
		cfg:        cfg,
		engine:     engine,
		scorer:     scorer,
		reconciler: rec,
		locator:    loc,
		images:     images,
	}
}

// Run processes the batch and returns the report. Cancellation is honored
// between candidates only; an in-flight product finishes its calls so it
// never lands half-ledgered because of a Ctrl-C.
func (r *Runner) Run(ctx context.Context, candidates []model.Candidate) model.BatchReport {
	report := model.BatchReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	zap.L().Info("batch started",
		zap.String("run_id", report.RunID),
		zap.Int("candidates", len(candidates)),
	)

	for _, c := range candidates {
		if ctx.Err() != nil {
			zap.L().Warn("batch cancelled",
				zap.String("run_id", report.RunID),
				zap.Int("processed", len(report.Items)),
			)
			break
		}
		report.Count(r.processOne(ctx, c))
	}

	report.FinishedAt = time.Now().UTC()
	zap.L().Info("batch finished",
		zap.String("run_id", report.RunID),
		zap.Int("accepted", report.Accepted),
		zap.Int("rejected", report.Rejected),
		zap.Int("applied", report.Applied),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)
	return report
}

func (r *Runner) processOne(ctx context.Context, c model.Candidate) model.ItemResult {
	item := model.ItemResult{ExternalID: c.ExternalID, Title: c.Title}

	if dec := filter.Evaluate(c, r.cfg.Criteria); !dec.Accepted {
		item.Outcome = model.OutcomeRejectedByFilter
		item.Reasons = dec.Reasons
		return item
	}

	sc := r.scorer.Score(ctx, c)
	item.Score = sc.Score

	if gate := filter.ScoreGate(sc, r.cfg.Scoring.MinScore); !gate.Accepted {
		item.Outcome = model.OutcomeRejectedByScore
		item.Reasons = gate.Reasons
		return item
	}

	pb, err := r.engine.ComputeDefaultFreight(c.Price, c.Category)
	if err != nil {
		item.Outcome = model.OutcomeFailed
		item.ErrorKind = string(catalog.KindInvalidInput)
		zap.L().Error("pricing failed",
			zap.String("external_id", c.ExternalID),
			zap.Error(err),
		)
		return item
	}
	item.FinalPrice = pb.FinalPrice

	desired := catalog.BuildDesired(sc, pb, r.cfg.Shopify)
	if remoteID, ok := r.locator.Locate(c.ExternalID); ok {
		desired.RemoteID = remoteID
	}

	if r.images != nil && c.ImageURL != "" {
		payloads, err := r.images.Fetch(ctx, []string{c.ImageURL})
		if err != nil {
			zap.L().Warn("image fetch failed, keeping remote images",
				zap.String("external_id", c.ExternalID),
				zap.Error(err),
			)
		} else {
			desired.Images = payloads
		}
	}

	res, err := r.reconciler.Reconcile(ctx, c.ExternalID, desired)
	if err != nil {
		item.Outcome = model.OutcomeFailed
		item.ErrorKind = string(catalog.KindOf(err))
		zap.L().Error("reconcile failed",
			zap.String("external_id", c.ExternalID),
			zap.String("kind", item.ErrorKind),
			zap.Error(err),
		)
		return item
	}

	item.Outcome = res.Outcome
	return item
}
