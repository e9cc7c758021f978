package scoring

import (
	"github.com/twp-acessorios/garimpo-cli/internal/config"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

// Fallback is the deterministic scorer used when the oracle is unavailable
// or its reply cannot be parsed. It scores purely from marketplace metrics,
// so repeated runs over the same candidate always agree.
type Fallback struct {
	cfg    config.ScoringConfig
	markup float64
}

// NewFallback creates a Fallback scorer. The markup feeds the suggested
// resale price (source price x markup x FX rate).
func NewFallback(cfg config.ScoringConfig, markup float64) *Fallback {
	if cfg.FXRate <= 0 {
		cfg.FXRate = 5.5
	}
	if cfg.FallbackApproveAt <= 0 {
		cfg.FallbackApproveAt = 60
	}
	if cfg.WeightHighOrders <= 0 {
		cfg.WeightHighOrders = 30
	}
	if cfg.WeightMidOrders <= 0 {
		cfg.WeightMidOrders = 20
	}
	if cfg.WeightRating <= 0 {
		cfg.WeightRating = 25
	}
	if cfg.WeightPriceBand <= 0 {
		cfg.WeightPriceBand = 20
	}
	if markup <= 0 {
		markup = 2.5
	}
	return &Fallback{cfg: cfg, markup: markup}
}

// Score builds a ScoredCandidate from metrics alone.
func (f *Fallback) Score(c model.Candidate) model.ScoredCandidate {
	score := 0.0
	switch {
	case c.Orders >= 1000:
		score += f.cfg.WeightHighOrders
	case c.Orders >= 500:
		score += f.cfg.WeightMidOrders
	}
	if c.Rating >= 4.5 {
		score += f.cfg.WeightRating
	}
	if c.Price >= 5 && c.Price <= 25 {
		score += f.cfg.WeightPriceBand
	}
	score = clampScore(score)

	title := c.Title
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen])
	}
	category := c.Category
	if category == "" {
		category = "acessorios"
	}

	return model.ScoredCandidate{
		Candidate:       c,
		Approved:        score >= f.cfg.FallbackApproveAt,
		Score:           score,
		TitlePTBR:       title,
		DescriptionHTML: "<p>" + c.Title + "</p>",
		Tags:            []string{category},
		SuggestedPrice:  round2(c.Price * f.markup * f.cfg.FXRate),
		Rationale:       "Análise automática baseada em métricas",
		Source:          model.ScoreSourceFallback,
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
