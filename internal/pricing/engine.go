// Package pricing computes fully-costed resale prices for imported goods:
// import duty, grossed-up consumption tax, category markup, psychological
// rounding and installment schedules. All computations are pure; identical
// inputs always yield identical breakdowns.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

// DefaultCategory is the bucket used when a category is unrecognized.
const DefaultCategory = "acessorios"

// InvalidInputError signals a contract violation (negative cost or freight).
// It is never retried.
type InvalidInputError struct {
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("pricing: invalid %s: %g", e.Field, e.Value)
}

// Engine computes price breakdowns from an immutable pricing configuration.
type Engine struct {
	cfg   config.PricingConfig
	tiers TierTable
}

// NewEngine creates an Engine. Zero-valued config fields fall back to the
// documented defaults so a partially specified config still prices sanely.
func NewEngine(cfg config.PricingConfig) *Engine {
	if cfg.Markup <= 0 {
		cfg.Markup = 2.5
	}
	if cfg.ImportDutyRate <= 0 {
		cfg.ImportDutyRate = 0.15
	}
	if cfg.TaxRate <= 0 {
		cfg.TaxRate = 0.18
	}
	if cfg.DefaultFreight <= 0 {
		cfg.DefaultFreight = 30.0
	}
	if cfg.PriceFloor <= 0 {
		cfg.PriceFloor = 29.90
	}
	if cfg.CompareAtRatio <= 0 {
		cfg.CompareAtRatio = 1.30
	}
	if cfg.InterestRate <= 0 {
		cfg.InterestRate = 0.0199
	}

	tiers := DefaultTierTable()
	if cfg.RoundingTable != "" {
		if loaded, err := LoadTierTable(cfg.RoundingTable); err == nil {
			tiers = loaded
		}
	}

	return &Engine{cfg: cfg, tiers: tiers}
}

// Category resolves a raw category string to a configured pricing bucket.
func (e *Engine) Category(raw string) string {
	cat := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := e.cfg.Categories[cat]; ok {
		return cat
	}
	return DefaultCategory
}

// FreightFor returns the configured default freight for a category.
func (e *Engine) FreightFor(category string) float64 {
	if cc, ok := e.cfg.Categories[e.Category(category)]; ok && cc.DefaultFreight > 0 {
		return cc.DefaultFreight
	}
	return e.cfg.DefaultFreight
}

func (e *Engine) markupFor(category string) float64 {
	if cc, ok := e.cfg.Categories[e.Category(category)]; ok && cc.Markup > 0 {
		return cc.Markup
	}
	return e.cfg.Markup
}

// Compute prices one unit with an explicit freight cost.
//
// The duty is flat-rate over cost+freight; the consumption tax is grossed up
// ("por dentro"): tax = rate x (cost+freight+duty) / (1-rate), so the tax
// amount equals rate fraction of the post-tax basis.
func (e *Engine) Compute(unitCost, freight float64, category string) (model.PriceBreakdown, error) {
	if unitCost < 0 {
		return model.PriceBreakdown{}, &InvalidInputError{Field: "unit cost", Value: unitCost}
	}
	if freight < 0 {
		return model.PriceBreakdown{}, &InvalidInputError{Field: "freight", Value: freight}
	}

	markup := e.markupFor(category)

	duty := e.cfg.ImportDutyRate * (unitCost + freight)
	tax := e.cfg.TaxRate * (unitCost + freight + duty) / (1 - e.cfg.TaxRate)
	landed := unitCost + freight + duty + tax
	raw := landed * markup

	final := e.tiers.Round(raw)
	if final < e.cfg.PriceFloor {
		final = e.cfg.PriceFloor
	}

	compareAt := roundToStep(final*e.cfg.CompareAtRatio, 10) - 0.10

	margin := 0.0
	if final > 0 {
		margin = (final - landed) / final * 100
	}

	return model.PriceBreakdown{
		UnitCost:       round2(unitCost),
		Freight:        round2(freight),
		ImportDuty:     round2(duty),
		ConsumptionTax: round2(tax),
		LandedCost:     round2(landed),
		Markup:         markup,
		RawPrice:       round2(raw),
		FinalPrice:     final,
		CompareAt:      compareAt,
		MarginPct:      round2(margin),
		Installments:   installments(final, e.cfg.InterestRate),
	}, nil
}

// ComputeDefaultFreight prices one unit using the category's default freight.
func (e *Engine) ComputeDefaultFreight(unitCost float64, category string) (model.PriceBreakdown, error) {
	return e.Compute(unitCost, e.FreightFor(category), category)
}

// EstimateSourceCost reverse-estimates the marketplace cost behind an
// already-listed store price, assuming the given markup and the flat
// duty+tax overhead. Used to re-price products imported before the
// calculator existed.
func (e *Engine) EstimateSourceCost(storePrice, markup float64) float64 {
	if markup <= 0 {
		markup = e.cfg.Markup
	}
	taxFactor := 1 + e.cfg.ImportDutyRate + e.cfg.TaxRate
	return round2(storePrice / markup / taxFactor)
}

func roundToStep(v, step float64) float64 {
	return math.Round(v/step) * step
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
