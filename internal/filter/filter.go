// Package filter implements the deterministic acceptance filter that runs
// before any oracle call is spent on a candidate, plus the post-scoring gate.
package filter

import (
	"fmt"
	"strings"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

// Decision is the outcome of evaluating a candidate against the criteria.
// Accepted is true iff Reasons is empty.
type Decision struct {
	Accepted bool
	Reasons  []string
}

// Evaluate checks a candidate against the mining criteria. Every failing
// criterion contributes its own reason; the decision never stops at the
// first failure.
func Evaluate(c model.Candidate, t config.CriteriaConfig) Decision {
	var reasons []string

	if c.Orders < t.MinOrders {
		reasons = append(reasons, fmt.Sprintf("Pedidos insuficientes: %d < %d", c.Orders, t.MinOrders))
	}
	if c.Rating < t.MinRating {
		reasons = append(reasons, fmt.Sprintf("Rating baixo: %g < %g", c.Rating, t.MinRating))
	}
	if c.Reviews < t.MinReviews {
		reasons = append(reasons, fmt.Sprintf("Poucos reviews: %d < %d", c.Reviews, t.MinReviews))
	}
	if c.Price < t.PriceMin {
		reasons = append(reasons, fmt.Sprintf("Preço muito baixo: $%g", c.Price))
	}
	if c.Price > t.PriceMax {
		reasons = append(reasons, fmt.Sprintf("Preço muito alto: $%g", c.Price))
	}
	if c.ShippingDays > t.MaxShippingDays {
		reasons = append(reasons, fmt.Sprintf("Envio lento: %d dias", c.ShippingDays))
	}

	// Only the first matching keyword is reported.
	title := strings.ToLower(c.Title)
	for _, kw := range t.ForbiddenKeywords {
		if kw != "" && strings.Contains(title, strings.ToLower(kw)) {
			reasons = append(reasons, fmt.Sprintf("Keyword proibida: %s", kw))
			break
		}
	}

	return Decision{Accepted: len(reasons) == 0, Reasons: reasons}
}

// ScoreGate re-applies acceptance after scoring: the oracle (or fallback)
// must approve AND the score must clear the configured minimum.
func ScoreGate(sc model.ScoredCandidate, minScore float64) Decision {
	var reasons []string

	if !sc.Approved {
		reasons = append(reasons, "Reprovado pela análise")
	}
	if sc.Score < minScore {
		reasons = append(reasons, fmt.Sprintf("Score insuficiente: %g < %g", sc.Score, minScore))
	}

	return Decision{Accepted: len(reasons) == 0, Reasons: reasons}
}
