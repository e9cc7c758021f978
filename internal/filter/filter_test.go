package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

func defaultCriteria() config.CriteriaConfig {
	return config.CriteriaConfig{
		MinOrders:       500,
		MinRating:       4.5,
		MinReviews:      100,
		PriceMin:        5.0,
		PriceMax:        30.0,
		MaxShippingDays: 30,
		ForbiddenKeywords: []string{
			"replica", "fake", "copy", "brand", "nike", "rolex",
		},
	}
}

func goodCandidate() model.Candidate {
	return model.Candidate{
		ExternalID:   "1005001",
		Title:        "Brinco Argola Dourada Minimalista",
		Price:        12.0,
		Orders:       1200,
		Rating:       4.8,
		Reviews:      340,
		Category:     "brincos",
		ShippingDays: 18,
	}
}

func TestEvaluate_Accepts(t *testing.T) {
	d := Evaluate(goodCandidate(), defaultCriteria())
	assert.True(t, d.Accepted)
	assert.Empty(t, d.Reasons)
}

func TestEvaluate_SingleFailureSingleReason(t *testing.T) {
	// Everything passes except reviews: exactly one reason expected.
	c := goodCandidate()
	c.Reviews = 50

	d := Evaluate(c, defaultCriteria())
	require.False(t, d.Accepted)
	require.Len(t, d.Reasons, 1)
	assert.Equal(t, "Poucos reviews: 50 < 100", d.Reasons[0])
}

func TestEvaluate_AccumulatesAllReasons(t *testing.T) {
	c := model.Candidate{
		Title:        "Replica Rolex Watch",
		Price:        45.0,
		Orders:       10,
		Rating:       3.2,
		Reviews:      2,
		ShippingDays: 60,
	}

	d := Evaluate(c, defaultCriteria())
	require.False(t, d.Accepted)
	// orders, rating, reviews, price max, shipping, keyword
	assert.Len(t, d.Reasons, 6)
}

func TestEvaluate_KeywordMatchIsCaseInsensitiveAndReportsFirstOnly(t *testing.T) {
	c := goodCandidate()
	c.Title = "FAKE Replica Nike bracelet"

	d := Evaluate(c, defaultCriteria())
	require.False(t, d.Accepted)

	var kwReasons []string
	for _, r := range d.Reasons {
		if len(r) >= 7 && r[:7] == "Keyword" {
			kwReasons = append(kwReasons, r)
		}
	}
	require.Len(t, kwReasons, 1)
	assert.Equal(t, "Keyword proibida: replica", kwReasons[0])
}

func TestEvaluate_PriceBounds(t *testing.T) {
	tests := []struct {
		name   string
		price  float64
		reason string
	}{
		{"below min", 2.5, "Preço muito baixo: $2.5"},
		{"above max", 42.0, "Preço muito alto: $42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := goodCandidate()
			c.Price = tt.price
			d := Evaluate(c, defaultCriteria())
			require.False(t, d.Accepted)
			assert.Contains(t, d.Reasons, tt.reason)
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	c := goodCandidate()
	c.Reviews = 3
	c.Orders = 7

	first := Evaluate(c, defaultCriteria())
	second := Evaluate(c, defaultCriteria())
	assert.Equal(t, first, second)
}

func TestEvaluate_LooseningThresholdNeverRejects(t *testing.T) {
	c := goodCandidate()
	strict := defaultCriteria()
	loose := defaultCriteria()
	loose.MinOrders = 0
	loose.MinReviews = 0

	if Evaluate(c, strict).Accepted {
		assert.True(t, Evaluate(c, loose).Accepted)
	}
}

func TestScoreGate(t *testing.T) {
	sc := model.ScoredCandidate{Approved: true, Score: 85}
	assert.True(t, ScoreGate(sc, 70).Accepted)

	sc.Score = 55
	d := ScoreGate(sc, 70)
	require.False(t, d.Accepted)
	assert.Equal(t, []string{"Score insuficiente: 55 < 70"}, d.Reasons)

	sc = model.ScoredCandidate{Approved: false, Score: 90}
	d = ScoreGate(sc, 70)
	require.False(t, d.Accepted)
	assert.Equal(t, []string{"Reprovado pela análise"}, d.Reasons)
}
