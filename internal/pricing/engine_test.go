package pricing

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
)

func defaultEngine() *Engine {
	return NewEngine(config.PricingConfig{
		Markup:         2.5,
		ImportDutyRate: 0.15,
		TaxRate:        0.18,
		DefaultFreight: 30.0,
		PriceFloor:     29.90,
		CompareAtRatio: 1.30,
		InterestRate:   0.0199,
		Categories: map[string]config.CategoryPricing{
			"brincos": {DefaultFreight: 15.0},
			"bolsas":  {DefaultFreight: 35.0},
			"aneis":   {DefaultFreight: 12.0},
		},
	})
}

func TestCompute_FullBreakdown(t *testing.T) {
	// unit 10 + freight 5: duty 2.25, grossed-up tax ~3.79, landed ~21.04,
	// raw ~52.59, rounded into the [50,200) tier -> 49.90.
	e := defaultEngine()

	pb, err := e.Compute(10.00, 5.00, "brincos")
	require.NoError(t, err)

	assert.InDelta(t, 2.25, pb.ImportDuty, 0.001)
	assert.InDelta(t, 3.79, pb.ConsumptionTax, 0.005)
	assert.InDelta(t, 21.04, pb.LandedCost, 0.005)
	assert.InDelta(t, 52.59, pb.RawPrice, 0.005)
	assert.Equal(t, 49.90, pb.FinalPrice)
	assert.Equal(t, 59.90, pb.CompareAt)
}

func TestCompute_TaxGrossUpIdentity(t *testing.T) {
	// The tax must be 18% of the post-tax basis, not the pre-tax one.
	e := defaultEngine()

	pb, err := e.Compute(10.00, 5.00, "brincos")
	require.NoError(t, err)

	basis := pb.UnitCost + pb.Freight + pb.ImportDuty + pb.ConsumptionTax
	assert.InDelta(t, 0.18, pb.ConsumptionTax/basis, 0.001)
}

func TestCompute_LandedCostSum(t *testing.T) {
	e := defaultEngine()

	pb, err := e.Compute(8.40, 18.0, "colares")
	require.NoError(t, err)

	sum := pb.UnitCost + pb.Freight + pb.ImportDuty + pb.ConsumptionTax
	assert.InDelta(t, pb.LandedCost, sum, 0.02) // component-wise cent rounding
}

func TestCompute_Deterministic(t *testing.T) {
	e := defaultEngine()

	a, err := e.Compute(13.37, 20.0, "relogios")
	require.NoError(t, err)
	b, err := e.Compute(13.37, 20.0, "relogios")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCompute_PriceFloor(t *testing.T) {
	e := defaultEngine()

	// Free product, tiny freight: the chain still lands at the floor.
	pb, err := e.Compute(0, 1.0, "aneis")
	require.NoError(t, err)
	assert.Equal(t, 29.90, pb.FinalPrice)
	assert.GreaterOrEqual(t, pb.FinalPrice, 29.90)
}

func TestCompute_ZeroCostFreightOnlyChain(t *testing.T) {
	e := defaultEngine()

	pb, err := e.Compute(0, 30.0, "acessorios")
	require.NoError(t, err)
	assert.InDelta(t, 4.50, pb.ImportDuty, 0.001)
	assert.Greater(t, pb.LandedCost, 30.0)
	assert.GreaterOrEqual(t, pb.FinalPrice, 29.90)
}

func TestCompute_NegativeInputs(t *testing.T) {
	e := defaultEngine()

	_, err := e.Compute(-1, 5, "brincos")
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "unit cost", invalid.Field)

	_, err = e.Compute(10, -0.5, "brincos")
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "freight", invalid.Field)
}

func TestComputeDefaultFreight_UsesCategoryDefault(t *testing.T) {
	e := defaultEngine()

	withDefault, err := e.ComputeDefaultFreight(10, "brincos")
	require.NoError(t, err)
	explicit, err := e.Compute(10, 15.0, "brincos")
	require.NoError(t, err)

	assert.Equal(t, explicit, withDefault)
}

func TestCategory_FallsBackToAccessories(t *testing.T) {
	e := defaultEngine()

	assert.Equal(t, "brincos", e.Category("Brincos"))
	assert.Equal(t, DefaultCategory, e.Category("gadgets"))
	assert.Equal(t, DefaultCategory, e.Category(""))
	assert.Equal(t, 30.0, e.FreightFor("gadgets"))
	assert.Equal(t, 15.0, e.FreightFor("brincos"))
}

func TestInstallments_Schedule(t *testing.T) {
	e := defaultEngine()

	pb, err := e.Compute(10.00, 5.00, "brincos")
	require.NoError(t, err)
	require.Len(t, pb.Installments, 12)

	for _, inst := range pb.Installments[:6] {
		assert.InDelta(t, pb.FinalPrice, inst.Amount*float64(inst.Count), 0.01*float64(inst.Count))
		assert.Equal(t, 0.0, inst.Interest)
		assert.Equal(t, pb.FinalPrice, inst.Total)
	}

	for _, inst := range pb.Installments[6:] {
		assert.GreaterOrEqual(t, inst.Total, pb.FinalPrice)
		assert.GreaterOrEqual(t, inst.Interest, 0.0)
		assert.InDelta(t, inst.Total-pb.FinalPrice, inst.Interest, 0.01)
	}

	// Amortized 12x at 1.99%/month on 49.90: factor ~0.09456.
	last := pb.Installments[11]
	assert.Equal(t, 12, last.Count)
	assert.InDelta(t, 49.90*0.0199*math.Pow(1.0199, 12)/(math.Pow(1.0199, 12)-1), last.Amount, 0.01)
}

func TestEstimateSourceCost(t *testing.T) {
	e := defaultEngine()

	// 99.90 store price at 2.5x markup and 33% duty+tax overhead.
	got := e.EstimateSourceCost(99.90, 2.5)
	assert.InDelta(t, 99.90/2.5/1.33, got, 0.01)
}

func TestLoadTierTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tiers:
  - upper: 100
    step: 5
    ending: 0.05
  - upper: 0
    step: 100
    ending: 0.05
`), 0o644))

	table, err := LoadTierTable(path)
	require.NoError(t, err)
	require.Len(t, table.Tiers, 2)

	assert.Equal(t, 49.95, table.Round(48.3))
	assert.Equal(t, 199.95, table.Round(180))
}

func TestLoadTierTable_Errors(t *testing.T) {
	_, err := LoadTierTable("does-not-exist.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("tiers: []"), 0o644))
	_, err = LoadTierTable(empty)
	assert.Error(t, err)
}

func TestTierTable_RoundTiers(t *testing.T) {
	table := DefaultTierTable()

	tests := []struct {
		raw  float64
		want float64
	}{
		{34.0, 29.90},  // <50: nearest 10 minus 0.10
		{47.0, 49.90},  // <50 rounds up to 50
		{52.6, 49.90},  // [50,200): nearest 10
		{167.0, 169.90},
		{243.0, 239.90}, // [200,500): nearest 20
		{251.0, 259.90},
		{777.0, 799.90}, // >=500: nearest 50
		{512.0, 499.90},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, table.Round(tt.raw), 0.0001, "raw %v", tt.raw)
	}
}
