package pricing

import (
	"math"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tier defines psychological rounding behavior for prices below Upper:
// round to the nearest Step, then subtract Ending.
type Tier struct {
	Upper  float64 `yaml:"upper"` // exclusive; +Inf for the last tier
	Step   float64 `yaml:"step"`
	Ending float64 `yaml:"ending"`
}

// TierTable is an ordered set of rounding tiers. Category-specific schedules
// can be substituted by loading a different table; the boundaries are data,
// not code.
type TierTable struct {
	Tiers []Tier `yaml:"tiers"`
}

// DefaultTierTable returns the canonical rounding schedule:
// <50 step 10, <200 step 10, <500 step 20, above step 50, all ending in ,90.
func DefaultTierTable() TierTable {
	return TierTable{Tiers: []Tier{
		{Upper: 50, Step: 10, Ending: 0.10},
		{Upper: 200, Step: 10, Ending: 0.10},
		{Upper: 500, Step: 20, Ending: 0.10},
		{Upper: math.Inf(1), Step: 50, Ending: 0.10},
	}}
}

// Round applies the tier matching v and returns the psychological price.
// The caller enforces the configured price floor.
func (t TierTable) Round(v float64) float64 {
	for _, tier := range t.Tiers {
		if v < tier.Upper {
			return math.Round(v/tier.Step)*tier.Step - tier.Ending
		}
	}
	// No matching tier means an empty table; leave the value as is.
	return v
}

// LoadTierTable reads a tier table from a YAML file. Tiers are sorted by
// their upper bound; a zero upper bound means unbounded.
func LoadTierTable(path string) (TierTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TierTable{}, eris.Wrapf(err, "pricing: read tier table %s", path)
	}

	var table TierTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return TierTable{}, eris.Wrap(err, "pricing: parse tier table")
	}
	if len(table.Tiers) == 0 {
		return TierTable{}, eris.New("pricing: tier table has no tiers")
	}

	for i := range table.Tiers {
		if table.Tiers[i].Upper <= 0 {
			table.Tiers[i].Upper = math.Inf(1)
		}
		if table.Tiers[i].Step <= 0 {
			return TierTable{}, eris.Errorf("pricing: tier %d has non-positive step", i)
		}
	}
	sort.Slice(table.Tiers, func(i, j int) bool {
		return table.Tiers[i].Upper < table.Tiers[j].Upper
	})

	return table, nil
}
