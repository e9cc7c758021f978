package model

// Installment is one line of an installment schedule.
type Installment struct {
	Count    int     `json:"count"`
	Amount   float64 `json:"amount"`   // per-installment amount
	Total    float64 `json:"total"`    // total payable across all installments
	Interest float64 `json:"interest"` // total minus the cash price
}

// PriceBreakdown is the fully-costed economics of one unit.
// Computed fresh on demand; never persisted on its own.
type PriceBreakdown struct {
	UnitCost       float64 `json:"unit_cost"`
	Freight        float64 `json:"freight"`
	ImportDuty     float64 `json:"import_duty"`
	ConsumptionTax float64 `json:"consumption_tax"` // grossed-up ("por dentro")
	LandedCost     float64 `json:"landed_cost"`
	Markup         float64 `json:"markup"`
	RawPrice       float64 `json:"raw_price"`   // landed cost x markup, before rounding
	FinalPrice     float64 `json:"final_price"` // after psychological rounding, >= floor
	CompareAt      float64 `json:"compare_at"`  // pre-discount anchor price
	MarginPct      float64 `json:"margin_pct"`  // (final - landed) / final x 100

	Installments []Installment `json:"installments"` // counts 1..12 in order
}
