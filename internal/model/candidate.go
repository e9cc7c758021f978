package model

// Candidate is a prospective product sourced from the marketplace scraper,
// not yet accepted into the catalog pipeline.
type Candidate struct {
	ExternalID   string  `json:"external_id"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"` // unit price in source currency (USD)
	Orders       int     `json:"orders"`
	Rating       float64 `json:"rating"` // 0-5
	Reviews      int     `json:"reviews"`
	Category     string  `json:"category"`
	ListingURL   string  `json:"listing_url"`
	ImageURL     string  `json:"image_url"`
	ShippingDays int     `json:"shipping_days"`
}

// ScoreSource identifies which scorer produced a ScoredCandidate.
type ScoreSource string

const (
	ScoreSourceOracle   ScoreSource = "oracle"
	ScoreSourceFallback ScoreSource = "fallback"
)

// ScoredCandidate is a Candidate enriched with the scoring oracle's verdict.
// Immutable once created.
type ScoredCandidate struct {
	Candidate

	Approved        bool        `json:"approved"`
	Score           float64     `json:"score"` // 0-100
	TitlePTBR       string      `json:"title_ptbr"`
	DescriptionHTML string      `json:"description_html"`
	Tags            []string    `json:"tags"`
	SuggestedPrice  float64     `json:"suggested_price"` // BRL
	Rationale       string      `json:"rationale"`
	Source          ScoreSource `json:"source"`
}
