package model

import "strings"

// VariantState is the desired remote state of one product variant.
type VariantState struct {
	RemoteID  int64    `json:"remote_id"`
	Price     float64  `json:"price"`
	CompareAt float64  `json:"compare_at"`
	// Options pins up to three option values by position. Empty positions
	// take the remote value translated to PT-BR.
	Options []string `json:"options,omitempty"`
}

// CatalogProductState is the desired remote representation of a product.
// Derived from a ScoredCandidate plus its PriceBreakdown; applied by the
// reconciler, never mutated in place.
type CatalogProductState struct {
	RemoteID    int64          `json:"remote_id"`
	Title       string         `json:"title"`
	BodyHTML    string         `json:"body_html"`
	Tags        []string       `json:"tags"` // contains exactly one cat:<category> tag
	Vendor      string         `json:"vendor"`
	ProductType string         `json:"product_type"`
	Variants    []VariantState `json:"variants"`
	Images      [][]byte       `json:"-"` // ordered payloads, replaced as a whole set
	Published   bool           `json:"published"`
}

// CategoryTag returns the single cat:<category> tag, or "" when absent.
func (s *CatalogProductState) CategoryTag() string {
	for _, t := range s.Tags {
		if strings.HasPrefix(t, "cat:") {
			return t
		}
	}
	return ""
}
