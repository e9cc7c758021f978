package model

import "time"

// Outcome is the terminal state of one candidate in a batch run.
type Outcome string

const (
	OutcomeRejectedByFilter Outcome = "rejected_by_filter"
	OutcomeRejectedByScore  Outcome = "rejected_by_score"
	OutcomeApplied          Outcome = "applied"
	OutcomeFailed           Outcome = "failed"
	OutcomeSkipped          Outcome = "skipped"
)

// ItemResult records how a single candidate terminated.
type ItemResult struct {
	ExternalID string   `json:"external_id"`
	Title      string   `json:"title"`
	Outcome    Outcome  `json:"outcome"`
	Reasons    []string `json:"reasons,omitempty"`    // filter rejection reasons
	ErrorKind  string   `json:"error_kind,omitempty"` // set when Outcome == failed
	Score      float64  `json:"score,omitempty"`
	FinalPrice float64  `json:"final_price,omitempty"`
}

// BatchReport aggregates a pipeline run over a candidate batch.
type BatchReport struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Accepted   int          `json:"accepted"`
	Rejected   int          `json:"rejected"`
	Applied    int          `json:"applied"`
	Failed     int          `json:"failed"`
	Skipped    int          `json:"skipped"`
	Items      []ItemResult `json:"items"`
}

// Count increments the tally for an item's outcome and appends it.
func (r *BatchReport) Count(item ItemResult) {
	r.Items = append(r.Items, item)
	switch item.Outcome {
	case OutcomeRejectedByFilter, OutcomeRejectedByScore:
		r.Rejected++
	case OutcomeApplied:
		r.Accepted++
		r.Applied++
	case OutcomeFailed:
		r.Accepted++
		r.Failed++
	case OutcomeSkipped:
		r.Accepted++
		r.Skipped++
	}
}
