package domain

import "context"

// ReviewSource fetches raw reviews for one marketplace. limit is the caller's
// soft cap on returned records. Implementations may return a partial slice
// together with a non-nil error.
type ReviewSource interface {
	Marketplace() Marketplace
	Fetch(ctx context.Context, ref AppReference, limit int) ([]RawReview, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ExtractRequest is one user-initiated extraction. It is passed by value
// through the pipeline.
type ExtractRequest struct {
	URL      string
	Criteria FilterCriteria
	Limit    int
}

type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeEmpty       Outcome = "empty"
	OutcomeFetchFailed Outcome = "fetch_failed"
)

type Extraction struct {
	ID       string         `json:"id"`
	App      AppReference   `json:"app"`
	Outcome  Outcome        `json:"outcome"`
	Warning  string         `json:"warning,omitempty"`
	Notice   string         `json:"notice,omitempty"`
	Fetched  int            `json:"fetched"`
	Skipped  SkipCounts     `json:"skipped"`
	Reviews  []Review       `json:"reviews"`
	Monthly  []MonthlyCount `json:"monthly"`
	Versions []string       `json:"versions,omitempty"`
	Terms    []TermCount    `json:"terms,omitempty"`
}

// SkipCounts tallies rows dropped during normalization.
type SkipCounts struct {
	Date   int `json:"date"`
	Rating int `json:"rating"`
}

func (s SkipCounts) Total() int { return s.Date + s.Rating }
