package domain

import "time"

// FilterQuery narrows a review collection. Nil/empty fields impose no
// constraint; present fields are ANDed.
type FilterQuery struct {
	Listing   string     `validate:"max=200"`
	MinRating *float64   `validate:"omitempty,gte=0,lte=5"` // inclusive
	MaxRating *float64   `validate:"omitempty,gte=0,lte=5"` // exclusive
	Channel   string     `validate:"max=64"`
	DateFrom  *time.Time // inclusive
	DateTo    *time.Time // inclusive
	Search    string     `validate:"max=200"`
}

// SourceBatch is one source's contribution to a merge. A non-nil Err marks
// the source as unavailable.
type SourceBatch struct {
	Source  string
	Reviews []Review
	Err     error
}
