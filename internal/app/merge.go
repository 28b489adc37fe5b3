package app

import (
	"sort"
	"strings"

	"guest_reviews/internal/domain"
)

// MergeAndFilter concatenates the batches in order, filters, and sorts newest
// first. Duplicate ids across sources are kept. A failed batch fails the merge.
func MergeAndFilter(batches []domain.SourceBatch, q domain.FilterQuery) ([]domain.Review, error) {
	n := 0
	for _, b := range batches {
		if b.Err != nil {
			return nil, &domain.SourceError{Source: b.Source, Err: b.Err}
		}
		n += len(b.Reviews)
	}

	merged := make([]domain.Review, 0, n)
	for _, b := range batches {
		merged = append(merged, b.Reviews...)
	}

	out := FilterReviews(merged, q)
	SortBySubmittedDesc(out)
	return out, nil
}

// FilterReviews keeps reviews matching every present option of q. Listing and
// channel compare case-insensitively. Input order is preserved.
func FilterReviews(reviews []domain.Review, q domain.FilterQuery) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.Review, q domain.FilterQuery) bool {
	if q.Listing != "" && !strings.EqualFold(r.ListingName, q.Listing) {
		return false
	}
	if q.MinRating != nil && (r.Rating == nil || *r.Rating < *q.MinRating) {
		return false
	}
	if q.MaxRating != nil && (r.Rating == nil || *r.Rating >= *q.MaxRating) {
		return false
	}
	if q.Channel != "" && !strings.EqualFold(r.Channel, q.Channel) {
		return false
	}
	if q.DateFrom != nil && r.SubmittedAt.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && r.SubmittedAt.After(*q.DateTo) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(r.Text), needle) &&
			!strings.Contains(strings.ToLower(r.GuestName), needle) {
			return false
		}
	}
	return true
}

// SortBySubmittedDesc orders most recent first; ties keep input order.
func SortBySubmittedDesc(reviews []domain.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].SubmittedAt.After(reviews[j].SubmittedAt)
	})
}
