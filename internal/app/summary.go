package app

import (
	"math"
	"sort"
	"strings"

	"guest_reviews/internal/domain"
)

// RoundTo1 rounds half away from zero at one decimal place. NaN and Inf map to 0.
func RoundTo1(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Round(x*10) / 10
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// qualifies reports whether a review counts toward statistics: guest-authored
// and rated. Host-to-guest and unrated entries never contribute.
func qualifies(r domain.Review) bool {
	return r.Type == domain.TypeGuestToHost && r.Rating != nil
}

func qualifying(reviews []domain.Review) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if qualifies(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summarize computes totals, averages and channel/listing breakdowns over the
// guest-authored, rated reviews. Listing stats keep first-appearance order.
func Summarize(reviews []domain.Review) domain.Summary {
	guest := qualifying(reviews)

	type acc struct {
		count int
		sum   float64
	}
	byListing := map[string]*acc{}
	order := []string{}
	byChannel := map[string]int{}
	var total float64

	for _, r := range guest {
		total += *r.Rating

		ch := r.Channel
		if strings.TrimSpace(ch) == "" {
			ch = domain.ChannelUnknown
		}
		byChannel[ch]++

		a, ok := byListing[r.ListingName]
		if !ok {
			a = &acc{}
			byListing[r.ListingName] = a
			order = append(order, r.ListingName)
		}
		a.count++
		a.sum += *r.Rating
	}

	listings := make([]domain.ListingStat, 0, len(order))
	for _, name := range order {
		a := byListing[name]
		listings = append(listings, domain.ListingStat{
			Listing:       name,
			Count:         a.count,
			AverageRating: RoundTo1(mean(a.sum, a.count)),
		})
	}

	return domain.Summary{
		TotalReviews:     len(guest),
		AverageRating:    RoundTo1(mean(total, len(guest))),
		ReviewsByChannel: byChannel,
		ReviewsByListing: listings,
	}
}

// SummarizeCombined is Summarize plus per-source counts, taken over the same
// qualifying reviews so that the source counts add up to TotalReviews.
func SummarizeCombined(reviews []domain.Review) domain.Summary {
	s := Summarize(reviews)
	s.ReviewsBySource = map[string]int{
		domain.SourceHostaway: 0,
		domain.SourceGoogle:   0,
	}
	for _, r := range reviews {
		if qualifies(r) {
			s.ReviewsBySource[r.Source]++
		}
	}
	return s
}

// SortListingsByCount returns a copy ordered by count descending; equal counts
// keep their original order.
func SortListingsByCount(stats []domain.ListingStat) []domain.ListingStat {
	out := make([]domain.ListingStat, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Trends buckets qualifying reviews by calendar month (UTC), ascending, and
// keeps the most recent `months` buckets. months <= 0 keeps all.
func Trends(reviews []domain.Review, months int) []domain.TrendPoint {
	type acc struct {
		count int
		sum   float64
	}
	buckets := map[string]*acc{}
	for _, r := range qualifying(reviews) {
		if r.SubmittedAt.IsZero() {
			continue
		}
		key := r.SubmittedAt.UTC().Format("2006-01")
		a, ok := buckets[key]
		if !ok {
			a = &acc{}
			buckets[key] = a
		}
		a.count++
		a.sum += *r.Rating
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if months > 0 && len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	out := make([]domain.TrendPoint, 0, len(keys))
	for _, k := range keys {
		a := buckets[k]
		out = append(out, domain.TrendPoint{Month: k, Reviews: a.count, AverageRating: RoundTo1(mean(a.sum, a.count))})
	}
	return out
}

// CategoryBreakdown averages the canonical 0-5 category ratings per category,
// in order of first appearance.
func CategoryBreakdown(reviews []domain.Review) []domain.CategoryStat {
	type acc struct {
		count int
		sum   int
	}
	byCat := map[string]*acc{}
	order := []string{}
	for _, r := range reviews {
		for _, c := range r.Categories {
			a, ok := byCat[c.Category]
			if !ok {
				a = &acc{}
				byCat[c.Category] = a
				order = append(order, c.Category)
			}
			a.count++
			a.sum += c.Rating
		}
	}

	out := make([]domain.CategoryStat, 0, len(order))
	for _, name := range order {
		a := byCat[name]
		out = append(out, domain.CategoryStat{
			Category:      name,
			Count:         a.count,
			AverageRating: RoundTo1(mean(float64(a.sum), a.count)),
		})
	}
	return out
}
