package httpserver

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"guest_reviews/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	maxMonths  = 24
)

// Rating bands used by the dashboard table; upper bounds are exclusive.
var bands = map[string][2]*float64{
	"high":   {fptr(4), nil},
	"medium": {fptr(3), fptr(4)},
	"low":    {nil, fptr(3)},
}

var ranges = map[string]int{"7d": 7, "30d": 30, "90d": 90}

func fptr(f float64) *float64 { return &f }

// listingParam accepts both spellings used by the dashboards.
func listingParam(v url.Values) string {
	if l := strings.TrimSpace(v.Get("listing")); l != "" {
		return l
	}
	return strings.TrimSpace(v.Get("listingId"))
}

// parseFilter reads listing, rating, band, channel, dateFrom, dateTo, range
// and search. now anchors relative ranges.
func parseFilter(v url.Values, now time.Time) (domain.FilterQuery, error) {
	q := domain.FilterQuery{
		Listing: listingParam(v),
		Channel: strings.TrimSpace(v.Get("channel")),
		Search:  strings.TrimSpace(v.Get("search")),
	}

	if s := v.Get("band"); s != "" && s != "all" {
		b, ok := bands[strings.ToLower(s)]
		if !ok {
			return q, fmt.Errorf("band must be one of high, medium, low")
		}
		q.MinRating, q.MaxRating = b[0], b[1]
	}
	if s := v.Get("rating"); s != "" && s != "all" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, fmt.Errorf("rating must be a number")
		}
		if q.MinRating == nil || r > *q.MinRating {
			q.MinRating = &r
		}
	}

	if s := v.Get("dateFrom"); s != "" {
		t, _, err := parseDate(s)
		if err != nil {
			return q, fmt.Errorf("dateFrom: %w", err)
		}
		q.DateFrom = &t
	}
	if s := v.Get("dateTo"); s != "" {
		t, dateOnly, err := parseDate(s)
		if err != nil {
			return q, fmt.Errorf("dateTo: %w", err)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		q.DateTo = &t
	}
	if s := v.Get("range"); s != "" && s != "all" {
		days, ok := ranges[s]
		if !ok {
			return q, fmt.Errorf("range must be one of 7d, 30d, 90d, all")
		}
		if q.DateFrom == nil {
			from := now.UTC().AddDate(0, 0, -days)
			q.DateFrom = &from
		}
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateTo.Before(*q.DateFrom) {
		return q, fmt.Errorf("dateTo is before dateFrom")
	}
	return q, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339; the bool reports a date-only value.
func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected YYYY-MM-DD or RFC 3339, got %q", s)
	}
	return t.UTC(), false, nil
}

func parseMonths(v url.Values, def int) (int, error) {
	s := v.Get("months")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > maxMonths {
		return 0, fmt.Errorf("months must be an integer between 1 and %d", maxMonths)
	}
	return n, nil
}
