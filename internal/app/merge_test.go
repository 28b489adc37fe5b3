package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guest_reviews/internal/domain"
)

func dated(r domain.Review, day int) domain.Review {
	r.SubmittedAt = time.Date(2024, 5, day, 12, 0, 0, 0, time.UTC)
	return r
}

func ids(reviews []domain.Review) []string {
	out := make([]string, len(reviews))
	for i, r := range reviews {
		out[i] = r.ID.String()
	}
	return out
}

func TestMergeAndFilter_OrdersNewestFirstStable(t *testing.T) {
	a := []domain.Review{
		dated(rv(1, domain.TypeGuestToHost, pfloat(4), "A", "Hostaway"), 3),
		dated(rv(2, domain.TypeGuestToHost, pfloat(4), "A", "Hostaway"), 5),
	}
	g := dated(rv(0, domain.TypeGuestToHost, pfloat(5), "A", "Google"), 5)
	g.ID, g.Source = domain.StringID("g1"), domain.SourceGoogle

	got, err := MergeAndFilter([]domain.SourceBatch{
		{Source: domain.SourceHostaway, Reviews: a},
		{Source: domain.SourceGoogle, Reviews: []domain.Review{g}},
	}, domain.FilterQuery{})
	require.NoError(t, err)
	// 2 and g1 tie; batch order decides
	assert.Equal(t, []string{"2", "g1", "1"}, ids(got))
}

func TestMergeAndFilter_SourceFailure(t *testing.T) {
	boom := errors.New("timeout")
	_, err := MergeAndFilter([]domain.SourceBatch{
		{Source: domain.SourceHostaway, Reviews: []domain.Review{rv(1, domain.TypeGuestToHost, nil, "A", "")}},
		{Source: domain.SourceGoogle, Err: boom},
	}, domain.FilterQuery{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.ErrorIs(t, err, boom)
	var se *domain.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.SourceGoogle, se.Source)
}

func TestMergeAndFilter_KeepsCrossSourceDuplicates(t *testing.T) {
	h := rv(7454, domain.TypeGuestToHost, pfloat(4), "A", "")
	g := rv(0, domain.TypeGuestToHost, pfloat(4), "A", "")
	g.ID = domain.StringID("7454")

	got, err := MergeAndFilter([]domain.SourceBatch{
		{Source: domain.SourceHostaway, Reviews: []domain.Review{h}},
		{Source: domain.SourceGoogle, Reviews: []domain.Review{g}},
	}, domain.FilterQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMergeAndFilter_CommutativeAfterSort(t *testing.T) {
	a := []domain.Review{
		dated(rv(1, domain.TypeGuestToHost, pfloat(4), "A", ""), 1),
		dated(rv(2, domain.TypeGuestToHost, pfloat(4), "B", ""), 9),
	}
	b := []domain.Review{
		dated(rv(3, domain.TypeGuestToHost, pfloat(2), "A", ""), 4),
		dated(rv(4, domain.TypeGuestToHost, pfloat(5), "a", ""), 7),
	}
	q := domain.FilterQuery{Listing: "A"}

	ab, err := MergeAndFilter([]domain.SourceBatch{{Source: "x", Reviews: a}, {Source: "y", Reviews: b}}, q)
	require.NoError(t, err)
	ba, err := MergeAndFilter([]domain.SourceBatch{{Source: "y", Reviews: b}, {Source: "x", Reviews: a}}, q)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.Equal(t, []string{"4", "3", "1"}, ids(ab))
}

func TestFilterReviews(t *testing.T) {
	r1 := dated(rv(1, domain.TypeGuestToHost, pfloat(4.5), "Shoreditch Heights", "airbnb"), 1)
	r1.Text, r1.GuestName = "Spotless flat", "Shane"
	r2 := dated(rv(2, domain.TypeGuestToHost, pfloat(3), "Camden Loft", "Google"), 10)
	r2.Text, r2.GuestName = "Noisy street", "Ana"
	r3 := dated(rv(3, domain.TypeGuestToHost, nil, "Camden Loft", "Hostaway"), 20)
	all := []domain.Review{r1, r2, r3}

	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		q    domain.FilterQuery
		want []string
	}{
		{"empty", domain.FilterQuery{}, []string{"1", "2", "3"}},
		{"listing ignores case", domain.FilterQuery{Listing: "CAMDEN loft"}, []string{"2", "3"}},
		{"listing is exact", domain.FilterQuery{Listing: "Camden"}, []string{}},
		{"min inclusive drops unrated", domain.FilterQuery{MinRating: pfloat(3)}, []string{"1", "2"}},
		{"max exclusive", domain.FilterQuery{MaxRating: pfloat(4.5)}, []string{"2"}},
		{"channel", domain.FilterQuery{Channel: "google"}, []string{"2"}},
		{"date range inclusive", domain.FilterQuery{DateFrom: &from, DateTo: &to}, []string{"2"}},
		{"search text", domain.FilterQuery{Search: "spotless"}, []string{"1"}},
		{"search guest", domain.FilterQuery{Search: "ANA"}, []string{"2"}},
		{"and", domain.FilterQuery{Listing: "camden loft", MinRating: pfloat(1)}, []string{"2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(FilterReviews(all, tc.q)))
		})
	}
}
