package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	"guest_reviews/internal/domain"
)

// hostaway timestamps come without zone; they are read as UTC.
var hostawayTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeCategoryRating maps a 0-10 sub-score to 0-5, rounding half up.
func NormalizeCategoryRating(r int) int {
	n := int(math.Floor(float64(r)/2 + 0.5))
	switch {
	case n < 0:
		return 0
	case n > 5:
		return 5
	}
	return n
}

// Normalize converts one source record into the canonical review.
func Normalize(rec domain.SourceRecord) (domain.Review, error) {
	switch rec.Kind {
	case domain.KindHostaway:
		if rec.Hostaway == nil {
			return domain.Review{}, fmt.Errorf("%w: empty hostaway record", domain.ErrMalformedRecord)
		}
		return NormalizeHostaway(*rec.Hostaway)
	case domain.KindGoogle:
		if rec.Google == nil {
			return domain.Review{}, fmt.Errorf("%w: empty google record", domain.ErrMalformedRecord)
		}
		return NormalizeGoogle(*rec.Google)
	}
	return domain.Review{}, fmt.Errorf("%w: unknown source kind %d", domain.ErrMalformedRecord, rec.Kind)
}

func NormalizeHostaway(in domain.HostawayReview) (domain.Review, error) {
	if in.ID == 0 {
		return domain.Review{}, fmt.Errorf("%w: hostaway review without id", domain.ErrMalformedRecord)
	}
	if strings.TrimSpace(in.ListingName) == "" {
		return domain.Review{}, fmt.Errorf("%w: hostaway review %d without listingName", domain.ErrMalformedRecord, in.ID)
	}

	cats := make([]domain.Category, 0, len(in.ReviewCategory))
	for _, c := range in.ReviewCategory {
		cats = append(cats, domain.Category{Category: c.Category, Rating: NormalizeCategoryRating(c.Rating)})
	}

	var rating *float64
	if in.Rating != nil {
		v := *in.Rating
		rating = &v
	}

	channel := strings.TrimSpace(in.Channel)
	if channel == "" {
		channel = domain.ChannelHostaway
	}

	return domain.Review{
		ID:          domain.IntID(in.ID),
		Type:        in.Type,
		Status:      in.Status,
		Rating:      rating,
		Text:        in.PublicReview,
		Categories:  cats,
		SubmittedAt: parseHostawayTime(in.SubmittedAt),
		GuestName:   in.GuestName,
		ListingName: in.ListingName,
		Channel:     channel,
		Source:      domain.SourceHostaway,
	}, nil
}

// NormalizeGoogle maps a secondary-channel review. Google reviews are always
// guest-authored and published; they carry no category scores.
func NormalizeGoogle(in domain.GoogleReview) (domain.Review, error) {
	if strings.TrimSpace(in.ID) == "" {
		return domain.Review{}, fmt.Errorf("%w: google review without id", domain.ErrMalformedRecord)
	}
	if strings.TrimSpace(in.ListingName) == "" {
		return domain.Review{}, fmt.Errorf("%w: google review %s without listing_name", domain.ErrMalformedRecord, in.ID)
	}

	rating := float64(in.Rating)
	var submitted time.Time
	if in.Time > 0 {
		submitted = time.Unix(in.Time, 0).UTC()
	}

	return domain.Review{
		ID:          domain.StringID(in.ID),
		Type:        domain.TypeGuestToHost,
		Status:      "published",
		Rating:      &rating,
		Text:        in.Text,
		Categories:  []domain.Category{},
		SubmittedAt: submitted,
		GuestName:   in.AuthorName,
		ListingName: in.ListingName,
		Channel:     domain.ChannelGoogle,
		Source:      domain.SourceGoogle,
		GoogleData: &domain.GoogleData{
			AuthorURL:               in.AuthorURL,
			ProfilePhotoURL:         in.ProfilePhotoURL,
			RelativeTimeDescription: in.RelativeTimeDescription,
			PlaceID:                 in.PlaceID,
			Language:                in.Language,
		},
	}, nil
}

// NormalizeAll normalizes a batch, returning the good reviews and one error
// per skipped record.
func NormalizeAll(recs []domain.SourceRecord) ([]domain.Review, []error) {
	out := make([]domain.Review, 0, len(recs))
	var skipped []error
	for _, rec := range recs {
		rv, err := Normalize(rec)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		out = append(out, rv)
	}
	return out, skipped
}

// parseHostawayTime returns the zero time for unparseable input.
func parseHostawayTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range hostawayTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
