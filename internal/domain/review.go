package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Review types as reported by the property-management source.
const (
	TypeGuestToHost = "guest-to-host"
	TypeHostToGuest = "host-to-guest"
)

// Source names used for reviewsBySource and SourceBatch.Source.
const (
	SourceHostaway = "hostaway"
	SourceGoogle   = "google"
)

// Default channel labels per source integration.
const (
	ChannelHostaway = "Hostaway"
	ChannelGoogle   = "Google"
	ChannelUnknown  = "Unknown"
)

// ReviewID is unique within its source. Hostaway ids are numeric, Google ids
// are strings; 7454 and "7454" are different ids.
type ReviewID struct {
	num   int64
	str   string
	isStr bool
}

func IntID(n int64) ReviewID     { return ReviewID{num: n} }
func StringID(s string) ReviewID { return ReviewID{str: s, isStr: true} }

// ParseReviewID reads an id from a URL segment: all digits means numeric.
func ParseReviewID(s string) ReviewID {
	if s != "" && s[0] != '+' && s[0] != '-' {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntID(n)
		}
	}
	return StringID(s)
}

func (id ReviewID) IsString() bool { return id.isStr }
func (id ReviewID) Int() int64     { return id.num }

func (id ReviewID) IsZero() bool {
	if id.isStr {
		return id.str == ""
	}
	return id.num == 0
}

func (id ReviewID) String() string {
	if id.isStr {
		return id.str
	}
	return strconv.FormatInt(id.num, 10)
}

func (id ReviewID) MarshalJSON() ([]byte, error) {
	if id.isStr {
		return json.Marshal(id.str)
	}
	return []byte(strconv.FormatInt(id.num, 10)), nil
}

func (id *ReviewID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("review id: %w", err)
	}
	if f != float64(int64(f)) {
		return fmt.Errorf("review id: %v is not an integer", f)
	}
	*id = IntID(int64(f))
	return nil
}

type Category struct {
	Category string `json:"category"`
	Rating   int    `json:"rating"`
}

// GoogleData carries source-specific metadata for Google reviews.
type GoogleData struct {
	AuthorURL               string `json:"author_url,omitempty"`
	ProfilePhotoURL         string `json:"profile_photo_url,omitempty"`
	RelativeTimeDescription string `json:"relative_time_description,omitempty"`
	PlaceID                 string `json:"place_id,omitempty"`
	Language                string `json:"language,omitempty"`
}

// Review is the canonical review shape. Rating is on a 0-5 scale regardless
// of source, Channel is never empty.
type Review struct {
	ID          ReviewID    `json:"id"`
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Rating      *float64    `json:"rating"`
	Text        string      `json:"review"`
	Categories  []Category  `json:"categories"`
	SubmittedAt time.Time   `json:"submittedAt"`
	GuestName   string      `json:"guestName"`
	ListingName string      `json:"listingName"`
	Channel     string      `json:"channel"`
	Source      string      `json:"source"`
	Approved    *bool       `json:"approved,omitempty"`
	GoogleData  *GoogleData `json:"googleData,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with r.
func (r Review) Clone() Review {
	out := r
	if r.Rating != nil {
		v := *r.Rating
		out.Rating = &v
	}
	if r.Categories != nil {
		out.Categories = make([]Category, len(r.Categories))
		copy(out.Categories, r.Categories)
	}
	if r.Approved != nil {
		v := *r.Approved
		out.Approved = &v
	}
	if r.GoogleData != nil {
		gd := *r.GoogleData
		out.GoogleData = &gd
	}
	return out
}
