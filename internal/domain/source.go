package domain

// SourceKind tags which variant a SourceRecord holds.
type SourceKind int

const (
	KindHostaway SourceKind = iota + 1
	KindGoogle
)

func (k SourceKind) String() string {
	switch k {
	case KindHostaway:
		return SourceHostaway
	case KindGoogle:
		return SourceGoogle
	}
	return "unknown"
}

// HostawayCategory is a 0-10 sub-score.
type HostawayCategory struct {
	Category string `json:"category"`
	Rating   int    `json:"rating"`
}

// HostawayReview is the property-management API record.
type HostawayReview struct {
	ID             int64              `json:"id"`
	Type           string             `json:"type"`
	Status         string             `json:"status"`
	Rating         *float64           `json:"rating"`
	PublicReview   string             `json:"publicReview"`
	ReviewCategory []HostawayCategory `json:"reviewCategory"`
	SubmittedAt    string             `json:"submittedAt"`
	GuestName      string             `json:"guestName"`
	ListingName    string             `json:"listingName"`
	Channel        string             `json:"channel,omitempty"`
}

// GoogleReview is the secondary-channel record. Rating is 1-5, Time is unix seconds.
type GoogleReview struct {
	ID                      string `json:"id"`
	AuthorName              string `json:"author_name"`
	AuthorURL               string `json:"author_url,omitempty"`
	Language                string `json:"language,omitempty"`
	ProfilePhotoURL         string `json:"profile_photo_url,omitempty"`
	Rating                  int    `json:"rating"`
	RelativeTimeDescription string `json:"relative_time_description,omitempty"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
	PlaceID                 string `json:"place_id,omitempty"`
	ListingName             string `json:"listing_name"`
}

// SourceRecord is exactly one of Hostaway or Google, selected by Kind.
type SourceRecord struct {
	Kind     SourceKind
	Hostaway *HostawayReview
	Google   *GoogleReview
}

func HostawayRecord(r HostawayReview) SourceRecord {
	return SourceRecord{Kind: KindHostaway, Hostaway: &r}
}

func GoogleRecord(r GoogleReview) SourceRecord {
	return SourceRecord{Kind: KindGoogle, Google: &r}
}
