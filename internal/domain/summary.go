package domain

type ListingStat struct {
	Listing       string  `json:"listing"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

// Summary is derived on demand from a review collection and never stored.
type Summary struct {
	TotalReviews     int            `json:"totalReviews"`
	AverageRating    float64        `json:"averageRating"`
	ReviewsByChannel map[string]int `json:"reviewsByChannel"`
	ReviewsByListing []ListingStat  `json:"reviewsByListing"`
	ReviewsBySource  map[string]int `json:"reviewsBySource,omitempty"`
}

type TrendPoint struct {
	Month         string  `json:"month"` // YYYY-MM
	Reviews       int     `json:"reviews"`
	AverageRating float64 `json:"averageRating"`
}

type CategoryStat struct {
	Category      string  `json:"category"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

type ApprovalKPIs struct {
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Total    int `json:"total"`
}
