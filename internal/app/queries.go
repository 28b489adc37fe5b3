package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"guest_reviews/internal/domain"
)

type QueryService struct {
	hostaway  domain.SourceClient
	google    domain.SourceClient
	approvals *ApprovalService
}

func NewQueryService(hostaway, google domain.SourceClient, approvals *ApprovalService) *QueryService {
	return &QueryService{hostaway: hostaway, google: google, approvals: approvals}
}

type HostawayResult struct {
	Reviews          []domain.Review            `json:"reviews"`
	ReviewsByListing map[string][]domain.Review `json:"reviewsByListing"`
	Summary          domain.Summary             `json:"summary"`
}

type SourceResult struct {
	Reviews []domain.Review `json:"reviews"`
	Summary domain.Summary  `json:"summary"`
}

type DashboardQuery struct {
	Filter domain.FilterQuery
	Months int
}

// Dashboard is the manager view. Summary, listings, trends, categories and
// KPIs describe every review of the (optionally listing-scoped) combined
// collection; Reviews is that collection narrowed by the full filter.
type Dashboard struct {
	Reviews    []domain.Review       `json:"reviews"`
	Summary    domain.Summary        `json:"summary"`
	Listings   []domain.ListingStat  `json:"listings"`
	Trends     []domain.TrendPoint   `json:"trends"`
	Categories []domain.CategoryStat `json:"categories"`
	KPIs       domain.ApprovalKPIs   `json:"kpis"`
	Warning    error                 `json:"-"`
}

type PublicResult struct {
	Reviews []domain.Review `json:"reviews"`
	Warning error           `json:"-"`
}

// Hostaway returns the primary source's reviews narrowed by q, with a summary
// and reviews grouped by listing.
func (s *QueryService) Hostaway(ctx context.Context, q domain.FilterQuery) (HostawayResult, error) {
	all, err := s.fetch(ctx, s.hostaway)
	if err != nil {
		return HostawayResult{}, &domain.SourceError{Source: s.hostaway.Name(), Err: err}
	}
	reviews := FilterReviews(all, q)

	grouped := make(map[string][]domain.Review)
	for _, r := range reviews {
		grouped[r.ListingName] = append(grouped[r.ListingName], r)
	}
	return HostawayResult{Reviews: reviews, ReviewsByListing: grouped, Summary: Summarize(reviews)}, nil
}

// Google returns the secondary source's reviews, optionally for one listing.
func (s *QueryService) Google(ctx context.Context, listing string) (SourceResult, error) {
	all, err := s.fetch(ctx, s.google)
	if err != nil {
		return SourceResult{}, &domain.SourceError{Source: s.google.Name(), Err: err}
	}
	reviews := FilterReviews(all, domain.FilterQuery{Listing: listing})
	return SourceResult{Reviews: reviews, Summary: Summarize(reviews)}, nil
}

// Combined fetches both sources concurrently, waits for both, and merges.
// Either source failing fails the whole call.
func (s *QueryService) Combined(ctx context.Context, listing string) (SourceResult, error) {
	reviews, err := s.combined(ctx, listing)
	if err != nil {
		return SourceResult{}, err
	}
	return SourceResult{Reviews: reviews, Summary: SummarizeCombined(reviews)}, nil
}

func (s *QueryService) Dashboard(ctx context.Context, q DashboardQuery) (Dashboard, error) {
	all, err := s.combined(ctx, q.Filter.Listing)
	if err != nil {
		return Dashboard{}, err
	}
	set, warn := s.approvals.Approved(ctx)

	summary := SummarizeCombined(all)
	return Dashboard{
		Reviews:    Project(FilterReviews(all, q.Filter), set),
		Summary:    summary,
		Listings:   SortListingsByCount(summary.ReviewsByListing),
		Trends:     Trends(all, q.Months),
		Categories: CategoryBreakdown(all),
		KPIs:       KPIs(all, set),
		Warning:    warn,
	}, nil
}

// Public returns the approved reviews of a listing, newest first.
func (s *QueryService) Public(ctx context.Context, listing string) (PublicResult, error) {
	all, err := s.combined(ctx, listing)
	if err != nil {
		return PublicResult{}, err
	}
	set, warn := s.approvals.Approved(ctx)
	return PublicResult{Reviews: Visible(all, set), Warning: warn}, nil
}

func (s *QueryService) combined(ctx context.Context, listing string) ([]domain.Review, error) {
	sources := []domain.SourceClient{s.hostaway, s.google}
	batches := make([]domain.SourceBatch, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			revs, err := s.fetch(ctx, src)
			// failures travel in the batch so every fetch runs to completion
			batches[i] = domain.SourceBatch{Source: src.Name(), Reviews: revs, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return MergeAndFilter(batches, domain.FilterQuery{Listing: strings.TrimSpace(listing)})
}

// fetch pulls and normalizes one source. Malformed records are skipped; the
// returned error is the client's, unwrapped.
func (s *QueryService) fetch(ctx context.Context, src domain.SourceClient) ([]domain.Review, error) {
	recs, err := src.FetchRecords(ctx)
	if err != nil {
		log.Warn().Err(err).Str("source", src.Name()).Msg("source fetch failed")
		return nil, err
	}
	reviews, skipped := NormalizeAll(recs)
	for _, e := range skipped {
		log.Warn().Err(e).Str("source", src.Name()).Msg("skipping source record")
	}
	return reviews, nil
}
