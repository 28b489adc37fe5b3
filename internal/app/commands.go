package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"guest_reviews/internal/domain"
)

type ApprovalService struct {
	store domain.ApprovalStore
}

func NewApprovalService(s domain.ApprovalStore) *ApprovalService {
	return &ApprovalService{store: s}
}

// Approved reads the approval set. When the store cannot be read the service
// degrades to "nothing approved" and returns the storage error as a warning;
// the returned set is always usable.
func (s *ApprovalService) Approved(ctx context.Context) (domain.ApprovalSet, error) {
	set, err := s.store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("approval store read failed; treating all reviews as unapproved")
		return domain.NewApprovalSet(), asStorageErr("load", err)
	}
	if set == nil {
		set = domain.NewApprovalSet()
	}
	return set, nil
}

// Toggle flips one review's approval and persists the new set. Concurrent
// togglers race read-modify-write; the last save wins.
func (s *ApprovalService) Toggle(ctx context.Context, id domain.ReviewID) (domain.ApprovalSet, bool, error) {
	cur, err := s.store.Load(ctx)
	if err != nil {
		return nil, false, asStorageErr("load", err)
	}
	next := Toggle(id, cur)
	if err := s.store.Save(ctx, next); err != nil {
		return nil, false, asStorageErr("save", err)
	}
	approved := next.Has(id)
	log.Info().Str("review_id", id.String()).Bool("approved", approved).Msg("approval toggled")
	return next, approved, nil
}

// Import adds ids to the stored set, leaving existing approvals in place.
// It returns the number of ids that were not already approved.
func (s *ApprovalService) Import(ctx context.Context, ids []domain.ReviewID) (int, error) {
	cur, err := s.store.Load(ctx)
	if err != nil {
		return 0, asStorageErr("load", err)
	}
	next := domain.NewApprovalSet(cur.IDs()...)
	added := 0
	for _, id := range ids {
		if id.IsZero() || next.Has(id) {
			continue
		}
		next[id] = struct{}{}
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := s.store.Save(ctx, next); err != nil {
		return 0, asStorageErr("save", err)
	}
	return added, nil
}

func asStorageErr(op string, err error) error {
	var se *domain.StorageError
	if errors.As(err, &se) {
		return err
	}
	return &domain.StorageError{Op: op, Err: err}
}
