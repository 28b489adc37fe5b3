package redisad

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"guest_reviews/internal/adapters/observability"
	"guest_reviews/internal/domain"
)

// ApprovalsKey holds the approved ids as a Redis set. Members are JSON
// encoded so numeric and string ids stay distinct (7454 vs "7454").
var ApprovalsKey = fmt.Sprintf("review-approvals:v%d", domain.ApprovalSchemaVersion)

type ApprovalStore struct{ c *redis.Client }

func New(addr, pass string, db int) *ApprovalStore {
	return &ApprovalStore{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// NewWithClient wraps an existing client (tests, shared pools).
func NewWithClient(c *redis.Client) *ApprovalStore { return &ApprovalStore{c: c} }

func (r *ApprovalStore) Load(ctx context.Context) (domain.ApprovalSet, error) {
	members, err := r.c.SMembers(ctx, ApprovalsKey).Result()
	observability.ObserveStore("redis", "load", err)
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}
	set := make(domain.ApprovalSet, len(members))
	for _, m := range members {
		var id domain.ReviewID
		if err := json.Unmarshal([]byte(m), &id); err != nil {
			return nil, &domain.StorageError{Op: "load", Err: fmt.Errorf("member %q: %w", m, err)}
		}
		set[id] = struct{}{}
	}
	return set, nil
}

// Save replaces the stored set atomically.
func (r *ApprovalStore) Save(ctx context.Context, set domain.ApprovalSet) error {
	members := make([]any, 0, len(set))
	for _, id := range set.IDs() {
		b, err := json.Marshal(id)
		if err != nil {
			return &domain.StorageError{Op: "save", Err: err}
		}
		members = append(members, string(b))
	}
	_, err := r.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, ApprovalsKey)
		if len(members) > 0 {
			p.SAdd(ctx, ApprovalsKey, members...)
		}
		return nil
	})
	observability.ObserveStore("redis", "save", err)
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	return nil
}

func (r *ApprovalStore) Close() error { return r.c.Close() }
