package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"guest_reviews/internal/adapters/observability"
	"guest_reviews/internal/domain"
)

const (
	kindInt = "int"
	kindStr = "str"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ApprovalRepo stores the approval set in MySQL, one row per id.
type ApprovalRepo struct{ db *sql.DB }

func New(db *sql.DB) *ApprovalRepo { return &ApprovalRepo{db: db} }

func (r *ApprovalRepo) Load(ctx context.Context) (domain.ApprovalSet, error) {
	set, err := scanApprovals(ctx, r.db, loadApprovalsSQL)
	observability.ObserveStore("mysql", "load", err)
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}
	return set, nil
}

// Save makes the stored rows equal to set. Ids already stored keep their
// approved_at; only removed ids are deleted and only new ids are inserted.
func (r *ApprovalRepo) Save(ctx context.Context, set domain.ApprovalSet) error {
	err := r.save(ctx, set)
	observability.ObserveStore("mysql", "save", err)
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	return nil
}

func (r *ApprovalRepo) save(ctx context.Context, set domain.ApprovalSet) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cur, err := scanApprovals(ctx, tx, lockApprovalsSQL)
	if err != nil {
		return err
	}

	for _, id := range cur.IDs() {
		if set.Has(id) {
			continue
		}
		if _, err = tx.ExecContext(ctx, deleteApprovalSQL, domain.ApprovalSchemaVersion, idKind(id), id.String()); err != nil {
			return err
		}
	}

	values := []string{}
	args := []any{}
	for _, id := range set.IDs() {
		if cur.Has(id) {
			continue
		}
		values = append(values, "(?, ?, ?)")
		args = append(args, domain.ApprovalSchemaVersion, idKind(id), id.String())
	}
	if len(values) > 0 {
		q := insertApprovalsPrefix + strings.Join(values, ",") + insertApprovalsOnDup
		if _, err = tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func idKind(id domain.ReviewID) string {
	if id.IsString() {
		return kindStr
	}
	return kindInt
}

func scanApprovals(ctx context.Context, q querier, query string) (domain.ApprovalSet, error) {
	rows, err := q.QueryContext(ctx, query, domain.ApprovalSchemaVersion)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := domain.NewApprovalSet()
	for rows.Next() {
		var kind, val string
		if err := rows.Scan(&kind, &val); err != nil {
			return nil, err
		}
		switch kind {
		case kindInt:
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad numeric id %q: %w", val, err)
			}
			set[domain.IntID(n)] = struct{}{}
		case kindStr:
			set[domain.StringID(val)] = struct{}{}
		default:
			return nil, fmt.Errorf("unknown id kind %q", kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return set, nil
}
