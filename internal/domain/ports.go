package domain

import "context"

// SourceClient fetches raw records from one upstream review source.
type SourceClient interface {
	Name() string
	FetchRecords(ctx context.Context) ([]SourceRecord, error)
}

// ApprovalStore persists the approved-review set. Reads and writes are whole-set;
// concurrent writers are last-write-wins.
type ApprovalStore interface {
	Load(ctx context.Context) (ApprovalSet, error)
	Save(ctx context.Context, set ApprovalSet) error
}
