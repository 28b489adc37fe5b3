package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"guest_reviews/internal/adapters/observability"
	"guest_reviews/internal/domain"
)

// ApprovalStore keeps the approval set in a JSON document on local disk.
// It reads both the versioned document and the legacy bare array of ids.
type ApprovalStore struct {
	path string
	mu   sync.Mutex
}

func New(path string) *ApprovalStore { return &ApprovalStore{path: path} }

func (s *ApprovalStore) Load(ctx context.Context) (domain.ApprovalSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.read()
	observability.ObserveStore("file", "load", err)
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}
	return set, nil
}

// Save writes the versioned document via a temp file and rename.
func (s *ApprovalStore) Save(ctx context.Context, set domain.ApprovalSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.write(set)
	observability.ObserveStore("file", "save", err)
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	return nil
}

func (s *ApprovalStore) read() (domain.ApprovalSet, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewApprovalSet(), nil
	}
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return domain.NewApprovalSet(), nil
	}

	if b[0] == '[' {
		var ids []domain.ReviewID
		if err := json.Unmarshal(b, &ids); err != nil {
			return nil, fmt.Errorf("decode legacy approvals %s: %w", s.path, err)
		}
		return domain.NewApprovalSet(ids...), nil
	}

	var doc domain.ApprovalDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode approvals %s: %w", s.path, err)
	}
	if doc.Version != domain.ApprovalSchemaVersion {
		return nil, fmt.Errorf("approvals %s: unsupported schema version %d", s.path, doc.Version)
	}
	return domain.NewApprovalSet(doc.ApprovedIDs...), nil
}

func (s *ApprovalStore) write(set domain.ApprovalSet) error {
	doc := domain.ApprovalDocument{Version: domain.ApprovalSchemaVersion, ApprovedIDs: set.IDs()}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create approvals dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".approvals-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
