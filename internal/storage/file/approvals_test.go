package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"guest_reviews/internal/domain"
	"guest_reviews/internal/storage/file"
)

type ApprovalStoreTestSuite struct {
	suite.Suite
	dir   string
	path  string
	store *file.ApprovalStore
}

func (s *ApprovalStoreTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.path = filepath.Join(s.dir, "nested", "approvals.json")
	s.store = file.New(s.path)
}

func (s *ApprovalStoreTestSuite) write(body string) {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o755))
	s.Require().NoError(os.WriteFile(s.path, []byte(body), 0o644))
}

func (s *ApprovalStoreTestSuite) TestMissingFileIsEmpty() {
	set, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.Empty(set)
}

func (s *ApprovalStoreTestSuite) TestReadsLegacyArray() {
	s.write(`[7454, "google_1", 7455]`)

	set, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.Equal(domain.NewApprovalSet(domain.IntID(7454), domain.IntID(7455), domain.StringID("google_1")), set)
}

func (s *ApprovalStoreTestSuite) TestSaveWritesVersionedDocument() {
	ctx := context.Background()
	in := domain.NewApprovalSet(domain.StringID("google_2"), domain.IntID(12), domain.IntID(3))
	s.Require().NoError(s.store.Save(ctx, in))

	b, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	var doc struct {
		Version     int               `json:"version"`
		ApprovedIDs []json.RawMessage `json:"approvedIds"`
	}
	s.Require().NoError(json.Unmarshal(b, &doc))
	s.Equal(domain.ApprovalSchemaVersion, doc.Version)
	s.Require().Len(doc.ApprovedIDs, 3)
	s.Equal(`3`, string(doc.ApprovedIDs[0]))
	s.Equal(`12`, string(doc.ApprovedIDs[1]))
	s.Equal(`"google_2"`, string(doc.ApprovedIDs[2]))

	out, err := s.store.Load(ctx)
	s.Require().NoError(err)
	s.Equal(in, out)

	// no temp files left behind
	ents, err := os.ReadDir(filepath.Dir(s.path))
	s.Require().NoError(err)
	s.Len(ents, 1)
}

func (s *ApprovalStoreTestSuite) TestUnknownVersion() {
	s.write(`{"version": 9, "approvedIds": [1]}`)

	_, err := s.store.Load(context.Background())
	s.ErrorIs(err, domain.ErrStorageUnavailable)
}

func (s *ApprovalStoreTestSuite) TestCorruptDocument() {
	s.write(`{"version": 1, "approvedIds": [1.5]}`)

	_, err := s.store.Load(context.Background())
	s.ErrorIs(err, domain.ErrStorageUnavailable)
}

func TestApprovalStoreTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalStoreTestSuite))
}
