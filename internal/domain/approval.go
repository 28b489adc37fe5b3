package domain

import "sort"

// ApprovalSchemaVersion is written alongside every persisted approval set.
const ApprovalSchemaVersion = 1

// ApprovalSet holds the ids of reviews approved for public display.
type ApprovalSet map[ReviewID]struct{}

func NewApprovalSet(ids ...ReviewID) ApprovalSet {
	s := make(ApprovalSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ApprovalSet) Has(id ReviewID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns members ordered numeric ids first (ascending), then strings.
func (s ApprovalSet) IDs() []ReviewID {
	out := make([]ReviewID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsString() != b.IsString() {
			return !a.IsString()
		}
		if a.IsString() {
			return a.String() < b.String()
		}
		return a.Int() < b.Int()
	})
	return out
}

// ApprovalDocument is the versioned stored-state schema for document stores.
type ApprovalDocument struct {
	Version     int        `json:"version"`
	ApprovedIDs []ReviewID `json:"approvedIds"`
}
