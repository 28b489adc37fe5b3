package app

import "guest_reviews/internal/domain"

func IsApproved(id domain.ReviewID, set domain.ApprovalSet) bool {
	return set.Has(id)
}

// Toggle returns a new set with id's membership flipped; set is not modified.
func Toggle(id domain.ReviewID, set domain.ApprovalSet) domain.ApprovalSet {
	out := make(domain.ApprovalSet, len(set)+1)
	for k := range set {
		out[k] = struct{}{}
	}
	if _, ok := out[id]; ok {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}

// Project returns copies of reviews with Approved set from the approval set.
func Project(reviews []domain.Review, set domain.ApprovalSet) []domain.Review {
	out := make([]domain.Review, len(reviews))
	for i, r := range reviews {
		c := r.Clone()
		ok := set.Has(r.ID)
		c.Approved = &ok
		out[i] = c
	}
	return out
}

// Visible keeps only approved reviews; reviews with no entry are hidden.
func Visible(reviews []domain.Review, set domain.ApprovalSet) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if set.Has(r.ID) {
			c := r.Clone()
			yes := true
			c.Approved = &yes
			out = append(out, c)
		}
	}
	return out
}

// KPIs counts approved and pending reviews within the given collection.
func KPIs(reviews []domain.Review, set domain.ApprovalSet) domain.ApprovalKPIs {
	k := domain.ApprovalKPIs{Total: len(reviews)}
	for _, r := range reviews {
		if set.Has(r.ID) {
			k.Approved++
		}
	}
	k.Pending = k.Total - k.Approved
	return k
}
