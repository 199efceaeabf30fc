package resumes

import (
	"context"

	"jobboard-backend/internal/identity"
)

// LinkChecker reports whether a candidate has applied to any job owned by
// the recruiter.
type LinkChecker interface {
	ExistsForRecruiterCandidate(ctx context.Context, recruiterID, candidateID string) (bool, error)
}

// Gate decides resume access. The application link is looked up on every
// call and never cached.
type Gate struct {
	Links LinkChecker
}

func NewGate(links LinkChecker) *Gate {
	return &Gate{Links: links}
}

func (g *Gate) CanAccess(ctx context.Context, p identity.Principal, candidateID string) (bool, error) {
	if !p.Authenticated() || candidateID == "" {
		return false, nil
	}
	if p.ID == candidateID {
		return true, nil
	}
	if !p.Is(identity.RoleRecruiter) || g == nil || g.Links == nil {
		return false, nil
	}
	return g.Links.ExistsForRecruiterCandidate(ctx, p.ID, candidateID)
}
