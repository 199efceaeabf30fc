package applications

import (
	"context"
	"time"
)

type Repo interface {
	// Create inserts app, failing with ErrDuplicate when the (job, candidate)
	// pair already exists.
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	GetByJobAndCandidate(ctx context.Context, jobID, candidateID string) (Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]Application, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]Application, error)
	// UpdateStatus sets status to `to` only if it is still `from`.
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) (Application, error)
	ExistsForRecruiterCandidate(ctx context.Context, recruiterID, candidateID string) (bool, error)
}
