package jobs

import "context"

type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, jobID string) (Job, error)
	SetStatus(ctx context.Context, jobID string, status Status) error
}
