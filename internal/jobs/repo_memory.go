package jobs

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]Job)}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	job.RequiredSkills = append([]string(nil), job.RequiredSkills...)
	r.jobs[job.ID] = job
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return Job{}, ErrNotFound
	}
	job.RequiredSkills = append([]string(nil), job.RequiredSkills...)
	return job, nil
}

func (r *MemoryRepo) SetStatus(ctx context.Context, jobID string, status Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	job.Status = status
	job.UpdatedAt = time.Now().UTC()
	r.jobs[jobID] = job
	return nil
}
