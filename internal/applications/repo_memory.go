package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	apps map[string]Application
	// pairs indexes (jobID, candidateID) to application id.
	pairs map[[2]string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		apps:  make(map[string]Application),
		pairs: make(map[[2]string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pair := [2]string{app.JobID, app.CandidateID}
	if _, ok := r.pairs[pair]; ok {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.CreatedAt
	}
	r.apps[app.ID] = clone(app)
	r.pairs[pair] = app.ID
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return clone(app), nil
}

func (r *MemoryRepo) GetByJobAndCandidate(ctx context.Context, jobID, candidateID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.pairs[[2]string{jobID, candidateID}]
	if !ok {
		return Application{}, ErrNotFound
	}
	return clone(r.apps[id]), nil
}

func (r *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	return r.list(ctx, func(a Application) bool { return a.CandidateID == candidateID })
}

func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	return r.list(ctx, func(a Application) bool { return a.JobID == jobID })
}

func (r *MemoryRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]Application, error) {
	return r.list(ctx, func(a Application) bool { return a.RecruiterID == recruiterID })
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	if app.Status != from {
		return Application{}, errStatusChanged
	}
	app.Status = to
	app.UpdatedAt = at
	r.apps[id] = app
	return clone(app), nil
}

func (r *MemoryRepo) ExistsForRecruiterCandidate(ctx context.Context, recruiterID, candidateID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, app := range r.apps {
		if app.RecruiterID == recruiterID && app.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

// list returns matching applications newest first.
func (r *MemoryRepo) list(ctx context.Context, keep func(Application) bool) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Application, 0)
	for _, app := range r.apps {
		if keep(app) {
			out = append(out, clone(app))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func clone(app Application) Application {
	app.Snapshot.Skills = append([]string(nil), app.Snapshot.Skills...)
	if app.Resume != nil {
		ref := *app.Resume
		app.Resume = &ref
	}
	return app
}
