package users

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User)}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Profile = cloneProfile(user.Profile)
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	user.Profile = cloneProfile(user.Profile)
	return user, nil
}

func (r *MemoryRepo) SetResume(ctx context.Context, userID string, artifact *ResumeArtifact) (*ResumeArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	prev := user.Profile.Resume
	if artifact != nil {
		cp := *artifact
		artifact = &cp
	}
	user.Profile.Resume = artifact
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user
	return prev, nil
}

func cloneProfile(p CandidateProfile) CandidateProfile {
	p.Skills = append([]string(nil), p.Skills...)
	p.PreferredLocations = append([]string(nil), p.PreferredLocations...)
	if p.Resume != nil {
		cp := *p.Resume
		p.Resume = &cp
	}
	return p
}
