package users

import "context"

type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	// SetResume replaces the profile resume (nil clears it) and returns the
	// artifact it replaced, if any.
	SetResume(ctx context.Context, userID string, artifact *ResumeArtifact) (*ResumeArtifact, error)
}
