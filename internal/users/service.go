package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/matching"
	"jobboard-backend/internal/shared/apperr"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// NewUser is the input for Create.
type NewUser struct {
	Email    string
	FullName string
	Role     identity.Role
	Profile  CandidateProfile
}

// Create registers a user with a generated id.
func (s *Service) Create(ctx context.Context, in NewUser) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, apperr.New(apperr.ValidationError, "a valid email is required")
	}
	role, ok := identity.ParseRole(string(in.Role))
	if !ok {
		return User{}, apperr.New(apperr.ValidationError, "role must be candidate, recruiter or admin")
	}
	if in.Profile.ExperienceYears < 0 {
		return User{}, apperr.New(apperr.ValidationError, "experienceYears must not be negative")
	}
	user := User{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: strings.TrimSpace(in.FullName),
		Role:     role,
		Profile:  in.Profile,
	}
	if role != identity.RoleCandidate {
		user.Profile = CandidateProfile{}
	}
	user.Profile.Skills = nonNil(user.Profile.Skills)
	user.Profile.PreferredLocations = nonNil(user.Profile.PreferredLocations)
	user.Profile.Resume = nil
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// ResolvePrincipal maps a verified token subject to its current role.
// Blocked users are refused here so a stale token cannot outlive a block.
func (s *Service) ResolvePrincipal(ctx context.Context, userID string) (identity.Principal, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return identity.Principal{}, err
	}
	if user.Blocked {
		return identity.Principal{}, ErrBlocked
	}
	return identity.Principal{ID: user.ID, Role: user.Role}, nil
}

// CandidateFacts exposes the scoring inputs of a candidate. Non-candidates
// are reported as missing.
func (s *Service) CandidateFacts(ctx context.Context, candidateID string) (matching.CandidateFacts, error) {
	user, err := s.GetCandidate(ctx, candidateID)
	if err != nil {
		return matching.CandidateFacts{}, err
	}
	return matching.CandidateFacts{
		Skills:             user.Profile.Skills,
		ExperienceYears:    user.Profile.ExperienceYears,
		PreferredLocations: user.Profile.PreferredLocations,
	}, nil
}

// GetCandidate loads a user that must hold the candidate role.
func (s *Service) GetCandidate(ctx context.Context, candidateID string) (User, error) {
	user, err := s.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, matching.ErrCandidateNotFound
		}
		return User{}, err
	}
	if user.Role != identity.RoleCandidate {
		return User{}, matching.ErrCandidateNotFound
	}
	return user, nil
}

// ResumeOf returns the candidate's profile resume, or nil.
func (s *Service) ResumeOf(ctx context.Context, candidateID string) (*ResumeArtifact, error) {
	user, err := s.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return user.Profile.Resume, nil
}

// SetResume replaces the candidate's profile resume and returns the previous one.
func (s *Service) SetResume(ctx context.Context, candidateID string, artifact *ResumeArtifact) (*ResumeArtifact, error) {
	if _, err := s.GetCandidate(ctx, candidateID); err != nil {
		return nil, err
	}
	return s.Repo.SetResume(ctx, candidateID, artifact)
}
