package jobs

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/matching"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/telemetry"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// NewJob is the input for Create.
type NewJob struct {
	Title                   string
	Company                 string
	Location                string
	RequiredSkills          []string
	RequiredExperienceYears float64
}

// Create posts an open job owned by the calling recruiter.
func (s *Service) Create(ctx context.Context, p identity.Principal, in NewJob) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	if !p.Is(identity.RoleRecruiter) && !p.IsAdmin() {
		return Job{}, apperr.New(apperr.Forbidden, "only recruiters may post jobs")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Job{}, apperr.New(apperr.ValidationError, "title is required")
	}
	if in.RequiredExperienceYears < 0 {
		return Job{}, apperr.New(apperr.ValidationError, "requiredExperienceYears must not be negative")
	}
	skills := make([]string, 0, len(in.RequiredSkills))
	for _, sk := range in.RequiredSkills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	job := Job{
		ID:                      uuid.NewString(),
		RecruiterID:             p.ID,
		Title:                   title,
		Company:                 strings.TrimSpace(in.Company),
		Location:                strings.TrimSpace(in.Location),
		RequiredSkills:          skills,
		RequiredExperienceYears: in.RequiredExperienceYears,
		Status:                  StatusOpen,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	telemetry.Info("job.created", map[string]any{"job_id": job.ID, "recruiter_id": p.ID})
	return s.Repo.GetByID(ctx, job.ID)
}

func (s *Service) Get(ctx context.Context, jobID string) (Job, error) {
	if s == nil || s.Repo == nil {
		return Job{}, errors.New("jobs service not configured")
	}
	if strings.TrimSpace(jobID) == "" {
		return Job{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, jobID)
}

// Close marks a job filled. Only its owner or an admin may do so.
func (s *Service) Close(ctx context.Context, p identity.Principal, jobID string) (Job, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if !p.IsAdmin() && !(p.Is(identity.RoleRecruiter) && job.RecruiterID == p.ID) {
		return Job{}, ErrForbidden
	}
	if job.Status == StatusFilled {
		return job, nil
	}
	if err := s.Repo.SetStatus(ctx, jobID, StatusFilled); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, jobID)
}

// OwnerOf returns the recruiter that owns jobID.
func (s *Service) OwnerOf(ctx context.Context, jobID string) (string, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return "", err
	}
	return job.RecruiterID, nil
}

// JobFacts exposes the scoring inputs of a job.
func (s *Service) JobFacts(ctx context.Context, jobID string) (matching.JobFacts, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return matching.JobFacts{}, err
	}
	return FactsOf(job), nil
}

func FactsOf(job Job) matching.JobFacts {
	return matching.JobFacts{
		RequiredSkills:          job.RequiredSkills,
		RequiredExperienceYears: job.RequiredExperienceYears,
		Location:                job.Location,
	}
}
