package applications

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/matching"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

const rankConcurrency = 8

// CandidateStore loads candidates (role-checked).
type CandidateStore interface {
	GetCandidate(ctx context.Context, candidateID string) (users.User, error)
}

// JobStore loads jobs.
type JobStore interface {
	Get(ctx context.Context, jobID string) (jobs.Job, error)
}

// ResumeStore validates and stores uploaded resumes.
type ResumeStore interface {
	Put(ctx context.Context, ownerID, fileName string, r io.Reader) (*users.ResumeArtifact, error)
	Discard(ctx context.Context, storageKey string)
}

// Scorer scores already-loaded facts.
type Scorer interface {
	ScoreFacts(candidate matching.CandidateFacts, job matching.JobFacts) matching.MatchResult
}

type Service struct {
	Repo       Repo
	Candidates CandidateStore
	Jobs       JobStore
	Resumes    ResumeStore
	Scorer     Scorer
	Now        func() time.Time
}

func NewService(repo Repo, candidates CandidateStore, jobStore JobStore, resumes ResumeStore, scorer Scorer) *Service {
	return &Service{
		Repo:       repo,
		Candidates: candidates,
		Jobs:       jobStore,
		Resumes:    resumes,
		Scorer:     scorer,
		Now:        time.Now,
	}
}

// Upload is a resume file sent with an application.
type Upload struct {
	FileName string
	Body     io.Reader
}

type SubmitInput struct {
	Email       string
	Phone       string
	CoverLetter string
	Resume      *Upload
}

// Submit creates the caller's application to jobID. An uploaded resume is
// stored before the record; if storing fails nothing is created.
func (s *Service) Submit(ctx context.Context, p identity.Principal, jobID string, in SubmitInput) (app Application, err error) {
	defer func() { metrics.ApplicationsSubmitted.WithLabelValues(submitOutcome(err)).Inc() }()

	if s == nil || s.Repo == nil || s.Candidates == nil || s.Jobs == nil {
		return Application{}, errors.New("applications service not configured")
	}
	if !p.Is(identity.RoleCandidate) {
		return Application{}, ErrCandidateOnly
	}
	candidate, err := s.Candidates.GetCandidate(ctx, p.ID)
	if err != nil {
		return Application{}, err
	}
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return Application{}, ErrJobUnavailable
		}
		return Application{}, err
	}
	if !job.Open() {
		return Application{}, ErrJobUnavailable
	}

	if _, err := s.Repo.GetByJobAndCandidate(ctx, job.ID, candidate.ID); err == nil {
		return Application{}, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return Application{}, err
	}

	now := s.now()
	app = Application{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		CandidateID: candidate.ID,
		RecruiterID: job.RecruiterID,
		Status:      StatusApplied,
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		Snapshot:    snapshotOf(candidate, in),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Only a file sent with the application is attached; the profile resume
	// is replaced and deleted on its own schedule.
	var stored *users.ResumeArtifact
	if in.Resume != nil {
		if s.Resumes == nil {
			return Application{}, errors.New("resume storage not configured")
		}
		stored, err = s.Resumes.Put(ctx, candidate.ID, in.Resume.FileName, in.Resume.Body)
		if err != nil {
			return Application{}, err
		}
		app.Resume = &ResumeRef{StorageKey: stored.StorageKey, FileName: stored.FileName}
	}

	if err := s.Repo.Create(ctx, app); err != nil {
		if stored != nil {
			s.Resumes.Discard(ctx, stored.StorageKey)
		}
		return Application{}, err
	}
	telemetry.Info("application.submitted", map[string]any{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"candidate_id":   app.CandidateID,
		"with_resume":    app.Resume != nil,
	})
	return app, nil
}

func snapshotOf(u users.User, in SubmitInput) CandidateSnapshot {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = u.Email
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		phone = u.Profile.Phone
	}
	return CandidateSnapshot{
		Name:            u.FullName,
		Email:           email,
		Phone:           phone,
		Skills:          append([]string{}, u.Profile.Skills...),
		ExperienceYears: u.Profile.ExperienceYears,
		CurrentCompany:  u.Profile.CurrentCompany,
	}
}

func submitOutcome(err error) string {
	if err == nil {
		return "created"
	}
	switch kind := apperr.KindOf(err); kind {
	case apperr.DuplicateApplication, apperr.JobUnavailable, apperr.ValidationError, apperr.Forbidden, apperr.NotFound:
		return string(kind)
	default:
		return "error"
	}
}

// Get returns an application visible to p: its candidate, the owning
// recruiter, or an admin.
func (s *Service) Get(ctx context.Context, p identity.Principal, applicationID string) (Application, error) {
	app, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	if p.IsAdmin() || app.CandidateID == p.ID || (p.Is(identity.RoleRecruiter) && app.RecruiterID == p.ID) {
		return app, nil
	}
	return Application{}, ErrNotFound
}

// ListMine returns the caller's applications, newest first.
func (s *Service) ListMine(ctx context.Context, p identity.Principal) ([]Application, error) {
	if !p.Is(identity.RoleCandidate) {
		return nil, ErrCandidateOnly
	}
	return s.Repo.ListByCandidate(ctx, p.ID)
}

// ListForRecruiter returns applications to all of the caller's jobs.
func (s *Service) ListForRecruiter(ctx context.Context, p identity.Principal) ([]Application, error) {
	if !p.Is(identity.RoleRecruiter) {
		return nil, ErrRecruiterOnly
	}
	return s.Repo.ListByRecruiter(ctx, p.ID)
}

// Ranked pairs an application with its current match.
type Ranked struct {
	Application Application
	Match       matching.MatchResult
}

// ListForJob ranks a job's applicants by match score (highest first, ties
// by earliest application). Candidates are scored on their live profile,
// falling back to the submission snapshot when the profile is gone.
func (s *Service) ListForJob(ctx context.Context, p identity.Principal, jobID string) ([]Ranked, error) {
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !(p.Is(identity.RoleRecruiter) && job.RecruiterID == p.ID) {
		return nil, jobs.ErrForbidden
	}
	apps, err := s.Repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	jobFacts := jobs.FactsOf(job)
	ranked := make([]Ranked, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rankConcurrency)
	for i := range apps {
		g.Go(func() error {
			facts, err := s.candidateFacts(gctx, apps[i])
			if err != nil {
				return err
			}
			ranked[i] = Ranked{Application: apps[i], Match: s.score(facts, jobFacts)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Match.Score != ranked[j].Match.Score {
			return ranked[i].Match.Score > ranked[j].Match.Score
		}
		return ranked[i].Application.CreatedAt.Before(ranked[j].Application.CreatedAt)
	})
	return ranked, nil
}

func (s *Service) candidateFacts(ctx context.Context, app Application) (matching.CandidateFacts, error) {
	u, err := s.Candidates.GetCandidate(ctx, app.CandidateID)
	if err == nil {
		return matching.CandidateFacts{
			Skills:             u.Profile.Skills,
			ExperienceYears:    u.Profile.ExperienceYears,
			PreferredLocations: u.Profile.PreferredLocations,
		}, nil
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return matching.CandidateFacts{}, err
	}
	return matching.CandidateFacts{
		Skills:          app.Snapshot.Skills,
		ExperienceYears: app.Snapshot.ExperienceYears,
	}, nil
}

func (s *Service) score(c matching.CandidateFacts, j matching.JobFacts) matching.MatchResult {
	if s.Scorer == nil {
		return matching.Score(c, j)
	}
	return s.Scorer.ScoreFacts(c, j)
}

// ExistsForRecruiterCandidate reports whether candidateID applied to any of
// recruiterID's jobs.
func (s *Service) ExistsForRecruiterCandidate(ctx context.Context, recruiterID, candidateID string) (bool, error) {
	return s.Repo.ExistsForRecruiterCandidate(ctx, recruiterID, candidateID)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
