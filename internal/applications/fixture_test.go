package applications

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/matching"
	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/shared/storage/object/local"
	"jobboard-backend/internal/users"
)

type fixture struct {
	repo      *MemoryRepo
	users     *users.Service
	jobs      *jobs.Service
	resumes   *resumes.Service
	svc       *Service
	authority *Authority

	candidate identity.Principal
	recruiter identity.Principal
	other     identity.Principal
	admin     identity.Principal
	job       jobs.Job
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	userSvc := users.NewService(users.NewMemoryRepo())
	jobSvc := jobs.NewService(jobs.NewMemoryRepo())
	resumeSvc := resumes.NewService(local.New(t.TempDir()), userSvc)
	repo := NewMemoryRepo()

	mk := func(email string, role identity.Role, profile users.CandidateProfile) identity.Principal {
		u, err := userSvc.Create(ctx, users.NewUser{Email: email, FullName: email, Role: role, Profile: profile})
		require.NoError(t, err)
		return identity.Principal{ID: u.ID, Role: u.Role}
	}

	f := &fixture{
		repo:    repo,
		users:   userSvc,
		jobs:    jobSvc,
		resumes: resumeSvc,
		candidate: mk("ada@example.com", identity.RoleCandidate, users.CandidateProfile{
			Phone:              "+44 1",
			CurrentCompany:     "Analytical Engines",
			Skills:             []string{"react", "node"},
			ExperienceYears:    2,
			PreferredLocations: []string{"Remote"},
		}),
		recruiter: mk("rec@example.com", identity.RoleRecruiter, users.CandidateProfile{}),
		other:     mk("other@example.com", identity.RoleRecruiter, users.CandidateProfile{}),
		admin:     mk("admin@example.com", identity.RoleAdmin, users.CandidateProfile{}),
	}
	job, err := jobSvc.Create(ctx, f.recruiter, jobs.NewJob{
		Title:                   "Frontend",
		Location:                "Remote",
		RequiredSkills:          []string{"react", "node", "sql"},
		RequiredExperienceYears: 3,
	})
	require.NoError(t, err)
	f.job = job

	f.svc = NewService(repo, userSvc, jobSvc, resumeSvc, matching.NewService(userSvc, jobSvc, nil))
	f.svc.Now = tickingClock()
	f.authority = NewAuthority(repo, jobSvc)
	return f
}

func (f *fixture) submit(t *testing.T) Application {
	t.Helper()
	app, err := f.svc.Submit(context.Background(), f.candidate, f.job.ID, SubmitInput{CoverLetter: "hello"})
	require.NoError(t, err)
	return app
}

func (f *fixture) newCandidate(t *testing.T, email string, skills ...string) identity.Principal {
	t.Helper()
	u, err := f.users.Create(context.Background(), users.NewUser{
		Email:   email,
		Role:    identity.RoleCandidate,
		Profile: users.CandidateProfile{Skills: skills, ExperienceYears: 5},
	})
	require.NoError(t, err)
	return identity.Principal{ID: u.ID, Role: identity.RoleCandidate}
}

type failingResumes struct {
	putErr    error
	discarded []string
}

func (f *failingResumes) Put(_ context.Context, ownerID, fileName string, r io.Reader) (*users.ResumeArtifact, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	_, _ = io.Copy(io.Discard, r)
	return &users.ResumeArtifact{StorageKey: ownerID + "/" + fileName, FileName: fileName}, nil
}

func (f *failingResumes) Discard(_ context.Context, key string) {
	f.discarded = append(f.discarded, key)
}

// failingCreate wraps a repo and fails every insert.
type failingCreate struct {
	Repo
}

func (failingCreate) Create(context.Context, Application) error {
	return errors.New("insert failed")
}

// tickingClock advances one second per call so creation order is stable.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Now().UTC().Add(-time.Hour)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}
