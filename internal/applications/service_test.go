package applications

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/users"
)

const rtfResume = `{\rtf1\ansi Ada Lovelace}`

func TestSubmitCreatesApplication(t *testing.T) {
	f := newFixture(t)

	app, err := f.svc.Submit(context.Background(), f.candidate, f.job.ID, SubmitInput{
		Email:       "ada.work@example.com",
		CoverLetter: "  I would love to join.  ",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusApplied, app.Status)
	assert.Equal(t, f.recruiter.ID, app.RecruiterID)
	assert.Equal(t, "I would love to join.", app.CoverLetter)
	assert.Equal(t, CandidateSnapshot{
		Name:            "ada@example.com",
		Email:           "ada.work@example.com",
		Phone:           "+44 1",
		Skills:          []string{"react", "node"},
		ExperienceYears: 2,
		CurrentCompany:  "Analytical Engines",
	}, app.Snapshot)
	assert.Nil(t, app.Resume)
}

func TestSubmitRequiresCandidate(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(context.Background(), f.recruiter, f.job.ID, SubmitInput{})
	assert.ErrorIs(t, err, ErrCandidateOnly)
}

func TestSubmitJobUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.candidate, "missing-job", SubmitInput{})
	assert.ErrorIs(t, err, ErrJobUnavailable)

	_, err = f.jobs.Close(ctx, f.recruiter, f.job.ID)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.candidate, f.job.ID, SubmitInput{})
	assert.True(t, apperr.IsKind(err, apperr.JobUnavailable))
}

func TestSubmitDuplicate(t *testing.T) {
	f := newFixture(t)
	f.submit(t)

	_, err := f.svc.Submit(context.Background(), f.candidate, f.job.ID, SubmitInput{})
	assert.ErrorIs(t, err, ErrDuplicate)

	mine, err := f.svc.ListMine(context.Background(), f.candidate)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestSubmitConcurrentDuplicatesYieldOneRecord(t *testing.T) {
	f := newFixture(t)
	const attempts = 16

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(context.Background(), f.candidate, f.job.ID, SubmitInput{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrDuplicate):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, duplicates)
	apps, err := f.repo.ListByJob(context.Background(), f.job.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestSnapshotIsDecoupledFromProfile(t *testing.T) {
	f := newFixture(t)
	app := f.submit(t)

	_, err := f.users.SetResume(context.Background(), f.candidate.ID, &users.ResumeArtifact{StorageKey: "k", FileName: "later.pdf"})
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Resume)
	assert.Equal(t, []string{"react", "node"}, stored.Snapshot.Skills)
}

func TestSubmitStoresUploadedResume(t *testing.T) {
	f := newFixture(t)

	app, err := f.svc.Submit(context.Background(), f.candidate, f.job.ID, SubmitInput{
		Resume: &Upload{FileName: "cv.rtf", Body: strings.NewReader(rtfResume)},
	})
	require.NoError(t, err)
	require.NotNil(t, app.Resume)
	assert.Equal(t, "cv.rtf", app.Resume.FileName)
	assert.NotEmpty(t, app.Resume.StorageKey)

	body, err := f.resumes.Store.Open(context.Background(), app.Resume.StorageKey)
	require.NoError(t, err)
	_ = body.Close()
}

func TestSubmitWithoutUploadDoesNotReferenceProfileResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.resumes.Upload(ctx, f.candidate, "profile.rtf", strings.NewReader(rtfResume))
	require.NoError(t, err)

	app := f.submit(t)
	assert.Nil(t, app.Resume)

	_, err = f.resumes.Upload(ctx, f.candidate, "newer.rtf", strings.NewReader(rtfResume))
	require.NoError(t, err)
	stored, err := f.repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Resume)
}

func TestAttachedResumeSurvivesProfileReplaceAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.resumes.Upload(ctx, f.candidate, "profile.rtf", strings.NewReader(rtfResume))
	require.NoError(t, err)

	app, err := f.svc.Submit(ctx, f.candidate, f.job.ID, SubmitInput{
		Resume: &Upload{FileName: "cv.rtf", Body: strings.NewReader(rtfResume)},
	})
	require.NoError(t, err)
	require.NotNil(t, app.Resume)

	_, err = f.resumes.Upload(ctx, f.candidate, "newer.rtf", strings.NewReader(rtfResume))
	require.NoError(t, err)
	require.NoError(t, f.resumes.Delete(ctx, f.candidate))

	body, err := f.resumes.Store.Open(ctx, app.Resume.StorageKey)
	require.NoError(t, err)
	_ = body.Close()
}

func TestSubmitRejectsInvalidResume(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), f.candidate, f.job.ID, SubmitInput{
		Resume: &Upload{FileName: "cv.exe", Body: strings.NewReader("MZ not a resume")},
	})
	assert.True(t, apperr.IsKind(err, apperr.ValidationError))

	apps, err := f.repo.ListByJob(context.Background(), f.job.ID)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestSubmitStorageFailureCreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.svc.Resumes = &failingResumes{putErr: apperr.Wrap(apperr.UpstreamError, "failed to store resume", errors.New("bucket gone"))}

	_, err := f.svc.Submit(context.Background(), f.candidate, f.job.ID, SubmitInput{
		Resume: &Upload{FileName: "cv.rtf", Body: strings.NewReader(rtfResume)},
	})
	assert.True(t, apperr.IsKind(err, apperr.UpstreamError))

	apps, err := f.repo.ListByJob(context.Background(), f.job.ID)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestSubmitInsertFailureDiscardsStoredResume(t *testing.T) {
	f := newFixture(t)
	store := &failingResumes{}
	f.svc.Resumes = store
	f.svc.Repo = failingCreate{Repo: f.repo}

	_, err := f.svc.Submit(context.Background(), f.candidate, f.job.ID, SubmitInput{
		Resume: &Upload{FileName: "cv.rtf", Body: strings.NewReader(rtfResume)},
	})
	require.Error(t, err)
	assert.Equal(t, []string{f.candidate.ID + "/cv.rtf"}, store.discarded)
}

func TestListForJobRanksByScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	weak := f.submit(t)
	strong := f.newCandidate(t, "grace@example.com", "react", "node", "sql")
	strongApp, err := f.svc.Submit(ctx, strong, f.job.ID, SubmitInput{})
	require.NoError(t, err)
	tied := f.newCandidate(t, "linus@example.com", "react", "node", "sql")
	tiedApp, err := f.svc.Submit(ctx, tied, f.job.ID, SubmitInput{})
	require.NoError(t, err)

	ranked, err := f.svc.ListForJob(ctx, f.recruiter, f.job.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, strongApp.ID, ranked[0].Application.ID)
	assert.Equal(t, tiedApp.ID, ranked[1].Application.ID)
	assert.Equal(t, weak.ID, ranked[2].Application.ID)
	assert.Equal(t, 75, ranked[2].Match.Score)
	// full skills and experience, no location preference: 60 + 25 + 10.5
	assert.Equal(t, 96, ranked[0].Match.Score)
}

func TestListForJobIsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.submit(t)

	_, err := f.svc.ListForJob(context.Background(), f.other, f.job.ID)
	assert.ErrorIs(t, err, jobs.ErrForbidden)

	ranked, err := f.svc.ListForJob(context.Background(), f.admin, f.job.ID)
	require.NoError(t, err)
	assert.Len(t, ranked, 1)
}

func TestListForRecruiterAndLinks(t *testing.T) {
	f := newFixture(t)
	app := f.submit(t)
	ctx := context.Background()

	got, err := f.svc.ListForRecruiter(ctx, f.recruiter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, app.ID, got[0].ID)

	empty, err := f.svc.ListForRecruiter(ctx, f.other)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.svc.ListForRecruiter(ctx, f.candidate)
	assert.ErrorIs(t, err, ErrRecruiterOnly)

	linked, err := f.svc.ExistsForRecruiterCandidate(ctx, f.recruiter.ID, f.candidate.ID)
	require.NoError(t, err)
	assert.True(t, linked)
	linked, err = f.svc.ExistsForRecruiterCandidate(ctx, f.other.ID, f.candidate.ID)
	require.NoError(t, err)
	assert.False(t, linked)
}

func TestGetHidesOtherPeoplesApplications(t *testing.T) {
	f := newFixture(t)
	app := f.submit(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, f.other, app.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.svc.Get(ctx, f.candidate, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)
}
