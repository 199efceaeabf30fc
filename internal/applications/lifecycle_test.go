package applications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/shared/apperr"
)

var allStatuses = []Status{StatusApplied, StatusShortlisted, StatusInterviewed, StatusAccepted, StatusRejected}

func TestTransitionTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusApplied, StatusShortlisted}:     true,
		{StatusApplied, StatusRejected}:        true,
		{StatusShortlisted, StatusInterviewed}: true,
		{StatusShortlisted, StatusRejected}:    true,
		{StatusInterviewed, StatusAccepted}:    true,
		{StatusInterviewed, StatusRejected}:    true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			t.Run(fmt.Sprintf("%s_to_%s", from, to), func(t *testing.T) {
				assert.Equal(t, allowed[[2]Status{from, to}], CanTransition(from, to))
			})
		}
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusAccepted.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusApplied.Terminal())
	assert.False(t, Status("bogus").Terminal())
	assert.Empty(t, NextStatuses(StatusAccepted))
}

func TestParseStatus(t *testing.T) {
	got, ok := ParseStatus(" Shortlisted ")
	assert.True(t, ok)
	assert.Equal(t, StatusShortlisted, got)

	_, ok = ParseStatus("hired")
	assert.False(t, ok)
}

func TestTransitionHappyPath(t *testing.T) {
	f := newFixture(t)
	app := f.submit(t)
	ctx := context.Background()

	for _, target := range []Status{StatusShortlisted, StatusInterviewed, StatusAccepted} {
		updated, err := f.authority.Transition(ctx, f.recruiter, app.ID, string(target))
		require.NoError(t, err)
		assert.Equal(t, target, updated.Status)
		assert.False(t, updated.UpdatedAt.Before(app.UpdatedAt))
	}

	_, err := f.authority.Transition(ctx, f.recruiter, app.ID, string(StatusRejected))
	assert.True(t, apperr.IsKind(err, apperr.InvalidTransition))
}

func TestTransitionSkippingStepsFails(t *testing.T) {
	f := newFixture(t)
	app := f.submit(t)

	_, err := f.authority.Transition(context.Background(), f.recruiter, app.ID, "accepted")
	assert.True(t, apperr.IsKind(err, apperr.InvalidTransition))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "cannot move application from applied to accepted", apperr.MessageOf(err))

	stored, err := f.repo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApplied, stored.Status)
}

func TestRejectFromEveryOpenState(t *testing.T) {
	paths := map[Status][]Status{
		StatusApplied:     nil,
		StatusShortlisted: {StatusShortlisted},
		StatusInterviewed: {StatusShortlisted, StatusInterviewed},
	}
	for from, steps := range paths {
		t.Run(string(from), func(t *testing.T) {
			f := newFixture(t)
			app := f.submit(t)
			ctx := context.Background()
			for _, s := range steps {
				_, err := f.authority.Transition(ctx, f.recruiter, app.ID, string(s))
				require.NoError(t, err)
			}
			updated, err := f.authority.Transition(ctx, f.admin, app.ID, "rejected")
			require.NoError(t, err)
			assert.Equal(t, StatusRejected, updated.Status)

			_, err = f.authority.Transition(ctx, f.admin, app.ID, "shortlisted")
			assert.True(t, apperr.IsKind(err, apperr.InvalidTransition))
		})
	}
}

func TestTransitionAuthorization(t *testing.T) {
	f := newFixture(t)
	app := f.submit(t)
	ctx := context.Background()

	for _, p := range []identity.Principal{f.other, f.candidate, {}} {
		_, err := f.authority.Transition(ctx, p, app.ID, "shortlisted")
		assert.True(t, apperr.IsKind(err, apperr.Forbidden), "principal %+v", p)
	}

	_, err := f.authority.Transition(ctx, f.recruiter, "missing", "shortlisted")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	_, err = f.authority.Transition(ctx, f.recruiter, app.ID, "hired")
	assert.True(t, apperr.IsKind(err, apperr.ValidationError))

	_, err = f.authority.Transition(ctx, f.other, app.ID, "hired")
	assert.True(t, apperr.IsKind(err, apperr.Forbidden))
}

func TestTransitionLosesRaceAsInvalid(t *testing.T) {
	f := newFixture(t)
	app := f.submit(t)
	ctx := context.Background()

	// Another writer moved the application after it was read.
	stale := &Authority{Repo: staleRepo{Repo: f.repo, status: StatusApplied}, Owners: f.jobs, Now: time.Now}
	_, err := f.authority.Transition(ctx, f.recruiter, app.ID, "rejected")
	require.NoError(t, err)

	_, err = stale.Transition(ctx, f.recruiter, app.ID, "shortlisted")
	assert.True(t, apperr.IsKind(err, apperr.InvalidTransition))

	stored, err := f.repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
}

// staleRepo reports an outdated status on reads.
type staleRepo struct {
	Repo
	status Status
}

func (r staleRepo) GetByID(ctx context.Context, id string) (Application, error) {
	app, err := r.Repo.GetByID(ctx, id)
	app.Status = r.status
	return app, err
}
