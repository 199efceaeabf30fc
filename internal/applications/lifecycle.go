package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/telemetry"
)

type Status string

const (
	StatusApplied     Status = "applied"
	StatusShortlisted Status = "shortlisted"
	StatusInterviewed Status = "interviewed"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
)

// transitions lists the legal next states. Terminal states have none.
var transitions = map[Status][]Status{
	StatusApplied:     {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusInterviewed, StatusRejected},
	StatusInterviewed: {StatusAccepted, StatusRejected},
	StatusAccepted:    nil,
	StatusRejected:    nil,
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := transitions[s]
	return s, ok
}

func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// NextStatuses returns the states reachable from s in one step.
func NextStatuses(s Status) []Status {
	return append([]Status(nil), transitions[s]...)
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OwnerLookup resolves the recruiter owning a job.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, jobID string) (string, error)
}

// Authority is the single place where application status changes are
// authorized and validated.
type Authority struct {
	Repo   Repo
	Owners OwnerLookup
	Now    func() time.Time
}

func NewAuthority(repo Repo, owners OwnerLookup) *Authority {
	return &Authority{Repo: repo, Owners: owners, Now: time.Now}
}

// Transition moves an application to target. Only the recruiter owning the
// job, read at call time, or an admin may do so.
func (a *Authority) Transition(ctx context.Context, p identity.Principal, applicationID, target string) (Application, error) {
	if a == nil || a.Repo == nil || a.Owners == nil {
		return Application{}, errors.New("lifecycle authority not configured")
	}
	app, err := a.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	if err := a.authorize(ctx, p, app.JobID); err != nil {
		return Application{}, err
	}

	to, ok := ParseStatus(target)
	if !ok {
		return Application{}, ErrUnknownStatus
	}
	from := app.Status
	if !CanTransition(from, to) {
		return Application{}, apperr.Wrap(apperr.InvalidTransition, "cannot move application from "+string(from)+" to "+string(to), ErrInvalidTransition)
	}

	updated, err := a.Repo.UpdateStatus(ctx, applicationID, from, to, a.now())
	if err != nil {
		if errors.Is(err, errStatusChanged) {
			telemetry.Warn("application.transition.conflict", map[string]any{
				"application_id": applicationID,
				"from":           string(from),
				"to":             string(to),
			})
		}
		return Application{}, err
	}
	metrics.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
	telemetry.Info("application.transition", map[string]any{
		"application_id": applicationID,
		"from":           string(from),
		"to":             string(to),
		"user_id":        p.ID,
	})
	return updated, nil
}

func (a *Authority) authorize(ctx context.Context, p identity.Principal, jobID string) error {
	if p.IsAdmin() {
		return nil
	}
	if !p.Is(identity.RoleRecruiter) {
		return ErrForbidden
	}
	owner, err := a.Owners.OwnerOf(ctx, jobID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return ErrForbidden
		}
		return err
	}
	if owner != p.ID {
		return ErrForbidden
	}
	return nil
}

func (a *Authority) now() time.Time {
	if a.Now == nil {
		return time.Now().UTC()
	}
	return a.Now().UTC()
}
