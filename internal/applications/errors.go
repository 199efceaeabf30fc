package applications

import "jobboard-backend/internal/shared/apperr"

var (
	ErrNotFound          = apperr.New(apperr.NotFound, "application not found")
	ErrDuplicate         = apperr.New(apperr.DuplicateApplication, "you have already applied to this job")
	ErrJobUnavailable    = apperr.New(apperr.JobUnavailable, "job not available")
	ErrForbidden         = apperr.New(apperr.Forbidden, "not allowed to manage this application")
	ErrCandidateOnly     = apperr.New(apperr.Forbidden, "only candidates may apply to jobs")
	ErrRecruiterOnly     = apperr.New(apperr.Forbidden, "only recruiters may list received applications")
	ErrInvalidTransition = apperr.New(apperr.InvalidTransition, "status change not allowed")
	ErrUnknownStatus     = apperr.New(apperr.ValidationError, "unknown application status")

	// errStatusChanged is returned by repos when the compare-and-set on
	// status matched no row.
	errStatusChanged = apperr.New(apperr.InvalidTransition, "application status changed concurrently")
)
