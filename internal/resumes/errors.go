package resumes

import "jobboard-backend/internal/shared/apperr"

var (
	ErrForbidden     = apperr.New(apperr.Forbidden, "not allowed to access this resume")
	ErrNoResume      = apperr.New(apperr.NotFound, "resume not found")
	ErrUpstream      = apperr.New(apperr.UpstreamError, "resume storage is unavailable")
	ErrCandidateOnly = apperr.New(apperr.Forbidden, "only candidates may manage a profile resume")
)
