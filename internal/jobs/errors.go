package jobs

import (
	"jobboard-backend/internal/matching"
	"jobboard-backend/internal/shared/apperr"
)

var (
	ErrNotFound  = matching.ErrJobNotFound
	ErrForbidden = apperr.New(apperr.Forbidden, "only the owning recruiter may manage this job")
)
