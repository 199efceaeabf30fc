package users

import "jobboard-backend/internal/shared/apperr"

var (
	ErrNotFound   = apperr.New(apperr.NotFound, "user not found")
	ErrEmailTaken = apperr.New(apperr.ValidationError, "email already registered")
	ErrBlocked    = apperr.New(apperr.Forbidden, "account is blocked")
)
