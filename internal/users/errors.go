package users

import "github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"

var (
	ErrMissingName        = apperror.InvalidInput("missing_name", "name is required")
	ErrInvalidEmail       = apperror.InvalidInput("invalid_email", "a valid email is required")
	ErrWeakPassword       = apperror.InvalidInput("weak_password", "password must be at least 6 characters")
	ErrInvalidRole        = apperror.InvalidInput("invalid_role", "role must be Doctor or Receptionist")
	ErrEmailTaken         = apperror.Conflict("email_taken", "an account with this email already exists")
	ErrUserNotFound       = apperror.NotFound("user_not_found", "user not found")
	ErrInvalidCredentials = apperror.Unauthenticated("invalid_credentials", "invalid email or password")
)
