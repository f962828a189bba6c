package patient

import "github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"

var (
	ErrMissingName        = apperror.InvalidInput("missing_name", "Patient name is required")
	ErrInvalidAge         = apperror.InvalidInput("invalid_age", "Age must be between 0 and 150")
	ErrInvalidGender      = apperror.InvalidInput("invalid_gender", "Gender must be Male, Female or Other")
	ErrMissingContact     = apperror.InvalidInput("missing_contact", "Contact number is required")
	ErrMissingDescription = apperror.InvalidInput("missing_description", "History description is required")
	ErrDuplicateContact   = apperror.Conflict("duplicate_contact", "Patient with this contact number already exists")
	ErrPatientNotFound    = apperror.NotFound("patient_not_found", "Patient not found")
)
