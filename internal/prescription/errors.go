package prescription

import "github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"

var (
	ErrMissingAppointmentID  = apperror.InvalidInput("missing_appointment_id", "Appointment is required")
	ErrInvalidPrescription   = apperror.InvalidInput("invalid_prescription", "Invalid prescription data")
	ErrDuplicatePrescription = apperror.Conflict("duplicate_prescription", "Prescription already written for this appointment")
	ErrPrescriptionNotFound  = apperror.NotFound("prescription_not_found", "Prescription not found")
)
