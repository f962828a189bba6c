package appointment

import "github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"

var (
	ErrMissingPatientID    = apperror.InvalidInput("missing_patient_id", "Patient is required")
	ErrInvalidType         = apperror.InvalidInput("invalid_type", "Type must be Consultation, Follow-up or Emergency")
	ErrInvalidDoctor       = apperror.InvalidInput("invalid_doctor", "Invalid Doctor selected")
	ErrPatientNotFound     = apperror.NotFound("patient_not_found", "Patient not found")
	ErrAppointmentNotFound = apperror.NotFound("appointment_not_found", "Appointment not found")
	ErrInvalidStatus       = apperror.InvalidInput("invalid_status", "Invalid status update")
	ErrInvalidTransition   = apperror.Conflict("invalid_transition", "Status change is not allowed")
	ErrDuplicateBooking    = apperror.Conflict("duplicate_booking", "Appointment already exists")
	ErrNotAssignedDoctor   = apperror.Unauthorized("not_assigned_doctor", "Not authorized to treat this patient")
	ErrFutureCutoff        = apperror.InvalidInput("future_cutoff", "Cannot close a day that has not ended")
	ErrNotBillable         = apperror.Conflict("not_billable", "Only completed appointments can be billed")
)
