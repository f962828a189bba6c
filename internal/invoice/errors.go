package invoice

import "github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"

var (
	ErrMissingAppointmentID = apperror.InvalidInput("missing_appointment_id", "Appointment is required")
	ErrInvalidAmount        = apperror.InvalidInput("invalid_amount", "Total amount must be greater than zero")
	ErrInvalidPaymentMethod = apperror.InvalidInput("invalid_payment_method", "Payment method must be Cash, Card, UPI or Insurance")
	ErrDuplicateInvoice     = apperror.Conflict("duplicate_invoice", "Invoice already generated for this appointment")
	ErrInvoiceNotFound      = apperror.NotFound("invoice_not_found", "Invoice not found")
)
