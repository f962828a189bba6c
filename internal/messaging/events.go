package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	EventPatientRegistered = "patient.registered"

	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentStatusChanged = "appointment.status_changed"

	EventPrescriptionCreated = "prescription.created"

	EventInvoiceCreated = "invoice.created"
)

const serviceName = "clinic-service"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// ID is used as the AMQP message id.
func (e BaseEvent) ID() string {
	return e.EventID
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: serviceName,
	}
}

type PatientRegisteredEvent struct {
	BaseEvent
	Data PatientRegisteredData `json:"data"`
}

type PatientRegisteredData struct {
	PatientID    string    `json:"patient_id"`
	Name         string    `json:"name"`
	Contact      string    `json:"contact"`
	RegisteredBy string    `json:"registered_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type AppointmentBookedEvent struct {
	BaseEvent
	Data AppointmentBookedData `json:"data"`
}

type AppointmentBookedData struct {
	AppointmentID  string `json:"appointment_id"`
	PatientID      string `json:"patient_id"`
	DoctorID       string `json:"doctor_id"`
	ReceptionistID string `json:"receptionist_id,omitempty"`
	VisitDay       string `json:"visit_day"`
	TokenNumber    int    `json:"token_number"`
	Type           string `json:"type"`
}

type AppointmentStatusChangedEvent struct {
	BaseEvent
	Data AppointmentStatusChangedData `json:"data"`
}

type AppointmentStatusChangedData struct {
	AppointmentID string    `json:"appointment_id"`
	DoctorID      string    `json:"doctor_id"`
	TokenNumber   int       `json:"token_number"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	Trigger       string    `json:"trigger"` // manual, prescription, invoice, dayclose
	ChangedBy     string    `json:"changed_by,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

type PrescriptionCreatedEvent struct {
	BaseEvent
	Data PrescriptionCreatedData `json:"data"`
}

type PrescriptionCreatedData struct {
	PrescriptionID string    `json:"prescription_id"`
	AppointmentID  string    `json:"appointment_id"`
	DoctorID       string    `json:"doctor_id"`
	PatientID      string    `json:"patient_id"`
	MedicineCount  int       `json:"medicine_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type InvoiceCreatedEvent struct {
	BaseEvent
	Data InvoiceCreatedData `json:"data"`
}

type InvoiceCreatedData struct {
	InvoiceID     string    `json:"invoice_id"`
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	GeneratedBy   string    `json:"generated_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
