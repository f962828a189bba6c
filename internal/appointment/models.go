package appointment

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In-Progress"
	StatusCompleted  Status = "Completed"
	StatusBilled     Status = "Billed"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBilled, StatusCancelled:
		return true
	}
	return false
}

// Manual reports whether staff may pick s from the status dropdown.
// Billed is only reached by creating an invoice.
func (s Status) Manual() bool {
	return s.Valid() && s != StatusBilled
}

func (s Status) Terminal() bool {
	return s == StatusBilled || s == StatusCancelled
}

type Type string

const (
	TypeConsultation Type = "Consultation"
	TypeFollowUp     Type = "Follow-up"
	TypeEmergency    Type = "Emergency"
)

func (t Type) Valid() bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeEmergency:
		return true
	}
	return false
}

// Appointment is one visit in a doctor's daily queue. TokenNumber never
// changes after booking; Status only moves through the state machine.
type Appointment struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patientId"`
	DoctorID       string    `json:"doctorId"`
	ReceptionistID string    `json:"receptionistId,omitempty"`
	Date           time.Time `json:"date"`
	Day            string    `json:"day"` // clinic day, YYYY-MM-DD
	TokenNumber    int       `json:"tokenNumber"`
	Status         Status    `json:"status"`
	Type           Type      `json:"type"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type PatientSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Contact string `json:"contact"`
}

type DoctorSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}

// QueueEntry is an appointment joined with the patient and doctor shown on the queue board.
type QueueEntry struct {
	Appointment
	Patient PatientSummary `json:"patient"`
	Doctor  DoctorSummary  `json:"doctor"`
}

// BookRequest represents the request to book a token
type BookRequest struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Type      Type   `json:"type"`
}

// Validate validates and normalizes the booking request
func (r *BookRequest) Validate() error {
	r.PatientID = strings.TrimSpace(r.PatientID)
	r.DoctorID = strings.TrimSpace(r.DoctorID)

	if r.PatientID == "" {
		return ErrMissingPatientID
	}
	if r.DoctorID == "" {
		return ErrInvalidDoctor
	}
	if r.Type == "" {
		r.Type = TypeConsultation
	}
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// QueueFilter narrows the daily queue. Empty fields match everything.
type QueueFilter struct {
	DoctorID string
	Status   Status
}

// StatusChange records one applied transition.
type StatusChange struct {
	AppointmentID string
	DoctorID      string
	TokenNumber   int
	From          Status
	To            Status
	Trigger       Trigger
	ChangedBy     string
	ChangedAt     time.Time
}
