package prescription

import (
	"strings"
	"time"
)

// Medicine is one line of a prescription. Instruction is optional.
type Medicine struct {
	Name        string `json:"name"`
	Dosage      string `json:"dosage"`
	Frequency   string `json:"frequency"`
	Duration    string `json:"duration"`
	Instruction string `json:"instruction,omitempty"`
}

// Prescription is written once by the assigned doctor and never edited.
// Medicines keep the order they were submitted in.
type Prescription struct {
	ID            string     `json:"id"`
	AppointmentID string     `json:"appointmentId"`
	DoctorID      string     `json:"doctorId"`
	PatientID     string     `json:"patientId"`
	Medicines     []Medicine `json:"medicines"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type PatientInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
}

type DoctorInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}

// Detail is a prescription with the header shown on the printed slip.
type Detail struct {
	Prescription
	Patient PatientInfo `json:"patient"`
	Doctor  DoctorInfo  `json:"doctor"`
}

// CreateRequest represents the request to write a prescription
type CreateRequest struct {
	AppointmentID string     `json:"appointmentId"`
	Medicines     []Medicine `json:"medicines"`
	Notes         string     `json:"notes"`
}

// Validate trims every field and rejects medicines missing a required value.
func (r *CreateRequest) Validate() error {
	r.AppointmentID = strings.TrimSpace(r.AppointmentID)
	r.Notes = strings.TrimSpace(r.Notes)

	if r.AppointmentID == "" {
		return ErrMissingAppointmentID
	}
	if len(r.Medicines) == 0 {
		return ErrInvalidPrescription.WithMessage("At least one medicine is required")
	}
	for i := range r.Medicines {
		m := &r.Medicines[i]
		m.Name = strings.TrimSpace(m.Name)
		m.Dosage = strings.TrimSpace(m.Dosage)
		m.Frequency = strings.TrimSpace(m.Frequency)
		m.Duration = strings.TrimSpace(m.Duration)
		m.Instruction = strings.TrimSpace(m.Instruction)

		for _, f := range []struct{ field, value string }{
			{"name", m.Name},
			{"dosage", m.Dosage},
			{"frequency", m.Frequency},
			{"duration", m.Duration},
		} {
			if f.value == "" {
				return ErrInvalidPrescription.
					WithMessage("Medicine %d is missing %s", i+1, f.field).
					WithDetail("index", i).
					WithDetail("field", f.field)
			}
		}
	}
	return nil
}
