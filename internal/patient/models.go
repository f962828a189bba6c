package patient

import (
	"strings"
	"time"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/pagination"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Patient is a registered patient. Contact numbers are unique across the clinic.
type Patient struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Age            int            `json:"age"`
	Gender         Gender         `json:"gender"`
	Contact        string         `json:"contact"`
	Address        string         `json:"address"`
	RegisteredBy   string         `json:"registeredBy,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	MedicalHistory []HistoryEntry `json:"medicalHistory"`
}

// HistoryEntry is one append-only line of a patient's medical history.
type HistoryEntry struct {
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	AddedBy     string    `json:"addedBy,omitempty"`
	AuthorName  string    `json:"authorName,omitempty"`
}

// RegisterPatientRequest represents the request to register a new patient
type RegisterPatientRequest struct {
	Name    string `json:"name"`
	Age     *int   `json:"age"`
	Gender  Gender `json:"gender"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// Validate validates and normalizes the register request
func (r *RegisterPatientRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Contact = strings.TrimSpace(r.Contact)
	r.Address = strings.TrimSpace(r.Address)

	if r.Name == "" {
		return ErrMissingName
	}
	if r.Age == nil || *r.Age < 0 || *r.Age > 150 {
		return ErrInvalidAge
	}
	if !r.Gender.Valid() {
		return ErrInvalidGender
	}
	if r.Contact == "" {
		return ErrMissingContact
	}
	return nil
}

type AddHistoryRequest struct {
	Description string `json:"description"`
}

// SearchResult is one page of a patient search, newest first.
type SearchResult struct {
	Patients   []Patient       `json:"patients"`
	Pagination pagination.Meta `json:"pagination"`
}
