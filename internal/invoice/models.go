package invoice

import (
	"math"
	"strings"
	"time"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/appointment"
)

type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "Cash"
	PaymentCard      PaymentMethod = "Card"
	PaymentUPI       PaymentMethod = "UPI"
	PaymentInsurance PaymentMethod = "Insurance"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentInsurance:
		return true
	}
	return false
}

type Status string

const (
	StatusPaid    Status = "Paid"
	StatusUnpaid  Status = "Unpaid"
	StatusPending Status = "Pending"
)

// Invoice bills exactly one appointment.
type Invoice struct {
	ID            string        `json:"id"`
	AppointmentID string        `json:"appointmentId"`
	PatientID     string        `json:"patientId"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        Status        `json:"status"`
	GeneratedBy   string        `json:"generatedBy,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type PatientInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

type AppointmentInfo struct {
	ID          string                    `json:"id"`
	Date        time.Time                 `json:"date"`
	Day         string                    `json:"day"`
	TokenNumber int                       `json:"tokenNumber"`
	Status      appointment.Status        `json:"status"`
	Type        appointment.Type          `json:"type"`
	Doctor      appointment.DoctorSummary `json:"doctor"`
}

// Detail is the printable bill.
type Detail struct {
	Invoice
	Patient     PatientInfo     `json:"patient"`
	Appointment AppointmentInfo `json:"appointment"`
}

// CreateRequest represents the request to bill an appointment
type CreateRequest struct {
	AppointmentID string        `json:"appointmentId"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// MaxAmount is the largest total a NUMERIC(12,2) column holds.
const MaxAmount = 9999999999.99

// Validate validates the request and defaults the payment method to Cash.
func (r *CreateRequest) Validate() error {
	r.AppointmentID = strings.TrimSpace(r.AppointmentID)
	if r.AppointmentID == "" {
		return ErrMissingAppointmentID
	}
	r.TotalAmount = math.Round(r.TotalAmount*100) / 100
	if !(r.TotalAmount > 0) {
		return ErrInvalidAmount
	}
	if r.TotalAmount > MaxAmount {
		return ErrInvalidAmount.WithMessage("Total amount must not exceed %.2f", MaxAmount)
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = PaymentCash
	}
	if !r.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}
