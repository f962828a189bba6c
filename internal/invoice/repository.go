package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

// FindByAppointment returns the id of the appointment's invoice, or "".
func (r *Repository) FindByAppointment(ctx context.Context, q db.Querier, appointmentID string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM invoices WHERE appointment_id = $1`, appointmentID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to check invoice: %w", err)
	}
	return id, nil
}

func (r *Repository) Insert(ctx context.Context, q db.Querier, inv *Invoice) error {
	inv.ID = uuid.New().String()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}

	var generatedBy interface{}
	if inv.GeneratedBy != "" {
		generatedBy = inv.GeneratedBy
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO invoices (id, appointment_id, patient_id, total_amount, payment_method, status, generated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, inv.ID, inv.AppointmentID, inv.PatientID, inv.TotalAmount, inv.PaymentMethod, inv.Status, generatedBy, inv.CreatedAt)
	if db.IsUniqueViolation(err, "invoices_appointment_id_key") {
		return ErrDuplicateInvoice
	}
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Detail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvoiceNotFound
	}

	var d Detail
	err := r.db.QueryRowContext(ctx, `
		SELECT i.id, i.appointment_id, i.patient_id, i.total_amount, i.payment_method, i.status,
			COALESCE(i.generated_by::text, ''), i.created_at,
			p.id, p.name, p.contact, p.address,
			a.id, a.appointment_at, to_char(a.visit_day, 'YYYY-MM-DD'), a.token_number, a.status, a.type,
			u.id, u.name, COALESCE(u.specialization, '')
		FROM invoices i
		JOIN patients p ON p.id = i.patient_id
		JOIN appointments a ON a.id = i.appointment_id
		JOIN users u ON u.id = a.doctor_id
		WHERE i.id = $1
	`, id).Scan(
		&d.ID, &d.AppointmentID, &d.PatientID, &d.TotalAmount, &d.PaymentMethod, &d.Status,
		&d.GeneratedBy, &d.CreatedAt,
		&d.Patient.ID, &d.Patient.Name, &d.Patient.Contact, &d.Patient.Address,
		&d.Appointment.ID, &d.Appointment.Date, &d.Appointment.Day, &d.Appointment.TokenNumber,
		&d.Appointment.Status, &d.Appointment.Type,
		&d.Appointment.Doctor.ID, &d.Appointment.Doctor.Name, &d.Appointment.Doctor.Specialization,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &d, nil
}
