package prescription

import (
	"context"
	"database/sql"
	"encoding/json"
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

func (r *Repository) ExistsForAppointment(ctx context.Context, q db.Querier, appointmentID string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM prescriptions WHERE appointment_id = $1)`, appointmentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check prescription: %w", err)
	}
	return exists, nil
}

// Insert stores medicines as a JSONB array so their order survives.
func (r *Repository) Insert(ctx context.Context, q db.Querier, p *Prescription) error {
	p.ID = uuid.New().String()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	medicines, err := json.Marshal(p.Medicines)
	if err != nil {
		return fmt.Errorf("failed to encode medicines: %w", err)
	}

	var notes sql.NullString
	if p.Notes != "" {
		notes = sql.NullString{String: p.Notes, Valid: true}
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO prescriptions (id, appointment_id, doctor_id, patient_id, medicines, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.AppointmentID, p.DoctorID, p.PatientID, string(medicines), notes, p.CreatedAt)
	if db.IsUniqueViolation(err, "prescriptions_appointment_id_key") {
		return ErrDuplicatePrescription
	}
	if err != nil {
		return fmt.Errorf("failed to insert prescription: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Detail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPrescriptionNotFound
	}

	var (
		d         Detail
		medicines []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT pr.id, pr.appointment_id, pr.doctor_id, pr.patient_id, pr.medicines,
			COALESCE(pr.notes, ''), pr.created_at,
			p.id, p.name, p.age, p.gender, p.address,
			u.id, u.name, COALESCE(u.specialization, '')
		FROM prescriptions pr
		JOIN patients p ON p.id = pr.patient_id
		JOIN users u ON u.id = pr.doctor_id
		WHERE pr.id = $1
	`, id).Scan(
		&d.ID, &d.AppointmentID, &d.DoctorID, &d.PatientID, &medicines, &d.Notes, &d.CreatedAt,
		&d.Patient.ID, &d.Patient.Name, &d.Patient.Age, &d.Patient.Gender, &d.Patient.Address,
		&d.Doctor.ID, &d.Doctor.Name, &d.Doctor.Specialization,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	if err := json.Unmarshal(medicines, &d.Medicines); err != nil {
		return nil, fmt.Errorf("failed to decode medicines: %w", err)
	}
	return &d, nil
}
