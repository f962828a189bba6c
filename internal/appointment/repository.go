package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/clinicday"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
)

const (
	tokenConstraint   = "appointments_doctor_day_token_key"
	bookingConstraint = "appointments_active_booking_key"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

const appointmentColumns = `a.id, a.patient_id, a.doctor_id, COALESCE(a.receptionist_id::text, ''),
	a.appointment_at, to_char(a.visit_day, 'YYYY-MM-DD'), a.token_number, a.status, a.type,
	a.created_at, a.updated_at`

func scanAppointment(row interface{ Scan(...interface{}) error }, extra ...interface{}) (*Appointment, error) {
	a := &Appointment{}
	dest := []interface{}{
		&a.ID, &a.PatientID, &a.DoctorID, &a.ReceptionistID,
		&a.Date, &a.Day, &a.TokenNumber, &a.Status, &a.Type,
		&a.CreatedAt, &a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return a, nil
}

// WithDayLock seeds the (doctor, day) counter row from existing tokens and
// locks it for the duration of fn.
func (r *Repository) WithDayLock(ctx context.Context, doctorID string, day clinicday.Day, fn LockedFunc) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO appointment_counters (doctor_id, visit_day, last_token)
			SELECT $1, $2::date, COALESCE(MAX(token_number), 0)
			FROM appointments
			WHERE doctor_id = $1 AND visit_day = $2::date
			ON CONFLICT (doctor_id, visit_day) DO NOTHING
		`, doctorID, day.String()); err != nil {
			return fmt.Errorf("failed to seed token counter: %w", err)
		}

		var last int
		if err := tx.QueryRowContext(ctx, `
			SELECT last_token FROM appointment_counters
			WHERE doctor_id = $1 AND visit_day = $2::date
			FOR UPDATE
		`, doctorID, day.String()).Scan(&last); err != nil {
			return fmt.Errorf("failed to lock token counter: %w", err)
		}

		return fn(ctx, tx)
	})
}

// FindActiveBooking returns the non-cancelled booking for the triple, or nil.
func (r *Repository) FindActiveBooking(ctx context.Context, q db.Querier, patientID, doctorID string, day clinicday.Day) (*Appointment, error) {
	a, err := scanAppointment(q.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		WHERE a.patient_id = $1 AND a.doctor_id = $2 AND a.visit_day = $3::date
		  AND a.status <> 'Cancelled'
		LIMIT 1
	`, patientID, doctorID, day.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	}
	return a, nil
}

// NextToken increments the locked counter. Cancelled appointments keep
// their token, so numbers are never reused.
func (r *Repository) NextToken(ctx context.Context, q db.Querier, doctorID string, day clinicday.Day) (int, error) {
	var token int
	err := q.QueryRowContext(ctx, `
		UPDATE appointment_counters SET last_token = last_token + 1
		WHERE doctor_id = $1 AND visit_day = $2::date
		RETURNING last_token
	`, doctorID, day.String()).Scan(&token)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate token: %w", err)
	}
	return token, nil
}

func nullUUID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

func (r *Repository) Insert(ctx context.Context, q db.Querier, a *Appointment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = a.Date
	a.UpdatedAt = a.Date

	_, err := q.ExecContext(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, receptionist_id, appointment_at, visit_day,
			token_number, status, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11)
	`, a.ID, a.PatientID, a.DoctorID, nullUUID(a.ReceptionistID), a.Date, a.Day,
		a.TokenNumber, a.Status, a.Type, a.CreatedAt, a.UpdatedAt)
	switch {
	case db.IsUniqueViolation(err, bookingConstraint):
		return ErrDuplicateBooking
	case db.IsUniqueViolation(err, tokenConstraint):
		return fmt.Errorf("token %d already taken for doctor %s on %s: %w", a.TokenNumber, a.DoctorID, a.Day, err)
	case err != nil:
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *Repository) WithLockedAppointment(ctx context.Context, id string, fn AppointmentFunc) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrAppointmentNotFound
	}
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		a, err := scanAppointment(tx.QueryRowContext(ctx, `
			SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1 FOR UPDATE
		`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAppointmentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock appointment: %w", err)
		}
		return fn(ctx, tx, a)
	})
}

func (r *Repository) SetStatus(ctx context.Context, q db.Querier, id string, status Status, at time.Time) error {
	res, err := q.ExecContext(ctx, `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAppointmentNotFound
	}
	a, err := scanAppointment(r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return a, nil
}

// ListQueue returns the day's appointments in token order with patient and
// doctor details.
func (r *Repository) ListQueue(ctx context.Context, day clinicday.Day, filter QueueFilter) ([]QueueEntry, error) {
	conds := []string{"a.visit_day = $1::date"}
	args := []interface{}{day.String()}
	if filter.DoctorID != "" {
		if _, err := uuid.Parse(filter.DoctorID); err != nil {
			return []QueueEntry{}, nil
		}
		args = append(args, filter.DoctorID)
		conds = append(conds, fmt.Sprintf("a.doctor_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`,
			p.id, p.name, p.age, p.gender, p.contact,
			u.id, u.name, COALESCE(u.specialization, '')
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN users u ON u.id = a.doctor_id
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY a.token_number ASC, u.name ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	defer rows.Close()

	entries := []QueueEntry{}
	for rows.Next() {
		var e QueueEntry
		a, err := scanAppointment(rows,
			&e.Patient.ID, &e.Patient.Name, &e.Patient.Age, &e.Patient.Gender, &e.Patient.Contact,
			&e.Doctor.ID, &e.Doctor.Name, &e.Doctor.Specialization,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		e.Appointment = *a
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListOpenBefore returns ids of Pending or In-Progress appointments from
// clinic days earlier than day.
func (r *Repository) ListOpenBefore(ctx context.Context, day clinicday.Day) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM appointments
		WHERE visit_day < $1::date AND status IN ('Pending', 'In-Progress')
		ORDER BY visit_day, doctor_id, token_number
	`, day.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list open appointments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan appointment id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
