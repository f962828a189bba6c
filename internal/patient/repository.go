package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/pagination"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

func nullUUID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

func (r *Repository) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (id, name, age, gender, contact, address, registered_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Name, p.Age, p.Gender, p.Contact, p.Address, nullUUID(p.RegisteredBy), p.CreatedAt)
	if db.IsUniqueViolation(err, "patients_contact_key") {
		return ErrDuplicateContact
	}
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	p.MedicalHistory = []HistoryEntry{}
	return nil
}

const patientColumns = `id, name, age, gender, contact, address, COALESCE(registered_by::text, ''), created_at`

func scanPatient(row interface{ Scan(...interface{}) error }) (*Patient, error) {
	p := &Patient{}
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Contact, &p.Address, &p.RegisteredBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID loads a patient with the full history in insertion order.
func (r *Repository) GetByID(ctx context.Context, id string) (*Patient, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPatientNotFound
	}
	p, err := scanPatient(r.db.QueryRowContext(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	p.MedicalHistory, err = r.history(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) history(ctx context.Context, q db.Querier, patientID string) ([]HistoryEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT h.description, h.entry_date, COALESCE(h.added_by::text, ''), COALESCE(u.name, '')
		FROM patient_history h
		LEFT JOIN users u ON u.id = h.added_by
		WHERE h.patient_id = $1
		ORDER BY h.seq ASC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Description, &e.Date, &e.AddedBy, &e.AuthorName); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// escapeLike makes user input literal inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Search matches name or contact case-insensitively, newest registrations first.
func (r *Repository) Search(ctx context.Context, keyword string, params pagination.Params) ([]Patient, int, error) {
	where := ""
	args := []interface{}{}
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		where = `WHERE name ILIKE $1 OR contact ILIKE $1`
		args = append(args, "%"+escapeLike(keyword)+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM patients %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		patientColumns, where, n+1, n+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search patients: %w", err)
	}
	defer rows.Close()

	patients := []Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	return patients, total, rows.Err()
}

// AppendHistory adds an entry and returns the whole history. The patient row is
// locked so concurrent appends keep a consistent order.
func (r *Repository) AppendHistory(ctx context.Context, patientID string, entry HistoryEntry) ([]HistoryEntry, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, ErrPatientNotFound
	}

	var entries []HistoryEntry
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx, `SELECT id FROM patients WHERE id = $1 FOR UPDATE`, patientID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPatientNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock patient: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO patient_history (patient_id, description, entry_date, added_by)
			VALUES ($1, $2, $3, $4)
		`, patientID, entry.Description, entry.Date, nullUUID(entry.AddedBy)); err != nil {
			return fmt.Errorf("failed to append history: %w", err)
		}

		entries, err = r.history(ctx, tx, patientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check patient: %w", err)
	}
	return exists, nil
}
