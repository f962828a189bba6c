package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
)

const defaultTestDSN = "host=localhost port=5432 user=postgres password=postgres dbname=clinic_test sslmode=disable"

// SetupTestDB connects to the test database, applies migrations and
// truncates every table when the test ends.
// TEST_DATABASE_URL overrides the local default.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Skipf("Test database not reachable: %v", err)
	}
	if err := db.Migrate(context.Background(), conn, zap.NewNop()); err != nil {
		conn.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	CleanupTestDB(t, conn)
	t.Cleanup(func() {
		CleanupTestDB(t, conn)
		conn.Close()
	})
	return conn
}

// CleanupTestDB removes all rows written by a test.
func CleanupTestDB(t *testing.T, conn *sql.DB) {
	t.Helper()

	_, err := conn.Exec(`TRUNCATE TABLE invoices, prescriptions, appointment_counters, appointments,
		patient_history, patients, users CASCADE`)
	if err != nil {
		t.Logf("Warning: Failed to clean up test data: %v", err)
	}
}

// CreateTestUser inserts a staff user and returns its id.
func CreateTestUser(t *testing.T, conn *sql.DB, name, email, role, specialization string) string {
	t.Helper()

	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var id string
	err = conn.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, specialization)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id`, name, email, hash, role, specialization).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// CreateTestPatient inserts a patient and returns its id.
func CreateTestPatient(t *testing.T, conn *sql.DB, name, contact, registeredBy string) string {
	t.Helper()

	var id string
	err := conn.QueryRow(`
		INSERT INTO patients (name, age, gender, contact, address, registered_by)
		VALUES ($1, 30, 'Other', $2, '', $3)
		RETURNING id`, name, contact, registeredBy).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test patient: %v", err)
	}
	return id
}
