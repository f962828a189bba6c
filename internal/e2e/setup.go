//go:build integration

package e2e

import (
	"database/sql"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/appointment"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/clinicday"
	httpserver "github.com/AdiyaTakhell/Clinic-Management-System/internal/http"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/invoice"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/patient"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/prescription"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/testutil"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/users"
)

// TestServer represents a complete E2E test environment
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	MockPublisher *testutil.MockPublisher
	Verifier      *auth.Verifier
	Appointments  *appointment.Service
}

// SetupE2ETest wires the real router to a real PostgreSQL database with an
// in-memory event publisher.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	publisher := testutil.NewMockPublisher()
	verifier := testutil.CreateTestVerifier(t)
	log := zap.NewNop()

	perms, err := auth.LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}

	calendar, err := clinicday.NewCalendar("UTC")
	if err != nil {
		t.Fatalf("Failed to build calendar: %v", err)
	}

	userRepo := users.NewRepository(conn)
	patientRepo := patient.NewRepository(conn)
	appointments := appointment.NewService(
		appointment.NewRepository(conn),
		userRepo,
		patientRepo,
		calendar,
		appointment.StateMachine{},
		publisher,
		nil,
		log,
	)

	router := httpserver.SetupRouter(httpserver.Deps{
		Users:         users.NewHandler(users.NewService(userRepo, verifier, log), log),
		Patients:      patient.NewHandler(patient.NewService(patientRepo, publisher, nil, log), log),
		Appointments:  appointment.NewHandler(appointments, log),
		Prescriptions: prescription.NewHandler(prescription.NewService(prescription.NewRepository(conn), appointments, publisher, nil, log), log),
		Invoices: invoice.NewHandler(invoice.NewService(
			invoice.NewRepository(conn), appointments, invoice.Options{RequireCompleted: true}, publisher, nil, log,
		), log),
		Verifier:    verifier,
		Permissions: perms,
		Log:         log,
		Ping:        conn.PingContext,
	})

	server := httptest.NewServer(httpserver.CORSMiddleware([]string{"*"})(router))
	t.Cleanup(server.Close)

	return &TestServer{
		Server:        server,
		DB:            conn,
		MockPublisher: publisher,
		Verifier:      verifier,
		Appointments:  appointments,
	}
}

// Client returns an HTTP client for the test server carrying token.
func (ts *TestServer) Client(token string) *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL, token)
}
