package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/appointment"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/invoice"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/patient"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/prescription"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/testutil"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/users"
)

type stubUsers struct{}

func (stubUsers) Register(ctx context.Context, req users.RegisterRequest) (*users.User, error) {
	return nil, errors.New("not implemented")
}

func (stubUsers) Login(ctx context.Context, req users.LoginRequest) (*users.LoginResult, error) {
	return nil, users.ErrInvalidCredentials
}

func (stubUsers) ListDoctors(ctx context.Context) ([]users.DoctorSummary, error) {
	return []users.DoctorSummary{{ID: "d1", Name: "Dr. Mehta"}}, nil
}

type recordingMetrics struct {
	routes       []string
	authFailures int
	denied       int
}

func (m *recordingMetrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	m.routes = append(m.routes, method+" "+route)
}

func (m *recordingMetrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.authFailures++
}

func (m *recordingMetrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	if !allowed {
		m.denied++
	}
}

var testPermissions = auth.Permissions{
	"DOCTOR":       {"user:view", "appointment:view", "prescription:create"},
	"RECEPTIONIST": {"user:view", "patient:create", "appointment:create", "invoice:create"},
}

func newTestRouter(t *testing.T, metrics Metrics) (http.Handler, *auth.Verifier) {
	t.Helper()
	ver := testutil.CreateTestVerifier(t)
	log := zap.NewNop()

	r := SetupRouter(Deps{
		Users: users.NewHandler(stubUsers{}, log),
		// Services below are never reached by these tests.
		Patients:      patient.NewHandler(nil, log),
		Appointments:  appointment.NewHandler(nil, log),
		Prescriptions: prescription.NewHandler(nil, log),
		Invoices:      invoice.NewHandler(nil, log),
		Verifier:      ver,
		Permissions:   testPermissions,
		Metrics:       metrics,
		Log:           log,
	})
	return CORSMiddleware([]string{"http://localhost:5173"})(r), ver
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", body["status"])
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	metrics := &recordingMetrics{}
	h, _ := newTestRouter(t, metrics)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/doctors", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
	if metrics.authFailures != 1 {
		t.Errorf("Expected 1 auth failure recorded, got %d", metrics.authFailures)
	}
}

func TestRoleWithoutPermissionIsForbidden(t *testing.T) {
	metrics := &recordingMetrics{}
	h, ver := newTestRouter(t, metrics)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{"doctor cannot bill", http.MethodPost, "/api/invoices", testutil.GenerateDoctorToken(t, ver, "doc-1")},
		{"doctor cannot register patients", http.MethodPost, "/api/patients", testutil.GenerateDoctorToken(t, ver, "doc-1")},
		{"receptionist cannot prescribe", http.MethodPost, "/api/prescriptions", testutil.GenerateReceptionistToken(t, ver, "rec-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusForbidden {
				t.Errorf("Expected status 403, got %d", rr.Code)
			}
		})
	}

	if metrics.denied != len(tests) {
		t.Errorf("Expected %d denied checks, got %d", len(tests), metrics.denied)
	}
}

func TestAuthorizedRequestRecordsRouteTemplate(t *testing.T) {
	metrics := &recordingMetrics{}
	h, ver := newTestRouter(t, metrics)

	req := httptest.NewRequest(http.MethodGet, "/api/users/doctors", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.GenerateReceptionistToken(t, ver, "rec-1"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(metrics.routes) != 1 || metrics.routes[0] != "GET /api/users/doctors" {
		t.Errorf("Expected route GET /api/users/doctors, got %v", metrics.routes)
	}
}

func TestLoginIsPublic(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	// Reaches the handler: empty body is a 400, not a 401 from the auth layer.
	if rr.Code == http.StatusUnauthorized || rr.Code == http.StatusForbidden {
		t.Errorf("Expected login to bypass auth, got %d", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "http://evil.test")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no allowed origin for unknown site, got %q", got)
	}
}
