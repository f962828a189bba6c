package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
)

// mockService implements ServiceInterface for testing
type mockService struct {
	bookFunc         func(ctx context.Context, actor *auth.Principal, req BookRequest) (*Appointment, error)
	todaysQueueFunc  func(ctx context.Context, actor *auth.Principal, filter QueueFilter) ([]QueueEntry, error)
	updateStatusFunc func(ctx context.Context, actor *auth.Principal, id string, req UpdateStatusRequest) (*Appointment, error)
	getFunc          func(ctx context.Context, actor *auth.Principal, id string) (*Appointment, error)
}

func (m *mockService) Book(ctx context.Context, actor *auth.Principal, req BookRequest) (*Appointment, error) {
	if m.bookFunc != nil {
		return m.bookFunc(ctx, actor, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) TodaysQueue(ctx context.Context, actor *auth.Principal, filter QueueFilter) ([]QueueEntry, error) {
	if m.todaysQueueFunc != nil {
		return m.todaysQueueFunc(ctx, actor, filter)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) UpdateStatus(ctx context.Context, actor *auth.Principal, id string, req UpdateStatusRequest) (*Appointment, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, actor, id, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) Get(ctx context.Context, actor *auth.Principal, id string) (*Appointment, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, actor, id)
	}
	return nil, errors.New("not implemented")
}

func asPrincipal(req *http.Request, p *auth.Principal) *http.Request {
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), p))
}

func TestHandlerBookAppointment_Success(t *testing.T) {
	handler := NewHandler(&mockService{
		bookFunc: func(ctx context.Context, actor *auth.Principal, req BookRequest) (*Appointment, error) {
			return &Appointment{ID: "appt-1", PatientID: req.PatientID, DoctorID: req.DoctorID, TokenNumber: 1, Status: StatusPending}, nil
		},
	}, zap.NewNop())

	body := []byte(`{"patientId":"patient-1","doctorId":"doc-1","type":"Consultation"}`)
	req := asPrincipal(httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body)), receptionist)
	rr := httptest.NewRecorder()

	handler.BookAppointment(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rr.Code)
	}
	var resp AppointmentResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Appointment.TokenNumber != 1 {
		t.Errorf("Expected token 1, got %d", resp.Appointment.TokenNumber)
	}
}

func TestHandlerBookAppointment_Conflict(t *testing.T) {
	handler := NewHandler(&mockService{
		bookFunc: func(ctx context.Context, actor *auth.Principal, req BookRequest) (*Appointment, error) {
			return nil, CheckBooking(&Appointment{ID: "appt-1", TokenNumber: 7})
		},
	}, zap.NewNop())

	req := asPrincipal(httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader([]byte(`{}`))), receptionist)
	rr := httptest.NewRecorder()
	handler.BookAppointment(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rr.Code)
	}
	var body struct {
		Error   string                 `json:"error"`
		Kind    string                 `json:"kind"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	}
	json.NewDecoder(rr.Body).Decode(&body)
	if body.Error != "duplicate_booking" || body.Kind != "conflict" {
		t.Errorf("Unexpected error body %+v", body)
	}
	if body.Details["existingTokenNumber"] != float64(7) {
		t.Errorf("Expected existingTokenNumber 7, got %v", body.Details["existingTokenNumber"])
	}
}

func TestHandlerBookAppointment_Unauthenticated(t *testing.T) {
	handler := NewHandler(&mockService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	handler.BookAppointment(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}
}

func TestHandlerTodaysQueue_PassesFilters(t *testing.T) {
	handler := NewHandler(&mockService{
		todaysQueueFunc: func(ctx context.Context, actor *auth.Principal, filter QueueFilter) ([]QueueEntry, error) {
			if filter.DoctorID != "doc-1" || filter.Status != StatusCompleted {
				t.Errorf("Unexpected filter %+v", filter)
			}
			return []QueueEntry{
				{Appointment: Appointment{ID: "a1", TokenNumber: 1}, Patient: PatientSummary{Name: "Ravi"}},
				{Appointment: Appointment{ID: "a2", TokenNumber: 2}, Patient: PatientSummary{Name: "Meena"}},
			}, nil
		},
	}, zap.NewNop())

	req := asPrincipal(httptest.NewRequest(http.MethodGet, "/api/appointments/today?doctorId=doc-1&status=Completed", nil), receptionist)
	rr := httptest.NewRecorder()
	handler.TodaysQueue(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var resp QueueResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Count != 2 || resp.Appointments[1].Patient.Name != "Meena" || resp.Appointments[1].TokenNumber != 2 {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestHandlerUpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"not found", ErrAppointmentNotFound, http.StatusNotFound},
		{"invalid status", ErrInvalidStatus, http.StatusBadRequest},
		{"illegal transition", transitionError(StatusBilled, StatusPending), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&mockService{
				updateStatusFunc: func(ctx context.Context, actor *auth.Principal, id string, req UpdateStatusRequest) (*Appointment, error) {
					if id != "appt-1" {
						t.Errorf("Expected id from route vars, got %q", id)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return &Appointment{ID: id, Status: req.Status}, nil
				},
			}, zap.NewNop())

			req := asPrincipal(httptest.NewRequest(http.MethodPatch, "/api/appointments/appt-1/status", bytes.NewReader([]byte(`{"status":"In-Progress"}`))), doctor)
			req = mux.SetURLVars(req, map[string]string{"id": "appt-1"})
			rr := httptest.NewRecorder()
			handler.UpdateStatus(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestHandlerGetAppointment(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"not found", ErrAppointmentNotFound, http.StatusNotFound},
		{"database down", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&mockService{
				getFunc: func(ctx context.Context, actor *auth.Principal, id string) (*Appointment, error) {
					if id != "appt-1" {
						t.Errorf("Expected id from route vars, got %q", id)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return &Appointment{ID: id, TokenNumber: 2, Status: StatusPending}, nil
				},
			}, zap.NewNop())

			req := asPrincipal(httptest.NewRequest(http.MethodGet, "/api/appointments/appt-1", nil), receptionist)
			req = mux.SetURLVars(req, map[string]string{"id": "appt-1"})
			rr := httptest.NewRecorder()
			handler.GetAppointment(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.err != nil {
				return
			}
			var resp AppointmentResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Appointment == nil || resp.Appointment.TokenNumber != 2 {
				t.Errorf("Expected token 2 in response, got %+v", resp.Appointment)
			}
		})
	}
}
