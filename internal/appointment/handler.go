package appointment

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/httpx"
)

var errUnauthenticated = apperror.Unauthenticated("unauthenticated", "User not authenticated")

type Handler struct {
	service ServiceInterface
	log     *zap.Logger
}

func NewHandler(service ServiceInterface, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log.Named("appointment.http")}
}

type AppointmentResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Appointment *Appointment `json:"appointment"`
}

type QueueResponse struct {
	Success      bool         `json:"success"`
	Count        int          `json:"count"`
	Appointments []QueueEntry `json:"appointments"`
}

// BookAppointment handles POST /api/appointments
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, r, h.log, errUnauthenticated)
		return
	}

	var req BookRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	a, err := h.service.Book(r.Context(), principal, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, AppointmentResponse{
		Success:     true,
		Message:     "Appointment booked",
		Appointment: a,
	})
}

// TodaysQueue handles GET /api/appointments/today?doctorId=&status=
func (h *Handler) TodaysQueue(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, r, h.log, errUnauthenticated)
		return
	}

	q := r.URL.Query()
	entries, err := h.service.TodaysQueue(r.Context(), principal, QueueFilter{
		DoctorID: q.Get("doctorId"),
		Status:   Status(q.Get("status")),
	})
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusOK, QueueResponse{Success: true, Count: len(entries), Appointments: entries})
}

// GetAppointment handles GET /api/appointments/{id}
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, r, h.log, errUnauthenticated)
		return
	}

	a, err := h.service.Get(r.Context(), principal, mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusOK, AppointmentResponse{Success: true, Message: "Appointment found", Appointment: a})
}

// UpdateStatus handles PATCH /api/appointments/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, r, h.log, errUnauthenticated)
		return
	}

	var req UpdateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	a, err := h.service.UpdateStatus(r.Context(), principal, mux.Vars(r)["id"], req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusOK, AppointmentResponse{
		Success:     true,
		Message:     "Appointment status updated",
		Appointment: a,
	})
}
