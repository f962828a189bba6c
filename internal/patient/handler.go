package patient

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/httpx"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/pagination"
)

var errUnauthenticated = apperror.Unauthenticated("unauthenticated", "User not authenticated")

type Handler struct {
	service ServiceInterface
	log     *zap.Logger
}

func NewHandler(service ServiceInterface, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log.Named("patient.http")}
}

type PatientSuccessResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Patient *Patient `json:"patient,omitempty"`
}

type HistoryResponse struct {
	Success        bool           `json:"success"`
	MedicalHistory []HistoryEntry `json:"medicalHistory"`
}

// RegisterPatient handles POST /api/patients
func (h *Handler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, r, h.log, errUnauthenticated)
		return
	}

	var req RegisterPatientRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	p, err := h.service.Register(r.Context(), principal, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, PatientSuccessResponse{
		Success: true,
		Message: "Patient registered successfully",
		Patient: p,
	})
}

// SearchPatients handles GET /api/patients?keyword=&page=&limit=
func (h *Handler) SearchPatients(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), r.URL.Query().Get("keyword"), pagination.ParseParams(r))
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

// GetPatient handles GET /api/patients/{id}
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, PatientSuccessResponse{Success: true, Message: "Patient retrieved", Patient: p})
}

// AddHistory handles POST /api/patients/{id}/history
func (h *Handler) AddHistory(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, r, h.log, errUnauthenticated)
		return
	}

	var req AddHistoryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	entries, err := h.service.AddHistory(r.Context(), principal, mux.Vars(r)["id"], req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, HistoryResponse{Success: true, MedicalHistory: entries})
}
