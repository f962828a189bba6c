package prescription

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/httpx"
)

type Handler struct {
	service ServiceInterface
	log     *zap.Logger
}

func NewHandler(service ServiceInterface, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log.Named("prescription.http")}
}

type PrescriptionResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Prescription *Prescription `json:"prescription"`
}

// CreatePrescription handles POST /api/prescriptions
func (h *Handler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, r, h.log, apperror.Unauthenticated("unauthenticated", "User not authenticated"))
		return
	}

	var req CreateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	p, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, PrescriptionResponse{
		Success:      true,
		Message:      "Prescription saved",
		Prescription: p,
	})
}

// GetPrescription handles GET /api/prescriptions/{id}
func (h *Handler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
