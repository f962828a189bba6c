package invoice

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
	return &Handler{service: service, log: log.Named("invoice.http")}
}

type InvoiceResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Invoice *Invoice `json:"invoice"`
}

// CreateInvoice handles POST /api/invoices
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
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

	inv, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, InvoiceResponse{Success: true, Message: "Invoice generated", Invoice: inv})
}

// GetInvoice handles GET /api/invoices/{id} for printing.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
