package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/appointment"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/httpx"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/invoice"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/patient"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/prescription"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/users"
)

const serviceName = "clinic-service"

// Metrics is everything the HTTP layer records. *telemetry.Metrics satisfies it.
type Metrics interface {
	RequestRecorder
	auth.MetricsRecorder
	auth.PermissionMetricsRecorder
}

// Deps are the handlers and collaborators the router mounts.
type Deps struct {
	Users         *users.Handler
	Patients      *patient.Handler
	Appointments  *appointment.Handler
	Prescriptions *prescription.Handler
	Invoices      *invoice.Handler

	Verifier    *auth.Verifier
	Permissions auth.Permissions
	Metrics     Metrics // optional
	Log         *zap.Logger

	// Ping reports datastore health on /health. Optional.
	Ping func(ctx context.Context) error
}

// SetupRouter initializes all routes for the application
func SetupRouter(d Deps) *mux.Router {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware(serviceName))
	var requests RequestRecorder
	var authMetrics auth.MetricsRecorder
	var permMetrics auth.PermissionMetricsRecorder
	if d.Metrics != nil {
		requests, authMetrics, permMetrics = d.Metrics, d.Metrics, d.Metrics
	}
	r.Use(MetricsMiddleware(requests))

	authn := auth.MiddlewareWithMetrics(d.Verifier, authMetrics, log.Named("auth"))
	protect := func(permission string, h http.HandlerFunc) http.Handler {
		return authn(auth.RequirePermissionWithMetrics(permission, d.Permissions, permMetrics, log.Named("auth"))(h))
	}

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "service": serviceName})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	}).Methods("GET")

	// Staff accounts
	r.HandleFunc("/api/auth/register", d.Users.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", d.Users.Login).Methods("POST")
	r.Handle("/api/users/doctors", protect("user:view", d.Users.ListDoctors)).Methods("GET")

	// Patients
	r.Handle("/api/patients", protect("patient:create", d.Patients.RegisterPatient)).Methods("POST")
	r.Handle("/api/patients", protect("patient:view", d.Patients.SearchPatients)).Methods("GET")
	r.Handle("/api/patients/{id}", protect("patient:view", d.Patients.GetPatient)).Methods("GET")
	r.Handle("/api/patients/{id}/history", protect("patient:history", d.Patients.AddHistory)).Methods("POST")

	// Appointment queue
	r.Handle("/api/appointments", protect("appointment:create", d.Appointments.BookAppointment)).Methods("POST")
	r.Handle("/api/appointments/today", protect("appointment:view", d.Appointments.TodaysQueue)).Methods("GET")
	r.Handle("/api/appointments/{id}", protect("appointment:view", d.Appointments.GetAppointment)).Methods("GET")
	r.Handle("/api/appointments/{id}/status", protect("appointment:update", d.Appointments.UpdateStatus)).Methods("PATCH")

	// Prescriptions
	r.Handle("/api/prescriptions", protect("prescription:create", d.Prescriptions.CreatePrescription)).Methods("POST")
	r.Handle("/api/prescriptions/{id}", protect("prescription:view", d.Prescriptions.GetPrescription)).Methods("GET")

	// Billing
	r.Handle("/api/invoices", protect("invoice:create", d.Invoices.CreateInvoice)).Methods("POST")
	r.Handle("/api/invoices/{id}", protect("invoice:view", d.Invoices.GetInvoice)).Methods("GET")

	return r
}
