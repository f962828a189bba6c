package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Front-desk metrics
	PatientsRegistered   metric.Int64Counter
	AppointmentsBooked   metric.Int64Counter
	BookingConflicts     metric.Int64Counter
	StatusTransitions    metric.Int64Counter
	PrescriptionsCreated metric.Int64Counter
	InvoicesCreated      metric.Int64Counter
	InvoiceAmount        metric.Float64Histogram

	// Auth metrics
	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics initializes all custom metrics against the global meter provider.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/AdiyaTakhell/Clinic-Management-System")
	m := &Metrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.HTTPRequestsTotal, "http_server_requests_total", "Total number of HTTP requests", "{request}"},
		{&m.PatientsRegistered, "clinic_patients_registered_total", "Patients registered at the front desk", "{patient}"},
		{&m.AppointmentsBooked, "clinic_appointments_booked_total", "Appointments booked, by type", "{appointment}"},
		{&m.BookingConflicts, "clinic_booking_conflicts_total", "Bookings rejected because the patient already holds a token", "{conflict}"},
		{&m.StatusTransitions, "clinic_appointment_transitions_total", "Appointment status transitions", "{transition}"},
		{&m.PrescriptionsCreated, "clinic_prescriptions_created_total", "Prescriptions filed by doctors", "{prescription}"},
		{&m.InvoicesCreated, "clinic_invoices_created_total", "Invoices generated, by payment method", "{invoice}"},
		{&m.AuthFailuresTotal, "auth_failures_total", "Total number of authentication failures", "{failure}"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	m.HTTPDurationMs, err = meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	m.InvoiceAmount, err = meter.Float64Histogram(
		"clinic_invoice_amount",
		metric.WithDescription("Billed invoice amounts"),
		metric.WithUnit("{currency}"),
	)
	if err != nil {
		return nil, err
	}

	m.PermissionCheckDuration, err = meter.Float64Histogram(
		"permission_check_duration_ms",
		metric.WithDescription("Permission check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPDurationMs.Record(ctx, durationMs, attrs)
}

func (m *Metrics) RecordPatientRegistered(ctx context.Context) {
	if m == nil {
		return
	}
	m.PatientsRegistered.Add(ctx, 1)
}

func (m *Metrics) RecordAppointmentBooked(ctx context.Context, appointmentType string) {
	if m == nil {
		return
	}
	m.AppointmentsBooked.Add(ctx, 1, metric.WithAttributes(attribute.String("type", appointmentType)))
}

func (m *Metrics) RecordBookingConflict(ctx context.Context) {
	if m == nil {
		return
	}
	m.BookingConflicts.Add(ctx, 1)
}

// RecordStatusTransition counts one edge of the appointment lifecycle.
func (m *Metrics) RecordStatusTransition(ctx context.Context, from, to, trigger string) {
	if m == nil {
		return
	}
	m.StatusTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
		attribute.String("trigger", trigger),
	))
}

func (m *Metrics) RecordPrescriptionCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.PrescriptionsCreated.Add(ctx, 1)
}

func (m *Metrics) RecordInvoiceCreated(ctx context.Context, paymentMethod string, amount float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("payment_method", paymentMethod))
	m.InvoicesCreated.Add(ctx, 1, attrs)
	m.InvoiceAmount.Record(ctx, amount, attrs)
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordPermissionCheck records a permission check duration metric
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	if m == nil {
		return
	}
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}
