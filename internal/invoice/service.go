package invoice

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/appointment"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/messaging"
)

type MetricsRecorder interface {
	RecordInvoiceCreated(ctx context.Context, paymentMethod string, amount float64)
}

// Options controls billing rules.
type Options struct {
	// RequireCompleted only bills appointments whose status is Completed.
	RequireCompleted bool
}

type Service struct {
	repo         RepositoryInterface
	appointments appointment.Cascader
	opts         Options
	publisher    messaging.PublisherInterface
	metrics      MetricsRecorder
	log          *zap.Logger
	now          func() time.Time
}

func NewService(repo RepositoryInterface, appointments appointment.Cascader, opts Options, publisher messaging.PublisherInterface, metrics MetricsRecorder, log *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		opts:         opts,
		publisher:    publisher,
		metrics:      metrics,
		log:          log.Named("invoice"),
		now:          time.Now,
	}
}

// Create records payment and marks the appointment Billed in one transaction.
func (s *Service) Create(ctx context.Context, actor *auth.Principal, req CreateRequest) (*Invoice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		inv    *Invoice
		change *appointment.StatusChange
	)
	err := s.appointments.WithLockedAppointment(ctx, req.AppointmentID, func(ctx context.Context, q db.Querier, a *appointment.Appointment) error {
		existing, err := s.repo.FindByAppointment(ctx, q, a.ID)
		if err != nil {
			return err
		}
		if existing != "" {
			return ErrDuplicateInvoice.WithDetail("invoiceId", existing)
		}
		if err := appointment.CheckBillable(a, s.opts.RequireCompleted); err != nil {
			return err
		}

		inv = &Invoice{
			AppointmentID: a.ID,
			PatientID:     a.PatientID,
			TotalAmount:   req.TotalAmount,
			PaymentMethod: req.PaymentMethod,
			Status:        StatusPaid,
			GeneratedBy:   actor.UserID,
			CreatedAt:     s.now().UTC(),
		}
		if err := s.repo.Insert(ctx, q, inv); err != nil {
			return err
		}

		if s.opts.RequireCompleted {
			change, err = s.appointments.Cascade(ctx, q, a, appointment.StatusBilled, appointment.TriggerInvoice, actor.UserID)
		} else {
			change, err = s.appointments.Force(ctx, q, a, appointment.StatusBilled, appointment.TriggerInvoice, actor.UserID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("created invoice",
		zap.String("invoice_id", inv.ID),
		zap.String("appointment_id", inv.AppointmentID),
		zap.Float64("amount", inv.TotalAmount),
		zap.String("payment_method", string(inv.PaymentMethod)),
	)
	if s.metrics != nil {
		s.metrics.RecordInvoiceCreated(ctx, string(inv.PaymentMethod), inv.TotalAmount)
	}
	s.appointments.Announce(ctx, change)
	messaging.PublishAfterCommit(ctx, s.publisher, s.log, messaging.EventInvoiceCreated, messaging.InvoiceCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventInvoiceCreated),
		Data: messaging.InvoiceCreatedData{
			InvoiceID:     inv.ID,
			AppointmentID: inv.AppointmentID,
			PatientID:     inv.PatientID,
			TotalAmount:   inv.TotalAmount,
			PaymentMethod: string(inv.PaymentMethod),
			Status:        string(inv.Status),
			GeneratedBy:   inv.GeneratedBy,
			CreatedAt:     inv.CreatedAt,
		},
	})
	return inv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	return s.repo.GetByID(ctx, id)
}
