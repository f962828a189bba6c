package prescription

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/appointment"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/messaging"
)

type MetricsRecorder interface {
	RecordPrescriptionCreated(ctx context.Context)
}

type Service struct {
	repo         RepositoryInterface
	appointments appointment.Cascader
	publisher    messaging.PublisherInterface
	metrics      MetricsRecorder
	log          *zap.Logger
	now          func() time.Time
}

func NewService(repo RepositoryInterface, appointments appointment.Cascader, publisher messaging.PublisherInterface, metrics MetricsRecorder, log *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		publisher:    publisher,
		metrics:      metrics,
		log:          log.Named("prescription"),
		now:          time.Now,
	}
}

// Create stores the prescription and completes the appointment in the same
// transaction. Only the appointment's doctor may prescribe.
func (s *Service) Create(ctx context.Context, actor *auth.Principal, req CreateRequest) (*Prescription, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		p      *Prescription
		change *appointment.StatusChange
	)
	err := s.appointments.WithLockedAppointment(ctx, req.AppointmentID, func(ctx context.Context, q db.Querier, a *appointment.Appointment) error {
		if err := appointment.CheckPrescriber(a, actor.UserID); err != nil {
			return err
		}
		exists, err := s.repo.ExistsForAppointment(ctx, q, a.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicatePrescription
		}
		if err := appointment.Transition(a.Status, appointment.StatusCompleted); err != nil {
			return err
		}

		p = &Prescription{
			AppointmentID: a.ID,
			DoctorID:      actor.UserID,
			PatientID:     a.PatientID,
			Medicines:     req.Medicines,
			Notes:         req.Notes,
			CreatedAt:     s.now().UTC(),
		}
		if err := s.repo.Insert(ctx, q, p); err != nil {
			return err
		}

		change, err = s.appointments.Cascade(ctx, q, a, appointment.StatusCompleted, appointment.TriggerPrescription, actor.UserID)
		return err
	})
	if err != nil {
		if errors.Is(err, appointment.ErrNotAssignedDoctor) {
			s.log.Warn("prescription rejected for unassigned doctor",
				zap.String("appointment_id", req.AppointmentID),
				zap.String("actor_id", actor.UserID),
			)
		}
		return nil, err
	}

	s.log.Info("created prescription",
		zap.String("prescription_id", p.ID),
		zap.String("appointment_id", p.AppointmentID),
		zap.Int("medicines", len(p.Medicines)),
	)
	if s.metrics != nil {
		s.metrics.RecordPrescriptionCreated(ctx)
	}
	s.appointments.Announce(ctx, change)
	messaging.PublishAfterCommit(ctx, s.publisher, s.log, messaging.EventPrescriptionCreated, messaging.PrescriptionCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventPrescriptionCreated),
		Data: messaging.PrescriptionCreatedData{
			PrescriptionID: p.ID,
			AppointmentID:  p.AppointmentID,
			DoctorID:       p.DoctorID,
			PatientID:      p.PatientID,
			MedicineCount:  len(p.Medicines),
			CreatedAt:      p.CreatedAt,
		},
	})
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	return s.repo.GetByID(ctx, id)
}
