package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/clinicday"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/messaging"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/users"
)

// DoctorLookup resolves the doctor named in a booking.
type DoctorLookup interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

// PatientLookup checks that a patient exists.
type PatientLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// MetricsRecorder is the slice of telemetry.Metrics used here.
type MetricsRecorder interface {
	RecordAppointmentBooked(ctx context.Context, appointmentType string)
	RecordBookingConflict(ctx context.Context)
	RecordStatusTransition(ctx context.Context, from, to, trigger string)
}

type Service struct {
	repo      RepositoryInterface
	doctors   DoctorLookup
	patients  PatientLookup
	calendar  *clinicday.Calendar
	machine   StateMachine
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	log       *zap.Logger
}

func NewService(
	repo RepositoryInterface,
	doctors DoctorLookup,
	patients PatientLookup,
	calendar *clinicday.Calendar,
	machine StateMachine,
	publisher messaging.PublisherInterface,
	metrics MetricsRecorder,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		doctors:   doctors,
		patients:  patients,
		calendar:  calendar,
		machine:   machine,
		publisher: publisher,
		metrics:   metrics,
		log:       log.Named("appointment"),
	}
}

func (s *Service) now() time.Time {
	if s.calendar.Now != nil {
		return s.calendar.Now()
	}
	return time.Now()
}

// Book allocates the next token for the doctor's current clinic day. The
// duplicate check, allocation and insert share one transaction under the
// (doctor, day) lock.
func (s *Service) Book(ctx context.Context, actor *auth.Principal, req BookRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrInvalidDoctor
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve doctor: %w", err)
	}
	if !doctor.IsDoctor() {
		return nil, ErrInvalidDoctor
	}

	exists, err := s.patients.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patient: %w", err)
	}
	if !exists {
		return nil, ErrPatientNotFound
	}

	now := s.now().UTC()
	day := s.calendar.DayOf(now)
	a := &Appointment{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		ReceptionistID: actor.UserID,
		Date:           now,
		Day:            day.String(),
		Status:         StatusPending,
		Type:           req.Type,
	}

	err = s.repo.WithDayLock(ctx, req.DoctorID, day, func(ctx context.Context, q db.Querier) error {
		existing, err := s.repo.FindActiveBooking(ctx, q, req.PatientID, req.DoctorID, day)
		if err != nil {
			return err
		}
		if err := CheckBooking(existing); err != nil {
			return err
		}

		token, err := s.repo.NextToken(ctx, q, req.DoctorID, day)
		if err != nil {
			return err
		}
		a.TokenNumber = token
		return s.repo.Insert(ctx, q, a)
	})
	if errors.Is(err, ErrDuplicateBooking) {
		s.log.Info("rejected duplicate booking",
			zap.String("patient_id", req.PatientID),
			zap.String("doctor_id", req.DoctorID),
			zap.String("day", day.String()),
		)
		if s.metrics != nil {
			s.metrics.RecordBookingConflict(ctx)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("booked appointment",
		zap.String("appointment_id", a.ID),
		zap.String("doctor_id", a.DoctorID),
		zap.String("day", a.Day),
		zap.Int("token", a.TokenNumber),
	)
	if s.metrics != nil {
		s.metrics.RecordAppointmentBooked(ctx, string(a.Type))
	}
	messaging.PublishAfterCommit(ctx, s.publisher, s.log, messaging.EventAppointmentBooked, messaging.AppointmentBookedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventAppointmentBooked),
		Data: messaging.AppointmentBookedData{
			AppointmentID:  a.ID,
			PatientID:      a.PatientID,
			DoctorID:       a.DoctorID,
			ReceptionistID: a.ReceptionistID,
			VisitDay:       a.Day,
			TokenNumber:    a.TokenNumber,
			Type:           string(a.Type),
		},
	})
	return a, nil
}

// TodaysQueue lists today's appointments in token order. Doctors only ever
// see their own queue; receptionists may narrow by doctor.
func (s *Service) TodaysQueue(ctx context.Context, actor *auth.Principal, filter QueueFilter) ([]QueueEntry, error) {
	if actor.IsDoctor() {
		filter.DoctorID = actor.UserID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListQueue(ctx, s.calendar.DayOf(s.now()), filter)
}

// Get loads one appointment. A doctor asking for another doctor's
// appointment gets not found.
func (s *Service) Get(ctx context.Context, actor *auth.Principal, id string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsDoctor() && a.DoctorID != actor.UserID {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

// UpdateStatus applies a manual status change.
func (s *Service) UpdateStatus(ctx context.Context, actor *auth.Principal, id string, req UpdateStatusRequest) (*Appointment, error) {
	if !req.Status.Manual() {
		return nil, ErrInvalidStatus
	}

	var (
		updated *Appointment
		change  *StatusChange
	)
	err := s.repo.WithLockedAppointment(ctx, id, func(ctx context.Context, q db.Querier, a *Appointment) error {
		changed, err := s.machine.Manual(a.Status, req.Status)
		if err != nil {
			return err
		}
		updated = a
		if !changed {
			return nil
		}
		change, err = s.apply(ctx, q, a, req.Status, TriggerManual, actor.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Announce(ctx, change)
	return updated, nil
}

func (s *Service) WithLockedAppointment(ctx context.Context, id string, fn AppointmentFunc) error {
	return s.repo.WithLockedAppointment(ctx, id, fn)
}

// Cascade moves a locked appointment along a graph edge.
func (s *Service) Cascade(ctx context.Context, q db.Querier, a *Appointment, to Status, trigger Trigger, actorID string) (*StatusChange, error) {
	if err := Transition(a.Status, to); err != nil {
		return nil, err
	}
	return s.apply(ctx, q, a, to, trigger, actorID)
}

// Force sets the status without consulting the graph.
func (s *Service) Force(ctx context.Context, q db.Querier, a *Appointment, to Status, trigger Trigger, actorID string) (*StatusChange, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.apply(ctx, q, a, to, trigger, actorID)
}

func (s *Service) apply(ctx context.Context, q db.Querier, a *Appointment, to Status, trigger Trigger, actorID string) (*StatusChange, error) {
	at := s.now().UTC()
	if err := s.repo.SetStatus(ctx, q, a.ID, to, at); err != nil {
		return nil, err
	}
	change := &StatusChange{
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		TokenNumber:   a.TokenNumber,
		From:          a.Status,
		To:            to,
		Trigger:       trigger,
		ChangedBy:     actorID,
		ChangedAt:     at,
	}
	a.Status = to
	a.UpdatedAt = at
	return change, nil
}

// Announce logs, counts and publishes a committed status change. A nil
// change is ignored.
func (s *Service) Announce(ctx context.Context, change *StatusChange) {
	if change == nil {
		return
	}
	s.log.Info("appointment status changed",
		zap.String("appointment_id", change.AppointmentID),
		zap.String("from", string(change.From)),
		zap.String("to", string(change.To)),
		zap.String("trigger", string(change.Trigger)),
	)
	if s.metrics != nil {
		s.metrics.RecordStatusTransition(ctx, string(change.From), string(change.To), string(change.Trigger))
	}
	messaging.PublishAfterCommit(ctx, s.publisher, s.log, messaging.EventAppointmentStatusChanged, messaging.AppointmentStatusChangedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventAppointmentStatusChanged),
		Data: messaging.AppointmentStatusChangedData{
			AppointmentID: change.AppointmentID,
			DoctorID:      change.DoctorID,
			TokenNumber:   change.TokenNumber,
			OldStatus:     string(change.From),
			NewStatus:     string(change.To),
			Trigger:       string(change.Trigger),
			ChangedBy:     change.ChangedBy,
			ChangedAt:     change.ChangedAt,
		},
	})
}

// CloseDay cancels appointments left open on earlier clinic days.
func (s *Service) CloseDay(ctx context.Context) (int, error) {
	return s.CloseBefore(ctx, s.calendar.DayOf(s.now()))
}

// CloseBefore cancels appointments left open on days before cutoff. Each one
// is cancelled in its own transaction so a failure only skips that row. The
// cutoff may not be later than today, so the current queue is never closed.
func (s *Service) CloseBefore(ctx context.Context, cutoff clinicday.Day) (int, error) {
	if today := s.calendar.DayOf(s.now()); today.Before(cutoff) {
		return 0, ErrFutureCutoff.WithMessage("Cannot close days from %s, today is %s", cutoff, today)
	}
	ids, err := s.repo.ListOpenBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return closed, err
		}
		var change *StatusChange
		err := s.repo.WithLockedAppointment(ctx, id, func(ctx context.Context, q db.Querier, a *Appointment) error {
			if a.Status.Terminal() || a.Status == StatusCompleted {
				return nil
			}
			var err error
			change, err = s.Cascade(ctx, q, a, StatusCancelled, TriggerDayClose, "")
			return err
		})
		if err != nil {
			s.log.Warn("failed to close stale appointment", zap.String("appointment_id", id), zap.Error(err))
			continue
		}
		if change != nil {
			closed++
			s.Announce(ctx, change)
		}
	}

	s.log.Info("closed stale appointments", zap.String("before", cutoff.String()), zap.Int("count", closed), zap.Int("candidates", len(ids)))
	return closed, nil
}
