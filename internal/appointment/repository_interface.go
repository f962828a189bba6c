package appointment

import (
	"context"
	"time"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/clinicday"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
)

// LockedFunc runs inside a transaction that holds a row lock.
type LockedFunc func(ctx context.Context, q db.Querier) error

// AppointmentFunc runs inside a transaction holding the appointment row lock.
type AppointmentFunc func(ctx context.Context, q db.Querier, a *Appointment) error

// RepositoryInterface defines the contract for appointment data access
type RepositoryInterface interface {
	// WithDayLock serializes bookings for one doctor and clinic day.
	WithDayLock(ctx context.Context, doctorID string, day clinicday.Day, fn LockedFunc) error
	FindActiveBooking(ctx context.Context, q db.Querier, patientID, doctorID string, day clinicday.Day) (*Appointment, error)
	NextToken(ctx context.Context, q db.Querier, doctorID string, day clinicday.Day) (int, error)
	Insert(ctx context.Context, q db.Querier, a *Appointment) error

	// WithLockedAppointment loads the appointment FOR UPDATE and commits when fn succeeds.
	WithLockedAppointment(ctx context.Context, id string, fn AppointmentFunc) error
	SetStatus(ctx context.Context, q db.Querier, id string, status Status, at time.Time) error

	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListQueue(ctx context.Context, day clinicday.Day, filter QueueFilter) ([]QueueEntry, error)
	ListOpenBefore(ctx context.Context, day clinicday.Day) ([]string, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
