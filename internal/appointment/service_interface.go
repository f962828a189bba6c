package appointment

import (
	"context"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
)

// ServiceInterface defines the contract for appointment business logic operations
type ServiceInterface interface {
	Book(ctx context.Context, actor *auth.Principal, req BookRequest) (*Appointment, error)
	TodaysQueue(ctx context.Context, actor *auth.Principal, filter QueueFilter) ([]QueueEntry, error)
	Get(ctx context.Context, actor *auth.Principal, id string) (*Appointment, error)
	UpdateStatus(ctx context.Context, actor *auth.Principal, id string, req UpdateStatusRequest) (*Appointment, error)
}

// Cascader lets prescriptions and invoices move an appointment as part of
// their own write. Cascade must be called from inside WithLockedAppointment,
// and Announce only after that transaction committed.
type Cascader interface {
	WithLockedAppointment(ctx context.Context, id string, fn AppointmentFunc) error
	Cascade(ctx context.Context, q db.Querier, a *Appointment, to Status, trigger Trigger, actorID string) (*StatusChange, error)
	Force(ctx context.Context, q db.Querier, a *Appointment, to Status, trigger Trigger, actorID string) (*StatusChange, error)
	Announce(ctx context.Context, change *StatusChange)
}

var (
	_ ServiceInterface = (*Service)(nil)
	_ Cascader         = (*Service)(nil)
)
