package prescription

import (
	"context"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
)

// RepositoryInterface defines the contract for prescription data access
type RepositoryInterface interface {
	ExistsForAppointment(ctx context.Context, q db.Querier, appointmentID string) (bool, error)
	Insert(ctx context.Context, q db.Querier, p *Prescription) error
	GetByID(ctx context.Context, id string) (*Detail, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
