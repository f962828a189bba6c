package invoice

import (
	"context"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
)

// RepositoryInterface defines the contract for invoice data access
type RepositoryInterface interface {
	FindByAppointment(ctx context.Context, q db.Querier, appointmentID string) (string, error)
	Insert(ctx context.Context, q db.Querier, inv *Invoice) error
	GetByID(ctx context.Context, id string) (*Detail, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
