package patient

import (
	"context"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/pagination"
)

// RepositoryInterface defines the contract for patient data access
type RepositoryInterface interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Search(ctx context.Context, keyword string, params pagination.Params) ([]Patient, int, error)
	AppendHistory(ctx context.Context, patientID string, entry HistoryEntry) ([]HistoryEntry, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
