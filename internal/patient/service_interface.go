package patient

import (
	"context"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/pagination"
)

// ServiceInterface defines the contract for patient business logic operations
type ServiceInterface interface {
	Register(ctx context.Context, actor *auth.Principal, req RegisterPatientRequest) (*Patient, error)
	Search(ctx context.Context, keyword string, params pagination.Params) (*SearchResult, error)
	Get(ctx context.Context, id string) (*Patient, error)
	AddHistory(ctx context.Context, actor *auth.Principal, id string, req AddHistoryRequest) ([]HistoryEntry, error)
}

var _ ServiceInterface = (*Service)(nil)
