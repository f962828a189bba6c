package prescription

import (
	"context"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
)

// ServiceInterface defines the contract for prescription business logic operations
type ServiceInterface interface {
	Create(ctx context.Context, actor *auth.Principal, req CreateRequest) (*Prescription, error)
	Get(ctx context.Context, id string) (*Detail, error)
}

var _ ServiceInterface = (*Service)(nil)
