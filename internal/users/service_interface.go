package users

import "context"

// ServiceInterface defines the contract for user business logic operations
type ServiceInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	ListDoctors(ctx context.Context) ([]DoctorSummary, error)
}

var _ ServiceInterface = (*Service)(nil)
