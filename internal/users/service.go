package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
)

// TokenIssuer signs session tokens for authenticated staff.
type TokenIssuer interface {
	IssueToken(userID, name, role string) (string, time.Time, error)
}

type Service struct {
	repo   RepositoryInterface
	tokens TokenIssuer
	log    *zap.Logger
}

func NewService(repo RepositoryInterface, tokens TokenIssuer, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		log:    log.Named("users"),
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           req.Role,
		Specialization: req.Specialization,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("registered staff user",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, expiresAt, err := s.tokens.IssueToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]DoctorSummary, error) {
	doctors, err := s.repo.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DoctorSummary, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, DoctorSummary{ID: d.ID, Name: d.Name, Specialization: d.Specialization})
	}
	return out, nil
}
