package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
)

// mockRepository implements RepositoryInterface for testing
type mockRepository struct {
	createFunc      func(ctx context.Context, user *User) error
	getByIDFunc     func(ctx context.Context, id string) (*User, error)
	getByEmailFunc  func(ctx context.Context, email string) (*User, error)
	listDoctorsFunc func(ctx context.Context) ([]User, error)
}

func (m *mockRepository) Create(ctx context.Context, user *User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) ListDoctors(ctx context.Context) ([]User, error) {
	if m.listDoctorsFunc != nil {
		return m.listDoctorsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func newTestService(repo RepositoryInterface) *Service {
	verifier := auth.NewVerifier(auth.Config{Secret: "users-test-secret", Issuer: "test", TokenTTL: time.Hour})
	return NewService(repo, verifier, zap.NewNop())
}

func TestServiceRegister_Success(t *testing.T) {
	var stored *User
	repo := &mockRepository{
		createFunc: func(ctx context.Context, user *User) error {
			user.ID = "user-1"
			stored = user
			return nil
		},
	}

	user, err := newTestService(repo).Register(context.Background(), RegisterRequest{
		Name:           " Dr. Mehta ",
		Email:          "Mehta@Clinic.test",
		Password:       "secret1",
		Role:           RoleDoctor,
		Specialization: "Cardiology",
	})

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Email != "mehta@clinic.test" {
		t.Errorf("Expected normalized email, got %s", user.Email)
	}
	if user.Name != "Dr. Mehta" {
		t.Errorf("Expected trimmed name, got %q", user.Name)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "secret1" {
		t.Error("Expected password to be hashed before storage")
	}
}

func TestServiceRegister_ReceptionistDropsSpecialization(t *testing.T) {
	repo := &mockRepository{createFunc: func(ctx context.Context, user *User) error { return nil }}

	user, err := newTestService(repo).Register(context.Background(), RegisterRequest{
		Name: "Asha", Email: "asha@clinic.test", Password: "secret1", Specialization: "Ignored",
	})

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Role != RoleReceptionist {
		t.Errorf("Expected default role Receptionist, got %s", user.Role)
	}
	if user.Specialization != "" {
		t.Errorf("Expected specialization dropped, got %q", user.Specialization)
	}
}

func TestServiceRegister_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		req  RegisterRequest
		want error
	}{
		{"missing name", RegisterRequest{Email: "a@b.c", Password: "secret1"}, ErrMissingName},
		{"bad email", RegisterRequest{Name: "A", Email: "nope", Password: "secret1"}, ErrInvalidEmail},
		{"short password", RegisterRequest{Name: "A", Email: "a@b.c", Password: "123"}, ErrWeakPassword},
		{"bad role", RegisterRequest{Name: "A", Email: "a@b.c", Password: "secret1", Role: "Nurse"}, ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestService(&mockRepository{}).Register(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestServiceLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("Failed to hash: %v", err)
	}
	repo := &mockRepository{
		getByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email != "rao@clinic.test" {
				return nil, ErrUserNotFound
			}
			return &User{ID: "doc-1", Name: "Dr. Rao", Email: email, PasswordHash: hash, Role: RoleDoctor}, nil
		},
	}
	svc := newTestService(repo)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(context.Background(), LoginRequest{Email: " RAO@clinic.test", Password: "secret1"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if result.Token == "" || result.User.ID != "doc-1" {
			t.Errorf("Unexpected login result %+v", result)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{Email: "rao@clinic.test", Password: "nope"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@clinic.test", Password: "secret1"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestServiceListDoctors(t *testing.T) {
	repo := &mockRepository{
		listDoctorsFunc: func(ctx context.Context) ([]User, error) {
			return []User{
				{ID: "d1", Name: "Dr. Anand", Specialization: "ENT", PasswordHash: "x"},
				{ID: "d2", Name: "Dr. Bose"},
			}, nil
		},
	}

	doctors, err := newTestService(repo).ListDoctors(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(doctors) != 2 || doctors[0].Specialization != "ENT" || doctors[1].ID != "d2" {
		t.Errorf("Unexpected doctors %+v", doctors)
	}
}
