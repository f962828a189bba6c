package users

import (
	"strings"
	"time"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
)

// Role is a staff role. Patients are not users.
type Role string

const (
	RoleDoctor       Role = auth.RoleDoctor
	RoleReceptionist Role = auth.RoleReceptionist
)

func (r Role) Valid() bool {
	return r == RoleDoctor || r == RoleReceptionist
}

// User is a clinic staff member.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

// RegisterRequest represents the request to register a staff account
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           Role   `json:"role"`
	Specialization string `json:"specialization,omitempty"`
}

// Validate validates and normalizes the register request
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Specialization = strings.TrimSpace(r.Specialization)

	if r.Name == "" {
		return ErrMissingName
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if len(r.Password) < 6 {
		return ErrWeakPassword
	}
	if r.Role == "" {
		r.Role = RoleReceptionist
	}
	if !r.Role.Valid() {
		return ErrInvalidRole
	}
	if r.Role != RoleDoctor {
		r.Specialization = ""
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the bearer token and the signed-in staff member.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// DoctorSummary is the public view used by booking forms.
type DoctorSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}
