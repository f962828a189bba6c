//go:build integration

package users

import (
	"context"
	"errors"
	"testing"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/testutil"
)

func TestRepositoryCreate_Integration(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := &User{Name: "Dr. Mehta", Email: "mehta@clinic.test", PasswordHash: "hash", Role: RoleDoctor, Specialization: "ENT"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == "" {
		t.Error("Expected user ID to be set")
	}

	dup := &User{Name: "Other", Email: "mehta@clinic.test", PasswordHash: "hash", Role: RoleReceptionist}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}

	got, err := repo.GetByEmail(ctx, "mehta@clinic.test")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != user.ID || got.Specialization != "ENT" {
		t.Errorf("Unexpected user %+v", got)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestRepositoryListDoctors_Integration(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	testutil.CreateTestUser(t, conn, "Dr. Zaveri", "z@clinic.test", string(RoleDoctor), "")
	testutil.CreateTestUser(t, conn, "Asha Rao", "asha@clinic.test", string(RoleReceptionist), "")
	testutil.CreateTestUser(t, conn, "Dr. Anand", "a@clinic.test", string(RoleDoctor), "Cardiology")

	doctors, err := repo.ListDoctors(ctx)
	if err != nil {
		t.Fatalf("ListDoctors failed: %v", err)
	}
	if len(doctors) != 2 {
		t.Fatalf("Expected 2 doctors, got %d", len(doctors))
	}
	if doctors[0].Name != "Dr. Anand" || doctors[1].Name != "Dr. Zaveri" {
		t.Errorf("Expected doctors sorted by name, got %s, %s", doctors[0].Name, doctors[1].Name)
	}
}
