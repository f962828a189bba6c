//go:build integration

package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/pagination"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/testutil"
)

func TestRepositoryCreate_Integration(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	receptionistID := testutil.CreateTestUser(t, conn, "Asha Rao", "asha@clinic.test", "Receptionist", "")

	p := &Patient{Name: "Ravi Kumar", Age: 42, Gender: GenderMale, Contact: "9876543210", Address: "12 MG Road", RegisteredBy: receptionistID}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.ID == "" {
		t.Error("Expected patient ID to be set")
	}

	err := repo.Create(ctx, &Patient{Name: "Someone Else", Age: 30, Gender: GenderFemale, Contact: "9876543210"})
	if !errors.Is(err, ErrDuplicateContact) {
		t.Errorf("Expected ErrDuplicateContact, got %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Ravi Kumar" || got.RegisteredBy != receptionistID {
		t.Errorf("Unexpected patient %+v", got)
	}
	if got.MedicalHistory == nil || len(got.MedicalHistory) != 0 {
		t.Errorf("Expected empty history, got %v", got.MedicalHistory)
	}

	if _, err := repo.GetByID(ctx, "not-a-uuid"); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Expected ErrPatientNotFound, got %v", err)
	}
}

func TestRepositorySearch_Integration(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for _, p := range []*Patient{
		{Name: "Ravi Kumar", Age: 42, Gender: GenderMale, Contact: "9000000001"},
		{Name: "Meena Shah", Age: 35, Gender: GenderFemale, Contact: "9000000002"},
		{Name: "Ravindra Singh", Age: 60, Gender: GenderMale, Contact: "9000000003"},
	} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	patients, total, err := repo.Search(ctx, "ravi", pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("Expected 2 matches, got %d", total)
	}
	if patients[0].Name != "Ravindra Singh" {
		t.Errorf("Expected newest first, got %s", patients[0].Name)
	}

	patients, total, err = repo.Search(ctx, "0002", pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 || patients[0].Name != "Meena Shah" {
		t.Errorf("Expected contact match Meena Shah, got %v", patients)
	}

	// Wildcards in the keyword are literal.
	_, total, _ = repo.Search(ctx, "%", pagination.Params{Page: 1, Limit: 10})
	if total != 0 {
		t.Errorf("Expected no match for literal %%, got %d", total)
	}

	patients, total, _ = repo.Search(ctx, "", pagination.Params{Page: 2, Limit: 2})
	if total != 3 || len(patients) != 1 {
		t.Errorf("Expected page 2 to hold 1 of 3 patients, got %d of %d", len(patients), total)
	}
}

func TestRepositoryAppendHistory_Integration(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	doctorID := testutil.CreateTestUser(t, conn, "Dr. Mehta", "mehta@clinic.test", "Doctor", "")
	patientID := testutil.CreateTestPatient(t, conn, "Ravi Kumar", "9876543210", "")

	if _, err := repo.AppendHistory(ctx, patientID, HistoryEntry{Description: "Hypertension", Date: time.Now(), AddedBy: doctorID}); err != nil {
		t.Fatalf("AppendHistory failed: %v", err)
	}
	entries, err := repo.AppendHistory(ctx, patientID, HistoryEntry{Description: "Penicillin allergy", Date: time.Now()})
	if err != nil {
		t.Fatalf("AppendHistory failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Description != "Hypertension" || entries[0].AuthorName != "Dr. Mehta" {
		t.Errorf("Unexpected first entry %+v", entries[0])
	}

	if _, err := repo.AppendHistory(ctx, "00000000-0000-0000-0000-000000000000", HistoryEntry{Description: "x", Date: time.Now()}); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Expected ErrPatientNotFound, got %v", err)
	}
}
