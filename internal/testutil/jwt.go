package testutil

import (
	"testing"
	"time"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
)

// TestJWTSecret signs every token issued in tests.
const TestJWTSecret = "test-secret-please-change"

// CreateTestVerifier returns a verifier that accepts tokens from GenerateTestJWT.
func CreateTestVerifier(t *testing.T) *auth.Verifier {
	t.Helper()

	return auth.NewVerifier(auth.Config{
		Secret:   TestJWTSecret,
		Issuer:   "clinic-test",
		TokenTTL: time.Hour,
	})
}

// GenerateTestJWT issues a bearer token for the given user.
func GenerateTestJWT(t *testing.T, ver *auth.Verifier, userID, name, role string) string {
	t.Helper()

	token, _, err := ver.IssueToken(userID, name, role)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

// GenerateDoctorToken creates a Doctor token for testing
func GenerateDoctorToken(t *testing.T, ver *auth.Verifier, userID string) string {
	return GenerateTestJWT(t, ver, userID, "Test Doctor", auth.RoleDoctor)
}

// GenerateReceptionistToken creates a Receptionist token for testing
func GenerateReceptionistToken(t *testing.T, ver *auth.Verifier, userID string) string {
	return GenerateTestJWT(t, ver, userID, "Test Receptionist", auth.RoleReceptionist)
}
