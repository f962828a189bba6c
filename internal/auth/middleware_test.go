package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordingMetrics struct {
	failures []string
	checks   []bool
}

func (m *recordingMetrics) RecordAuthFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.failures = append(m.failures, reason)
}

func (m *recordingMetrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	if m == nil {
		return
	}
	m.checks = append(m.checks, allowed)
}

// TestMiddleware_ValidToken tests that a valid token allows the request to proceed
func TestMiddleware_ValidToken(t *testing.T) {
	verifier := testVerifier()
	tokenString, _, err := verifier.IssueToken("rec-1", "Asha", RoleReceptionist)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	called := false
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		principal, ok := FromContext(r.Context())
		if !ok {
			t.Error("Expected principal in context, got none")
			return
		}
		if principal.UserID != "rec-1" {
			t.Errorf("Expected UserID 'rec-1', got '%s'", principal.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := Middleware(verifier)(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("Expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

// TestMiddleware_MissingAuthorizationHeader tests that missing header returns 401
func TestMiddleware_MissingAuthorizationHeader(t *testing.T) {
	metrics := &recordingMetrics{}
	called := false
	handler := MiddlewareWithMetrics(testVerifier(), metrics, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if called {
		t.Error("Expected handler NOT to be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["error"] != "missing_authorization" {
		t.Errorf("Expected error 'missing_authorization', got %v", body["error"])
	}
	if len(metrics.failures) != 1 || metrics.failures[0] != "missing_authorization" {
		t.Errorf("Expected one missing_authorization failure, got %v", metrics.failures)
	}
}

// TestMiddleware_InvalidAuthorizationHeader tests malformed headers
func TestMiddleware_InvalidAuthorizationHeader(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{"No Bearer prefix", "some-token"},
		{"Wrong prefix", "Basic dXNlcjpwYXNz"},
		{"Only Bearer", "Bearer"},
		{"Empty after Bearer", "Bearer "},
		{"Garbage token", "Bearer invalid-token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := Middleware(testVerifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tc.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if called {
				t.Error("Expected handler NOT to be called")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
		})
	}
}

// TestFromContext tests extracting principal from context
func TestFromContext(t *testing.T) {
	t.Run("Principal exists in context", func(t *testing.T) {
		expected := &Principal{UserID: "test-user", Role: RoleDoctor}
		ctx := ContextWithPrincipal(context.Background(), expected)

		principal, ok := FromContext(ctx)

		if !ok {
			t.Fatal("Expected principal to be found")
		}
		if principal.UserID != expected.UserID {
			t.Errorf("Expected UserID '%s', got '%s'", expected.UserID, principal.UserID)
		}
	})

	t.Run("No principal in context", func(t *testing.T) {
		principal, ok := FromContext(context.Background())

		if ok {
			t.Error("Expected no principal to be found")
		}
		if principal != nil {
			t.Error("Expected nil principal")
		}
	})
}

// TestHasPermission tests the permission checking logic
func TestHasPermission(t *testing.T) {
	perms := Permissions{
		"DOCTOR":       {"prescription:create", "appointment:view"},
		"RECEPTIONIST": {"appointment:create", "appointment:view", "invoice:create"},
	}

	testCases := []struct {
		name       string
		principal  *Principal
		permission string
		expected   bool
	}{
		{"Doctor may prescribe", &Principal{Role: RoleDoctor}, "prescription:create", true},
		{"Doctor may not bill", &Principal{Role: RoleDoctor}, "invoice:create", false},
		{"Receptionist may book", &Principal{Role: RoleReceptionist}, "appointment:create", true},
		{"Receptionist may not prescribe", &Principal{Role: RoleReceptionist}, "prescription:create", false},
		{"Upper case role", &Principal{Role: "DOCTOR"}, "appointment:view", true},
		{"No role", &Principal{}, "appointment:view", false},
		{"Unknown role", &Principal{Role: "Janitor"}, "appointment:view", false},
		{"Nil principal", nil, "appointment:view", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := HasPermission(tc.principal, tc.permission, perms)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

// TestRequirePermission tests the permission enforcement middleware
func TestRequirePermission(t *testing.T) {
	perms := Permissions{
		"DOCTOR":       {"prescription:create"},
		"RECEPTIONIST": {"invoice:create"},
	}

	run := func(principal *Principal, per string, metrics PermissionMetricsRecorder) (*httptest.ResponseRecorder, bool) {
		called := false
		handler := RequirePermissionWithMetrics(per, perms, metrics, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if principal != nil {
			req = req.WithContext(ContextWithPrincipal(req.Context(), principal))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec, called
	}

	t.Run("User has required permission", func(t *testing.T) {
		metrics := &recordingMetrics{}
		rec, called := run(&Principal{UserID: "doc-1", Role: RoleDoctor}, "prescription:create", metrics)

		if !called {
			t.Error("Expected handler to be called")
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
		if len(metrics.checks) != 1 || !metrics.checks[0] {
			t.Errorf("Expected one allowed check, got %v", metrics.checks)
		}
	})

	t.Run("User lacks required permission", func(t *testing.T) {
		rec, called := run(&Principal{UserID: "doc-1", Role: RoleDoctor}, "invoice:create", &recordingMetrics{})

		if called {
			t.Error("Expected handler NOT to be called")
		}
		if rec.Code != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", rec.Code)
		}
	})

	t.Run("No principal in context", func(t *testing.T) {
		metrics := &recordingMetrics{}
		rec, called := run(nil, "invoice:create", metrics)

		if called {
			t.Error("Expected handler NOT to be called")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
		if len(metrics.checks) != 1 || metrics.checks[0] {
			t.Errorf("Expected one denied check, got %v", metrics.checks)
		}
	})

	t.Run("Nil metrics recorder", func(t *testing.T) {
		rec, called := run(nil, "invoice:create", nil)

		if called {
			t.Error("Expected handler NOT to be called")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})

	t.Run("Typed nil metrics recorder", func(t *testing.T) {
		var metrics *recordingMetrics
		rec, _ := run(&Principal{UserID: "rec-1", Role: RoleReceptionist}, "invoice:create", metrics)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
	})
}
