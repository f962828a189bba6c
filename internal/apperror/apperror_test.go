package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

var errSample = Conflict("duplicate_booking", "already booked")

func TestIs_MatchesByCode(t *testing.T) {
	detailed := errSample.WithDetail("existingTokenNumber", 4).WithMessage("Token #%d is active", 4)
	wrapped := fmt.Errorf("booking: %w", detailed)

	if !errors.Is(wrapped, errSample) {
		t.Fatal("Expected wrapped detailed error to match sentinel")
	}
	if errors.Is(wrapped, NotFound("appointment_not_found", "x")) {
		t.Error("Expected no match against a different code")
	}
	if errSample.Details != nil {
		t.Error("Expected sentinel to stay untouched by WithDetail")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("a", "a"), http.StatusNotFound},
		{Conflict("b", "b"), http.StatusConflict},
		{Unauthorized("c", "c"), http.StatusForbidden},
		{InvalidInput("d", "d"), http.StatusBadRequest},
		{Unauthenticated("f", "f"), http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", InvalidInput("e", "e")), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWrite_StructuredBody(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, errSample.WithDetail("existingTokenNumber", 2))

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", rr.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["error"] != "duplicate_booking" || body["kind"] != "conflict" {
		t.Errorf("Unexpected body: %v", body)
	}
	details, _ := body["details"].(map[string]interface{})
	if details["existingTokenNumber"] != float64(2) {
		t.Errorf("Expected existingTokenNumber 2, got %v", details["existingTokenNumber"])
	}
}

func TestWrite_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, errors.New("pq: connection refused"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}
	var body map[string]interface{}
	json.NewDecoder(rr.Body).Decode(&body)
	if body["message"] == "pq: connection refused" {
		t.Error("Expected internal error message to be hidden")
	}
}
