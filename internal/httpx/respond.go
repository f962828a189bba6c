// Package httpx holds the JSON request/response helpers shared by handlers.
package httpx

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"
)

const maxBodyBytes = 1 << 20

var ErrInvalidBody = apperror.InvalidInput("invalid_request", "Invalid JSON payload")

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error renders err as a structured error. Unexpected errors are logged at error level.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	if _, ok := apperror.As(err); !ok {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	apperror.Write(w, err)
}

// Decode reads a single JSON object from the request body into dst.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidBody.WithMessage("Invalid JSON payload: %v", err)
	}
	return nil
}
