package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/apperror"
)

type ctxKey string

const principalKey ctxKey = "auth_principal"

var tracer = otel.Tracer("github.com/AdiyaTakhell/Clinic-Management-System/auth")

var (
	errMissingAuthorization = apperror.Unauthenticated("missing_authorization", "Missing authorization header")
	errInvalidHeader        = apperror.Unauthenticated("invalid_authorization_header", "Authorization header must be a Bearer token")
	errInvalidToken         = apperror.Unauthenticated("invalid_token", "Token is invalid or expired")
	errUnauthenticated      = apperror.Unauthenticated("unauthenticated", "Authentication required")
	errForbidden            = apperror.Unauthorized("forbidden", "Your role is not allowed to perform this action")
)

// MetricsRecorder interface for recording auth metrics
type MetricsRecorder interface {
	RecordAuthFailure(ctx context.Context, reason string)
}

// Middleware validates token, injects Principal into request context.
func Middleware(ver *Verifier) func(http.Handler) http.Handler {
	return MiddlewareWithMetrics(ver, nil, nil)
}

// MiddlewareWithMetrics validates token with metrics recording. metrics and log may be nil.
func MiddlewareWithMetrics(ver *Verifier, metrics MetricsRecorder, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	fail := func(ctx context.Context, w http.ResponseWriter, span trace.Span, reason string, err *apperror.Error) {
		span.SetStatus(codes.Error, reason)
		span.SetAttributes(attribute.String("error.type", reason))
		if metrics != nil {
			metrics.RecordAuthFailure(ctx, reason)
		}
		apperror.Write(w, err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx, span := tracer.Start(ctx, "auth.Middleware",
				trace.WithSpanKind(trace.SpanKindInternal),
			)
			defer span.End()

			authz := r.Header.Get("Authorization")
			if authz == "" {
				fail(ctx, w, span, "missing_authorization", errMissingAuthorization)
				return
			}

			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				fail(ctx, w, span, "invalid_header_format", errInvalidHeader)
				return
			}

			pr, err := ver.ParseAndVerifyToken(parts[1])
			if err != nil {
				log.Debug("token validation failed", zap.Error(err))
				fail(ctx, w, span, "invalid_token", errInvalidToken)
				return
			}

			span.SetAttributes(
				attribute.String("user.id", pr.UserID),
				attribute.String("user.role", pr.Role),
			)
			span.SetStatus(codes.Ok, "authentication successful")

			ctx = context.WithValue(ctx, principalKey, pr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PermissionMetricsRecorder interface for recording permission check metrics
type PermissionMetricsRecorder interface {
	RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool)
}

// RequirePermission returns middleware that ensures the principal has permission.
func RequirePermission(per string, perms Permissions) func(http.Handler) http.Handler {
	return RequirePermissionWithMetrics(per, perms, nil, nil)
}

// RequirePermissionWithMetrics returns middleware with metrics recording. metrics and log may be nil.
func RequirePermissionWithMetrics(per string, perms Permissions, metrics PermissionMetricsRecorder, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()
			ctx, span := tracer.Start(ctx, "auth.RequirePermission",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("permission.required", per)),
			)
			defer span.End()

			pr, ok := FromContext(ctx)
			if !ok {
				span.SetStatus(codes.Error, "unauthenticated")
				if metrics != nil {
					metrics.RecordPermissionCheck(ctx, per, float64(time.Since(start).Milliseconds()), false)
				}
				apperror.Write(w, errUnauthenticated)
				return
			}

			allowed := HasPermission(pr, per, perms)
			duration := float64(time.Since(start).Milliseconds())

			span.SetAttributes(
				attribute.Bool("permission.allowed", allowed),
				attribute.String("user.id", pr.UserID),
				attribute.String("user.role", pr.Role),
			)

			if metrics != nil {
				metrics.RecordPermissionCheck(ctx, per, duration, allowed)
			}

			if !allowed {
				log.Info("permission denied",
					zap.String("user_id", pr.UserID),
					zap.String("role", pr.Role),
					zap.String("permission", per),
				)
				span.SetStatus(codes.Error, "forbidden")
				apperror.Write(w, errForbidden)
				return
			}

			span.SetStatus(codes.Ok, "permission granted")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts Principal from context.
func FromContext(ctx context.Context) (*Principal, bool) {
	pr, ok := ctx.Value(principalKey).(*Principal)
	return pr, ok
}

// HasPermission checks the principal's role against the permission table.
func HasPermission(pr *Principal, permission string, perms Permissions) bool {
	if pr == nil {
		return false
	}
	return perms.Allows(pr.Role, permission)
}
