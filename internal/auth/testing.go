package auth

import "context"

// ContextWithPrincipal adds a principal to the context.
// Exported so handler tests in other packages can skip the token round trip.
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}
