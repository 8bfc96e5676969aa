// Package requesttime pins one "now" per request. Issuance stamps iat and
// revocation stamps revokedAt from it, so a single request never observes
// two different clocks.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type contextKey struct{}

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithTime(r.Context(), time.Now())))
	})
}

// Now returns the pinned time, or time.Now() outside an HTTP request.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins t in ctx. Tests use it to freeze iat and revokedAt.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}
