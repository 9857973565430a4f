// Package requesttime pins one "now" per request so every timestamp written
// while serving it (issued_at, revoked_at, activity events) agrees.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type contextKeyRequestTime struct{}

// Middleware stamps each request with the wall clock in UTC.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock is Middleware with an injectable clock.
func WithClock(clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithTime(r.Context(), clock())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Now returns the pinned time, or the current UTC time outside a request.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now().UTC()
}

// WithTime pins t (converted to UTC) in ctx.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t.UTC())
}
