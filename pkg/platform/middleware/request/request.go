package request

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderActorDID  = "X-Actor-DID"

	// MaxRequestIDLength bounds client-supplied request ids before they reach logs.
	MaxRequestIDLength = 128
)

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

type (
	contextKeyRequestID struct{}
	contextKeyActorDID  struct{}
)

// GetRequestID returns the request id stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyRequestID{}).(string)
	return v
}

// WithRequestID stores a request id in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// GetActorDID returns the DID of the caller as asserted by the X-Actor-DID header.
func GetActorDID(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyActorDID{}).(string)
	return v
}

// WithActorDID stores the calling party's DID in ctx.
func WithActorDID(ctx context.Context, did string) context.Context {
	return context.WithValue(ctx, contextKeyActorDID{}, did)
}

// Recovery converts a handler panic into a 500 and logs the stack.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					ctx := r.Context()
					logger.ErrorContext(ctx, "panic recovered",
						"error", err,
						"stack", string(debug.Stack()),
						"path", r.URL.Path,
						"method", r.Method,
						"request_id", GetRequestID(ctx),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"internal_error","retryable":false}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID propagates a valid client X-Request-ID or generates a UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if !isValidRequestID(requestID) {
			requestID = uuid.New().String()
		}

		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), requestID)))
	})
}

func isValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	return validRequestID.MatchString(id)
}

// Actor copies the X-Actor-DID header into the request context. Authentication
// of the DID belongs to the deployment's gateway; this service only scopes
// holder and issuer operations by it.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		did := strings.TrimSpace(r.Header.Get(HeaderActorDID))
		if did == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActorDID(r.Context(), did)))
	})
}

// Logger logs one line per request. Successful health probes are skipped.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			if strings.HasPrefix(r.URL.Path, "/health") && wrapped.statusCode < http.StatusInternalServerError {
				return
			}

			ctx := r.Context()
			level := slog.LevelInfo
			if wrapped.statusCode >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", GetRequestID(ctx),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Timeout wraps the handler with http.TimeoutHandler.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, `{"error":"timeout","retryable":true}`)
	}
}

// ContentTypeJSON rejects POST/PUT/PATCH bodies that declare a non-JSON media type.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if ct := r.Header.Get("Content-Type"); ct != "" {
				if mediaType, _, err := mime.ParseMediaType(ct); err != nil || mediaType != "application/json" {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnsupportedMediaType)
					_, _ = w.Write([]byte(`{"error":"invalid_content_type","error_description":"Content-Type must be application/json"}`))
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// LatencyObserver receives per-route latency samples.
type LatencyObserver interface {
	ObserveEndpointLatency(endpoint string, durationSeconds float64)
}

// Latency reports handler latency keyed by route. route maps a request to a
// low-cardinality label; nil uses the raw path.
func Latency(m LatencyObserver, route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if m == nil {
				return
			}
			endpoint := r.URL.Path
			if route != nil {
				if p := route(r); p != "" {
					endpoint = p
				}
			}
			m.ObserveEndpointLatency(endpoint, time.Since(start).Seconds())
		})
	}
}
