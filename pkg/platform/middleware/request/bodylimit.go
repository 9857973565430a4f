package request

import (
	"net/http"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over the
// limit is rejected with 413 before the handler runs; undeclared bodies are
// wrapped with http.MaxBytesReader so decoding fails once the cap is crossed.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"error":"payload_too_large","retryable":false}`))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
