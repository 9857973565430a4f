package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestLiveness(t *testing.T) {
	w, body := serve(t, New("test"), "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", body["status"])
}

func TestReadiness(t *testing.T) {
	t.Run("all checks up", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("postgres", func(context.Context) error { return nil })
		h.RegisterCheck("redis", func(context.Context) error { return nil })

		w, body := serve(t, h, "/health/ready")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, map[string]any{"postgres": "up", "redis": "up"}, body["checks"])
	})

	t.Run("failing check reports not ready", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("postgres", func(context.Context) error { return nil })
		h.RegisterCheck("kafka", func(context.Context) error { return errors.New("no brokers") })

		w, body := serve(t, h, "/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "not_ready", body["status"])
		assert.Equal(t, "down: no brokers", body["checks"].(map[string]any)["kafka"])
	})

	t.Run("slow check is bounded by timeout", func(t *testing.T) {
		h := New("test")
		h.checkTimeout = 20 * time.Millisecond
		h.RegisterCheck("redis", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})

		w, _ := serve(t, h, "/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestStatus(t *testing.T) {
	w, body := serve(t, New("staging"), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "staging", body["environment"])
	assert.Equal(t, Version, body["version"])
}
