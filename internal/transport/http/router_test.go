package httptransport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credvault/internal/platform/health"
	"credvault/internal/platform/metrics"
	"credvault/pkg/platform/middleware/request"
)

type echoModule struct{}

func (echoModule) Register(r chi.Router) {
	r.Get("/credentials/{credentialID}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(request.GetActorDID(r.Context())))
	})
	r.Post("/credentials", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
}

type latencies struct {
	mu   sync.Mutex
	seen []string
}

func (l *latencies) ObserveEndpointLatency(endpoint string, _ float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = append(l.seen, endpoint)
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	lat := &latencies{}
	router := NewRouter(Options{Latency: lat, Gatherer: reg, MaxBodyBytes: 16}, health.New("test"), echoModule{})

	t.Run("health is mounted", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("actor header reaches modules", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/credentials/cred_1", nil)
		req.Header.Set(request.HeaderActorDID, "did:example:alice")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "did:example:alice", w.Body.String())
		assert.NotEmpty(t, w.Header().Get(request.HeaderRequestID))
	})

	t.Run("latency is labelled by route pattern", func(t *testing.T) {
		assert.Contains(t, lat.seen, "/credentials/{credentialID}")
		assert.NotContains(t, lat.seen, "/credentials/cred_1")
	})

	t.Run("body limit applies to modules", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/credentials", strings.NewReader(strings.Repeat("x", 32)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("panics become 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("metrics endpoint serves registry", func(t *testing.T) {
		m.IncrementRequested("DriverLicense")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "credvault_credentials_requested_total")
	})
}
