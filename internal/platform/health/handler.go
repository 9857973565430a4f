// Package health serves liveness, readiness, and status probes.
package health

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"credvault/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

const defaultCheckTimeout = 2 * time.Second

// CheckFunc reports whether a dependency is usable. nil means healthy.
type CheckFunc func(ctx context.Context) error

// Handler provides health check endpoints.
type Handler struct {
	startTime    time.Time
	environment  string
	checkTimeout time.Duration

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// New creates a health handler.
func New(environment string) *Handler {
	return &Handler{
		startTime:    time.Now(),
		environment:  environment,
		checkTimeout: defaultCheckTimeout,
		checks:       make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named dependency check to the readiness probe.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Register mounts health check routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

// HandleLiveness always answers 200 while the process serves HTTP.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness runs every registered check concurrently, each bounded by
// the check timeout, and answers 503 if any fails.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks))
	maps.Copy(checks, h.checks)
	h.mu.RUnlock()

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(checks))
		healthy = true
		g       errgroup.Group
	)
	for name, check := range checks {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
			defer cancel()
			err := check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[name] = "down: " + err.Error()
				healthy = false
				return nil
			}
			results[name] = "up"
			return nil
		})
	}
	_ = g.Wait()

	if !healthy {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Checks: results})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Checks: results})
}

type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
