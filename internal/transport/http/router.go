// Package httptransport assembles the chi router and the shared middleware stack.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"credvault/pkg/platform/middleware/request"
	"credvault/pkg/platform/middleware/requesttime"
	"credvault/pkg/validation"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Options configures NewRouter. Zero values fall back to defaults.
type Options struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Latency        request.LatencyObserver
	// Gatherer serves /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter wires health probes, /metrics and the API modules behind the middleware stack.
func NewRouter(opts Options, health Registrar, modules ...Registrar) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = validation.MaxBodySize
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(logger))
	r.Use(request.Latency(opts.Latency, routePattern))

	if health != nil {
		health.Register(r)
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(timeout))
		r.Use(request.BodyLimit(maxBody))
		r.Use(request.ContentTypeJSON)
		r.Use(requesttime.Middleware)
		r.Use(request.Actor)
		for _, m := range modules {
			m.Register(r)
		}
	})

	return r
}

// routePattern labels latency samples by chi route pattern so ids do not
// inflate metric cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
