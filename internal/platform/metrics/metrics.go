package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Proof verification outcomes.
const (
	OutcomeVerified = "verified"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
)

// Metrics holds the Prometheus collectors for the credential lifecycle.
type Metrics struct {
	CredentialsRequested *prometheus.CounterVec
	CredentialsIssued    *prometheus.CounterVec
	CredentialsRevoked   *prometheus.CounterVec
	IssuanceLatency      prometheus.Histogram
	ProofVerifications   *prometheus.CounterVec
	AnchorFailures       *prometheus.CounterVec
	ActivityDropped      prometheus.Counter
	EndpointLatency      *prometheus.HistogramVec
}

// New registers all collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		CredentialsRequested: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credvault_credentials_requested_total",
			Help: "Total number of credential requests, labeled by credential type",
		}, []string{"type"}),
		CredentialsIssued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credvault_credentials_issued_total",
			Help: "Total number of credentials issued, labeled by credential type",
		}, []string{"type"}),
		CredentialsRevoked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credvault_credentials_revoked_total",
			Help: "Total number of credentials revoked, labeled by credential type",
		}, []string{"type"}),
		IssuanceLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "credvault_issuance_latency_seconds",
			Help:    "Latency of the issue operation from sign to status transition",
			Buckets: prometheus.DefBuckets,
		}),
		ProofVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credvault_proof_verifications_total",
			Help: "Total number of presentation verifications, labeled by outcome",
		}, []string{"outcome"}),
		AnchorFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credvault_anchor_failures_total",
			Help: "Total number of failed anchor submissions, labeled by reason",
		}, []string{"reason"}),
		ActivityDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "credvault_activity_dropped_total",
			Help: "Activity events that could not be published",
		}),
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credvault_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) IncrementRequested(credentialType string) {
	m.CredentialsRequested.WithLabelValues(credentialType).Inc()
}

func (m *Metrics) IncrementIssued(credentialType string) {
	m.CredentialsIssued.WithLabelValues(credentialType).Inc()
}

func (m *Metrics) IncrementRevoked(credentialType string) {
	m.CredentialsRevoked.WithLabelValues(credentialType).Inc()
}

// ObserveIssuanceLatency records the duration of a successful issue.
func (m *Metrics) ObserveIssuanceLatency(durationSeconds float64) {
	m.IssuanceLatency.Observe(durationSeconds)
}

func (m *Metrics) IncrementProofVerification(outcome string) {
	m.ProofVerifications.WithLabelValues(outcome).Inc()
}

// IncAnchorFailure satisfies anchor.FailureRecorder.
func (m *Metrics) IncAnchorFailure(reason string) {
	m.AnchorFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementActivityDropped() {
	m.ActivityDropped.Inc()
}

func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
