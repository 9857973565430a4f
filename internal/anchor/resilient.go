package anchor

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/circuit"
)

// FailureRecorder observes anchor failures, typically a Prometheus counter.
type FailureRecorder interface {
	IncAnchorFailure(reason string)
}

// Resilient wraps a Ledger with a submission rate limit, bounded retries with linear
// backoff, and a circuit breaker. Only retryable failures are retried; input errors
// pass straight through.
type Resilient struct {
	next        Ledger
	limiter     *rate.Limiter
	breaker     *circuit.Breaker
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
	failures    FailureRecorder
	sleep       func(ctx context.Context, d time.Duration) error
}

// ResilientOption configures Resilient.
type ResilientOption func(*Resilient)

func WithMaxAttempts(n int) ResilientOption {
	return func(r *Resilient) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

func WithBackoff(d time.Duration) ResilientOption {
	return func(r *Resilient) { r.backoff = d }
}

// WithRateLimit caps ledger submissions. A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) ResilientOption {
	return func(r *Resilient) {
		if perSecond <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

func WithBreaker(b *circuit.Breaker) ResilientOption {
	return func(r *Resilient) { r.breaker = b }
}

func WithResilientLogger(logger *slog.Logger) ResilientOption {
	return func(r *Resilient) { r.logger = logger }
}

func WithFailureRecorder(f FailureRecorder) ResilientOption {
	return func(r *Resilient) { r.failures = f }
}

func NewResilient(next Ledger, opts ...ResilientOption) *Resilient {
	r := &Resilient{
		next:        next,
		breaker:     circuit.New("anchor-ledger"),
		maxAttempts: 3,
		backoff:     200 * time.Millisecond,
		logger:      slog.Default(),
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resilient) Anchor(ctx context.Context, hash string, issuer id.DID) (Result, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if !r.breaker.Allow() {
			r.recordFailure("circuit_open")
			return Result{}, dErrors.New(dErrors.CodeAnchorFailure, "anchor ledger unavailable: circuit open")
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return Result{}, dErrors.Wrap(err, dErrors.CodeTimeout, "anchor submission not admitted")
			}
		}

		res, err := r.next.Anchor(ctx, hash, issuer)
		if err == nil {
			if change := r.breaker.RecordSuccess(); change.Closed {
				r.logger.InfoContext(ctx, "anchor ledger circuit closed")
			}
			return res, nil
		}
		if !dErrors.IsRetryable(err) {
			return Result{}, err
		}

		lastErr = err
		r.recordFailure("write_failed")
		if change := r.breaker.RecordFailure(); change.Opened {
			r.logger.WarnContext(ctx, "anchor ledger circuit opened", "error", err)
		}
		r.logger.WarnContext(ctx, "anchor attempt failed",
			"anchor_hash", hash,
			"attempt", attempt,
			"error", err,
		)

		if attempt < r.maxAttempts {
			if err := r.sleep(ctx, r.backoff*time.Duration(attempt)); err != nil {
				return Result{}, dErrors.Wrap(err, dErrors.CodeTimeout, "anchor retry aborted")
			}
		}
	}
	return Result{}, dErrors.Wrap(lastErr, dErrors.CodeAnchorFailure, "anchor failed after retries")
}

func (r *Resilient) Find(ctx context.Context, hash string) (Record, error) {
	return r.next.Find(ctx, hash)
}

func (r *Resilient) recordFailure(reason string) {
	if r.failures != nil {
		r.failures.IncAnchorFailure(reason)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
