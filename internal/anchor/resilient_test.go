package anchor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/circuit"
)

// flakyLedger fails the first failures calls with the given error.
type flakyLedger struct {
	mu       sync.Mutex
	inner    *MemoryLedger
	failures int
	err      error
	calls    int
}

func (f *flakyLedger) Anchor(ctx context.Context, hash string, issuer id.DID) (Result, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	if fail {
		return Result{}, f.err
	}
	return f.inner.Anchor(ctx, hash, issuer)
}

func (f *flakyLedger) Find(ctx context.Context, hash string) (Record, error) {
	return f.inner.Find(ctx, hash)
}

type countingRecorder struct {
	mu      sync.Mutex
	reasons []string
}

func (c *countingRecorder) IncAnchorFailure(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reasons = append(c.reasons, reason)
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestResilient(next Ledger, opts ...ResilientOption) *Resilient {
	r := NewResilient(next, append([]ResilientOption{WithResilientLogger(discardLogger())}, opts...)...)
	r.sleep = noSleep
	return r
}

func TestResilientRetriesTransientFailures(t *testing.T) {
	flaky := &flakyLedger{inner: NewMemoryLedger(), failures: 2, err: dErrors.New(dErrors.CodeAnchorFailure, "timeout")}
	rec := &countingRecorder{}
	r := newTestResilient(flaky, WithMaxAttempts(3), WithFailureRecorder(rec))

	res, err := r.Anchor(context.Background(), "h", "did:ex:issuer")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 3, flaky.calls)
	assert.Equal(t, []string{"write_failed", "write_failed"}, rec.reasons)
}

func TestResilientGivesUpAfterMaxAttempts(t *testing.T) {
	flaky := &flakyLedger{inner: NewMemoryLedger(), failures: 10, err: dErrors.New(dErrors.CodeAnchorFailure, "timeout")}
	r := newTestResilient(flaky, WithMaxAttempts(2))

	_, err := r.Anchor(context.Background(), "h", "did:ex:issuer")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAnchorFailure))
	assert.Equal(t, 2, flaky.calls)
}

func TestResilientDoesNotRetryInputErrors(t *testing.T) {
	flaky := &flakyLedger{inner: NewMemoryLedger()}
	r := newTestResilient(flaky, WithMaxAttempts(5))

	_, err := r.Anchor(context.Background(), "", "did:ex:issuer")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	assert.Equal(t, 1, flaky.calls)
}

func TestResilientOpensCircuit(t *testing.T) {
	flaky := &flakyLedger{inner: NewMemoryLedger(), failures: 100, err: dErrors.New(dErrors.CodeAnchorFailure, "down")}
	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	rec := &countingRecorder{}
	r := newTestResilient(flaky, WithMaxAttempts(1), WithBreaker(breaker), WithFailureRecorder(rec))

	for range 2 {
		_, err := r.Anchor(context.Background(), "h", "did:ex:issuer")
		require.Error(t, err)
	}
	assert.Equal(t, circuit.StateOpen, breaker.State())

	_, err := r.Anchor(context.Background(), "h", "did:ex:issuer")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAnchorFailure))
	assert.Equal(t, 2, flaky.calls, "open circuit fails fast without calling the ledger")
	assert.Equal(t, "circuit_open", rec.reasons[len(rec.reasons)-1])
}

func TestResilientRateLimitHonoursContext(t *testing.T) {
	r := newTestResilient(NewMemoryLedger(), WithRateLimit(0.001, 1))

	_, err := r.Anchor(context.Background(), "h1", "did:ex:issuer")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = r.Anchor(ctx, "h2", "did:ex:issuer")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestResilientFindDelegates(t *testing.T) {
	inner := NewMemoryLedger()
	r := newTestResilient(inner)
	res, err := r.Anchor(context.Background(), "h", "did:ex:issuer")
	require.NoError(t, err)

	found, err := r.Find(context.Background(), "h")
	require.NoError(t, err)
	assert.Equal(t, res.Record, found)
}
