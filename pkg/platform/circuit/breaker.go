// Package circuit provides a small circuit breaker for calls to external ledgers and brokers.
package circuit

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the dependency is healthy and calls flow normally.
	StateClosed State = iota
	// StateOpen means the breaker has tripped and calls fail fast.
	StateOpen
	// StateHalfOpen means the cooldown elapsed and probe calls are allowed through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// StateChange represents a circuit breaker state transition.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker tracks consecutive failures of a dependency.
// After FailureThreshold consecutive failures the circuit opens and Allow returns false
// until the cooldown elapses. Once half-open, SuccessThreshold consecutive successes
// close the circuit; any failure re-opens it.
type Breaker struct {
	mu               sync.Mutex
	state            State
	name             string
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	openedAt         time.Time
	now              func() time.Time
}

// Option configures a Breaker instance.
type Option func(*Breaker)

// WithFailureThreshold sets the number of consecutive failures to open the circuit.
// Default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets the number of consecutive half-open successes to close the circuit.
// Default is 2.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithCooldown sets how long the circuit stays open before allowing probes.
// Default is 10 seconds.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a circuit breaker with the given name and options.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 2,
		cooldown:         10 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name returns the circuit breaker's name for logging/metrics.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current circuit state, promoting open to half-open once the cooldown passed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.promote()
	return b.state
}

// Allow reports whether a call may be attempted now.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.promote()
	return b.state != StateOpen
}

// RecordFailure records a failed call.
func (b *Breaker) RecordFailure() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.successCount = 0

	switch b.state {
	case StateHalfOpen:
		b.trip()
		return StateChange{Opened: true}
	case StateOpen:
		return StateChange{}
	}

	if b.failureCount >= b.failureThreshold {
		b.trip()
		return StateChange{Opened: true}
	}
	return StateChange{}
}

// RecordSuccess records a successful call.
func (b *Breaker) RecordSuccess() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.state = StateClosed
			b.failureCount = 0
			b.successCount = 0
			return StateChange{Closed: true}
		}
		return StateChange{}
	}

	b.failureCount = 0
	return StateChange{}
}

// Reset resets the circuit breaker to closed state with zero counts.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.successCount = 0
}

// promote must be called with mu held.
func (b *Breaker) promote() {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		b.state = StateHalfOpen
		b.successCount = 0
	}
}
