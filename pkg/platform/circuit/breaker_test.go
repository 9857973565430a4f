package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("anchor", WithFailureThreshold(3))

	assert.False(t, b.RecordFailure().Opened)
	assert.False(t, b.RecordFailure().Opened)
	assert.True(t, b.RecordFailure().Opened)
	assert.False(t, b.Allow())
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("anchor", WithFailureThreshold(2))

	b.RecordFailure()
	b.RecordSuccess()
	assert.False(t, b.RecordFailure().Opened)
	assert.True(t, b.Allow())
}

func TestBreaker_HalfOpenAfterCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := New("anchor",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithCooldown(time.Second),
		WithClock(clock.Now),
	)

	b.RecordFailure()
	assert.False(t, b.Allow())

	clock.Advance(time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())

	assert.False(t, b.RecordSuccess().Closed)
	assert.True(t, b.RecordSuccess().Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := New("anchor", WithFailureThreshold(1), WithCooldown(time.Second), WithClock(clock.Now))

	b.RecordFailure()
	clock.Advance(2 * time.Second)
	assert.True(t, b.Allow())

	assert.True(t, b.RecordFailure().Opened)
	assert.False(t, b.Allow())
}

func TestBreaker_Reset(t *testing.T) {
	b := New("anchor", WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	assert.True(t, b.Allow())
	assert.Equal(t, "closed", b.State().String())
}
