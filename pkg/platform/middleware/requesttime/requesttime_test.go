package requesttime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithClock_PinsTimeForRequest(t *testing.T) {
	fixed := time.Date(2024, 6, 15, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	var first, second time.Time
	handler := WithClock(func() time.Time { return fixed })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = Now(r.Context())
		second = Now(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, first, second)
	assert.True(t, first.Equal(fixed))
	assert.Equal(t, time.UTC, first.Location())
}

func TestMiddleware_UsesWallClock(t *testing.T) {
	var captured time.Time
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = Now(r.Context())
	}))

	before := time.Now()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, captured.Before(before.Truncate(time.Second)))
}

func TestNow_FallbackIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Now(context.Background()).Location())
}

func TestWithTime_Overrides(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	ctx := WithTime(WithTime(context.Background(), first), second)

	assert.Equal(t, second, Now(ctx))
}
