package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"credvault/internal/platform/tracer"
)

func TestNoopTracerLeavesContextUnchanged(t *testing.T) {
	ctx := context.Background()
	got, span := tracer.NewNoop().Start(ctx, tracer.SpanIssue, tracer.String(tracer.AttrCredentialID, "cred_1"))

	assert.Equal(t, ctx, got)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Bool(tracer.AttrAnchorReused, false))
	span.AddEvent("anchored")
	span.End(errors.New("boom"))
}

func TestOTelTracerWithInjectedProvider(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))

	ctx, span := tr.Start(context.Background(), tracer.SpanIssueAnchor,
		tracer.String(tracer.AttrAnchorTxID, "txn_1"),
		tracer.Int64("attempt", 1),
		tracer.Duration("backoff", 200*time.Millisecond),
		tracer.Attribute{Key: "ignored", Value: struct{}{}},
	)
	require.NotNil(t, ctx)
	span.AddEvent("submitted", tracer.Bool("ok", true))
	span.End(nil)
}

func TestOTelTracerDefaultsToGlobalProvider(t *testing.T) {
	_, span := tracer.NewOTel().Start(context.Background(), tracer.SpanVerify)
	span.End(errors.New("rejected"))
}

func TestDurationInMilliseconds(t *testing.T) {
	assert.Equal(t, int64(150), tracer.Duration("latency", 150*time.Millisecond).Value)
}
