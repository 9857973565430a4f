// Package tracer is a small tracing abstraction so services emit spans without
// importing OpenTelemetry directly.
//
// Implementations:
//   - NoopTracer for tests and unconfigured deployments
//   - OTelTracer backed by the global OpenTelemetry provider
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to a span.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names for the credential lifecycle.
const (
	SpanIssue       = "credential.issue"
	SpanIssueSign   = "credential.issue.sign"
	SpanIssueStore  = "credential.issue.store"
	SpanIssueAnchor = "credential.issue.anchor"
	SpanRevoke      = "credential.revoke"
	SpanVerify      = "credential.verify"
)

// Attribute keys.
const (
	AttrCredentialID = "credential.id"
	AttrIssuerDID    = "credential.issuer_did"
	AttrStatus       = "credential.status"
	AttrAnchorTxID   = "anchor.tx_id"
	AttrAnchorReused = "anchor.reused"
	AttrVerified     = "verification.verified"
)
