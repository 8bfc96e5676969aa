// Package tracer is a small tracing abstraction over OpenTelemetry.
//
// Services depend on Tracer rather than OTel types so tests can run with
// NoopTracer and production can plug in OTelTracer.
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span. A non-nil err marks the span failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start returns a context carrying the new span; pass it to child operations.
	//
	// Example:
	//   ctx, span := t.Start(ctx, tracer.SpanSign, tracer.String(tracer.AttrKeyID, keyID))
	//   defer func() { span.End(err) }()
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

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

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records the value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanIssue       = "statuslist.issue"
	SpanRevoke      = "statuslist.revoke"
	SpanSign        = "statuslist.sign"
	SpanStore       = "statuslist.store"
	SpanPublishJWKS = "statuslist.jwks.publish"
)

// Attribute keys.
const (
	AttrIndex      = "statuslist.index"
	AttrURI        = "statuslist.uri"
	AttrKeyID      = "signing.key_id"
	AttrContainer  = "storage.container"
	AttrStorageKey = "storage.key"
)

// Event names.
const (
	EventStatusPublished = "status_event.published"
)
