package audit

import (
	"context"

	"github.com/goliatone/go-auditform/pkg/instance"
)

// View is a live, fillable audit form: either the generic renderer driven by a
// JSON description or a hand-built custom form.
type View interface {
	AuditID() string
	Title() string
	// Manager exposes the live controls. Callers edit values through the
	// controls; membership changes go through the Manager.
	Manager() *instance.Manager
	// Warnings returns non-blocking notices keyed by "<section>.<field>".
	Warnings() map[string]string
	// Submit validates every section and hands the payload to the sink only
	// when all of them pass.
	Submit(ctx context.Context) (Payload, error)
	// Reset restores every section to its defaults.
	Reset()
	// Close detaches rules; the view must not be used afterwards.
	Close()
}

// Sink receives validated submissions.
type Sink interface {
	Submit(ctx context.Context, payload Payload) error
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, payload Payload) error

// Submit delegates to the underlying function.
func (fn SinkFunc) Submit(ctx context.Context, payload Payload) error {
	return fn(ctx, payload)
}

// DiscardSink accepts and drops every payload.
var DiscardSink Sink = SinkFunc(func(context.Context, Payload) error { return nil })
