package renderer

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/rules"
)

// Option configures a View.
type Option func(*View)

// WithSink sets where validated submissions go. Defaults to audit.DiscardSink.
func WithSink(sink audit.Sink) Option {
	return func(v *View) {
		if sink != nil {
			v.sink = sink
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithTenant stamps submissions with the tenant code.
func WithTenant(code string) Option {
	return func(v *View) {
		v.tenant = code
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(v *View) {
		if now != nil {
			v.now = now
		}
	}
}

// WithRangeWarnings enables non-blocking out-of-range notices on every field
// whose name matches one of the rules (rules.DefaultRanges when none given).
func WithRangeWarnings(ranges ...rules.RangeRule) Option {
	return func(v *View) {
		v.warnings = rules.NewRangeWarnings(ranges...)
	}
}
