package customforms

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/audit"
)

// Option configures a custom form.
type Option func(*config)

type config struct {
	sink     audit.Sink
	logger   *zap.Logger
	tenant   string
	now      func() time.Time
	operator string
}

func newConfig(options []Option) config {
	cfg := config{
		sink:     audit.DiscardSink,
		logger:   zap.NewNop(),
		now:      time.Now,
		operator: DefaultOperator,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithSink sets where validated submissions go.
func WithSink(sink audit.Sink) Option {
	return func(c *config) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTenant stamps submissions with the tenant code.
func WithTenant(code string) Option {
	return func(c *config) {
		c.tenant = code
	}
}

// WithClock sets the source of the default date and the submission time.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithOperator overrides the prefilled operator signature name.
func WithOperator(name string) Option {
	return func(c *config) {
		c.operator = name
	}
}
