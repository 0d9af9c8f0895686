package rules

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/control"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/instance"
	"github.com/goliatone/go-auditform/pkg/layout"
)

// Control names the engine looks for.
const (
	DateField         = "date"
	DayField          = "day"
	OperatorNameField = "operatorName"
)

// Bindings collects the detach functions of attached rules.
type Bindings struct {
	detach []func()
}

// Add keeps fn so Detach can run it.
func (b *Bindings) Add(fn func()) {
	if fn != nil {
		b.detach = append(b.detach, fn)
	}
}

// Len reports how many rules are attached.
func (b *Bindings) Len() int {
	return len(b.detach)
}

// Detach removes every attached rule in reverse attachment order.
func (b *Bindings) Detach() {
	for i := len(b.detach) - 1; i >= 0; i-- {
		b.detach[i]()
	}
	b.detach = nil
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger routes attachment diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine installs the cross-field rules a declarative form implies.
type Engine struct {
	logger *zap.Logger
}

// NewEngine constructs an Engine.
func NewEngine(options ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Attach wires the rules over the live controls of m:
//   - every section exposing both date and day controls derives day from date;
//   - every rows section with more than one header makes the later headers'
//     operatorName required while the first header's operatorName is filled.
func (e *Engine) Attach(m *instance.Manager, f form.AuditForm) *Bindings {
	bindings := &Bindings{}
	if m == nil {
		return bindings
	}

	for _, key := range m.Sections() {
		date, hasDate := m.Get(key, DateField)
		day, hasDay := m.Get(key, DayField)
		if hasDate && hasDay {
			bindings.Add(DateToWeekday(date, day))
			e.logger.Debug("rule attached", zap.String("rule", "date-weekday"), zap.String("section", key))
		}
	}

	for _, section := range f.Sections {
		if section.EffectiveLayout() != form.LayoutRows || len(section.RowHeaders) < 2 {
			continue
		}
		key := section.Key()
		first, ok := m.Get(key, layout.HeaderFieldName(section.RowHeaders[0], OperatorNameField))
		if !ok {
			continue
		}
		var others []*control.Control
		for _, header := range section.RowHeaders[1:] {
			if c, ok := m.Get(key, layout.HeaderFieldName(header, OperatorNameField)); ok {
				others = append(others, c)
			}
		}
		bindings.Add(RequiredCascade(first, others...))
		e.logger.Debug("rule attached", zap.String("rule", "operator-cascade"), zap.String("section", key))
	}

	return bindings
}
