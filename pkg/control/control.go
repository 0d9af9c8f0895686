package control

import (
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/validators"
)

// Change is delivered to listeners after a control's value is assigned.
type Change struct {
	Name     string
	Value    any
	Previous any
}

// Listener reacts to value changes.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// SetOption tunes a single SetValue call.
type SetOption func(*setOptions)

type setOptions struct {
	silent bool
}

// Silent suppresses change notifications for this write. Rules use it when
// writing derived values back so they never trigger further listeners.
func Silent() SetOption {
	return func(o *setOptions) {
		o.silent = true
	}
}

// Control is the live state of one instantiated field. Listeners run
// synchronously in registration order before SetValue returns. A Control is
// owned by a single rendering session and is not safe for concurrent use.
type Control struct {
	name       string
	spec       form.FieldSpec
	value      any
	disabled   bool
	touched    bool
	dirty      bool
	rules      []validators.Validator
	required   bool
	failures   []validators.Failure
	listeners  []subscription
	nextListen int
}

// New instantiates a control from a field template. The initial value is the
// template's value (empty string when unset) and the control starts disabled
// only when the template says so; readonly fields stay enabled.
func New(name string, spec form.FieldSpec) *Control {
	c := &Control{
		name:     name,
		spec:     spec,
		value:    initialValue(spec.Value),
		disabled: spec.Disabled,
		rules:    validators.Build(spec),
	}
	c.UpdateValidity()
	return c
}

// NewWithValue is New seeded with an explicit value instead of the template
// default.
func NewWithValue(name string, spec form.FieldSpec, value any) *Control {
	c := New(name, spec)
	c.value = initialValue(value)
	c.UpdateValidity()
	return c
}

func initialValue(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// Name returns the instantiated field name.
func (c *Control) Name() string { return c.name }

// Spec returns the field template the control was built from.
func (c *Control) Spec() form.FieldSpec { return c.spec }

// Value returns the current value.
func (c *Control) Value() any { return c.value }

// Disabled reports whether the control is excluded from editing.
func (c *Control) Disabled() bool { return c.disabled }

// Readonly mirrors the template flag. Readonly controls remain enabled and
// part of every value extraction.
func (c *Control) Readonly() bool { return c.spec.Readonly }

// Touched reports whether the control was visited or force-touched.
func (c *Control) Touched() bool { return c.touched }

// Dirty reports whether the user edited the control.
func (c *Control) Dirty() bool { return c.dirty }

// Subscribe registers a listener and returns a function that removes it.
func (c *Control) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	c.nextListen++
	id := c.nextListen
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range c.listeners {
			if sub.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// SetValue assigns a value, recomputes validity and, unless Silent is passed,
// notifies listeners.
func (c *Control) SetValue(value any, opts ...SetOption) {
	var cfg setOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	previous := c.value
	c.value = value
	c.UpdateValidity()

	if cfg.silent {
		return
	}
	c.emit(Change{Name: c.name, Value: value, Previous: previous})
}

// Input records a user edit: the control becomes dirty and listeners fire.
func (c *Control) Input(value any) {
	c.dirty = true
	c.SetValue(value)
}

func (c *Control) emit(change Change) {
	if len(c.listeners) == 0 {
		return
	}
	snapshot := append([]subscription(nil), c.listeners...)
	for _, sub := range snapshot {
		sub.fn(change)
	}
}

// SetRequired toggles a requirement on top of the declared rules and
// recomputes validity without notifying listeners.
func (c *Control) SetRequired(required bool) {
	c.required = required
	c.UpdateValidity()
}

// Required reports whether an empty value currently fails validation.
func (c *Control) Required() bool {
	if c.required {
		return true
	}
	for _, rule := range c.rules {
		if rule.Kind() == form.ValidatorRequired {
			return true
		}
	}
	return false
}

// UpdateValidity re-runs every rule against the current value.
func (c *Control) UpdateValidity() {
	if c.disabled {
		c.failures = nil
		return
	}
	rules := c.rules
	if c.required {
		rules = append([]validators.Validator{validators.Required()}, c.rules...)
	}
	c.failures = validators.Run(c.value, rules)
}

// Enable re-admits the control to validation.
func (c *Control) Enable() {
	c.disabled = false
	c.UpdateValidity()
}

// Disable exempts the control from validation and from Values extraction.
func (c *Control) Disable() {
	c.disabled = true
	c.UpdateValidity()
}

// MarkTouched flags the control so its error is displayed.
func (c *Control) MarkTouched() { c.touched = true }

// Reset restores value and interaction flags. Listeners are notified so
// derived values follow the reset.
func (c *Control) Reset(value any) {
	c.touched = false
	c.dirty = false
	c.SetValue(initialValue(value))
}

// Errors returns the failing rules in evaluation order.
func (c *Control) Errors() []validators.Failure {
	return append([]validators.Failure(nil), c.failures...)
}

// HasError reports whether a rule of the given kind is failing.
func (c *Control) HasError(kind string) bool {
	for _, failure := range c.failures {
		if failure.Kind == kind {
			return true
		}
	}
	return false
}

// Valid reports whether every rule passes. Disabled controls are always valid.
func (c *Control) Valid() bool {
	return len(c.failures) == 0
}

// ErrorMessage resolves the message shown for the current failures.
func (c *Control) ErrorMessage() string {
	return validators.Message(c.spec, c.failures)
}

// ShowError reports whether an inline error should be displayed: the control
// is invalid and the user has interacted with it or a submit forced it.
func (c *Control) ShowError() bool {
	return !c.Valid() && (c.dirty || c.touched)
}
