package instance

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/control"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/layout"
)

// Option customises a Manager.
type Option func(*Manager)

// WithLogger routes row operation diagnostics to the provided logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

type section struct {
	spec     form.SectionSpec
	layout   form.Layout
	fields   []layout.Field
	controls map[string]*control.Control
	rows     int
}

// Manager owns the live control set of every section in a rendering session.
// All mutation of the controls' membership goes through its methods; a
// Manager is not safe for concurrent use.
type Manager struct {
	order     []string
	sections  map[string]*section
	listeners []rebuildListener
	nextID    int
	logger    *zap.Logger
}

type rebuildListener struct {
	id int
	fn func(key string)
}

// New constructs an empty Manager.
func New(options ...Option) *Manager {
	m := &Manager{
		sections: make(map[string]*section),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Build expands a section through its layout and instantiates a control per
// expanded field, replacing any existing instance under the same key.
func (m *Manager) Build(spec form.SectionSpec) error {
	key := spec.Key()
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("instance: section title is required")
	}
	effective := spec.EffectiveLayout()
	fields := layout.Expand(spec)
	sec, err := newSection(spec, effective, fields)
	if err != nil {
		return fmt.Errorf("instance: section %q: %w", key, err)
	}
	if effective == form.LayoutDynamicRows {
		_, _, sec.rows = spec.DynamicBounds()
	}
	m.put(key, sec)
	return nil
}

// BuildFields instantiates controls for an already expanded field list under
// key. Hand-built forms use it to bypass layout expansion.
func (m *Manager) BuildFields(key string, fields []layout.Field) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("instance: section key is required")
	}
	sec, err := newSection(form.SectionSpec{Title: key}, form.LayoutColumns, fields)
	if err != nil {
		return fmt.Errorf("instance: section %q: %w", key, err)
	}
	m.put(key, sec)
	return nil
}

func newSection(spec form.SectionSpec, effective form.Layout, fields []layout.Field) (*section, error) {
	sec := &section{
		spec:     spec,
		layout:   effective,
		fields:   append([]layout.Field(nil), fields...),
		controls: make(map[string]*control.Control, len(fields)),
	}
	for _, field := range fields {
		if field.Name == "" {
			return nil, fmt.Errorf("field name is required")
		}
		if _, dup := sec.controls[field.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", field.Name)
		}
		sec.controls[field.Name] = control.New(field.Name, field.Spec)
	}
	return sec, nil
}

func (m *Manager) put(key string, sec *section) {
	if _, exists := m.sections[key]; !exists {
		m.order = append(m.order, key)
	}
	m.sections[key] = sec
}

// Sections returns the section keys in build order.
func (m *Manager) Sections() []string {
	return append([]string(nil), m.order...)
}

// Section returns the spec a section was built from.
func (m *Manager) Section(key string) (form.SectionSpec, bool) {
	sec, ok := m.sections[key]
	if !ok {
		return form.SectionSpec{}, false
	}
	return sec.spec, true
}

// Layout reports the effective layout of a section.
func (m *Manager) Layout(key string) form.Layout {
	sec, ok := m.sections[key]
	if !ok {
		return ""
	}
	return sec.layout
}

// Get returns a control by its instantiated name.
func (m *Manager) Get(key, name string) (*control.Control, bool) {
	sec, ok := m.sections[key]
	if !ok {
		return nil, false
	}
	c, ok := sec.controls[name]
	return c, ok
}

// Fields returns the instantiated fields of a section in expansion order.
func (m *Manager) Fields(key string) []layout.Field {
	sec, ok := m.sections[key]
	if !ok {
		return nil
	}
	return append([]layout.Field(nil), sec.fields...)
}

// Controls returns the section controls in expansion order.
func (m *Manager) Controls(key string) []*control.Control {
	sec, ok := m.sections[key]
	if !ok {
		return nil
	}
	out := make([]*control.Control, 0, len(sec.fields))
	for _, field := range sec.fields {
		out = append(out, sec.controls[field.Name])
	}
	return out
}

// RawValues returns the value of every control, disabled ones included. It is
// the extraction used for submission so prefilled disabled fields travel too.
func (m *Manager) RawValues(key string) map[string]any {
	sec, ok := m.sections[key]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(sec.controls))
	for name, c := range sec.controls {
		out[name] = c.Value()
	}
	return out
}

// Values returns the values of enabled controls only.
func (m *Manager) Values(key string) map[string]any {
	sec, ok := m.sections[key]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(sec.controls))
	for name, c := range sec.controls {
		if c.Disabled() {
			continue
		}
		out[name] = c.Value()
	}
	return out
}

// IsSectionValid reports whether every control in the section passes its
// rules.
func (m *Manager) IsSectionValid(key string) bool {
	sec, ok := m.sections[key]
	if !ok {
		return true
	}
	for _, c := range sec.controls {
		if !c.Valid() {
			return false
		}
	}
	return true
}

// TouchAll marks every control in the section touched so inline errors show.
func (m *Manager) TouchAll(key string) {
	sec, ok := m.sections[key]
	if !ok {
		return
	}
	for _, c := range sec.controls {
		c.MarkTouched()
	}
}

// Reset restores every control of the section to its template value. Values in
// overrides win over template defaults.
func (m *Manager) Reset(key string, overrides map[string]any) {
	sec, ok := m.sections[key]
	if !ok {
		return
	}
	for _, field := range sec.fields {
		value := field.Spec.Value
		if v, ok := overrides[field.Name]; ok {
			value = v
		}
		sec.controls[field.Name].Reset(value)
	}
}

// OnRebuild registers fn to run after rows are added to or removed from a
// dynamic section. Rules holding control references use it to re-attach.
func (m *Manager) OnRebuild(fn func(key string)) func() {
	if fn == nil {
		return func() {}
	}
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, rebuildListener{id: id, fn: fn})
	return func() {
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notifyRebuild(key string) {
	for _, l := range append([]rebuildListener(nil), m.listeners...) {
		l.fn(key)
	}
}
