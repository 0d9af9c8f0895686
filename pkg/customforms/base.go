package customforms

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/instance"
	"github.com/goliatone/go-auditform/pkg/layout"
	"github.com/goliatone/go-auditform/pkg/rules"
)

// DefaultOperator is the signature prefilled on operator fields.
const DefaultOperator = "John Smith"

const dateLayout = "2006-01-02"

// base carries the parts every hand-built form shares; each form supplies its
// sections, defaults and submission shape.
type base struct {
	id       string
	title    string
	cfg      config
	manager  *instance.Manager
	bindings *rules.Bindings
	warnings *rules.RangeWarnings

	enabledOnly []string
	defaults    func() map[string]map[string]any
}

func newBase(id, title string, cfg config) *base {
	return &base{
		id:       id,
		title:    title,
		cfg:      cfg,
		manager:  instance.New(instance.WithLogger(cfg.logger)),
		bindings: &rules.Bindings{},
	}
}

func (b *base) section(key string, fields ...form.FieldSpec) error {
	expanded := make([]layout.Field, 0, len(fields))
	for _, spec := range fields {
		expanded = append(expanded, layout.Field{
			Name: spec.Name,
			Spec: spec,
			Base: spec.Name,
			Row:  -1,
		})
	}
	return b.manager.BuildFields(key, expanded)
}

func (b *base) today() string {
	return b.cfg.now().Format(dateLayout)
}

func (b *base) AuditID() string { return b.id }

func (b *base) Title() string { return b.title }

func (b *base) Manager() *instance.Manager { return b.manager }

func (b *base) Warnings() map[string]string {
	if b.warnings == nil {
		return map[string]string{}
	}
	return b.warnings.All()
}

func (b *base) Submit(ctx context.Context) (audit.Payload, error) {
	payload, err := audit.Submit(ctx, b.manager, audit.Submission{
		AuditID:     b.id,
		Title:       b.title,
		Tenant:      b.cfg.tenant,
		EnabledOnly: b.enabledOnly,
		Now:         b.cfg.now,
	}, b.cfg.sink)
	if err != nil {
		var invalid *audit.InvalidError
		if errors.As(err, &invalid) {
			b.cfg.logger.Info("audit submission blocked",
				zap.String("audit", b.id),
				zap.Strings("sections", invalid.Report.Sections()),
			)
		}
		return audit.Payload{}, err
	}
	b.cfg.logger.Info("audit submitted", zap.String("audit", b.id), zap.String("submission", payload.ID))
	return payload, nil
}

// Reset restores every section to its defaults, including today's date.
func (b *base) Reset() {
	var defaults map[string]map[string]any
	if b.defaults != nil {
		defaults = b.defaults()
	}
	for _, key := range b.manager.Sections() {
		b.manager.Reset(key, defaults[key])
	}
}

func (b *base) Close() {
	b.bindings.Detach()
}

func required(name, label string, typ form.FieldType) form.FieldSpec {
	return form.FieldSpec{Name: name, Label: label, Type: typ, Required: true}
}

func choice(name, label string, options []form.Option) form.FieldSpec {
	spec := required(name, label, form.FieldTypeSelect)
	spec.Options = options
	return spec
}

func optional(name, label string, typ form.FieldType) form.FieldSpec {
	return form.FieldSpec{Name: name, Label: label, Type: typ}
}

func prefilled(spec form.FieldSpec, value any) form.FieldSpec {
	spec.Value = value
	return spec
}

func signatureID(name, label, value string) form.FieldSpec {
	return form.FieldSpec{Name: name, Label: label, Type: form.FieldTypeText, Disabled: true, Value: value}
}

func withValidators(spec form.FieldSpec, rules ...form.ValidatorSpec) form.FieldSpec {
	spec.Validators = append(spec.Validators, rules...)
	return spec
}
