package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/instance"
	"github.com/goliatone/go-auditform/pkg/rules"
)

// View renders an audit form from its declarative description: every section
// is expanded and instantiated, then the cross-field rules are attached.
type View struct {
	form     form.AuditForm
	manager  *instance.Manager
	bindings *rules.Bindings
	sink     audit.Sink
	logger   *zap.Logger
	tenant   string
	now      func() time.Time

	warnings    *rules.RangeWarnings
	warnDetach  map[string][]func()
	stopRebuild func()
}

var _ audit.View = (*View)(nil)

// New builds the live form. The description must pass form.Validate.
func New(f form.AuditForm, options ...Option) (*View, error) {
	if err := form.Validate(f); err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	v := &View{
		form:   f,
		sink:   audit.DiscardSink,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}

	v.manager = instance.New(instance.WithLogger(v.logger))
	for _, section := range f.Sections {
		if err := v.manager.Build(section); err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
	}
	v.bindings = rules.NewEngine(rules.WithLogger(v.logger)).Attach(v.manager, f)

	if v.warnings != nil {
		v.warnDetach = make(map[string][]func())
		for _, key := range v.manager.Sections() {
			v.watchSection(key)
		}
		v.stopRebuild = v.manager.OnRebuild(v.watchSection)
	}

	v.logger.Debug("audit form rendered",
		zap.String("audit", f.ID),
		zap.Int("sections", len(f.Sections)),
		zap.Int("rules", v.bindings.Len()),
	)
	return v, nil
}

func (v *View) watchSection(key string) {
	for _, detach := range v.warnDetach[key] {
		detach()
	}
	v.warnings.Forget(key + ".")
	detachers := make([]func(), 0)
	for _, c := range v.manager.Controls(key) {
		detachers = append(detachers, v.warnings.Watch(key+"."+c.Name(), c))
	}
	v.warnDetach[key] = detachers
}

// AuditID returns the form id.
func (v *View) AuditID() string { return v.form.ID }

// Title returns the form title.
func (v *View) Title() string { return v.form.Title }

// Form returns the description the view was built from.
func (v *View) Form() form.AuditForm { return v.form }

// Manager exposes the live controls.
func (v *View) Manager() *instance.Manager { return v.manager }

// Warnings returns the current range notices, empty unless enabled.
func (v *View) Warnings() map[string]string {
	if v.warnings == nil {
		return map[string]string{}
	}
	return v.warnings.All()
}

// Submit validates all sections and forwards the payload to the sink.
func (v *View) Submit(ctx context.Context) (audit.Payload, error) {
	payload, err := audit.Submit(ctx, v.manager, audit.Submission{
		AuditID: v.form.ID,
		Title:   v.form.Title,
		Tenant:  v.tenant,
		Now:     v.now,
	}, v.sink)
	if err != nil {
		var invalid *audit.InvalidError
		if errors.As(err, &invalid) {
			v.logger.Info("audit submission blocked",
				zap.String("audit", v.form.ID),
				zap.Strings("sections", invalid.Report.Sections()),
				zap.Int("fields", invalid.Report.Count()),
			)
			return audit.Payload{}, err
		}
		v.logger.Error("audit submission failed", zap.String("audit", v.form.ID), zap.Error(err))
		return audit.Payload{}, err
	}
	v.logger.Info("audit submitted", zap.String("audit", v.form.ID), zap.String("submission", payload.ID))
	return payload, nil
}

// Reset restores every section to its template defaults.
func (v *View) Reset() {
	for _, key := range v.manager.Sections() {
		v.manager.Reset(key, nil)
	}
}

// Close detaches rules and warnings.
func (v *View) Close() {
	if v.bindings != nil {
		v.bindings.Detach()
	}
	if v.stopRebuild != nil {
		v.stopRebuild()
	}
	for _, detachers := range v.warnDetach {
		for _, detach := range detachers {
			detach()
		}
	}
	v.warnDetach = nil
}
