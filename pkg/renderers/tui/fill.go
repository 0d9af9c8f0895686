package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/control"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/instance"
)

// errRetry asks the field loop to prompt again; the reason was already shown.
var errRetry = errors.New("tui: retry")

// Filler walks a live audit form in the terminal, one prompt per editable
// control. Disabled and readonly controls are skipped. Every answer goes
// through the control as a user edit, so cross-field rules run exactly as
// they would for any other input.
type Filler struct {
	driver     PromptDriver
	theme      Theme
	logger     *zap.Logger
	rowPrompts bool
}

// New constructs a Filler with defaults (survey driver, DefaultTheme, add-row
// prompts on).
func New(options ...Option) *Filler {
	f := &Filler{
		driver:     NewSurveyDriver(nil),
		theme:      DefaultTheme,
		logger:     zap.NewNop(),
		rowPrompts: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Fill prompts for every section of view in order. A control whose answer
// fails validation is asked again with its error message.
func (f *Filler) Fill(ctx context.Context, view audit.View) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if view == nil {
		return ErrNoView
	}
	m := view.Manager()

	if err := f.info(ctx, "", view.Title()); err != nil {
		return err
	}
	for _, key := range m.Sections() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.info(ctx, f.theme.SectionPrefix, key); err != nil {
			return err
		}
		if m.Layout(key) == form.LayoutDynamicRows {
			if err := f.fillDynamic(ctx, view, key); err != nil {
				return err
			}
			continue
		}
		for _, field := range m.Fields(key) {
			if err := f.fillField(ctx, view, key, field.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Filler) fillDynamic(ctx context.Context, view audit.View, key string) error {
	m := view.Manager()
	row := 0
	for {
		for ; row < m.RowCount(key); row++ {
			if err := f.info(ctx, "", fmt.Sprintf("Row %d", row+1)); err != nil {
				return err
			}
			for _, field := range m.Fields(key) {
				if field.Row != row {
					continue
				}
				if err := f.fillField(ctx, view, key, field.Name); err != nil {
					return err
				}
			}
		}
		if !f.rowPrompts || !m.CanAddRow(key) {
			return nil
		}
		more, err := f.driver.Confirm(ctx, Question{Message: fmt.Sprintf("Add another row to %s?", key)})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		m.AddRow(key)
		f.logger.Debug("row added from terminal", zap.String("section", key), zap.Int("rows", m.RowCount(key)))
	}
}

func (f *Filler) fillField(ctx context.Context, view audit.View, key, name string) error {
	c, ok := view.Manager().Get(key, name)
	if !ok || c.Disabled() || c.Readonly() {
		return nil
	}
	for {
		value, err := f.prompt(ctx, c)
		if errors.Is(err, errRetry) {
			continue
		}
		if err != nil {
			return err
		}

		c.Input(value)
		c.MarkTouched()
		if !c.Valid() {
			if err := f.info(ctx, f.theme.ErrorPrefix, fmt.Sprintf("%s: %s", c.Spec().DisplayLabel(), c.ErrorMessage())); err != nil {
				return err
			}
			continue
		}
		if warning := view.Warnings()[key+"."+name]; warning != "" {
			if err := f.info(ctx, f.theme.WarningPrefix, warning); err != nil {
				return err
			}
		}
		return nil
	}
}

func (f *Filler) prompt(ctx context.Context, c *control.Control) (any, error) {
	spec := c.Spec()
	label := spec.DisplayLabel()
	if c.Required() {
		label += " *"
	}
	q := Question{
		Message:  label,
		Help:     displayHelp(spec),
		Default:  defaultString(c.Value()),
		Selected: -1,
	}

	switch {
	case spec.Type.IsChoice() && len(spec.Options) > 0:
		current := q.Default
		q.Default = ""
		for i, option := range spec.Options {
			q.Options = append(q.Options, option.Label)
			if current != "" && fmt.Sprint(option.Value) == current {
				q.Selected = i
			}
		}
		idx, err := f.driver.Choose(ctx, q)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(q.Options) {
			if err := f.info(ctx, f.theme.ErrorPrefix, fmt.Sprintf("%s: invalid selection", spec.DisplayLabel())); err != nil {
				return nil, err
			}
			return nil, errRetry
		}
		return spec.Options[idx].Value, nil

	case spec.Type == form.FieldTypeCheckbox:
		q.Default = ""
		q.DefaultYes = truthy(c.Value())
		return f.driver.Confirm(ctx, q)

	case spec.Type == form.FieldTypeTextarea:
		return f.driver.Multiline(ctx, q)

	case spec.Type == form.FieldTypePassword:
		q.Default = ""
		return f.driver.Secret(ctx, q)

	case spec.Type == form.FieldTypeNumber:
		raw, err := f.driver.Text(ctx, q)
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return "", nil
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			if err := f.info(ctx, f.theme.ErrorPrefix, fmt.Sprintf("%s: enter a number", spec.DisplayLabel())); err != nil {
				return nil, err
			}
			return nil, errRetry
		}
		return n, nil

	default:
		if q.Help == "" {
			switch spec.Type {
			case form.FieldTypeDate:
				q.Help = "YYYY-MM-DD"
			case form.FieldTypeTime:
				q.Help = "HH:MM"
			}
		}
		raw, err := f.driver.Text(ctx, q)
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(raw), nil
	}
}

// ShowReport prints every blocked field of a failed submission.
func (f *Filler) ShowReport(ctx context.Context, report audit.Report) error {
	for _, key := range report.Sections() {
		if err := f.info(ctx, f.theme.SectionPrefix, key); err != nil {
			return err
		}
		for _, name := range sortedKeys(report[key]) {
			if err := f.info(ctx, f.theme.ErrorPrefix, fmt.Sprintf("%s: %s", name, report[key][name])); err != nil {
				return err
			}
		}
	}
	return nil
}

// Confirm asks a yes/no question through the driver.
func (f *Filler) Confirm(ctx context.Context, msg string) (bool, error) {
	return f.driver.Confirm(ctx, Question{Message: msg})
}

// Summary prints the collected raw values of every section.
func (f *Filler) Summary(ctx context.Context, m *instance.Manager) error {
	for _, key := range m.Sections() {
		if err := f.info(ctx, f.theme.SectionPrefix, key); err != nil {
			return err
		}
		values := m.RawValues(key)
		for _, field := range m.Fields(key) {
			if err := f.info(ctx, f.theme.InfoPrefix, fmt.Sprintf("%s: %s", field.Name, defaultString(values[field.Name]))); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Filler) info(ctx context.Context, prefix, msg string) error {
	if msg == "" {
		return nil
	}
	return f.driver.Info(ctx, prefix+msg)
}

func displayHelp(spec form.FieldSpec) string {
	if spec.HelpText != "" {
		return spec.HelpText
	}
	if spec.Hint != "" {
		return spec.Hint
	}
	return spec.Placeholder
}

func defaultString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
