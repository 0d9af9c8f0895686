package audit

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/instance"
)

// ValidateSections checks every listed section and touches the controls of the
// invalid ones so their errors display. It reports whether all passed.
func ValidateSections(m *instance.Manager, keys ...string) bool {
	if len(keys) == 0 {
		keys = m.Sections()
	}
	valid := true
	for _, key := range keys {
		if m.IsSectionValid(key) {
			continue
		}
		valid = false
		m.TouchAll(key)
	}
	return valid
}

// Collect gathers the value set of each listed section. Sections named in
// enabledOnly drop their disabled controls; the rest submit raw values.
func Collect(m *instance.Manager, keys []string, enabledOnly []string) map[string]map[string]any {
	if len(keys) == 0 {
		keys = m.Sections()
	}
	skipDisabled := make(map[string]struct{}, len(enabledOnly))
	for _, key := range enabledOnly {
		skipDisabled[key] = struct{}{}
	}
	out := make(map[string]map[string]any, len(keys))
	for _, key := range keys {
		if _, ok := skipDisabled[key]; ok {
			out[key] = m.Values(key)
			continue
		}
		out[key] = m.RawValues(key)
	}
	return out
}

// Submit validates every section of the submission and, only when all of them
// pass, assembles the payload and hands it to sink. On failure the invalid
// sections are touched and an *InvalidError is returned; nothing reaches the
// sink.
func Submit(ctx context.Context, m *instance.Manager, sub Submission, sink Sink) (Payload, error) {
	if m == nil {
		return Payload{}, fmt.Errorf("audit: manager is required")
	}
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}
	keys := sub.Sections
	if len(keys) == 0 {
		keys = m.Sections()
	}

	sections := Collect(m, keys, sub.EnabledOnly)
	if !ValidateSections(m, keys...) {
		return Payload{}, &InvalidError{Report: ErrorReport(m, keys...)}
	}

	payload := newPayload(sub, sections)
	if sink == nil {
		sink = DiscardSink
	}
	if err := sink.Submit(ctx, payload); err != nil {
		return Payload{}, fmt.Errorf("audit: submit %s: %w", sub.AuditID, err)
	}
	return payload, nil
}

// DropdownOptions turns plain values into options labelled by themselves.
func DropdownOptions(values ...string) []form.Option {
	out := make([]form.Option, 0, len(values))
	for _, value := range values {
		out = append(out, form.Option{Label: value, Value: value})
	}
	return out
}

// DropdownOptionsFromMap turns a value→label map into options ordered by value.
func DropdownOptionsFromMap(labels map[string]string) []form.Option {
	values := make([]string, 0, len(labels))
	for value := range labels {
		values = append(values, value)
	}
	sort.Strings(values)
	out := make([]form.Option, 0, len(values))
	for _, value := range values {
		out = append(out, form.Option{Label: labels[value], Value: value})
	}
	return out
}
