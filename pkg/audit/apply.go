package audit

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/instance"
	"github.com/goliatone/go-auditform/pkg/layout"
)

// ApplyValues fills controls from a section → field → value map as if a user
// typed them, so cross-field rules fire. Dynamic sections grow until every
// row<i>_ key fits. Values are applied in expansion order; disabled controls
// keep their value. Unknown sections or fields, and rows past the section
// maximum, are an error reported before that section is touched.
func ApplyValues(m *instance.Manager, values map[string]map[string]any) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		if _, ok := m.Section(key); !ok {
			return fmt.Errorf("audit: unknown section %q", key)
		}
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return sectionIndex(m, keys[i]) < sectionIndex(m, keys[j])
	})

	for _, key := range keys {
		fields := values[key]
		need, err := rowsNeeded(m, key, fields)
		if err != nil {
			return err
		}
		for m.RowCount(key) < need {
			m.AddRow(key)
		}

		for _, field := range m.Fields(key) {
			value, ok := fields[field.Name]
			if !ok {
				continue
			}
			c, _ := m.Get(key, field.Name)
			if c.Disabled() {
				continue
			}
			c.Input(value)
		}
	}
	return nil
}

func sectionIndex(m *instance.Manager, key string) int {
	for i, k := range m.Sections() {
		if k == key {
			return i
		}
	}
	return -1
}

// rowsNeeded checks every key of a section against its templates and returns
// the row count a dynamic section must reach, 0 for other layouts.
func rowsNeeded(m *instance.Manager, key string, fields map[string]any) (int, error) {
	if m.Layout(key) != form.LayoutDynamicRows {
		known := make(map[string]struct{})
		for _, field := range m.Fields(key) {
			known[field.Name] = struct{}{}
		}
		for name := range fields {
			if _, ok := known[name]; !ok {
				return 0, fmt.Errorf("audit: section %q: unknown field %q", key, name)
			}
		}
		return 0, nil
	}

	spec, _ := m.Section(key)
	bases := make(map[string]struct{}, len(spec.Fields))
	for _, field := range spec.Fields {
		bases[field.Name] = struct{}{}
	}
	need := 0
	for name := range fields {
		row, base, ok := layout.ParseRowFieldName(name)
		if !ok {
			return 0, fmt.Errorf("audit: section %q: unknown field %q", key, name)
		}
		if _, known := bases[base]; !known {
			return 0, fmt.Errorf("audit: section %q: unknown field %q", key, name)
		}
		need = max(need, row+1)
	}
	if _, maxRows, _ := spec.DynamicBounds(); need > maxRows {
		return 0, fmt.Errorf("audit: section %q: %d rows exceed the maximum", key, need)
	}
	return need, nil
}
