package instance

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/control"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/layout"
)

func (m *Manager) dynamic(key string) (*section, bool) {
	sec, ok := m.sections[key]
	if !ok || sec.layout != form.LayoutDynamicRows {
		return nil, false
	}
	return sec, true
}

// RowCount returns the number of rows of a dynamic section, 0 otherwise.
func (m *Manager) RowCount(key string) int {
	sec, ok := m.dynamic(key)
	if !ok {
		return 0
	}
	return sec.rows
}

// CanAddRow reports whether another row fits under maxRows.
func (m *Manager) CanAddRow(key string) bool {
	sec, ok := m.dynamic(key)
	if !ok {
		return false
	}
	_, maxRows, _ := sec.spec.DynamicBounds()
	return sec.rows < maxRows
}

// CanRemoveRow reports whether a row can go without dropping below minRows.
func (m *Manager) CanRemoveRow(key string) bool {
	sec, ok := m.dynamic(key)
	if !ok {
		return false
	}
	minRows, _, _ := sec.spec.DynamicBounds()
	return sec.rows > minRows
}

// AddRow appends a row of fresh controls seeded with template defaults. It is
// a no-op returning false at maxRows or outside dynamic sections.
func (m *Manager) AddRow(key string) bool {
	if !m.CanAddRow(key) {
		return false
	}
	sec, _ := m.dynamic(key)
	row := sec.rows
	for _, field := range layout.ExpandRow(sec.spec, row) {
		sec.fields = append(sec.fields, field)
		sec.controls[field.Name] = control.New(field.Name, field.Spec)
	}
	sec.rows++
	m.logger.Debug("dynamic row added", zap.String("section", key), zap.Int("rows", sec.rows))
	m.notifyRebuild(key)
	return true
}

// RemoveRow drops the highest-index row.
func (m *Manager) RemoveRow(key string) bool {
	return m.RemoveRowAt(key, -1)
}

// RemoveRowAt drops the row at index. Rows after it shift up by one so their
// values stay with their data rather than with stale indices: every row is
// snapshotted, the target is spliced out, all controls are discarded and rows
// 0..n-2 are instantiated afresh from the snapshot. An index outside the
// current rows removes the last row. At minRows the call is a no-op.
func (m *Manager) RemoveRowAt(key string, index int) bool {
	if !m.CanRemoveRow(key) {
		return false
	}
	sec, _ := m.dynamic(key)

	if index < 0 || index >= sec.rows {
		last := sec.rows - 1
		kept := sec.fields[:0:0]
		for _, field := range sec.fields {
			if field.Row == last {
				delete(sec.controls, field.Name)
				continue
			}
			kept = append(kept, field)
		}
		sec.fields = kept
		sec.rows--
		m.logger.Debug("dynamic row removed", zap.String("section", key), zap.Int("row", last), zap.Int("rows", sec.rows))
		m.notifyRebuild(key)
		return true
	}

	snapshot := make([]map[string]any, 0, sec.rows)
	for row := 0; row < sec.rows; row++ {
		record := make(map[string]any, len(sec.spec.Fields))
		for _, spec := range sec.spec.Fields {
			if c, ok := sec.controls[layout.RowFieldName(row, spec.Name)]; ok {
				record[spec.Name] = c.Value()
			}
		}
		snapshot = append(snapshot, record)
	}
	snapshot = append(snapshot[:index], snapshot[index+1:]...)

	sec.controls = make(map[string]*control.Control, len(snapshot)*len(sec.spec.Fields))
	sec.fields = layout.ExpandDynamic(sec.spec, len(snapshot))
	for _, field := range sec.fields {
		value := field.Spec.Value
		if captured, ok := snapshot[field.Row][field.Base]; ok && !blank(captured) {
			value = captured
		}
		sec.controls[field.Name] = control.NewWithValue(field.Name, field.Spec, value)
	}
	sec.rows = len(snapshot)

	m.logger.Debug("dynamic row removed", zap.String("section", key), zap.Int("row", index), zap.Int("rows", sec.rows))
	m.notifyRebuild(key)
	return true
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
