package audit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-auditform/pkg/instance"
)

// ErrInvalid is matched (errors.Is) by every InvalidError.
var ErrInvalid = errors.New("audit: form is invalid")

// Report maps section keys to field names to the message each invalid field
// displays.
type Report map[string]map[string]string

// Sections returns the keys of sections with at least one error, sorted.
func (r Report) Sections() []string {
	keys := make([]string, 0, len(r))
	for key, fields := range r {
		if len(fields) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of invalid fields across sections.
func (r Report) Count() int {
	total := 0
	for _, fields := range r {
		total += len(fields)
	}
	return total
}

// InvalidError blocks a submission and carries the per-field messages.
type InvalidError struct {
	Report Report
}

func (e *InvalidError) Error() string {
	sections := e.Report.Sections()
	return fmt.Sprintf("audit: %d invalid field(s) in %s", e.Report.Count(), strings.Join(sections, ", "))
}

// Is lets errors.Is(err, ErrInvalid) match.
func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalid
}

// ErrorReport collects the resolved message of every invalid control in the
// given sections. Sections without errors are omitted.
func ErrorReport(m *instance.Manager, keys ...string) Report {
	if len(keys) == 0 {
		keys = m.Sections()
	}
	report := make(Report)
	for _, key := range keys {
		for _, c := range m.Controls(key) {
			if c.Valid() {
				continue
			}
			message := strings.TrimSpace(c.ErrorMessage())
			if message == "" {
				continue
			}
			if report[key] == nil {
				report[key] = make(map[string]string)
			}
			report[key][c.Name()] = message
		}
	}
	return report
}
