package rules

import (
	"strings"
	"time"

	"github.com/goliatone/go-auditform/pkg/control"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"01/02/2006",
}

// WeekdayName returns the English weekday name (Sunday…Saturday) of t.
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}

// ParseDate accepts time.Time values and the date encodings produced by date
// inputs and JSON documents.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// DateToWeekday keeps day in sync with date: every change to date writes the
// weekday name into day, or clears it when date is empty or unparsable. The
// write is silent so day listeners never fire from it. The returned function
// detaches the rule.
func DateToWeekday(date, day *control.Control) func() {
	if date == nil || day == nil {
		return func() {}
	}
	return date.Subscribe(func(change control.Change) {
		t, ok := ParseDate(change.Value)
		if !ok {
			day.SetValue("", control.Silent())
			return
		}
		day.SetValue(WeekdayName(t), control.Silent())
	})
}
