package rules

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-auditform/pkg/control"
)

// RequiredCascade makes every control in others required while first holds a
// non-blank value, and lifts the requirement when first is cleared. The check
// runs once immediately and again on every change to first; validity of the
// targets is recomputed without emitting change events.
func RequiredCascade(first *control.Control, others ...*control.Control) func() {
	if first == nil {
		return func() {}
	}
	targets := make([]*control.Control, 0, len(others))
	for _, c := range others {
		if c != nil && c != first {
			targets = append(targets, c)
		}
	}

	apply := func(value any) {
		filled := Filled(value)
		for _, target := range targets {
			target.SetRequired(filled)
		}
	}

	apply(first.Value())
	return first.Subscribe(func(change control.Change) {
		apply(change.Value)
	})
}

// Filled reports whether a value is non-empty after trimming whitespace.
func Filled(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	default:
		return strings.TrimSpace(fmt.Sprint(v)) != ""
	}
}
