package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/goliatone/go-auditform/pkg/control"
	"github.com/goliatone/go-auditform/pkg/validators"
)

// RangeRule flags values of fields whose name contains Match (compared
// case-insensitively) when they fall outside [Min, Max].
type RangeRule struct {
	Match string
	Label string
	Min   float64
	Max   float64
}

// DefaultRanges covers the DEMIN plant readings.
var DefaultRanges = []RangeRule{
	{Match: "flow", Label: "Flow", Min: 50, Max: 100},
	{Match: "conductivity", Label: "Conductivity", Min: 10, Max: 200},
}

// RangeWarnings tracks non-blocking out-of-range notices keyed by field key.
// Warnings never affect validity.
type RangeWarnings struct {
	rules    []RangeRule
	folder   cases.Caser
	warnings map[string]string
}

// NewRangeWarnings constructs a tracker. Without rules DefaultRanges apply.
func NewRangeWarnings(rules ...RangeRule) *RangeWarnings {
	if len(rules) == 0 {
		rules = DefaultRanges
	}
	w := &RangeWarnings{
		folder:   cases.Fold(),
		warnings: make(map[string]string),
	}
	for _, rule := range rules {
		rule.Match = w.folder.String(rule.Match)
		w.rules = append(w.rules, rule)
	}
	return w
}

// Rule returns the range rule matching a field name.
func (w *RangeWarnings) Rule(fieldName string) (RangeRule, bool) {
	folded := w.folder.String(fieldName)
	for _, rule := range w.rules {
		if rule.Match != "" && strings.Contains(folded, rule.Match) {
			return rule, true
		}
	}
	return RangeRule{}, false
}

// Check evaluates value for the field and records or clears the warning under
// key. Empty and non-numeric values clear it.
func (w *RangeWarnings) Check(key, fieldName string, value any) {
	rule, ok := w.Rule(fieldName)
	if !ok {
		return
	}
	n, numeric := validators.Number(value)
	if !numeric || (n >= rule.Min && n <= rule.Max) {
		delete(w.warnings, key)
		return
	}
	w.warnings[key] = fmt.Sprintf("%s %s is outside the expected range %s-%s",
		rule.Label, format(n), format(rule.Min), format(rule.Max))
}

// Watch subscribes to c and checks every change under key. Controls whose
// name matches no rule are ignored.
func (w *RangeWarnings) Watch(key string, c *control.Control) func() {
	if c == nil {
		return func() {}
	}
	if _, ok := w.Rule(c.Name()); !ok {
		return func() {}
	}
	w.Check(key, c.Name(), c.Value())
	return c.Subscribe(func(change control.Change) {
		w.Check(key, change.Name, change.Value)
	})
}

// Get returns the warning for key, or "".
func (w *RangeWarnings) Get(key string) string {
	return w.warnings[key]
}

// Forget drops warnings whose key starts with prefix.
func (w *RangeWarnings) Forget(prefix string) {
	for key := range w.warnings {
		if strings.HasPrefix(key, prefix) {
			delete(w.warnings, key)
		}
	}
}

// All returns a copy of the current warnings.
func (w *RangeWarnings) All() map[string]string {
	out := make(map[string]string, len(w.warnings))
	for k, v := range w.warnings {
		out[k] = v
	}
	return out
}

// Keys returns the keys carrying a warning, sorted.
func (w *RangeWarnings) Keys() []string {
	keys := make([]string, 0, len(w.warnings))
	for k := range w.warnings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func format(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
