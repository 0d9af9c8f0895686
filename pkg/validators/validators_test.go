package validators

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-auditform/pkg/form"
)

func kinds(rules []Validator) []string {
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		out = append(out, rule.Kind())
	}
	return out
}

func TestBuild_OrderAndSkips(t *testing.T) {
	field := form.FieldSpec{
		Name:     "code",
		Required: true,
		Validators: []form.ValidatorSpec{
			{Type: form.ValidatorMaxLength, Value: 8},
			{Type: "between", Value: 3},
			{Type: form.ValidatorPattern, Value: "("},
			{Type: form.ValidatorMin},
			{Type: form.ValidatorEmail},
		},
	}
	want := []string{form.ValidatorRequired, form.ValidatorMaxLength, form.ValidatorEmail}
	if diff := cmp.Diff(want, kinds(Build(field))); diff != "" {
		t.Fatalf("validators mismatch (-want +got):\n%s", diff)
	}
}

func TestValidators_EmptyValuesPassExceptRequired(t *testing.T) {
	pattern, err := Pattern("[A-Z]+", "")
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	rules := []Validator{Email(""), MinLength(3, ""), Min(1, ""), Max(2, ""), pattern}
	for _, value := range []any{nil, ""} {
		if failures := Run(value, rules); len(failures) != 0 {
			t.Fatalf("value %#v: expected no failures, got %v", value, failures)
		}
	}
	if failures := Run("", []Validator{Required()}); len(failures) != 1 {
		t.Fatalf("expected required failure, got %v", failures)
	}
}

func TestValidators_Checks(t *testing.T) {
	pattern, err := Pattern("EMP-[0-9]{3}", "")
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	cases := []struct {
		name  string
		rule  Validator
		value any
		ok    bool
	}{
		{name: "email ok", rule: Email(""), value: "ops@plant.example", ok: true},
		{name: "email bad", rule: Email(""), value: "ops@", ok: false},
		{name: "minLength counts runes", rule: MinLength(3, ""), value: "äöü", ok: true},
		{name: "minLength short", rule: MinLength(3, ""), value: "ab", ok: false},
		{name: "maxLength long", rule: MaxLength(2, ""), value: "abc", ok: false},
		{name: "min numeric string", rule: Min(0, ""), value: "-1", ok: false},
		{name: "min float", rule: Min(0.1, ""), value: 0.5, ok: true},
		{name: "max int", rule: Max(14, ""), value: 15, ok: false},
		{name: "max non numeric passes", rule: Max(14, ""), value: "abc", ok: true},
		{name: "pattern anchored", rule: pattern, value: "xEMP-123", ok: false},
		{name: "pattern match", rule: pattern, value: "EMP-123", ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failure := tc.rule.Validate(tc.value)
			if tc.ok != (failure == nil) {
				t.Fatalf("value %#v: ok=%v, failure=%v", tc.value, tc.ok, failure)
			}
		})
	}
}

func TestMessage_PriorityAndOverrides(t *testing.T) {
	field := form.FieldSpec{
		Name:     "code",
		Label:    "Code",
		Required: true,
		Validators: []form.ValidatorSpec{
			{Type: form.ValidatorMaxLength, Value: 1},
			{Type: form.ValidatorMinLength, Value: 5, Message: "too short"},
		},
	}
	rules := Build(field)

	if got := Message(field, Run("", rules)); got != "Code is required" {
		t.Fatalf("empty value: got %q", got)
	}
	// maxLength 1 and minLength 5 both fail for "ab"; minLength wins.
	if got := Message(field, Run("ab", rules)); got != "too short" {
		t.Fatalf("short value: got %q", got)
	}
	if got := Message(field, nil); got != "" {
		t.Fatalf("no failures: got %q", got)
	}
}

func TestMessage_Defaults(t *testing.T) {
	field := form.FieldSpec{Name: "ph"}
	cases := []struct {
		rule  Validator
		value any
		want  string
	}{
		{rule: Email(""), value: "x", want: "Invalid email format"},
		{rule: MinLength(4, ""), value: "x", want: "Minimum length is 4"},
		{rule: MaxLength(1, ""), value: "xy", want: "Maximum length is 1"},
		{rule: Min(0.5, ""), value: 0.1, want: "Minimum value is 0.5"},
		{rule: Max(14, ""), value: 15, want: "Maximum value is 14"},
		{rule: Required(), value: nil, want: "ph is required"},
	}
	for _, tc := range cases {
		if got := Message(field, Run(tc.value, []Validator{tc.rule})); got != tc.want {
			t.Fatalf("%s: want %q, got %q", tc.rule.Kind(), tc.want, got)
		}
	}
}

func TestNumber(t *testing.T) {
	if n, ok := Number(" 7.5 "); !ok || n != 7.5 {
		t.Fatalf("expected 7.5, got %v %v", n, ok)
	}
	if _, ok := Number("NaN"); ok {
		t.Fatalf("NaN must not count as a number")
	}
	if _, ok := Number(true); ok {
		t.Fatalf("bool must not count as a number")
	}
}
