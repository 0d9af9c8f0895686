package validators

import (
	"fmt"

	"github.com/goliatone/go-auditform/pkg/form"
)

// priority fixes which failure is surfaced when several rules fail at once.
var priority = []string{
	form.ValidatorRequired,
	form.ValidatorEmail,
	form.ValidatorMinLength,
	form.ValidatorMaxLength,
	form.ValidatorMin,
	form.ValidatorMax,
	form.ValidatorPattern,
}

// Message resolves the single error text shown for a field. Failures are
// ranked required, email, minLength, maxLength, min, max, pattern; only the
// first present kind is reported. It returns "" when nothing failed.
func Message(field form.FieldSpec, failures []Failure) string {
	if len(failures) == 0 {
		return ""
	}
	for _, kind := range priority {
		for _, failure := range failures {
			if failure.Kind != kind {
				continue
			}
			if failure.Message != "" {
				return failure.Message
			}
			return defaultMessage(field, failure)
		}
	}
	return ""
}

func defaultMessage(field form.FieldSpec, failure Failure) string {
	switch failure.Kind {
	case form.ValidatorRequired:
		return fmt.Sprintf("%s is required", field.DisplayLabel())
	case form.ValidatorEmail:
		return "Invalid email format"
	case form.ValidatorMinLength:
		return fmt.Sprintf("Minimum length is %s", failure.Bound)
	case form.ValidatorMaxLength:
		return fmt.Sprintf("Maximum length is %s", failure.Bound)
	case form.ValidatorMin:
		return fmt.Sprintf("Minimum value is %s", failure.Bound)
	case form.ValidatorMax:
		return fmt.Sprintf("Maximum value is %s", failure.Bound)
	case form.ValidatorPattern:
		return "Invalid format"
	default:
		return ""
	}
}

// Run evaluates validators in order and collects every failure.
func Run(value any, rules []Validator) []Failure {
	var out []Failure
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if failure := rule.Validate(value); failure != nil {
			out = append(out, *failure)
		}
	}
	return out
}
