package validators

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-auditform/pkg/form"
)

// Failure describes a single failing rule. Bound carries the configured limit
// for min/max/minLength/maxLength so messages can interpolate it.
type Failure struct {
	Kind    string
	Bound   string
	Message string
}

// Validator checks a control value against one rule.
type Validator interface {
	Kind() string
	Validate(value any) *Failure
}

type validatorFunc struct {
	kind    string
	message string
	check   func(value any) (bound string, ok bool)
}

func (v validatorFunc) Kind() string {
	return v.kind
}

func (v validatorFunc) Validate(value any) *Failure {
	bound, ok := v.check(value)
	if ok {
		return nil
	}
	return &Failure{Kind: v.kind, Bound: bound, Message: v.message}
}

// Build maps a field's declared rules onto executable validators. The implied
// required rule comes first, then one validator per declared entry in order.
// Unknown rule types, rules without a usable bound, and patterns that do not
// compile are skipped.
func Build(field form.FieldSpec) []Validator {
	var out []Validator
	if field.Required {
		out = append(out, Required())
	}
	for _, spec := range field.Validators {
		if v := fromSpec(spec); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Required returns the rule that rejects empty values.
func Required() Validator {
	return requiredWithMessage("")
}

func requiredWithMessage(message string) Validator {
	return validatorFunc{
		kind:    form.ValidatorRequired,
		message: message,
		check: func(value any) (string, bool) {
			return "", !IsEmpty(value)
		},
	}
}

// Email returns the rule that rejects malformed addresses. Empty values pass.
func Email(message string) Validator {
	return validatorFunc{
		kind:    form.ValidatorEmail,
		message: message,
		check: func(value any) (string, bool) {
			if IsEmpty(value) {
				return "", true
			}
			return "", emailPattern.MatchString(fmt.Sprint(value))
		},
	}
}

// MinLength rejects strings (or lists) shorter than limit. Empty values pass.
func MinLength(limit int, message string) Validator {
	bound := strconv.Itoa(limit)
	return validatorFunc{
		kind:    form.ValidatorMinLength,
		message: message,
		check: func(value any) (string, bool) {
			if IsEmpty(value) {
				return bound, true
			}
			n, ok := length(value)
			if !ok {
				return bound, true
			}
			return bound, n >= limit
		},
	}
}

// MaxLength rejects strings (or lists) longer than limit.
func MaxLength(limit int, message string) Validator {
	bound := strconv.Itoa(limit)
	return validatorFunc{
		kind:    form.ValidatorMaxLength,
		message: message,
		check: func(value any) (string, bool) {
			n, ok := length(value)
			if !ok {
				return bound, true
			}
			return bound, n <= limit
		},
	}
}

// Min rejects numeric values below limit. Empty or non-numeric values pass.
func Min(limit float64, message string) Validator {
	bound := formatNumber(limit)
	return validatorFunc{
		kind:    form.ValidatorMin,
		message: message,
		check: func(value any) (string, bool) {
			n, ok := Number(value)
			if !ok {
				return bound, true
			}
			return bound, n >= limit
		},
	}
}

// Max rejects numeric values above limit. Empty or non-numeric values pass.
func Max(limit float64, message string) Validator {
	bound := formatNumber(limit)
	return validatorFunc{
		kind:    form.ValidatorMax,
		message: message,
		check: func(value any) (string, bool) {
			n, ok := Number(value)
			if !ok {
				return bound, true
			}
			return bound, n <= limit
		},
	}
}

// Pattern rejects values that do not fully match expr. The expression is
// anchored unless it already is. Empty values pass.
func Pattern(expr string, message string) (Validator, error) {
	anchored := expr
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}
	if !strings.HasSuffix(anchored, "$") {
		anchored += "$"
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, err
	}
	return validatorFunc{
		kind:    form.ValidatorPattern,
		message: message,
		check: func(value any) (string, bool) {
			if IsEmpty(value) {
				return expr, true
			}
			return expr, re.MatchString(fmt.Sprint(value))
		},
	}, nil
}

func fromSpec(spec form.ValidatorSpec) Validator {
	switch spec.Type {
	case form.ValidatorRequired:
		return requiredWithMessage(spec.Message)
	case form.ValidatorEmail:
		return Email(spec.Message)
	case form.ValidatorMinLength:
		if n, ok := Number(spec.Value); ok {
			return MinLength(int(n), spec.Message)
		}
	case form.ValidatorMaxLength:
		if n, ok := Number(spec.Value); ok {
			return MaxLength(int(n), spec.Message)
		}
	case form.ValidatorMin:
		if n, ok := Number(spec.Value); ok {
			return Min(n, spec.Message)
		}
	case form.ValidatorMax:
		if n, ok := Number(spec.Value); ok {
			return Max(n, spec.Message)
		}
	case form.ValidatorPattern:
		expr, ok := spec.Value.(string)
		if !ok || expr == "" {
			return nil
		}
		v, err := Pattern(expr, spec.Message)
		if err != nil {
			return nil
		}
		return v
	}
	return nil
}

// emailPattern mirrors the WHATWG "valid e-mail address" production.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// IsEmpty reports whether a value counts as missing: nil, the empty string, or
// an empty list or map.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Number coerces numeric values and numeric strings. Empty values and NaN are
// reported as not numeric.
func Number(value any) (float64, bool) {
	var (
		out float64
		ok  = true
	)
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		out = v
	case float32:
		out = float64(v)
	case int:
		out = float64(v)
	case int64:
		out = float64(v)
	case int32:
		out = float64(v)
	case uint:
		out = float64(v)
	case uint64:
		out = float64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		out = parsed
	default:
		ok = false
	}
	if !ok || math.IsNaN(out) {
		return 0, false
	}
	return out, true
}

func length(value any) (int, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case string:
		return utf8.RuneCountInString(v), true
	case []any:
		return len(v), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
