package form

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var errFormIDMissing = errors.New("form: id is required")

// Validate performs the structural checks a form must pass before it can be
// instantiated. Problems that only weaken validation are reported by Lint.
func Validate(f AuditForm) error {
	if strings.TrimSpace(f.ID) == "" {
		return errFormIDMissing
	}

	seen := make(map[string]struct{}, len(f.Sections))
	for idx, section := range f.Sections {
		key := section.Key()
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("form: section %d: title is required", idx)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("form: duplicate section %q", key)
		}
		seen[key] = struct{}{}

		if err := validateSection(section); err != nil {
			return fmt.Errorf("form: section %q: %w", key, err)
		}
	}
	return nil
}

func validateSection(section SectionSpec) error {
	switch section.EffectiveLayout() {
	case LayoutRows:
		headers := make(map[string]struct{}, len(section.RowHeaders))
		for _, header := range section.RowHeaders {
			if strings.TrimSpace(header) == "" {
				return errors.New("row header is empty")
			}
			if _, dup := headers[header]; dup {
				return fmt.Errorf("duplicate row header %q", header)
			}
			headers[header] = struct{}{}
		}
		var fields []FieldSpec
		for _, group := range section.FieldGroups {
			fields = append(fields, group.Fields...)
		}
		return validateFields(fields)
	default:
		return validateFields(section.Fields)
	}
}

func validateFields(fields []FieldSpec) error {
	names := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return errors.New("field name is required")
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("duplicate field %q", name)
		}
		names[name] = struct{}{}
		if !field.Type.Known() {
			return fmt.Errorf("field %q: unknown type %q", name, field.Type)
		}
	}
	return nil
}

// Issue is a non-blocking lint finding.
type Issue struct {
	Section string `json:"section,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	var parts []string
	if i.Section != "" {
		parts = append(parts, i.Section)
	}
	if i.Field != "" {
		parts = append(parts, i.Field)
	}
	if len(parts) == 0 {
		return i.Message
	}
	return strings.Join(parts, "/") + ": " + i.Message
}

// Lint reports declarations that are tolerated at runtime but most likely
// mistakes: unknown validator types and patterns that do not compile are
// silently skipped when validators are built.
func Lint(f AuditForm) []Issue {
	var issues []Issue
	if strings.TrimSpace(f.Title) == "" {
		issues = append(issues, Issue{Message: "title is empty"})
	}

	for _, section := range f.Sections {
		key := section.Key()
		add := func(field, msg string) {
			issues = append(issues, Issue{Section: key, Field: field, Message: msg})
		}

		switch section.Layout {
		case "", LayoutColumns:
		case LayoutRows:
			if len(section.RowHeaders) == 0 || len(section.FieldGroups) == 0 {
				add("", "rows layout without rowHeaders or fieldGroups renders as columns")
			}
		case LayoutDynamicRows:
			if len(section.Fields) == 0 {
				add("", "dynamic-rows layout without fields renders nothing")
			}
			minRows, maxRows, initial := section.DynamicBounds()
			if minRows > maxRows {
				add("", fmt.Sprintf("minRows %d exceeds maxRows %d", minRows, maxRows))
			}
			if initial > maxRows {
				add("", fmt.Sprintf("initialRows %d exceeds maxRows %d", initial, maxRows))
			}
		default:
			add("", fmt.Sprintf("unknown layout %q renders as columns", section.Layout))
		}

		fields := append([]FieldSpec(nil), section.Fields...)
		for _, group := range section.FieldGroups {
			fields = append(fields, group.Fields...)
		}
		for _, field := range fields {
			if field.Type.IsChoice() && len(field.Options) == 0 {
				add(field.Name, "choice field declares no options")
			}
			for _, rule := range field.Validators {
				switch rule.Type {
				case ValidatorRequired, ValidatorEmail:
				case ValidatorMinLength, ValidatorMaxLength, ValidatorMin, ValidatorMax:
					if rule.Value == nil {
						add(field.Name, fmt.Sprintf("%s validator has no value", rule.Type))
					}
				case ValidatorPattern:
					expr, ok := rule.Value.(string)
					if !ok || expr == "" {
						add(field.Name, "pattern validator has no expression")
						continue
					}
					if _, err := regexp.Compile(expr); err != nil {
						add(field.Name, fmt.Sprintf("pattern %q does not compile: %v", expr, err))
					}
				default:
					add(field.Name, fmt.Sprintf("unknown validator type %q is ignored", rule.Type))
				}
			}
		}
	}
	return issues
}
