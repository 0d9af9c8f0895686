package vanilla

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/control"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/instance"
	"github.com/goliatone/go-auditform/pkg/layout"
)

// cellFunc renders one control into markup.
type cellFunc func(field map[string]any) (string, error)

type modelBuilder struct {
	view     audit.View
	manager  *instance.Manager
	warnings map[string]string
	cell     cellFunc
	invalid  int
}

func (b *modelBuilder) form(action string) (map[string]any, error) {
	sections := make([]map[string]any, 0, len(b.manager.Sections()))
	for _, key := range b.manager.Sections() {
		section, err := b.section(key)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}

	errorCount := ""
	if b.invalid > 0 {
		errorCount = strconv.Itoa(b.invalid)
	}
	return map[string]any{
		"id":         "af-" + slug(b.view.AuditID()),
		"auditId":    b.view.AuditID(),
		"title":      b.view.Title(),
		"action":     action,
		"errorCount": errorCount,
		"sections":   sections,
	}, nil
}

func (b *modelBuilder) section(key string) (map[string]any, error) {
	spec, _ := b.manager.Section(key)
	effective := b.manager.Layout(key)

	out := map[string]any{
		"key":     key,
		"id":      "af-" + slug(key),
		"title":   spec.Title,
		"layout":  string(effective),
		"columns": "",
	}

	var err error
	switch effective {
	case form.LayoutRows:
		err = b.matrix(out, key, spec)
	case form.LayoutDynamicRows:
		err = b.dynamic(out, key, spec)
	default:
		if spec.Columns > 0 {
			out["columns"] = strconv.Itoa(spec.Columns)
		}
		cells := make([]string, 0, len(b.manager.Fields(key)))
		for _, field := range b.manager.Fields(key) {
			html, cerr := b.render(key, field, "")
			if cerr != nil {
				return nil, cerr
			}
			cells = append(cells, html)
		}
		out["cells"] = cells
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// matrix lays a rows section out as one table row per template field and one
// column per header.
func (b *modelBuilder) matrix(out map[string]any, key string, spec form.SectionSpec) error {
	fields := indexFields(b.manager.Fields(key))
	groups := make([]map[string]any, 0, len(spec.FieldGroups))
	for _, group := range spec.FieldGroups {
		rows := make([]map[string]any, 0, len(group.Fields))
		for _, template := range group.Fields {
			label := template.DisplayLabel()
			cells := make([]string, 0, len(spec.RowHeaders))
			for _, header := range spec.RowHeaders {
				field, ok := fields[layout.HeaderFieldName(header, template.Name)]
				if !ok {
					cells = append(cells, "")
					continue
				}
				html, err := b.render(key, field, header+" "+label)
				if err != nil {
					return err
				}
				cells = append(cells, html)
			}
			rows = append(rows, map[string]any{"label": label, "cells": cells})
		}
		groups = append(groups, map[string]any{"title": group.GroupTitle, "rows": rows})
	}
	out["headers"] = spec.RowHeaders
	out["groups"] = groups
	out["span"] = strconv.Itoa(len(spec.RowHeaders) + 1)
	return nil
}

func (b *modelBuilder) dynamic(out map[string]any, key string, spec form.SectionSpec) error {
	fields := indexFields(b.manager.Fields(key))
	headers := make([]string, 0, len(spec.Fields))
	for _, template := range spec.Fields {
		headers = append(headers, template.DisplayLabel())
	}

	count := b.manager.RowCount(key)
	rows := make([]map[string]any, 0, count)
	for row := 0; row < count; row++ {
		cells := make([]string, 0, len(spec.Fields))
		for _, template := range spec.Fields {
			field, ok := fields[layout.RowFieldName(row, template.Name)]
			if !ok {
				cells = append(cells, "")
				continue
			}
			aria := fmt.Sprintf("Row %d %s", row+1, template.DisplayLabel())
			html, err := b.render(key, field, aria)
			if err != nil {
				return err
			}
			cells = append(cells, html)
		}
		rows = append(rows, map[string]any{
			"index":  strconv.Itoa(row),
			"number": strconv.Itoa(row + 1),
			"cells":  cells,
		})
	}
	out["headers"] = headers
	out["rows"] = rows
	out["canAdd"] = b.manager.CanAddRow(key)
	out["canRemove"] = b.manager.CanRemoveRow(key)
	return nil
}

// render builds the field model and hands it to the cell template. A non-empty
// ariaLabel replaces the visible label.
func (b *modelBuilder) render(key string, field layout.Field, ariaLabel string) (string, error) {
	c, ok := b.manager.Get(key, field.Name)
	if !ok {
		return "", nil
	}
	model := fieldModel(key, field.Name, c)
	model["showLabel"] = ariaLabel == ""
	model["ariaLabel"] = ariaLabel
	model["warning"] = b.warnings[key+"."+field.Name]
	if model["error"] != "" {
		b.invalid++
	}
	html, err := b.cell(model)
	if err != nil {
		return "", fmt.Errorf("field %s.%s: %w", key, field.Name, err)
	}
	return html, nil
}

func fieldModel(key, name string, c *control.Control) map[string]any {
	spec := c.Spec()
	value := displayValue(c.Value())

	message := ""
	if c.ShowError() {
		message = c.ErrorMessage()
	}

	kind, inputType := "input", string(spec.Type)
	switch {
	case spec.Type.IsChoice():
		kind = "select"
	case spec.Type == form.FieldTypeTextarea:
		kind = "textarea"
	case spec.Type == form.FieldTypeCheckbox:
		kind = "checkbox"
	case inputType == "":
		inputType = string(form.FieldTypeText)
	}

	options := make([]map[string]any, 0, len(spec.Options))
	for _, option := range spec.Options {
		optionValue := displayValue(option.Value)
		options = append(options, map[string]any{
			"label":    option.Label,
			"value":    optionValue,
			"selected": value != "" && optionValue == value,
		})
	}

	rows := ""
	if spec.Rows > 0 {
		rows = strconv.Itoa(spec.Rows)
	}

	return map[string]any{
		"id":          "af-" + slug(key) + "-" + slug(name),
		"name":        key + "." + name,
		"label":       spec.DisplayLabel(),
		"kind":        kind,
		"type":        inputType,
		"value":       value,
		"checked":     kind == "checkbox" && truthy(c.Value()),
		"required":    c.Required(),
		"disabled":    c.Disabled(),
		"readonly":    c.Readonly(),
		"placeholder": spec.Placeholder,
		"help":        firstNonEmpty(spec.HelpText, spec.Hint),
		"min":         formatBound(spec.Min),
		"max":         formatBound(spec.Max),
		"step":        formatBound(spec.Step),
		"rows":        rows,
		"options":     options,
		"error":       message,
	}
}

func indexFields(fields []layout.Field) map[string]layout.Field {
	out := make(map[string]layout.Field, len(fields))
	for _, field := range fields {
		out[field.Name] = field
	}
	return out
}

func displayValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, displayValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(value)
	}
}

func truthy(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		b, err := strconv.ParseBool(value)
		return err == nil && b
	default:
		return false
	}
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// slug lowercases s and folds every run of other characters into one hyphen.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
