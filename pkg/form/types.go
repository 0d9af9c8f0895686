package form

import "strings"

// FieldType enumerates the input kinds an audit field can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeURL      FieldType = "url"
	FieldTypePassword FieldType = "password"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
)

var knownFieldTypes = map[FieldType]struct{}{
	FieldTypeText:     {},
	FieldTypeNumber:   {},
	FieldTypeEmail:    {},
	FieldTypeTel:      {},
	FieldTypeURL:      {},
	FieldTypePassword: {},
	FieldTypeTextarea: {},
	FieldTypeSelect:   {},
	FieldTypeDropdown: {},
	FieldTypeCheckbox: {},
	FieldTypeRadio:    {},
	FieldTypeDate:     {},
	FieldTypeTime:     {},
}

// Known reports whether the type belongs to the supported enumeration. The
// empty type is treated as text.
func (t FieldType) Known() bool {
	if t == "" {
		return true
	}
	_, ok := knownFieldTypes[t]
	return ok
}

// IsChoice reports whether the field picks its value from Options.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeDropdown, FieldTypeRadio:
		return true
	default:
		return false
	}
}

// Layout controls how a section turns its field templates into live fields.
type Layout string

const (
	LayoutColumns     Layout = "columns"
	LayoutRows        Layout = "rows"
	LayoutDynamicRows Layout = "dynamic-rows"
)

// Validator rule identifiers accepted in ValidatorSpec.Type.
const (
	ValidatorRequired  = "required"
	ValidatorEmail     = "email"
	ValidatorMinLength = "minLength"
	ValidatorMaxLength = "maxLength"
	ValidatorMin       = "min"
	ValidatorMax       = "max"
	ValidatorPattern   = "pattern"
)

// Dynamic-rows defaults applied when a section omits its bounds.
const (
	DefaultMinRows = 1
	DefaultMaxRows = 50
)

// Option is a label/value pair offered by choice fields.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// ValidatorSpec declares a single validation rule. Value carries the bound for
// min/max/minLength/maxLength and the expression for pattern rules. Message
// replaces the default error text for this rule when set.
type ValidatorSpec struct {
	Type    string `json:"type" yaml:"type"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// FieldSpec is the immutable template for an input. Layout expansion copies it
// and rewrites Name (and possibly Required) per instantiated field.
type FieldSpec struct {
	Name        string          `json:"name" yaml:"name"`
	Label       string          `json:"label" yaml:"label"`
	Type        FieldType       `json:"type" yaml:"type"`
	Value       any             `json:"value,omitempty" yaml:"value,omitempty"`
	Required    bool            `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled    bool            `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Readonly    bool            `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Placeholder string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []Option        `json:"options,omitempty" yaml:"options,omitempty"`
	Validators  []ValidatorSpec `json:"validators,omitempty" yaml:"validators,omitempty"`
	Columns     int             `json:"columns,omitempty" yaml:"columns,omitempty"`
	Rows        int             `json:"rows,omitempty" yaml:"rows,omitempty"`
	Hint        string          `json:"hint,omitempty" yaml:"hint,omitempty"`
	HelpText    string          `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	MinLength   *int            `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int            `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min         *float64        `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64        `json:"max,omitempty" yaml:"max,omitempty"`
	Step        *float64        `json:"step,omitempty" yaml:"step,omitempty"`
}

// Clone returns a copy that shares no slices with the receiver.
func (f FieldSpec) Clone() FieldSpec {
	out := f
	if len(f.Options) > 0 {
		out.Options = append([]Option(nil), f.Options...)
	}
	if len(f.Validators) > 0 {
		out.Validators = append([]ValidatorSpec(nil), f.Validators...)
	}
	return out
}

// DisplayLabel falls back to the field name when no label is declared.
func (f FieldSpec) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// FieldGroup bundles fields rendered together in a rows layout.
type FieldGroup struct {
	GroupTitle string      `json:"groupTitle,omitempty" yaml:"groupTitle,omitempty"`
	Fields     []FieldSpec `json:"fields" yaml:"fields"`
}

// SectionSpec describes one titled section. Title doubles as the section key.
type SectionSpec struct {
	Title       string       `json:"title" yaml:"title"`
	Fields      []FieldSpec  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Layout      Layout       `json:"layout,omitempty" yaml:"layout,omitempty"`
	Columns     int          `json:"columns,omitempty" yaml:"columns,omitempty"`
	RowHeaders  []string     `json:"rowHeaders,omitempty" yaml:"rowHeaders,omitempty"`
	FieldGroups []FieldGroup `json:"fieldGroups,omitempty" yaml:"fieldGroups,omitempty"`
	MinRows     int          `json:"minRows,omitempty" yaml:"minRows,omitempty"`
	MaxRows     int          `json:"maxRows,omitempty" yaml:"maxRows,omitempty"`
	InitialRows int          `json:"initialRows,omitempty" yaml:"initialRows,omitempty"`
}

// Key returns the identifier used for the section's live instance.
func (s SectionSpec) Key() string {
	return s.Title
}

// EffectiveLayout resolves the layout that expansion will actually apply.
// Sections that declare rows or dynamic-rows without the inputs those layouts
// need degrade to columns.
func (s SectionSpec) EffectiveLayout() Layout {
	switch s.Layout {
	case LayoutRows:
		if len(s.RowHeaders) > 0 && len(s.FieldGroups) > 0 {
			return LayoutRows
		}
	case LayoutDynamicRows:
		if len(s.Fields) > 0 {
			return LayoutDynamicRows
		}
	}
	return LayoutColumns
}

// DynamicBounds returns the minimum, maximum and initial row counts for a
// dynamic-rows section.
func (s SectionSpec) DynamicBounds() (minRows, maxRows, initialRows int) {
	minRows = s.MinRows
	if minRows <= 0 {
		minRows = DefaultMinRows
	}
	maxRows = s.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	initialRows = s.InitialRows
	if initialRows <= 0 {
		initialRows = s.MinRows
	}
	if initialRows <= 0 {
		initialRows = 1
	}
	return minRows, maxRows, initialRows
}

// AuditForm is the top-level declarative description of an audit.
type AuditForm struct {
	ID             string        `json:"id" yaml:"id"`
	Title          string        `json:"title" yaml:"title"`
	Description    string        `json:"description,omitempty" yaml:"description,omitempty"`
	Sections       []SectionSpec `json:"sections" yaml:"sections"`
	Layout         string        `json:"layout,omitempty" yaml:"layout,omitempty"`
	NextReviewDate string        `json:"nextReviewDate,omitempty" yaml:"nextReviewDate,omitempty"`
	FormCode       string        `json:"formCode,omitempty" yaml:"formCode,omitempty"`
	Version        string        `json:"version,omitempty" yaml:"version,omitempty"`
	GroupCode      string        `json:"groupCode,omitempty" yaml:"groupCode,omitempty"`
	GroupName      string        `json:"groupName,omitempty" yaml:"groupName,omitempty"`
}

// Section finds a section by its key.
func (f AuditForm) Section(key string) (SectionSpec, bool) {
	for _, section := range f.Sections {
		if section.Key() == key {
			return section, true
		}
	}
	return SectionSpec{}, false
}
