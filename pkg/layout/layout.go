package layout

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-auditform/pkg/form"
)

// operatorNameField is the template name whose requirement is relaxed on every
// row header after the first. Those instances become required only while the
// first header's instance is filled in (see pkg/rules).
const operatorNameField = "operatorName"

// Field is one instantiated field: the unique name inside its section plus the
// template copy it was built from (with Name rewritten).
type Field struct {
	Name string
	Spec form.FieldSpec

	// Base is the template name before expansion.
	Base string
	// Row is the dynamic row index, or -1 outside dynamic-rows sections.
	Row int
	// Header is the row header for rows layout, empty otherwise.
	Header string
}

// Expand turns a section into its ordered list of instantiated fields. Dynamic
// sections are expanded with their initial row count.
func Expand(section form.SectionSpec) []Field {
	switch section.EffectiveLayout() {
	case form.LayoutRows:
		return expandRows(section)
	case form.LayoutDynamicRows:
		_, _, initial := section.DynamicBounds()
		return ExpandDynamic(section, initial)
	default:
		return expandColumns(section)
	}
}

func expandColumns(section form.SectionSpec) []Field {
	out := make([]Field, 0, len(section.Fields))
	for _, spec := range section.Fields {
		out = append(out, Field{
			Name: spec.Name,
			Spec: spec.Clone(),
			Base: spec.Name,
			Row:  -1,
		})
	}
	return out
}

// expandRows instantiates every group field once per row header. Only the
// first header keeps the template requirement unconditionally; later headers
// drop it for operatorName.
func expandRows(section form.SectionSpec) []Field {
	var out []Field
	for _, group := range section.FieldGroups {
		for _, spec := range group.Fields {
			for idx, header := range section.RowHeaders {
				clone := spec.Clone()
				clone.Name = HeaderFieldName(header, spec.Name)
				if idx > 0 && spec.Name == operatorNameField {
					clone.Required = false
				}
				out = append(out, Field{
					Name:   clone.Name,
					Spec:   clone,
					Base:   spec.Name,
					Row:    -1,
					Header: header,
				})
			}
		}
	}
	return out
}

// ExpandDynamic instantiates the section fields for rows [0, count).
func ExpandDynamic(section form.SectionSpec, count int) []Field {
	if count < 0 {
		count = 0
	}
	out := make([]Field, 0, count*len(section.Fields))
	for row := 0; row < count; row++ {
		out = append(out, ExpandRow(section, row)...)
	}
	return out
}

// ExpandRow instantiates the section fields for a single dynamic row.
func ExpandRow(section form.SectionSpec, row int) []Field {
	out := make([]Field, 0, len(section.Fields))
	for _, spec := range section.Fields {
		clone := spec.Clone()
		clone.Name = RowFieldName(row, spec.Name)
		out = append(out, Field{
			Name: clone.Name,
			Spec: clone,
			Base: spec.Name,
			Row:  row,
		})
	}
	return out
}

// HeaderFieldName builds the rows-layout name <header>_<field>.
func HeaderFieldName(header, name string) string {
	return header + "_" + name
}

// RowFieldName builds the dynamic-rows name row<i>_<field>.
func RowFieldName(row int, name string) string {
	return "row" + strconv.Itoa(row) + "_" + name
}

// ParseRowFieldName splits a dynamic-rows name into its row index and template
// name.
func ParseRowFieldName(name string) (row int, base string, ok bool) {
	rest, found := strings.CutPrefix(name, "row")
	if !found {
		return 0, "", false
	}
	digits, base, found := strings.Cut(rest, "_")
	if !found || digits == "" || base == "" {
		return 0, "", false
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 0 {
		return 0, "", false
	}
	return row, base, true
}
