package customforms

import (
	"context"
	"fmt"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/rules"
)

// WaterQualityID is the registry key of the manual water quality snapshot.
const WaterQualityID = "MANUAL-WATER-QUALITY"

// Water quality section keys.
const (
	WaterQualityOperator = "operator"
	WaterQualityAnalysis = "analysis"
)

// WaterQualityEmployeeID is the prefilled employee id of the signing operator.
const WaterQualityEmployeeID = "EMP-2024-015"

var (
	shiftOptions  = audit.DropdownOptions("Shift A", "Shift B", "Shift C")
	statusOptions = audit.DropdownOptions("Normal", "Attention", "Critical")
)

// WaterQuality is the hand-built manual water quality snapshot. The operator
// section submits raw values so the disabled employee id travels with it; the
// analysis section submits enabled values only.
type WaterQuality struct {
	*base
}

var _ audit.View = (*WaterQuality)(nil)

// NewWaterQuality builds the snapshot form.
func NewWaterQuality(options ...Option) (*WaterQuality, error) {
	cfg := newConfig(options)
	w := &WaterQuality{base: newBase(WaterQualityID, "Manual Water Quality Snapshot", cfg)}
	w.defaults = w.defaultValues
	w.enabledOnly = []string{WaterQualityAnalysis}

	shift := choice("shift", "Shift", shiftOptions)
	shift.Value = "Shift A"

	if err := w.section(WaterQualityOperator,
		prefilled(required(rules.DateField, "Date", form.FieldTypeDate), w.today()),
		shift,
		prefilled(required("operator", "Operator", form.FieldTypeText), cfg.operator),
		signatureID("employeeId", "Employee ID", WaterQualityEmployeeID),
		optional("remarks", "Remarks", form.FieldTypeTextarea),
	); err != nil {
		return nil, fmt.Errorf("customforms: water quality: %w", err)
	}

	degasifier := choice("degasifier", "Degasifier", statusOptions)
	degasifier.Value = "Normal"
	mixedBed := choice("mixedBed", "Mixed Bed", statusOptions)
	mixedBed.Value = "Normal"

	if err := w.section(WaterQualityAnalysis,
		prefilled(withValidators(required("conductivity", "Conductivity", form.FieldTypeNumber), minRule(0)), 1.5),
		prefilled(withValidators(required("ph", "pH", form.FieldTypeNumber), minRule(0), maxRule(14)), 7.2),
		prefilled(withValidators(required("silica", "Silica", form.FieldTypeNumber), minRule(0)), 0.03),
		degasifier,
		mixedBed,
		optional("comments", "Comments", form.FieldTypeTextarea),
	); err != nil {
		return nil, fmt.Errorf("customforms: water quality: %w", err)
	}
	return w, nil
}

// OpenWaterQuality adapts NewWaterQuality to the registry loader signature.
func OpenWaterQuality(options ...Option) func(context.Context) (audit.View, error) {
	return func(context.Context) (audit.View, error) {
		return NewWaterQuality(options...)
	}
}

func (w *WaterQuality) defaultValues() map[string]map[string]any {
	return map[string]map[string]any{
		WaterQualityOperator: {
			rules.DateField: w.today(),
			"shift":         "Shift A",
			"operator":      w.cfg.operator,
			"employeeId":    WaterQualityEmployeeID,
			"remarks":       "",
		},
	}
}

func minRule(n float64) form.ValidatorSpec {
	return form.ValidatorSpec{Type: form.ValidatorMin, Value: n}
}

func maxRule(n float64) form.ValidatorSpec {
	return form.ValidatorSpec{Type: form.ValidatorMax, Value: n}
}
