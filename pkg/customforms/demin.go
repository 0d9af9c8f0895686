package customforms

import (
	"context"
	"fmt"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/control"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/rules"
)

// DeminID is the registry key of the DEMIN plant log sheet.
const DeminID = "CCPP22_DEMIN_PLANT-CUSTOM"

// DEMIN section keys.
const (
	DeminGeneral = "general"
	DeminShiftA  = "shiftA"
	DeminShiftB  = "shiftB"
)

// DeminOperatorID is the prefilled employee id on both shift signatures.
const DeminOperatorID = "EMP-2024-001"

var (
	bedStatusOptions = []form.Option{
		{Label: "In Service", Value: "IS"},
		{Label: "Standby", Value: "SB"},
	}
	pumpStatusOptions = []form.Option{
		{Label: "In Service", Value: "IS"},
		{Label: "Out of Service", Value: "OOS"},
	}
	filterStatusOptions = []form.Option{
		{Label: "Filter 1", Value: "1_IS"},
		{Label: "Filter 2", Value: "2_IS"},
		{Label: "Both", Value: "BOTH_IS"},
	}
)

// Demin is the hand-built CCPP-22 DEMIN plant log sheet: a general section
// with the log date and its weekday, and two identical shift sections. Shift
// B's operator signature becomes mandatory while Shift A's is filled, and
// flow and conductivity readings outside their normal band raise warnings.
type Demin struct {
	*base
}

var _ audit.View = (*Demin)(nil)

// NewDemin builds the DEMIN log sheet.
func NewDemin(options ...Option) (*Demin, error) {
	cfg := newConfig(options)
	d := &Demin{base: newBase(DeminID, "CCPP-22 DEMIN Plant Log Sheet (Custom)", cfg)}
	d.defaults = d.defaultValues

	today := d.today()
	if err := d.section(DeminGeneral,
		prefilled(required(rules.DateField, "Date", form.FieldTypeDate), today),
		form.FieldSpec{Name: rules.DayField, Label: "Day", Type: form.FieldTypeText, Disabled: true},
	); err != nil {
		return nil, fmt.Errorf("customforms: demin: %w", err)
	}
	for _, key := range []string{DeminShiftA, DeminShiftB} {
		if err := d.section(key, shiftFields(cfg.operator, key == DeminShiftA)...); err != nil {
			return nil, fmt.Errorf("customforms: demin: %w", err)
		}
	}

	m := d.manager
	date, _ := m.Get(DeminGeneral, rules.DateField)
	day, _ := m.Get(DeminGeneral, rules.DayField)
	if t, ok := rules.ParseDate(date.Value()); ok {
		day.SetValue(rules.WeekdayName(t), control.Silent())
	}
	d.bindings.Add(rules.DateToWeekday(date, day))

	first, _ := m.Get(DeminShiftA, rules.OperatorNameField)
	second, _ := m.Get(DeminShiftB, rules.OperatorNameField)
	d.bindings.Add(rules.RequiredCascade(first, second))

	d.warnings = rules.NewRangeWarnings()
	for _, key := range []string{DeminShiftA, DeminShiftB} {
		for _, c := range m.Controls(key) {
			d.bindings.Add(d.warnings.Watch(key+"."+c.Name(), c))
		}
	}
	return d, nil
}

// OpenDemin adapts NewDemin to the registry loader signature.
func OpenDemin(options ...Option) func(context.Context) (audit.View, error) {
	return func(context.Context) (audit.View, error) {
		return NewDemin(options...)
	}
}

func (d *Demin) defaultValues() map[string]map[string]any {
	today := d.today()
	day := ""
	if t, ok := rules.ParseDate(today); ok {
		day = rules.WeekdayName(t)
	}
	shift := map[string]any{
		rules.OperatorNameField: d.cfg.operator,
		"operatorId":            DeminOperatorID,
	}
	return map[string]map[string]any{
		DeminGeneral: {rules.DateField: today, rules.DayField: day},
		DeminShiftA:  shift,
		DeminShiftB:  shift,
	}
}

// shiftFields returns one shift's readings. Only the first shift declares its
// operator signature required; the second follows the cascade.
func shiftFields(operator string, first bool) []form.FieldSpec {
	number := func(name, label string) form.FieldSpec {
		return required(name, label, form.FieldTypeNumber)
	}
	signature := optional(rules.OperatorNameField, "Operator Name", form.FieldTypeText)
	signature.Required = first
	signature.Value = operator

	return []form.FieldSpec{
		required("time", "Time", form.FieldTypeTime),

		choice("mixedBed1Status", "Mixed Bed-1 Status", bedStatusOptions),
		number("mixedBed1OutletFlow", "Mixed Bed-1 Outlet Flow"),
		number("mixedBed1OutletConductivity", "Mixed Bed-1 Outlet Conductivity"),
		number("mixedBed1OutletSilica", "Mixed Bed-1 Outlet Silica"),

		choice("mixedBed2Status", "Mixed Bed-2 Status", bedStatusOptions),
		number("mixedBed2OutletFlow", "Mixed Bed-2 Outlet Flow"),
		number("mixedBed2OutletConductivity", "Mixed Bed-2 Outlet Conductivity"),
		number("mixedBed2OutletSilica", "Mixed Bed-2 Outlet Silica"),

		choice("rawWaterPumpStatus", "Raw Water Pump Status", pumpStatusOptions),
		number("rawWaterSuctionPressure", "Raw Water Suction Pressure"),
		number("rawWaterDischPressure", "Raw Water Discharge Pressure"),

		choice("deminWaterPumpStatus", "Demin Water Pump Status", pumpStatusOptions),
		number("deminWaterSuctionPressure", "Demin Water Suction Pressure"),
		number("deminWaterDischPressure", "Demin Water Discharge Pressure"),

		choice("cartridgeFilterStatus", "Cartridge Filter Status", filterStatusOptions),
		number("pressureBeforeFilter", "Pressure Before Filter"),
		number("pressureAfterFilter", "Pressure After Filter"),
		number("filterDP", "Filter DP"),

		number("rawWaterTankLevel", "Raw Water Tank Level"),
		number("deminWaterTankLevel", "Demin Water Tank Level"),
		number("hclTankLevel", "HCl Tank Level"),
		number("naohTankLevel", "NaOH Tank Level"),
		number("neutralisingTankLevel", "Neutralising Tank Level"),

		optional("generalRemarks", "General Remarks", form.FieldTypeTextarea),

		signature,
		signatureID("operatorId", "Operator ID", DeminOperatorID),
	}
}
