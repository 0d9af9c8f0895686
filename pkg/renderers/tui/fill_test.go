package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/renderer"
)

// stubDriver answers prompts from per-message queues and records every
// message it was shown.
type stubDriver struct {
	inputs   map[string][]string
	confirms map[string][]bool
	selects  map[string][]int
	asked    []string
	infos    []string

	questions []Question
}

func newStubDriver() *stubDriver {
	return &stubDriver{
		inputs:   map[string][]string{},
		confirms: map[string][]bool{},
		selects:  map[string][]int{},
	}
}

func (s *stubDriver) nextInput(msg string) (string, error) {
	s.asked = append(s.asked, msg)
	queue := s.inputs[msg]
	if len(queue) == 0 {
		return "", fmt.Errorf("unexpected prompt %q", msg)
	}
	s.inputs[msg] = queue[1:]
	return queue[0], nil
}

func (s *stubDriver) Text(_ context.Context, q Question) (string, error) {
	return s.nextInput(q.Message)
}

func (s *stubDriver) Secret(_ context.Context, q Question) (string, error) {
	return s.nextInput(q.Message)
}

func (s *stubDriver) Multiline(_ context.Context, q Question) (string, error) {
	return s.nextInput(q.Message)
}

func (s *stubDriver) Confirm(_ context.Context, q Question) (bool, error) {
	s.asked = append(s.asked, q.Message)
	queue := s.confirms[q.Message]
	if len(queue) == 0 {
		return false, fmt.Errorf("unexpected confirm %q", q.Message)
	}
	s.confirms[q.Message] = queue[1:]
	return queue[0], nil
}

func (s *stubDriver) Choose(_ context.Context, q Question) (int, error) {
	s.asked = append(s.asked, q.Message)
	s.questions = append(s.questions, q)
	queue := s.selects[q.Message]
	if len(queue) == 0 {
		return 0, fmt.Errorf("unexpected select %q", q.Message)
	}
	s.selects[q.Message] = queue[1:]
	return queue[0], nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func dailyForm() form.AuditForm {
	return form.AuditForm{
		ID:    "daily",
		Title: "Daily Check",
		Sections: []form.SectionSpec{
			{Title: "general", Fields: []form.FieldSpec{
				{Name: "date", Label: "Date", Type: form.FieldTypeDate, Required: true},
				{Name: "day", Label: "Day", Type: form.FieldTypeText, Disabled: true},
				{Name: "plant", Label: "Plant", Type: form.FieldTypeText, Readonly: true, Value: "P-01"},
				{Name: "shift", Label: "Shift", Type: form.FieldTypeSelect, Required: true, Options: []form.Option{
					{Label: "Morning", Value: "A"},
					{Label: "Evening", Value: "B"},
				}},
			}},
			{
				Title:   "readings",
				Layout:  form.LayoutDynamicRows,
				MaxRows: 3,
				Fields: []form.FieldSpec{
					{Name: "flow", Label: "Flow", Type: form.FieldTypeNumber, Required: true},
				},
			},
		},
	}
}

func TestFill_PromptsEditableControls(t *testing.T) {
	view, err := renderer.New(dailyForm(), renderer.WithRangeWarnings())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	defer view.Close()

	driver := newStubDriver()
	driver.inputs["Date *"] = []string{"", "2024-11-29"}
	driver.selects["Shift *"] = []int{1}
	driver.inputs["Flow *"] = []string{"abc", "75", "120"}
	driver.confirms["Add another row to readings?"] = []bool{true, false}

	filler := New(WithPromptDriver(driver))
	if err := filler.Fill(context.Background(), view); err != nil {
		t.Fatalf("fill: %v", err)
	}

	wantAsked := []string{
		"Date *", "Date *",
		"Shift *",
		"Flow *", "Flow *",
		"Add another row to readings?",
		"Flow *",
		"Add another row to readings?",
	}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}

	wantInfos := []string{
		"Daily Check",
		"== general",
		"✗ Date: Date is required",
		"== readings",
		"Row 1",
		"✗ Flow: enter a number",
		"Row 2",
		"! Flow 120 is outside the expected range 50-100",
	}
	if diff := cmp.Diff(wantInfos, driver.infos); diff != "" {
		t.Fatalf("infos mismatch (-want +got):\n%s", diff)
	}

	m := view.Manager()
	wantGeneral := map[string]any{"date": "2024-11-29", "day": "Friday", "plant": "P-01", "shift": "B"}
	if diff := cmp.Diff(wantGeneral, m.RawValues("general")); diff != "" {
		t.Fatalf("general mismatch (-want +got):\n%s", diff)
	}
	wantReadings := map[string]any{"row0_flow": 75.0, "row1_flow": 120.0}
	if diff := cmp.Diff(wantReadings, m.RawValues("readings")); diff != "" {
		t.Fatalf("readings mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_WithoutRowPrompts(t *testing.T) {
	view, err := renderer.New(dailyForm())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	driver := newStubDriver()
	driver.inputs["Date *"] = []string{"2024-11-29"}
	driver.selects["Shift *"] = []int{0}
	driver.inputs["Flow *"] = []string{"60"}

	if err := New(WithPromptDriver(driver), WithRowPrompts(false)).Fill(context.Background(), view); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if view.Manager().RowCount("readings") != 1 {
		t.Fatalf("no rows should be added")
	}
	if _, err := view.Submit(context.Background()); err != nil {
		t.Fatalf("filled form should submit: %v", err)
	}
}

func TestFill_DriverErrorStops(t *testing.T) {
	view, err := renderer.New(dailyForm())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	driver := newStubDriver()
	err = New(WithPromptDriver(driver)).Fill(context.Background(), view)
	if err == nil {
		t.Fatalf("expected error from unscripted prompt")
	}
	if len(driver.asked) != 1 {
		t.Fatalf("fill should stop at the first failure, asked %v", driver.asked)
	}
}

func TestFill_Guards(t *testing.T) {
	if err := New(WithPromptDriver(newStubDriver())).Fill(context.Background(), nil); !errors.Is(err, ErrNoView) {
		t.Fatalf("expected ErrNoView, got %v", err)
	}
}

func TestShowReport(t *testing.T) {
	driver := newStubDriver()
	report := audit.Report{
		"shiftB":  {"time": "Time is required", "operatorName": "Operator Name is required"},
		"general": {"date": "Date is required"},
	}
	if err := New(WithPromptDriver(driver)).ShowReport(context.Background(), report); err != nil {
		t.Fatalf("show: %v", err)
	}
	want := []string{
		"== general",
		"✗ date: Date is required",
		"== shiftB",
		"✗ operatorName: Operator Name is required",
		"✗ time: Time is required",
	}
	if diff := cmp.Diff(want, driver.infos); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary(t *testing.T) {
	view, err := renderer.New(dailyForm())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	driver := newStubDriver()
	if err := New(WithPromptDriver(driver), WithTheme(Theme{})).Summary(context.Background(), view.Manager()); err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := []string{"general", "date: ", "day: ", "plant: P-01", "shift: ", "readings", "row0_flow: "}
	if diff := cmp.Diff(want, driver.infos); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_ChoicePreselectsCurrentValue(t *testing.T) {
	view, err := renderer.New(dailyForm())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	shift, _ := view.Manager().Get("general", "shift")
	shift.SetValue("B")

	driver := newStubDriver()
	driver.inputs["Date *"] = []string{"2024-11-29"}
	driver.selects["Shift *"] = []int{0}
	driver.inputs["Flow *"] = []string{"60"}

	if err := New(WithPromptDriver(driver), WithRowPrompts(false)).Fill(context.Background(), view); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := []Question{{
		Message:  "Shift *",
		Options:  []string{"Morning", "Evening"},
		Selected: 1,
	}}
	if diff := cmp.Diff(want, driver.questions); diff != "" {
		t.Fatalf("question mismatch (-want +got):\n%s", diff)
	}
	if shift.Value() != "A" {
		t.Fatalf("answer should replace the preselection, got %v", shift.Value())
	}
}
