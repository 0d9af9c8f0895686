package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/instance"
)

func buildManager(t *testing.T) *instance.Manager {
	t.Helper()
	m := instance.New()
	sections := []form.SectionSpec{
		{Title: "general", Fields: []form.FieldSpec{
			{Name: "date", Label: "Date", Required: true},
			{Name: "plantCode", Disabled: true, Value: "P-01"},
		}},
		{Title: "dosing", Layout: form.LayoutDynamicRows, MaxRows: 3, Fields: []form.FieldSpec{
			{Name: "chemical"},
		}},
	}
	for _, s := range sections {
		if err := m.Build(s); err != nil {
			t.Fatalf("build: %v", err)
		}
	}
	return m
}

type recordingSink struct {
	payloads []Payload
	err      error
}

func (s *recordingSink) Submit(_ context.Context, p Payload) error {
	s.payloads = append(s.payloads, p)
	return s.err
}

func TestSubmit_BlockedWhenInvalid(t *testing.T) {
	m := buildManager(t)
	sink := &recordingSink{}

	_, err := Submit(context.Background(), m, Submission{AuditID: "A1"}, sink)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var invalid *InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidError")
	}
	want := Report{"general": {"date": "Date is required"}}
	if diff := cmp.Diff(want, invalid.Report); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	if len(sink.payloads) != 0 {
		t.Fatalf("sink must not receive invalid submissions")
	}
	date, _ := m.Get("general", "date")
	if !date.Touched() {
		t.Fatalf("invalid sections should be touched")
	}
}

func TestSubmit_Payload(t *testing.T) {
	m := buildManager(t)
	date, _ := m.Get("general", "date")
	date.Input("2024-11-29")

	sink := &recordingSink{}
	stamp := time.Date(2024, 11, 29, 10, 0, 0, 0, time.FixedZone("X", 3600))
	payload, err := Submit(context.Background(), m, Submission{
		AuditID:     "A1",
		Title:       "Audit",
		Tenant:      "T1",
		EnabledOnly: []string{"dosing"},
		Now:         func() time.Time { return stamp },
	}, sink)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if payload.ID == "" || !payload.SubmittedAt.Equal(stamp) || payload.SubmittedAt.Location() != time.UTC {
		t.Fatalf("unexpected envelope: %+v", payload)
	}
	want := map[string]map[string]any{
		"general": {"date": "2024-11-29", "plantCode": "P-01"},
		"dosing":  {"row0_chemical": ""},
	}
	if diff := cmp.Diff(want, payload.Sections); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if len(sink.payloads) != 1 || sink.payloads[0].ID != payload.ID {
		t.Fatalf("sink should receive the returned payload")
	}
}

func TestSubmit_SinkError(t *testing.T) {
	m := buildManager(t)
	date, _ := m.Get("general", "date")
	date.Input("2024-11-29")
	boom := errors.New("boom")

	_, err := Submit(context.Background(), m, Submission{AuditID: "A1"}, &recordingSink{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped sink error, got %v", err)
	}
}

func TestSubmit_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Submit(ctx, buildManager(t), Submission{}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestApplyValues(t *testing.T) {
	m := buildManager(t)
	err := ApplyValues(m, map[string]map[string]any{
		"general": {"date": "2024-11-29", "plantCode": "ignored"},
		"dosing":  {"row2_chemical": "NAOCL"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if m.RowCount("dosing") != 3 {
		t.Fatalf("expected rows to grow to 3, got %d", m.RowCount("dosing"))
	}
	c, _ := m.Get("dosing", "row2_chemical")
	if c.Value() != "NAOCL" || !c.Dirty() {
		t.Fatalf("unexpected row value %v", c.Value())
	}
	plant, _ := m.Get("general", "plantCode")
	if plant.Value() != "P-01" {
		t.Fatalf("disabled controls keep their value, got %v", plant.Value())
	}
}

func TestApplyValues_Errors(t *testing.T) {
	cases := map[string]map[string]map[string]any{
		"unknown section": {"missing": {"a": 1}},
		"unknown field":   {"general": {"nope": 1}},
		"too many rows":   {"dosing": {"row5_chemical": "X"}},
	}
	for name, values := range cases {
		if err := ApplyValues(buildManager(t), values); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestApplyValues_RejectsBeforeGrowingRows(t *testing.T) {
	cases := map[string]map[string]any{
		"unknown template": {"row2_bogus": "X"},
		"not a row name":   {"chemical": "X"},
		"past maximum":     {"row0_chemical": "A", "row3_chemical": "D"},
	}
	for name, fields := range cases {
		m := buildManager(t)
		err := ApplyValues(m, map[string]map[string]any{"dosing": fields})
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if got := m.RowCount("dosing"); got != 1 {
			t.Fatalf("%s: rows should stay at 1, got %d", name, got)
		}
		c, _ := m.Get("dosing", "row0_chemical")
		if c.Value() != "" {
			t.Fatalf("%s: no value should be applied, got %v", name, c.Value())
		}
	}
}

func TestDropdownOptions(t *testing.T) {
	got := DropdownOptionsFromMap(map[string]string{"OOS": "Out of service", "IS": "In service"})
	want := []form.Option{{Label: "In service", Value: "IS"}, {Label: "Out of service", Value: "OOS"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]form.Option{{Label: "A", Value: "A"}}, DropdownOptions("A")); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}
