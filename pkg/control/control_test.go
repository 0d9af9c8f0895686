package control

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/validators"
)

func TestNew_InitialState(t *testing.T) {
	c := New("operatorId", form.FieldSpec{Name: "operatorId", Disabled: true, Value: "EMP-1", Required: true})
	if !c.Disabled() || c.Value() != "EMP-1" {
		t.Fatalf("unexpected state: disabled=%v value=%v", c.Disabled(), c.Value())
	}
	if !c.Valid() {
		t.Fatalf("disabled controls are always valid")
	}

	ro := New("plant", form.FieldSpec{Name: "plant", Readonly: true})
	if ro.Disabled() || !ro.Readonly() {
		t.Fatalf("readonly must stay enabled")
	}
	if ro.Value() != "" {
		t.Fatalf("unset value should default to empty string, got %#v", ro.Value())
	}
}

func TestSubscribe_OrderAndUnsubscribe(t *testing.T) {
	c := New("x", form.FieldSpec{Name: "x"})
	var calls []string
	c.Subscribe(func(ch Change) { calls = append(calls, "first:"+ch.Value.(string)) })
	stop := c.Subscribe(func(ch Change) { calls = append(calls, "second:"+ch.Value.(string)) })
	c.Subscribe(func(ch Change) { calls = append(calls, "third:"+ch.Value.(string)) })

	c.SetValue("a")
	stop()
	c.SetValue("b")
	c.SetValue("c", Silent())

	want := []string{"first:a", "second:a", "third:a", "first:b", "third:b"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("listener calls mismatch (-want +got):\n%s", diff)
	}
	if c.Value() != "c" {
		t.Fatalf("silent write must still assign, got %v", c.Value())
	}
}

func TestInput_DirtyAndShowError(t *testing.T) {
	c := New("name", form.FieldSpec{Name: "name", Label: "Name", Required: true})
	if c.Valid() || c.ShowError() {
		t.Fatalf("fresh required control: valid=%v showError=%v", c.Valid(), c.ShowError())
	}
	c.Input("")
	if !c.Dirty() || !c.ShowError() {
		t.Fatalf("edited invalid control should show its error")
	}
	if got := c.ErrorMessage(); got != "Name is required" {
		t.Fatalf("unexpected message %q", got)
	}
	c.Input("Ana")
	if !c.Valid() || c.ShowError() {
		t.Fatalf("filled control should be valid")
	}
}

func TestSetRequired_KeepsDeclaredRules(t *testing.T) {
	c := New("op", form.FieldSpec{
		Name:       "op",
		Validators: []form.ValidatorSpec{{Type: form.ValidatorMinLength, Value: 3}},
	})
	if !c.Valid() || c.Required() {
		t.Fatalf("empty optional control should be valid")
	}

	emitted := 0
	c.Subscribe(func(Change) { emitted++ })
	c.SetRequired(true)
	if c.Valid() || !c.HasError(form.ValidatorRequired) || !c.Required() {
		t.Fatalf("dynamic requirement should fail on empty value: %v", c.Errors())
	}
	c.SetValue("ab")
	if !c.HasError(form.ValidatorMinLength) {
		t.Fatalf("declared minLength should still apply: %v", c.Errors())
	}
	c.SetRequired(false)
	c.SetValue("")
	if !c.Valid() {
		t.Fatalf("requirement lifted, empty should pass: %v", c.Errors())
	}
	if emitted != 2 {
		t.Fatalf("SetRequired must not emit, got %d emissions", emitted)
	}
}

func TestEnableDisableReset(t *testing.T) {
	c := New("x", form.FieldSpec{Name: "x", Required: true, Value: "seed"})
	c.Input("")
	c.MarkTouched()
	c.Disable()
	if !c.Valid() {
		t.Fatalf("disabled control must be valid")
	}
	c.Enable()
	if c.Valid() {
		t.Fatalf("enabled empty required control must be invalid")
	}

	var seen []any
	c.Subscribe(func(ch Change) { seen = append(seen, ch.Value) })
	c.Reset("seed")
	if c.Dirty() || c.Touched() || c.Value() != "seed" {
		t.Fatalf("reset did not restore state")
	}
	if diff := cmp.Diff([]any{"seed"}, seen); diff != "" {
		t.Fatalf("reset should emit once (-want +got):\n%s", diff)
	}
}

func TestErrors_ReturnsCopy(t *testing.T) {
	c := New("x", form.FieldSpec{Name: "x", Required: true})
	errs := c.Errors()
	errs[0] = validators.Failure{Kind: "changed"}
	if !c.HasError(form.ValidatorRequired) {
		t.Fatalf("mutating the returned slice must not affect the control")
	}
}
