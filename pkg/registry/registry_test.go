package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-auditform/pkg/audit"
)

func stubLoader(context.Context) (audit.View, error) { return nil, nil }

func TestRegistry_RegisterUppercasesKeys(t *testing.T) {
	reg := New()
	if err := reg.Register("ccpp22_demin_plant-custom", stubLoader); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !reg.Has("CCPP22_DEMIN_PLANT-CUSTOM") {
		t.Fatalf("expected uppercase lookup to match")
	}
	if !reg.Has("Ccpp22_Demin_Plant-Custom") {
		t.Fatalf("expected mixed case lookup to match")
	}
	if diff := cmp.Diff([]string{"CCPP22_DEMIN_PLANT-CUSTOM"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_RejectsDuplicatesAndEmptyInput(t *testing.T) {
	reg := New()
	reg.MustRegister("A", stubLoader)

	if err := reg.Register("a", stubLoader); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := reg.Register("  ", stubLoader); err == nil {
		t.Fatalf("expected empty id error")
	}
	if err := reg.Register("B", nil); err == nil {
		t.Fatalf("expected nil loader error")
	}
}

func TestRegistry_OpenMissingIsNotRegistered(t *testing.T) {
	reg := New()
	if _, ok := reg.Lookup("WATER"); ok {
		t.Fatalf("expected lookup miss")
	}
	_, err := reg.Open(context.Background(), "water")
	if !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestRegistry_OpenPropagatesLoaderError(t *testing.T) {
	reg := New()
	boom := errors.New("boom")
	reg.MustRegister("X", func(context.Context) (audit.View, error) { return nil, boom })

	if _, err := reg.Open(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
}
