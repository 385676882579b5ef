package wm

import (
	"testing"

	"github.com/footron/foowm/internal/platform"
	"github.com/footron/foowm/internal/policy"
)

func TestRegistry_OrderAndRemoval(t *testing.T) {
	r := NewRegistry()
	for i, w := range []platform.WindowID{0x30, 0x10, 0x20} {
		r.Add(&Client{Target: w, Wrapper: 0x100 + platform.WindowID(i)})
	}

	if got := r.Targets(); len(got) != 3 || got[0] != 0x30 || got[1] != 0x10 || got[2] != 0x20 {
		t.Fatalf("expected insertion order, got %v", got)
	}
	if !r.IsWrapper(0x101) {
		t.Fatalf("expected wrapper to be tracked")
	}

	c, ok := r.Remove(0x10)
	if !ok || c.Wrapper != 0x101 {
		t.Fatalf("expected to remove client 0x10")
	}
	if r.IsWrapper(0x101) {
		t.Fatalf("expected wrapper to be forgotten")
	}
	if _, ok := r.Remove(0x10); ok {
		t.Fatalf("expected second removal to fail")
	}
	if got := r.Targets(); len(got) != 2 || got[0] != 0x30 || got[1] != 0x20 {
		t.Fatalf("unexpected order after removal: %v", got)
	}
}

func TestRegistry_PendingWrapper(t *testing.T) {
	r := NewRegistry()
	r.TrackWrapper(0x100)
	if !r.IsWrapper(0x100) {
		t.Fatalf("expected pending wrapper to be tracked")
	}
	r.UntrackWrapper(0x100)
	if r.IsWrapper(0x100) {
		t.Fatalf("expected wrapper to be forgotten")
	}
}

func TestRegistry_Roles(t *testing.T) {
	r := NewRegistry()
	first := &Client{Target: 1, Wrapper: 11, Type: policy.TypePlacard}
	second := &Client{Target: 2, Wrapper: 12, Type: policy.TypePlacard}
	loader := &Client{Target: 3, Wrapper: 13, Type: policy.TypeLoader}
	for _, c := range []*Client{first, second, loader} {
		r.Add(c)
		r.SetRole(c)
	}

	if r.Placard() != second {
		t.Fatalf("expected last placard to win")
	}
	if r.Loader() != loader {
		t.Fatalf("expected loader to be tracked")
	}

	r.Remove(first.Target)
	if r.Placard() != second {
		t.Fatalf("expected removing an untracked placard to keep the tracked one")
	}
	r.Remove(second.Target)
	if r.Placard() != nil {
		t.Fatalf("expected placard to be cleared")
	}

	r.SetRole(&Client{Type: policy.TypeExperience})
	if r.Loader() != loader {
		t.Fatalf("expected experience client not to take a role")
	}
}

func TestInternAtoms(t *testing.T) {
	d := newFakeDisplay(1, 1)
	atoms, err := InternAtoms(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atoms.Get(NetWMName) != d.atom(NetWMName) {
		t.Fatalf("expected interned id for %s", NetWMName)
	}
	if atoms.Get("_NOT_INTERNED") != 0 {
		t.Fatalf("expected 0 for an unknown name")
	}

	supported := atoms.Supported()
	if len(supported) != len(netAtoms) || supported[0] != d.atom(NetSupported) {
		t.Fatalf("unexpected supported list %v", supported)
	}
	supported[0] = 0
	if atoms.Supported()[0] == 0 {
		t.Fatalf("expected Supported to return a copy")
	}

	if !atoms.anyOf([]uint32{uint32(d.atom(NetWMStateSticky))}, floatingWindowStates) {
		t.Fatalf("expected sticky to be a floating state")
	}
}
