package wm

import (
	"fmt"
	"testing"
	"time"

	"github.com/footron/foowm/internal/command"
	"github.com/footron/foowm/internal/platform"
	"github.com/footron/foowm/internal/policy"
)

func TestSetLayout_SameLayoutIsNoop(t *testing.T) {
	m, d, _, _ := newTestManager(policy.ScenarioCenter)
	mapWindow(m, d, 0x200, "app")

	m.SetLayout(policy.LayoutFit4k, time.Time{})
	if len(d.calls) == 0 {
		t.Fatalf("expected first switch to issue requests")
	}

	d.reset()
	m.SetLayout(policy.LayoutFit4k, time.Time{})
	if len(d.calls) != 0 {
		t.Fatalf("expected no requests, got %v", d.calls)
	}
}

func TestSetLayout_ResizesViewportAndClients(t *testing.T) {
	m, d, _, _ := newTestManager(policy.ScenarioCenter)
	experience := mapWindow(m, d, 0x200, "app")
	placard := mapWindow(m, d, 0x201, "FOOTRON_PLACARD")
	d.reset()

	m.SetLayout(policy.LayoutFit4k, time.Time{})

	want := platform.Rect{X: 715, Y: 0, Width: 3125, Height: 1758}
	if d.geometry[m.Viewport()] != want {
		t.Fatalf("expected viewport %s, got %s", want, d.geometry[m.Viewport()])
	}
	if area := d.props[propKey{fakeRoot, d.atom(NetWorkArea)}]; fmt.Sprint(area) != "[715 0 3125 1758]" {
		t.Fatalf("unexpected work area %v", area)
	}
	if experience.Geometry != want {
		t.Fatalf("expected client geometry %s, got %s", want, experience.Geometry)
	}
	// Wrappers inside the viewport sit at its origin.
	if d.geometry[experience.Wrapper] != (platform.Rect{Width: 3125, Height: 1758}) {
		t.Fatalf("unexpected wrapper geometry %s", d.geometry[experience.Wrapper])
	}
	if len(d.callsWith(fmt.Sprintf("configure %s", placard.Wrapper))) != 0 {
		t.Fatalf("expected placard outside the viewport to be left alone")
	}
}

func TestSetLayout_SkipsClientsCreatedBeforeCutoff(t *testing.T) {
	m, d, _, _ := newTestManager(policy.ScenarioProduction)
	older := mapWindow(m, d, 0x200, "old")
	newer := mapWindow(m, d, 0x201, "new")
	d.reset()

	m.SetLayout(policy.LayoutFull, older.CreatedAt)

	if len(d.callsWith(fmt.Sprintf("configure %s", older.Wrapper))) != 0 {
		t.Fatalf("expected client created at the cutoff to be skipped, calls: %v", d.calls)
	}
	if len(d.callsWith(fmt.Sprintf("configure %s", newer.Wrapper))) != 1 {
		t.Fatalf("expected newer client to be resized, calls: %v", d.calls)
	}
	if newer.Geometry != (platform.Rect{Width: 3840, Height: 2160}) {
		t.Fatalf("unexpected geometry %s", newer.Geometry)
	}
}

func TestClearViewport_RespectsCutoff(t *testing.T) {
	m, d, _, _ := newTestManager(policy.ScenarioCenter)
	older := mapWindow(m, d, 0x200, "FOOTRON_PLACARD old")
	newer := mapWindow(m, d, 0x201, "FOOTRON_PLACARD new")
	mapWindow(m, d, 0x202, "app")
	d.reset()

	closed, skipped := m.ClearViewport(older.CreatedAt, []policy.ClientType{policy.TypePlacard})
	if closed != 1 || skipped != 1 {
		t.Fatalf("expected 1 closed and 1 skipped, got %d and %d", closed, skipped)
	}
	if kills := d.callsWith("kill"); len(kills) != 1 || kills[0] != "kill 0x200" {
		t.Fatalf("expected only the older placard to be closed, got %v", kills)
	}
	if len(d.callsWith("destroy")) != 0 {
		t.Fatalf("expected nothing to be destroyed directly")
	}
	if m.Registry().Len() != 3 || m.Registry().Placard() != newer {
		t.Fatalf("expected registry untouched until clients unmap")
	}
}

func TestClearViewport_PrefersDeleteWindow(t *testing.T) {
	m, d, _, _ := newTestManager(policy.ScenarioCenter)
	d.props[propKey{0x200, d.atom(WMProtocols)}] = []uint32{uint32(d.atom(WMDeleteWindow))}
	c := mapWindow(m, d, 0x200, "app")
	d.reset()

	m.ClearViewport(c.CreatedAt, nil)

	want := fmt.Sprintf("client-message 0x200 %d [%d 0]", d.atom(WMProtocols), d.atom(WMDeleteWindow))
	if msgs := d.callsWith("client-message"); len(msgs) != 1 || msgs[0] != want {
		t.Fatalf("expected %q, got %v", want, msgs)
	}
	if len(d.callsWith("kill")) != 0 {
		t.Fatalf("expected no kill")
	}
}

func TestClearViewport_IncludeSets(t *testing.T) {
	m, d, _, clk := newTestManager(policy.ScenarioCenter)
	mapWindow(m, d, 0x200, "app")
	mapWindow(m, d, 0x201, "FOOTRON_LOADER")
	mapWindow(m, d, 0x202, "FOOTRON_PLACARD")
	now := clk.now()

	if closed, _ := m.ClearViewport(now, nil); closed != 2 {
		t.Fatalf("expected default types to close experience and loader, closed %d", closed)
	}
	if closed, skipped := m.ClearViewport(now, []policy.ClientType{}); closed != 0 || skipped != 0 {
		t.Fatalf("expected empty include to match nothing, got %d and %d", closed, skipped)
	}
}

func TestClearViewport_ConfiguredDefaults(t *testing.T) {
	d := newFakeDisplay(3840, 2160)
	clk := newClock()
	m := New(d, nil, Options{
		Logger:     discardLogger(),
		Now:        clk.now,
		ClearTypes: []policy.ClientType{policy.TypePlacard},
	})
	if err := m.Setup(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mapWindow(m, d, 0x200, "app")
	mapWindow(m, d, 0x201, "FOOTRON_PLACARD")

	d.reset()
	if closed, _ := m.ClearViewport(clk.now(), nil); closed != 1 {
		t.Fatalf("expected only the placard to close, closed %d", closed)
	}
	if kills := d.callsWith("kill"); len(kills) != 1 || kills[0] != "kill 0x201" {
		t.Fatalf("unexpected kills %v", kills)
	}
}

func TestProcessCommands(t *testing.T) {
	m, d, q, clk := newTestManager(policy.ScenarioCenter)
	mapWindow(m, d, 0x200, "app")
	d.reset()

	q.Push(command.ClearViewport{Before: clk.now()})
	q.Push(command.SetLayout{Layout: policy.LayoutProduction})
	m.ProcessCommands()

	if m.Layout() != policy.LayoutProduction {
		t.Fatalf("expected production layout, got %q", m.Layout())
	}
	if len(d.callsWith("kill 0x200")) != 1 {
		t.Fatalf("expected clear to close the window, calls: %v", d.calls)
	}
	if q.Len() != 0 {
		t.Fatalf("expected queue to be drained")
	}
}
