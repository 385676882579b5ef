package wm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/footron/foowm/internal/command"
	"github.com/footron/foowm/internal/platform"
	"github.com/footron/foowm/internal/policy"
)

const (
	fakeRoot     platform.WindowID = 1
	fakeWrappers platform.WindowID = 0x1000
)

type propKey struct {
	w    platform.WindowID
	atom platform.Atom
}

// fakeDisplay is an in-memory display that records every mutating request.
type fakeDisplay struct {
	width, height int

	atoms    map[string]platform.Atom
	nextAtom platform.Atom
	nextWin  platform.WindowID

	noVisual bool

	attrs    map[platform.WindowID]platform.Attributes
	geometry map[platform.WindowID]platform.Rect
	hints    map[platform.WindowID]platform.SizeHints
	props    map[propKey][]uint32
	text     map[propKey]string
	failures map[platform.WindowID]error
	parents  map[platform.WindowID]platform.WindowID

	events []platform.Event
	// protocolErrors are returned by NextEvent before any event.
	protocolErrors int
	calls          []string
}

func newFakeDisplay(width, height int) *fakeDisplay {
	return &fakeDisplay{
		width:    width,
		height:   height,
		atoms:    make(map[string]platform.Atom),
		nextAtom: 100,
		nextWin:  fakeWrappers,
		attrs:    make(map[platform.WindowID]platform.Attributes),
		geometry: make(map[platform.WindowID]platform.Rect),
		hints:    make(map[platform.WindowID]platform.SizeHints),
		props:    make(map[propKey][]uint32),
		text:     make(map[propKey]string),
		failures: make(map[platform.WindowID]error),
		parents:  make(map[platform.WindowID]platform.WindowID),
	}
}

func (d *fakeDisplay) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

// addWindow creates a client window that has not been mapped yet.
func (d *fakeDisplay) addWindow(w platform.WindowID, title string, bounds platform.Rect) {
	d.attrs[w] = platform.Attributes{}
	d.geometry[w] = bounds
	if title != "" {
		d.text[propKey{w, d.atom(NetWMName)}] = title
	}
}

func (d *fakeDisplay) atom(name string) platform.Atom {
	a, _ := d.InternAtom(name)
	return a
}

func (d *fakeDisplay) reset() {
	d.calls = nil
}

func (d *fakeDisplay) callsWith(prefix string) []string {
	var out []string
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (d *fakeDisplay) Root() platform.WindowID { return fakeRoot }

func (d *fakeDisplay) ScreenSize() (int, int) { return d.width, d.height }

func (d *fakeDisplay) InternAtom(name string) (platform.Atom, error) {
	if a, ok := d.atoms[name]; ok {
		return a, nil
	}
	d.nextAtom++
	d.atoms[name] = d.nextAtom
	return d.nextAtom, nil
}

func (d *fakeDisplay) TrueColorVisual() (platform.Visual, error) {
	if d.noVisual {
		return platform.Visual{}, errors.New("no 32-bit TrueColor visual")
	}
	return platform.Visual{ID: 0x21, Colormap: 0x22}, nil
}

func (d *fakeDisplay) CreateCheckWindow() (platform.WindowID, error) {
	d.nextWin++
	d.record("create-check %s", d.nextWin)
	return d.nextWin, nil
}

func (d *fakeDisplay) CreateWrapper(bounds platform.Rect, _ platform.Visual) (platform.WindowID, error) {
	d.nextWin++
	d.parents[d.nextWin] = fakeRoot
	d.record("create-wrapper %s %s", d.nextWin, bounds)
	return d.nextWin, nil
}

func (d *fakeDisplay) Map(w platform.WindowID) error {
	d.record("map %s", w)
	return nil
}

func (d *fakeDisplay) Destroy(w platform.WindowID) error {
	d.record("destroy %s", w)
	return nil
}

func (d *fakeDisplay) Configure(w platform.WindowID, bounds platform.Rect) error {
	d.record("configure %s %s", w, bounds)
	d.geometry[w] = bounds
	return nil
}

func (d *fakeDisplay) Reparent(w, parent platform.WindowID, x, y int) error {
	if err := d.failures[w]; err != nil {
		return err
	}
	d.record("reparent %s %s %d,%d", w, parent, x, y)
	d.parents[w] = parent
	return nil
}

func (d *fakeDisplay) Raise(w platform.WindowID) error {
	d.record("raise %s", w)
	return nil
}

func (d *fakeDisplay) SelectClientEvents(w platform.WindowID) error {
	if err := d.failures[w]; err != nil {
		return err
	}
	d.record("select-events %s", w)
	return nil
}

func (d *fakeDisplay) SetOverrideRedirect(w platform.WindowID) error {
	d.record("override-redirect %s", w)
	return nil
}

func (d *fakeDisplay) Attributes(w platform.WindowID) (platform.Attributes, error) {
	if err := d.failures[w]; err != nil {
		return platform.Attributes{}, err
	}
	a, ok := d.attrs[w]
	if !ok {
		return platform.Attributes{}, fmt.Errorf("bad window %s", w)
	}
	return a, nil
}

func (d *fakeDisplay) Geometry(w platform.WindowID) (platform.Rect, error) {
	if err := d.failures[w]; err != nil {
		return platform.Rect{}, err
	}
	g, ok := d.geometry[w]
	if !ok {
		return platform.Rect{}, fmt.Errorf("bad drawable %s", w)
	}
	return g, nil
}

func (d *fakeDisplay) Property32(w platform.WindowID, prop, _ platform.Atom) ([]uint32, error) {
	return d.props[propKey{w, prop}], nil
}

func (d *fakeDisplay) SetProperty32(w platform.WindowID, prop, _ platform.Atom, values []uint32) error {
	d.record("set-prop %s %d %v", w, prop, values)
	d.props[propKey{w, prop}] = append([]uint32(nil), values...)
	return nil
}

func (d *fakeDisplay) TextProperty(w platform.WindowID, prop platform.Atom) (string, error) {
	return d.text[propKey{w, prop}], nil
}

func (d *fakeDisplay) SetTextProperty(w platform.WindowID, prop, _ platform.Atom, text string) error {
	d.record("set-text %s %d %q", w, prop, text)
	d.text[propKey{w, prop}] = text
	return nil
}

func (d *fakeDisplay) NormalHints(w platform.WindowID) (platform.SizeHints, error) {
	return d.hints[w], nil
}

func (d *fakeDisplay) SendClientMessage(w platform.WindowID, typ platform.Atom, data ...uint32) error {
	d.record("client-message %s %d %v", w, typ, data)
	return nil
}

func (d *fakeDisplay) KillClient(w platform.WindowID) error {
	d.record("kill %s", w)
	return nil
}

func (d *fakeDisplay) SetInputFocus(w platform.WindowID) error {
	d.record("focus %s", w)
	return nil
}

func (d *fakeDisplay) NextEvent() (platform.Event, error) {
	if d.protocolErrors > 0 {
		d.protocolErrors--
		return nil, &platform.ProtocolError{Err: errors.New("BadWindow")}
	}
	if len(d.events) == 0 {
		return nil, platform.ErrDisplayClosed
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

func (d *fakeDisplay) Sync() error { return nil }

// clock hands out strictly increasing timestamps.
type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.UnixMilli(1_700_000_000_000)}
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestManager returns a set-up manager on a 3840x2160 fake display.
func newTestManager(scenario policy.Scenario) (*Manager, *fakeDisplay, *command.Queue, *clock) {
	d := newFakeDisplay(3840, 2160)
	q := command.NewQueue()
	clk := newClock()
	m := New(d, q, Options{
		Scenario: scenario,
		Logger:   discardLogger(),
		Now:      clk.now,
	})
	if err := m.Setup(); err != nil {
		panic(err)
	}
	d.reset()
	return m, d, q, clk
}
