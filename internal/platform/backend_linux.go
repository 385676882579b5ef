//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/footron/foowm/internal/x11"
)

// wakeAtomName types the client message Wake sends to ourselves.
const wakeAtomName = "_FOOWM_WAKE"

// LinuxBackend wraps an X11 connection behind the Display interface.
type LinuxBackend struct {
	conn      *x11.Connection
	wake      xproto.Atom
	check     atomic.Uint32
	closeOnce sync.Once
}

var _ Display = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay opens a new X11 connection and takes over
// window management on its root window.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := conn.RedirectRoot(); err != nil {
		conn.Close()
		return nil, err
	}
	wake, err := conn.InternAtom(wakeAtomName)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &LinuxBackend{conn: conn, wake: wake}, nil
}

// Disconnect closes the underlying X11 connection. A blocked NextEvent
// then returns ErrDisplayClosed. It is safe to call more than once.
func (b *LinuxBackend) Disconnect() {
	if b == nil || b.conn == nil {
		return
	}
	b.closeOnce.Do(b.conn.Close)
}

// Wake makes a blocked NextEvent return a Wake event. It is safe to call
// from any goroutine.
func (b *LinuxBackend) Wake() {
	check := b.check.Load()
	if check == 0 {
		return
	}
	// Sent with an empty event mask, the message goes to the window's creator.
	_ = b.conn.SendClientMessage(xproto.Window(check), b.wake)
}

// Root returns the X11 root window ID.
func (b *LinuxBackend) Root() WindowID {
	return WindowID(b.conn.Root)
}

// ScreenSize returns the root window size at connection time.
func (b *LinuxBackend) ScreenSize() (int, int) {
	return b.conn.ScreenSize()
}

func (b *LinuxBackend) InternAtom(name string) (Atom, error) {
	atom, err := b.conn.InternAtom(name)
	return Atom(atom), err
}

func (b *LinuxBackend) TrueColorVisual() (Visual, error) {
	visual, cmap, err := b.conn.TrueColorVisual()
	if err != nil {
		return Visual{}, err
	}
	return Visual{ID: uint32(visual), Colormap: uint32(cmap)}, nil
}

func (b *LinuxBackend) CreateCheckWindow() (WindowID, error) {
	win, err := b.conn.CreateCheckWindow()
	if err != nil {
		return 0, err
	}
	b.check.Store(uint32(win))
	return WindowID(win), nil
}

func (b *LinuxBackend) CreateWrapper(bounds Rect, visual Visual) (WindowID, error) {
	bounds = bounds.Clamped()
	win, err := b.conn.CreateWindow32(
		b.conn.Root,
		bounds.X, bounds.Y, bounds.Width, bounds.Height,
		xproto.Visualid(visual.ID),
		xproto.Colormap(visual.Colormap),
	)
	return WindowID(win), err
}

func (b *LinuxBackend) Map(w WindowID) error {
	return b.conn.MapWindow(xproto.Window(w))
}

func (b *LinuxBackend) Destroy(w WindowID) error {
	return b.conn.DestroyWindow(xproto.Window(w))
}

func (b *LinuxBackend) Configure(w WindowID, bounds Rect) error {
	bounds = bounds.Clamped()
	return b.conn.MoveResizeWindow(xproto.Window(w), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

func (b *LinuxBackend) Reparent(w, parent WindowID, x, y int) error {
	return b.conn.ReparentWindow(xproto.Window(w), xproto.Window(parent), x, y)
}

func (b *LinuxBackend) Raise(w WindowID) error {
	return b.conn.RaiseWindow(xproto.Window(w))
}

func (b *LinuxBackend) SelectClientEvents(w WindowID) error {
	return b.conn.SelectClientEvents(xproto.Window(w))
}

func (b *LinuxBackend) SetOverrideRedirect(w WindowID) error {
	return b.conn.SetOverrideRedirect(xproto.Window(w))
}

func (b *LinuxBackend) Attributes(w WindowID) (Attributes, error) {
	reply, err := b.conn.WindowAttributes(xproto.Window(w))
	if err != nil {
		return Attributes{}, err
	}
	return Attributes{
		OverrideRedirect: reply.OverrideRedirect,
		Mapped:           reply.MapState == xproto.MapStateViewable,
	}, nil
}

func (b *LinuxBackend) Geometry(w WindowID) (Rect, error) {
	reply, err := b.conn.WindowGeometry(xproto.Window(w))
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		X:      int(reply.X),
		Y:      int(reply.Y),
		Width:  int(reply.Width),
		Height: int(reply.Height),
	}, nil
}

func (b *LinuxBackend) Property32(w WindowID, prop, typ Atom) ([]uint32, error) {
	return b.conn.Property32(xproto.Window(w), xproto.Atom(prop), xproto.Atom(typ))
}

func (b *LinuxBackend) SetProperty32(w WindowID, prop, typ Atom, values []uint32) error {
	return b.conn.SetProperty32(xproto.Window(w), xproto.Atom(prop), xproto.Atom(typ), values)
}

func (b *LinuxBackend) TextProperty(w WindowID, prop Atom) (string, error) {
	return b.conn.TextProperty(xproto.Window(w), xproto.Atom(prop))
}

func (b *LinuxBackend) SetTextProperty(w WindowID, prop, encoding Atom, text string) error {
	return b.conn.SetTextProperty(xproto.Window(w), xproto.Atom(prop), xproto.Atom(encoding), text)
}

func (b *LinuxBackend) NormalHints(w WindowID) (SizeHints, error) {
	hints, err := b.conn.NormalHints(xproto.Window(w))
	if err != nil {
		return SizeHints{}, err
	}
	return SizeHints{
		HasPosition: hints.Flags&icccm.SizeHintPPosition != 0,
		HasMaxSize:  hints.Flags&icccm.SizeHintPMaxSize != 0,
		X:           hints.X,
		Y:           hints.Y,
		MaxWidth:    int(hints.MaxWidth),
		MaxHeight:   int(hints.MaxHeight),
	}, nil
}

func (b *LinuxBackend) SendClientMessage(w WindowID, typ Atom, data ...uint32) error {
	return b.conn.SendClientMessage(xproto.Window(w), xproto.Atom(typ), data...)
}

func (b *LinuxBackend) KillClient(w WindowID) error {
	return b.conn.KillClient(xproto.Window(w))
}

func (b *LinuxBackend) SetInputFocus(w WindowID) error {
	return b.conn.SetInputFocus(xproto.Window(w))
}

func (b *LinuxBackend) Sync() error {
	b.conn.Sync()
	return nil
}

// NextEvent blocks for the next X event and translates it.
func (b *LinuxBackend) NextEvent() (Event, error) {
	ev, err := b.conn.NextEvent()
	if err != nil {
		if errors.Is(err, x11.ErrConnectionClosed) {
			return nil, ErrDisplayClosed
		}
		return nil, &ProtocolError{Err: err}
	}
	return b.translate(ev), nil
}

func (b *LinuxBackend) translate(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		return MapRequest{Window: WindowID(e.Window)}
	case xproto.UnmapNotifyEvent:
		return Unmap{Window: WindowID(e.Window)}
	case xproto.ConfigureNotifyEvent:
		return ConfigureNotify{
			Window: WindowID(e.Window),
			Width:  int(e.Width),
			Height: int(e.Height),
		}
	case xproto.ConfigureRequestEvent:
		return ConfigureRequest{
			Window: WindowID(e.Window),
			Bounds: Rect{X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)},
		}
	case xproto.PropertyNotifyEvent:
		return PropertyChange{
			Window:  WindowID(e.Window),
			Atom:    Atom(e.Atom),
			Deleted: e.State == xproto.PropertyDelete,
		}
	case xproto.EnterNotifyEvent:
		return PointerEnter{Window: WindowID(e.Event)}
	case xproto.ClientMessageEvent:
		if e.Type == b.wake {
			return Wake{}
		}
	}
	return Unsupported{Name: fmt.Sprintf("%T", ev)}
}
