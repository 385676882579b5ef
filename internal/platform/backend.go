package platform

import (
	"errors"
	"fmt"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

func (w WindowID) String() string {
	return fmt.Sprintf("0x%x", uint32(w))
}

// Atom is a server-assigned id for a property or type name.
type Atom uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Clamped returns r with width and height raised to at least 1. The
// protocol rejects zero-sized windows.
func (r Rect) Clamped() Rect {
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

// Attributes holds the window attributes the window manager cares about.
type Attributes struct {
	OverrideRedirect bool
	Mapped           bool
}

// SizeHints is the subset of WM_NORMAL_HINTS used to derive a client's
// desired geometry.
type SizeHints struct {
	HasPosition bool
	HasMaxSize  bool
	X           int
	Y           int
	MaxWidth    int
	MaxHeight   int
}

// Visual identifies a 32-bit TrueColor visual and a colormap created for it.
type Visual struct {
	ID       uint32
	Colormap uint32
}

// ErrDisplayClosed is returned by NextEvent once the display connection is gone.
var ErrDisplayClosed = errors.New("display connection closed")

// ProtocolError is an asynchronous error reported by the display server for
// a single request. It never invalidates the connection.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Display abstracts the windowing-protocol connection a window manager drives.
type Display interface {
	Root() WindowID
	ScreenSize() (width, height int)
	InternAtom(name string) (Atom, error)
	TrueColorVisual() (Visual, error)

	CreateCheckWindow() (WindowID, error)
	// CreateWrapper creates an unmapped, override-redirect, transparent
	// child of the root using visual.
	CreateWrapper(bounds Rect, visual Visual) (WindowID, error)
	Map(w WindowID) error
	Destroy(w WindowID) error
	Configure(w WindowID, bounds Rect) error
	Reparent(w, parent WindowID, x, y int) error
	Raise(w WindowID) error
	SelectClientEvents(w WindowID) error
	SetOverrideRedirect(w WindowID) error

	Attributes(w WindowID) (Attributes, error)
	Geometry(w WindowID) (Rect, error)
	// Property32 returns nil without error when the property is unset.
	Property32(w WindowID, prop, typ Atom) ([]uint32, error)
	SetProperty32(w WindowID, prop, typ Atom, values []uint32) error
	// TextProperty returns "" without error when the property is unset.
	TextProperty(w WindowID, prop Atom) (string, error)
	SetTextProperty(w WindowID, prop, encoding Atom, text string) error
	NormalHints(w WindowID) (SizeHints, error)

	SendClientMessage(w WindowID, typ Atom, data ...uint32) error
	KillClient(w WindowID) error
	SetInputFocus(w WindowID) error

	// NextEvent blocks until the next event. It returns ErrDisplayClosed
	// when the connection is lost and a *ProtocolError for asynchronous
	// request failures.
	NextEvent() (Event, error)
	Sync() error
}
