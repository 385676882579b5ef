package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// ErrAnotherWM is returned when some other client already redirects the
// root window's substructure.
var ErrAnotherWM = errors.New("another window manager is already running")

// ErrConnectionClosed is returned by NextEvent once the server connection is gone.
var ErrConnectionClosed = errors.New("x11 connection closed")

// rootEventMask is what the window manager selects on the root window.
const rootEventMask = xproto.EventMaskStructureNotify |
	xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskButtonPress

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server named by $DISPLAY.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// Conn returns the raw xgb connection.
func (c *Connection) Conn() *xgb.Conn {
	return c.XUtil.Conn()
}

// RedirectRoot selects the window-manager event mask on the root window.
// Only one client may hold SubstructureRedirect at a time.
func (c *Connection) RedirectRoot() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.Conn(),
		c.Root,
		xproto.CwEventMask,
		[]uint32{rootEventMask},
	).Check()
	if err == nil {
		return nil
	}
	if _, ok := err.(xproto.AccessError); ok {
		if name, werr := ewmh.GetEwmhWM(c.XUtil); werr == nil && name != "" {
			return fmt.Errorf("%w (%s)", ErrAnotherWM, name)
		}
		return ErrAnotherWM
	}
	return fmt.Errorf("failed to select root events: %w", err)
}

// ScreenSize returns the root window size in pixels.
func (c *Connection) ScreenSize() (int, int) {
	screen := c.XUtil.Screen()
	return int(screen.WidthInPixels), int(screen.HeightInPixels)
}

// NextEvent blocks until the server delivers an event or reports an
// asynchronous request error.
func (c *Connection) NextEvent() (xgb.Event, error) {
	ev, xerr := c.Conn().WaitForEvent()
	if ev == nil && xerr == nil {
		return nil, ErrConnectionClosed
	}
	if xerr != nil {
		return nil, xerr
	}
	return ev, nil
}

// Sync blocks until the server has processed every request sent so far.
func (c *Connection) Sync() {
	c.XUtil.Sync()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
