package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// clientEventMask is selected on every managed client window.
const clientEventMask = xproto.EventMaskEnterWindow |
	xproto.EventMaskFocusChange |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskStructureNotify

// CreateCheckWindow creates the 1x1 window advertised through
// _NET_SUPPORTING_WM_CHECK. It uses the root depth and visual.
func (c *Connection) CreateCheckWindow() (xproto.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}
	if err := win.CreateChecked(c.Root, 0, 0, 1, 1, 0); err != nil {
		return 0, fmt.Errorf("failed to create check window: %w", err)
	}
	return win.Id, nil
}

// CreateWindow32 creates an override-redirect, fully transparent child of
// parent using a 32-bit visual and its colormap.
func (c *Connection) CreateWindow32(parent xproto.Window, x, y, width, height int, visual xproto.Visualid, cmap xproto.Colormap) (xproto.Window, error) {
	wid, err := xproto.NewWindowId(c.Conn())
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	// Values follow the bit order of the mask.
	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwOverrideRedirect | xproto.CwColormap)
	values := []uint32{0, 0, 1, uint32(cmap)}

	err = xproto.CreateWindowChecked(
		c.Conn(),
		32,
		wid,
		parent,
		int16(x), int16(y),
		uint16(width), uint16(height),
		0,
		xproto.WindowClassInputOutput,
		visual,
		mask,
		values,
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}
	return wid, nil
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	return xproto.ConfigureWindowChecked(
		c.Conn(),
		windowID,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)},
	).Check()
}

// RaiseWindow puts a window on top of its siblings.
func (c *Connection) RaiseWindow(windowID xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		c.Conn(),
		windowID,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// ReparentWindow moves a window under a new parent at the given offset.
func (c *Connection) ReparentWindow(windowID, parent xproto.Window, x, y int) error {
	return xproto.ReparentWindowChecked(c.Conn(), windowID, parent, int16(x), int16(y)).Check()
}

// MapWindow maps a window.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.Conn(), windowID).Check()
}

// DestroyWindow destroys a window and all of its subwindows.
func (c *Connection) DestroyWindow(windowID xproto.Window) error {
	return xproto.DestroyWindowChecked(c.Conn(), windowID).Check()
}

// SelectClientEvents subscribes to the events the window manager needs from
// a managed client.
func (c *Connection) SelectClientEvents(windowID xproto.Window) error {
	return xproto.ChangeWindowAttributesChecked(
		c.Conn(),
		windowID,
		xproto.CwEventMask,
		[]uint32{clientEventMask},
	).Check()
}

// SetOverrideRedirect marks a window as override-redirect.
func (c *Connection) SetOverrideRedirect(windowID xproto.Window) error {
	return xproto.ChangeWindowAttributesChecked(
		c.Conn(),
		windowID,
		xproto.CwOverrideRedirect,
		[]uint32{1},
	).Check()
}

// WindowAttributes returns the attributes of a window.
func (c *Connection) WindowAttributes(windowID xproto.Window) (*xproto.GetWindowAttributesReply, error) {
	return xproto.GetWindowAttributes(c.Conn(), windowID).Reply()
}

// WindowGeometry returns a window's geometry relative to its parent.
func (c *Connection) WindowGeometry(windowID xproto.Window) (*xproto.GetGeometryReply, error) {
	return xproto.GetGeometry(c.Conn(), xproto.Drawable(windowID)).Reply()
}

// SendClientMessage delivers a 32-bit client message to the window's owner.
func (c *Connection) SendClientMessage(windowID xproto.Window, typ xproto.Atom, data ...uint32) error {
	var payload [5]uint32
	copy(payload[:], data)

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(payload[:]),
	}

	return xproto.SendEventChecked(
		c.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// KillClient forcibly closes the connection of the client owning a window.
func (c *Connection) KillClient(windowID xproto.Window) error {
	return xproto.KillClientChecked(c.Conn(), uint32(windowID)).Check()
}

// SetInputFocus focuses a window, reverting to the pointer root.
func (c *Connection) SetInputFocus(windowID xproto.Window) error {
	return xproto.SetInputFocusChecked(
		c.Conn(),
		xproto.InputFocusPointerRoot,
		windowID,
		xproto.TimeCurrentTime,
	).Check()
}
