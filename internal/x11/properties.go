package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"golang.org/x/text/encoding/charmap"
)

// maxPropertyLength is the long_length used for whole-property reads.
const maxPropertyLength = (1 << 32) - 1

// InternAtom returns the atom for name, interning it if needed.
// Results are cached by xgbutil.
func (c *Connection) InternAtom(name string) (xproto.Atom, error) {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return atom, nil
}

// Property32 reads a format-32 property. An unset property yields nil.
func (c *Connection) Property32(windowID xproto.Window, prop, typ xproto.Atom) ([]uint32, error) {
	reply, err := xproto.GetProperty(c.Conn(), false, windowID, prop, typ, 0, maxPropertyLength).Reply()
	if err != nil {
		return nil, err
	}
	if reply.Format == 0 {
		return nil, nil
	}

	nums, err := xprop.PropValNums(reply, nil)
	if err != nil {
		return nil, err
	}
	values := make([]uint32, len(nums))
	for i, n := range nums {
		values[i] = uint32(n)
	}
	return values, nil
}

// SetProperty32 replaces a format-32 property.
func (c *Connection) SetProperty32(windowID xproto.Window, prop, typ xproto.Atom, values []uint32) error {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		xgb.Put32(buf[i*4:], v)
	}
	return xproto.ChangePropertyChecked(
		c.Conn(),
		xproto.PropModeReplace,
		windowID,
		prop,
		typ,
		32,
		uint32(len(values)),
		buf,
	).Check()
}

// TextProperty reads a format-8 text property. Values not typed
// UTF8_STRING are decoded as Latin-1, as ICCCM prescribes for STRING.
func (c *Connection) TextProperty(windowID xproto.Window, prop xproto.Atom) (string, error) {
	reply, err := xproto.GetProperty(c.Conn(), false, windowID, prop, xproto.GetPropertyTypeAny, 0, maxPropertyLength).Reply()
	if err != nil {
		return "", err
	}
	if reply.Format != 8 || len(reply.Value) == 0 {
		return "", nil
	}

	utf8, err := c.InternAtom("UTF8_STRING")
	if err != nil {
		return "", err
	}
	if reply.Type == utf8 {
		return string(reply.Value), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(reply.Value)
	if err != nil {
		return "", fmt.Errorf("failed to decode text property: %w", err)
	}
	return string(decoded), nil
}

// SetTextProperty replaces a format-8 text property.
func (c *Connection) SetTextProperty(windowID xproto.Window, prop, encoding xproto.Atom, text string) error {
	return xproto.ChangePropertyChecked(
		c.Conn(),
		xproto.PropModeReplace,
		windowID,
		prop,
		encoding,
		8,
		uint32(len(text)),
		[]byte(text),
	).Check()
}

// NormalHints reads WM_NORMAL_HINTS.
func (c *Connection) NormalHints(windowID xproto.Window) (*icccm.NormalHints, error) {
	return icccm.WmNormalHintsGet(c.XUtil, windowID)
}
