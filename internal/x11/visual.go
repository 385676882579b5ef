package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// ErrNoTrueColorVisual means the screen offers no 32-bit TrueColor visual,
// so transparent windows cannot be created.
var ErrNoTrueColorVisual = errors.New("no 32-bit TrueColor visual available")

// TrueColorVisual finds a 32-bit TrueColor visual on the default screen and
// creates a colormap for it.
func (c *Connection) TrueColorVisual() (xproto.Visualid, xproto.Colormap, error) {
	visual, ok := findVisual(c.XUtil.Screen().AllowedDepths, 32, xproto.VisualClassTrueColor)
	if !ok {
		return 0, 0, ErrNoTrueColorVisual
	}

	cmap, err := xproto.NewColormapId(c.Conn())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to allocate colormap id: %w", err)
	}
	err = xproto.CreateColormapChecked(c.Conn(), xproto.ColormapAllocNone, cmap, c.Root, visual).Check()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create colormap: %w", err)
	}
	return visual, cmap, nil
}

func findVisual(depths []xproto.DepthInfo, depth byte, class byte) (xproto.Visualid, bool) {
	for _, d := range depths {
		if d.Depth != depth {
			continue
		}
		for _, v := range d.Visuals {
			if v.Class == class {
				return v.VisualId, true
			}
		}
	}
	return 0, false
}
