package wm

import (
	"fmt"

	"github.com/footron/foowm/internal/platform"
)

// Atom names used by the window manager.
const (
	UTF8String = "UTF8_STRING"

	NetSupported           = "_NET_SUPPORTED"
	NetActiveWindow        = "_NET_ACTIVE_WINDOW"
	NetWMName              = "_NET_WM_NAME"
	NetClientList          = "_NET_CLIENT_LIST"
	NetSupportingWMCheck   = "_NET_SUPPORTING_WM_CHECK"
	NetWMState             = "_NET_WM_STATE"
	NetWMWindowType        = "_NET_WM_WINDOW_TYPE"
	NetWMWindowTypeDock    = "_NET_WM_WINDOW_TYPE_DOCK"
	NetWMWindowTypeToolbar = "_NET_WM_WINDOW_TYPE_TOOLBAR"
	NetWMWindowTypeMenu    = "_NET_WM_WINDOW_TYPE_MENU"
	NetWMWindowTypeSplash  = "_NET_WM_WINDOW_TYPE_SPLASH"
	NetWMWindowTypeDialog  = "_NET_WM_WINDOW_TYPE_DIALOG"
	NetWMWindowTypeUtility = "_NET_WM_WINDOW_TYPE_UTILITY"
	NetWMStateModal        = "_NET_WM_STATE_MODAL"
	NetWMStateAbove        = "_NET_WM_STATE_ABOVE"
	NetWMStateSticky       = "_NET_WM_STATE_STICKY"
	NetWorkArea            = "_NET_WORKAREA"

	WMDeleteWindow = "WM_DELETE_WINDOW"
	WMProtocols    = "WM_PROTOCOLS"
	WMName         = "WM_NAME"
	WMState        = "WM_STATE"
	WMNormalHints  = "WM_NORMAL_HINTS"

	XEmbedInfo = "_XEMBED_INFO"

	// Property types.
	TypeAtom     = "ATOM"
	TypeCardinal = "CARDINAL"
	TypeWindow   = "WINDOW"
)

// netAtoms are advertised in _NET_SUPPORTED.
var netAtoms = []string{
	NetSupported,
	NetActiveWindow,
	NetWMName,
	NetClientList,
	NetSupportingWMCheck,
	NetWMState,
	NetWMWindowType,
	NetWMWindowTypeDock,
	NetWMWindowTypeToolbar,
	NetWMWindowTypeMenu,
	NetWMWindowTypeSplash,
	NetWMWindowTypeDialog,
	NetWMWindowTypeUtility,
	NetWMStateModal,
	NetWMStateAbove,
	NetWMStateSticky,
	NetWorkArea,
}

var icccmAtoms = []string{
	WMDeleteWindow,
	WMProtocols,
	WMName,
	WMState,
	WMNormalHints,
}

// Windows with one of these types, or in one of these states, keep the
// geometry they ask for unless their title gives them a role.
var (
	floatingWindowTypes = []string{
		NetWMWindowTypeDock,
		NetWMWindowTypeToolbar,
		NetWMWindowTypeUtility,
		NetWMWindowTypeDialog,
		NetWMWindowTypeMenu,
		NetWMWindowTypeSplash,
	}
	floatingWindowStates = []string{
		NetWMStateModal,
		NetWMStateAbove,
		NetWMStateSticky,
	}
)

// AtomTable maps atom names to server ids. It is filled once by InternAtoms
// and read-only afterwards.
type AtomTable struct {
	ids       map[string]platform.Atom
	supported []platform.Atom
}

// InternAtoms interns every atom the window manager uses.
func InternAtoms(d platform.Display) (*AtomTable, error) {
	t := &AtomTable{ids: make(map[string]platform.Atom)}

	names := []string{UTF8String}
	names = append(names, netAtoms...)
	names = append(names, icccmAtoms...)
	names = append(names, XEmbedInfo, TypeAtom, TypeCardinal, TypeWindow)

	for _, name := range names {
		id, err := d.InternAtom(name)
		if err != nil {
			return nil, fmt.Errorf("failed to intern %s: %w", name, err)
		}
		t.ids[name] = id
	}
	for _, name := range netAtoms {
		t.supported = append(t.supported, t.ids[name])
	}
	return t, nil
}

// Get returns the id for name, or 0 if it was never interned.
func (t *AtomTable) Get(name string) platform.Atom {
	return t.ids[name]
}

// Supported returns the EWMH atoms to advertise on the root window.
func (t *AtomTable) Supported() []platform.Atom {
	out := make([]platform.Atom, len(t.supported))
	copy(out, t.supported)
	return out
}

// anyOf reports whether any value is the id of one of names.
func (t *AtomTable) anyOf(values []uint32, names []string) bool {
	for _, name := range names {
		id := uint32(t.ids[name])
		for _, v := range values {
			if v == id {
				return true
			}
		}
	}
	return false
}
