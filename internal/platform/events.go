package platform

// Event is one of the protocol events the window manager dispatches on.
// The set is closed; anything else arrives as Unsupported.
type Event interface {
	event()
}

// MapRequest asks the window manager to map a top-level window.
type MapRequest struct {
	Window WindowID
}

// Unmap reports that a window was unmapped.
type Unmap struct {
	Window WindowID
}

// ConfigureNotify reports a window's new geometry.
type ConfigureNotify struct {
	Window WindowID
	Width  int
	Height int
}

// ConfigureRequest carries a client's request to move or resize itself.
type ConfigureRequest struct {
	Window WindowID
	Bounds Rect
}

// PropertyChange reports a property being set or deleted on a window.
type PropertyChange struct {
	Window  WindowID
	Atom    Atom
	Deleted bool
}

// PointerEnter reports the pointer entering a window.
type PointerEnter struct {
	Window WindowID
}

// Wake is a synthetic event used to get the event loop to drain pending
// control commands.
type Wake struct{}

// Unsupported is any event outside the handled set.
type Unsupported struct {
	Name string
}

func (MapRequest) event()       {}
func (Unmap) event()            {}
func (ConfigureNotify) event()  {}
func (ConfigureRequest) event() {}
func (PropertyChange) event()   {}
func (PointerEnter) event()     {}
func (Wake) event()             {}
func (Unsupported) event()      {}
