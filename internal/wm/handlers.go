package wm

import (
	"github.com/footron/foowm/internal/platform"
	"github.com/footron/foowm/internal/policy"
)

// HandleEvent routes one event to its handler. Unsupported events are
// logged and ignored.
func (m *Manager) HandleEvent(ev platform.Event) {
	switch e := ev.(type) {
	case platform.MapRequest:
		m.handleMapRequest(e.Window)
	case platform.Unmap:
		m.handleUnmap(e.Window)
	case platform.ConfigureNotify:
		m.handleConfigureNotify(e)
	case platform.ConfigureRequest:
		m.handleConfigureRequest(e.Window, e.Bounds)
	case platform.PropertyChange:
		m.handlePropertyChange(e)
	case platform.PointerEnter:
		m.handlePointerEnter(e.Window)
	case platform.Wake:
		// Only here so queued commands are drained.
	case platform.Unsupported:
		m.logger.Debug("ignoring event with no handler", "event", e.Name)
	default:
		m.logger.Debug("ignoring event with no handler", "event", ev)
	}
}

func (m *Manager) handleMapRequest(w platform.WindowID) {
	m.logger.Debug("handling map request", "window", w)

	if w == m.viewport || m.registry.IsWrapper(w) {
		return
	}
	if _, ok := m.registry.Get(w); ok {
		m.logger.Debug("ignoring map request for managed window", "window", w)
		return
	}

	attrs, err := m.display.Attributes(w)
	if err != nil {
		m.logger.Error("failed to get attributes of new window", "window", w, "error", err)
		return
	}
	if attrs.OverrideRedirect {
		return
	}

	m.manage(w, attrs)
}

func (m *Manager) handleUnmap(w platform.WindowID) {
	if m.registry.IsWrapper(w) {
		return
	}
	c, ok := m.registry.Get(w)
	if !ok {
		m.logger.Debug("no client for unmapped window", "window", w)
		return
	}

	if c.IgnoreUnmaps > 0 {
		c.IgnoreUnmaps--
		m.logger.Debug("ignoring unmap", "window", w, "remaining", c.IgnoreUnmaps)
		return
	}

	switch {
	case m.registry.Placard() == c:
		m.logger.Info("placard window is closing", "window", w)
	case m.registry.Loader() == c:
		m.logger.Info("loader window is closing", "window", w)
	}

	m.registry.Remove(w)
	m.warn("failed to destroy wrapper", c.Wrapper, m.display.Destroy(c.Wrapper))
	m.publishClientList()
	m.restack()
}

func (m *Manager) handleConfigureNotify(e platform.ConfigureNotify) {
	if e.Window != m.root {
		return
	}
	if e.Width == m.width && e.Height == m.height {
		return
	}

	m.logger.Debug("root window resized",
		"old", [2]int{m.width, m.height},
		"new", [2]int{e.Width, e.Height})
	m.width = e.Width
	m.height = e.Height
}

func (m *Manager) handleConfigureRequest(w platform.WindowID, bounds platform.Rect) {
	if m.registry.IsWrapper(w) {
		return
	}
	c, ok := m.registry.Get(w)
	if !ok {
		m.logger.Debug("no client for configure request", "window", w)
		return
	}

	// The request only moves the desired geometry; the policy decides what
	// the client actually gets.
	c.Desired = bounds
	if !m.updateGeometry(c) {
		return
	}
	m.applyGeometry(c)
}

func (m *Manager) handlePropertyChange(e platform.PropertyChange) {
	if e.Deleted || m.registry.IsWrapper(e.Window) {
		return
	}
	c, ok := m.registry.Get(e.Window)
	if !ok {
		return
	}

	switch e.Atom {
	case m.atoms.Get(NetWMName), m.atoms.Get(WMName):
		m.updateTitle(c)
	case m.atoms.Get(WMNormalHints):
		m.updateDesiredFromHints(c)
	case m.atoms.Get(NetWMState):
		// Clients do not get to change their own state; put the geometry back.
		m.logger.Debug("reapplying geometry after state change", "window", c.Target)
		m.applyGeometry(c)
	}
}

// updateTitle reclassifies c after a title change and moves it between the
// viewport and the root when its type changes.
func (m *Manager) updateTitle(c *Client) {
	title := m.windowTitle(c.Target)
	if title != c.Title {
		m.logger.Debug("title changed", "window", c.Target, "old", c.Title, "new", title)
	}
	c.Title = title

	oldType := c.Type
	c.Type = policy.Classify(title)
	if c.Type == oldType {
		return
	}
	m.logger.Debug("type changed", "window", c.Target, "old", oldType, "new", c.Type)

	m.registry.ClearRole(c)
	m.registry.SetRole(c)
	switch c.Type {
	case policy.TypePlacard:
		m.logger.Info("matched placard window", "window", c.Target)
	case policy.TypeLoader:
		m.logger.Info("matched loader window", "window", c.Target)
	}

	if !m.updateGeometry(c) {
		return
	}
	m.reparentWrapper(c, c.Type.InViewport())
	m.applyGeometry(c)
}

func (m *Manager) updateDesiredFromHints(c *Client) {
	hints, err := m.display.NormalHints(c.Target)
	if err != nil {
		m.logger.Debug("failed to read size hints", "window", c.Target, "error", err)
		return
	}
	desired, ok := hintsGeometry(hints)
	if !ok {
		return
	}
	m.logger.Debug("size hints changed", "window", c.Target, "old", c.Desired, "new", desired)
	c.Desired = desired
}

func (m *Manager) handlePointerEnter(w platform.WindowID) {
	// Focus follows the pointer only so that popup menus keep working.
	err := m.display.SetProperty32(m.root, m.atoms.Get(NetActiveWindow), m.atoms.Get(TypeWindow), []uint32{uint32(w)})
	m.warn("failed to publish active window", w, err)
	m.warn("failed to focus window", w, m.display.SetInputFocus(w))
}

// hintsGeometry derives a desired geometry from size hints that carry both
// a position and a maximum size.
func hintsGeometry(h platform.SizeHints) (platform.Rect, bool) {
	if !h.HasPosition || !h.HasMaxSize {
		return platform.Rect{}, false
	}
	return platform.Rect{X: h.X, Y: h.Y, Width: h.MaxWidth, Height: h.MaxHeight}, true
}
