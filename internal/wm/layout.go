package wm

import (
	"slices"
	"time"

	"github.com/footron/foowm/internal/platform"
	"github.com/footron/foowm/internal/policy"
)

// SetLayout switches the display layout. Viewport clients created after
// after are resized; a zero after resizes all of them. Switching to the
// current layout does nothing.
func (m *Manager) SetLayout(layout policy.Layout, after time.Time) {
	if layout == m.layout {
		return
	}
	m.logger.Info("switching layout", "old", m.layout, "new", layout)

	m.layout = layout
	m.publishWorkArea()
	m.updateViewport(after)
}

// ClearViewport asks every client whose type is in include and that was
// created at or before before to close. A nil include selects the
// configured default types. Clients are removed later, when they unmap.
func (m *Manager) ClearViewport(before time.Time, include []policy.ClientType) (closed, skipped int) {
	types := include
	if types == nil {
		types = m.clearTypes
		m.logger.Debug("clearing viewport with default include list", "include", types)
	} else {
		m.logger.Debug("clearing viewport", "include", types)
	}

	for _, c := range m.registry.Clients() {
		if !slices.Contains(types, c.Type) {
			continue
		}
		if c.CreatedAt.After(before) {
			skipped++
			continue
		}
		m.closeClient(c)
		closed++
	}

	m.logger.Debug("cleared viewport", "closed", closed, "skipped", skipped)
	m.publishClientList()
	m.restack()
	return closed, skipped
}

// updateViewport resizes the experience viewport for the current layout and
// reapplies policy to the viewport clients created after after.
func (m *Manager) updateViewport(after time.Time) {
	bounds, err := m.table.Viewport(m.policyContext(platform.Rect{}))
	if err != nil {
		m.logger.Error("failed to resolve viewport geometry", "error", err)
		return
	}
	m.logger.Debug("resizing experience viewport", "geometry", bounds)
	m.warn("failed to resize experience viewport", m.viewport, m.display.Configure(m.viewport, bounds.Clamped()))

	resized := 0
	for _, c := range m.registry.Clients() {
		if !c.InViewport {
			continue
		}
		if !after.IsZero() && !c.CreatedAt.After(after) {
			continue
		}
		if !m.updateGeometry(c) {
			continue
		}
		m.configure(c)
		resized++
	}
	m.logger.Debug("updated viewport geometry", "resized", resized)
	m.restack()
}

// updateGeometry recomputes c's authoritative geometry from policy.
func (m *Manager) updateGeometry(c *Client) bool {
	geometry, err := m.table.Geometry(m.policyContext(c.Desired), c.Type, c.Floating)
	if err != nil {
		m.logger.Error("no geometry for window", "window", c.Target, "type", c.Type, "error", err)
		return false
	}
	if geometry != c.Geometry {
		m.logger.Debug("geometry changed", "window", c.Target, "old", c.Geometry, "new", geometry)
	}
	c.Geometry = geometry
	return true
}

// applyGeometry pushes c's geometry to the display and restores stacking.
func (m *Manager) applyGeometry(c *Client) {
	m.configure(c)
	m.restack()
}

// configure sizes the wrapper and the target to c's geometry. Inside the
// viewport the wrapper sits at the viewport origin.
func (m *Manager) configure(c *Client) {
	bounds := c.Geometry.Clamped()
	wrapper := bounds
	if c.InViewport {
		wrapper.X, wrapper.Y = 0, 0
	}
	if err := m.display.Configure(c.Wrapper, wrapper); err != nil {
		m.logger.Error("failed to configure wrapper", "window", c.Target, "geometry", bounds, "error", err)
		return
	}
	target := platform.Rect{Width: bounds.Width, Height: bounds.Height}
	if err := m.display.Configure(c.Target, target); err != nil {
		m.logger.Error("failed to configure window", "window", c.Target, "geometry", bounds, "error", err)
	}
}

// reparentWrapper moves c's wrapper into the experience viewport or back to
// the root.
func (m *Manager) reparentWrapper(c *Client, intoViewport bool) {
	if c.InViewport == intoViewport {
		return
	}

	parent, x, y := m.root, c.Geometry.X, c.Geometry.Y
	if intoViewport {
		parent, x, y = m.viewport, 0, 0
	}
	m.logger.Debug("reparenting wrapper", "window", c.Target, "parent", parent)
	if err := m.display.Reparent(c.Wrapper, parent, x, y); err != nil {
		m.logger.Error("failed to reparent wrapper", "window", c.Target, "parent", parent, "error", err)
		return
	}
	c.InViewport = intoViewport
	m.warn("failed to sync", c.Target, m.display.Sync())
}

// restack raises the loader and then the placard above everything else.
func (m *Manager) restack() {
	if loader := m.registry.Loader(); loader != nil {
		m.warn("failed to raise loader", loader.Target, m.display.Raise(loader.Wrapper))
	}
	if placard := m.registry.Placard(); placard != nil {
		m.warn("failed to raise placard", placard.Target, m.display.Raise(placard.Wrapper))
	}
	if err := m.display.Sync(); err != nil {
		m.logger.Warn("failed to sync", "error", err)
	}
}

// closeClient asks c to close with WM_DELETE_WINDOW when it supports that
// protocol, and disconnects it otherwise.
func (m *Manager) closeClient(c *Client) {
	protocols, err := m.display.Property32(c.Target, m.atoms.Get(WMProtocols), m.atoms.Get(TypeAtom))
	if err == nil && m.atoms.anyOf(protocols, []string{WMDeleteWindow}) {
		m.logger.Debug("requesting window close", "window", c.Target)
		err := m.display.SendClientMessage(c.Target, m.atoms.Get(WMProtocols), uint32(m.atoms.Get(WMDeleteWindow)), 0)
		m.warn("failed to request close", c.Target, err)
		return
	}
	m.logger.Debug("killing client", "window", c.Target)
	m.warn("failed to kill client", c.Target, m.display.KillClient(c.Target))
}

func (m *Manager) publishClientList() {
	targets := m.registry.Targets()
	values := make([]uint32, len(targets))
	for i, t := range targets {
		values[i] = uint32(t)
	}
	err := m.display.SetProperty32(m.root, m.atoms.Get(NetClientList), m.atoms.Get(TypeWindow), values)
	m.warn("failed to publish client list", m.root, err)
}

// publishWorkArea advertises the experience content area. Browsers use it
// to size fullscreen content.
func (m *Manager) publishWorkArea() {
	area, err := m.table.Viewport(m.policyContext(platform.Rect{}))
	if err != nil {
		m.logger.Error("failed to resolve work area", "error", err)
		return
	}
	values := []uint32{uint32(area.X), uint32(area.Y), uint32(area.Width), uint32(area.Height)}
	err = m.display.SetProperty32(m.root, m.atoms.Get(NetWorkArea), m.atoms.Get(TypeCardinal), values)
	m.warn("failed to publish work area", m.root, err)
}
