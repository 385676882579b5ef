package wm

import (
	"github.com/footron/foowm/internal/platform"
	"github.com/footron/foowm/internal/policy"
)

// manage takes over a new top-level window: it wraps the window, sizes it by
// policy, and registers it. A failure to read the window aborts management
// of that window only.
func (m *Manager) manage(w platform.WindowID, attrs platform.Attributes) {
	floating := m.wantsFloating(w)

	current, err := m.display.Geometry(w)
	if err != nil {
		m.logger.Error("failed to get geometry of new window", "window", w, "error", err)
		return
	}

	// Some windows position themselves through size hints, which is honored
	// only if they also float.
	desired := current
	hints, err := m.display.NormalHints(w)
	if err != nil {
		m.logger.Debug("no usable size hints on new window", "window", w, "error", err)
	} else if g, ok := hintsGeometry(hints); ok {
		desired = g
	}

	title := m.windowTitle(w)
	typ := policy.Classify(title)
	floating = floating && typ == policy.TypeExperience

	geometry, err := m.table.Geometry(m.policyContext(desired), typ, floating)
	if err != nil {
		m.logger.Error("no geometry for new window", "window", w, "type", typ, "error", err)
		return
	}
	m.logger.Debug("managing window",
		"window", w,
		"title", title,
		"type", typ,
		"floating", floating,
		"desired", desired,
		"geometry", geometry)

	if err := m.display.SelectClientEvents(w); err != nil {
		m.logger.Error("failed to select events on new window", "window", w, "error", err)
		return
	}
	m.warn("failed to label new window", w, m.markManaged(w))
	m.warn("failed to set override-redirect", w, m.display.SetOverrideRedirect(w))

	wrapper, err := m.display.CreateWrapper(platform.Rect{Width: 1, Height: 1}, m.visual)
	if err != nil {
		m.logger.Error("failed to create wrapper", "window", w, "error", err)
		return
	}
	m.registry.TrackWrapper(wrapper)
	if err := m.display.Reparent(w, wrapper, 0, 0); err != nil {
		m.logger.Error("failed to reparent new window", "window", w, "error", err)
		m.registry.UntrackWrapper(wrapper)
		m.warn("failed to destroy wrapper", wrapper, m.display.Destroy(wrapper))
		return
	}
	m.warn("failed to map wrapper", wrapper, m.display.Map(wrapper))
	m.warn("failed to sync", w, m.display.Sync())
	m.logger.Debug("created wrapper", "window", w, "wrapper", wrapper)

	c := &Client{
		Target:    w,
		Wrapper:   wrapper,
		Geometry:  geometry,
		Desired:   desired,
		Title:     title,
		Type:      typ,
		Floating:  floating,
		CreatedAt: m.now(),
	}
	// Reparenting a mapped window unmaps it.
	if attrs.Mapped {
		c.IgnoreUnmaps++
	}

	switch typ {
	case policy.TypePlacard:
		m.logger.Info("matched new placard window", "window", w)
	case policy.TypeLoader:
		m.logger.Info("matched new loader window", "window", w)
	}
	m.registry.SetRole(c)

	if typ.InViewport() {
		m.reparentWrapper(c, true)
	}

	m.configure(c)
	m.warn("failed to map window", w, m.display.Map(w))
	m.restack()
	m.registry.Add(c)
	m.publishClientList()
}

// wantsFloating reports whether the window's EWMH type or state asks for
// self-managed geometry.
func (m *Manager) wantsFloating(w platform.WindowID) bool {
	types, err := m.display.Property32(w, m.atoms.Get(NetWMWindowType), m.atoms.Get(TypeAtom))
	if err != nil {
		m.logger.Debug("failed to read window type", "window", w, "error", err)
	} else if len(types) > 0 && m.atoms.anyOf(types[:1], floatingWindowTypes) {
		m.logger.Debug("window type is floating", "window", w)
		return true
	}

	states, err := m.display.Property32(w, m.atoms.Get(NetWMState), m.atoms.Get(TypeAtom))
	if err != nil {
		m.logger.Debug("failed to read window state", "window", w, "error", err)
		return false
	}
	if m.atoms.anyOf(states, floatingWindowStates) {
		m.logger.Debug("window state is floating", "window", w)
		return true
	}
	return false
}

// windowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (m *Manager) windowTitle(w platform.WindowID) string {
	for _, name := range []string{NetWMName, WMName} {
		title, err := m.display.TextProperty(w, m.atoms.Get(name))
		if err != nil {
			m.logger.Debug("failed to read title", "window", w, "property", name, "error", err)
			continue
		}
		if title != "" {
			return title
		}
	}
	return ""
}

// setTitle sets both _NET_WM_NAME and WM_NAME.
func (m *Manager) setTitle(w platform.WindowID, title string) error {
	for _, name := range []string{NetWMName, WMName} {
		if err := m.display.SetTextProperty(w, m.atoms.Get(name), m.atoms.Get(UTF8String), title); err != nil {
			return err
		}
	}
	return nil
}

// markManaged sets WM_STATE to NormalState and an XEmbed info block.
// Screen capture only lists windows that carry both.
func (m *Manager) markManaged(w platform.WindowID) error {
	state := m.atoms.Get(WMState)
	if err := m.display.SetProperty32(w, state, state, []uint32{normalState}); err != nil {
		return err
	}
	xembed := m.atoms.Get(XEmbedInfo)
	return m.display.SetProperty32(w, xembed, xembed, []uint32{0, 1})
}
