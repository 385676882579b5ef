// Package wm implements the window manager core: the client registry, the
// event handlers, and the layout commands that mutate them.
package wm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/footron/foowm/internal/command"
	"github.com/footron/foowm/internal/platform"
	"github.com/footron/foowm/internal/policy"
)

// Name is the window manager name published on the check window.
const Name = "foowm"

// ViewportTitle is the title of the experience viewport window, which
// screen capture picks up by name.
const ViewportTitle = "FOOTRON_EXPERIENCE_VIEWPORT"

// ICCCM WM_STATE value for a visible window.
const normalState = 1

// DefaultClearTypes is the include set clear_viewport uses when a command
// does not name one.
var DefaultClearTypes = []policy.ClientType{policy.TypeExperience, policy.TypeLoader}

// Options configures a Manager.
type Options struct {
	Scenario policy.Scenario
	// Layout is the starting layout. Empty selects the scenario default.
	Layout policy.Layout
	// ClearTypes overrides DefaultClearTypes.
	ClearTypes []policy.ClientType
	// Table overrides policy.DefaultTable.
	Table  policy.Table
	Logger *slog.Logger
	// Now overrides time.Now for client creation timestamps.
	Now func() time.Time
}

// Manager owns all window manager state. Every method must be called from
// the goroutine running the event loop.
type Manager struct {
	display  platform.Display
	queue    *command.Queue
	logger   *slog.Logger
	table    policy.Table
	now      func() time.Time
	registry *Registry
	atoms    *AtomTable

	scenario   policy.Scenario
	layout     policy.Layout
	clearTypes []policy.ClientType

	visual   platform.Visual
	root     platform.WindowID
	check    platform.WindowID
	viewport platform.WindowID
	width    int
	height   int
}

// New creates a manager for display. Commands pushed to queue are applied
// after each event. Call Setup before Run.
func New(display platform.Display, queue *command.Queue, opts Options) *Manager {
	if queue == nil {
		queue = command.NewQueue()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	table := opts.Table
	if table == nil {
		table = policy.DefaultTable
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	scenario := opts.Scenario
	if scenario == "" {
		scenario = policy.ScenarioCenter
	}
	layout := opts.Layout
	if layout == "" {
		layout = policy.DefaultLayout(scenario)
	}
	clearTypes := opts.ClearTypes
	if clearTypes == nil {
		clearTypes = DefaultClearTypes
	}

	width, height := display.ScreenSize()
	return &Manager{
		display:    display,
		queue:      queue,
		logger:     logger,
		table:      table,
		now:        now,
		registry:   NewRegistry(),
		scenario:   scenario,
		layout:     layout,
		clearTypes: clearTypes,
		root:       display.Root(),
		width:      width,
		height:     height,
	}
}

// Setup interns atoms, publishes the EWMH root properties, and creates the
// check window and the experience viewport. Any error is fatal.
func (m *Manager) Setup() error {
	m.logger.Debug("starting setup", "scenario", m.scenario, "layout", m.layout,
		"width", m.width, "height", m.height)

	atoms, err := InternAtoms(m.display)
	if err != nil {
		return err
	}
	m.atoms = atoms

	visual, err := m.display.TrueColorVisual()
	if err != nil {
		return fmt.Errorf("cannot create transparent windows: %w", err)
	}
	m.visual = visual

	if err := m.setupCheckWindow(); err != nil {
		return err
	}
	if err := m.setupRoot(); err != nil {
		return err
	}
	if err := m.setupViewport(); err != nil {
		return err
	}
	m.publishClientList()

	if err := m.display.Sync(); err != nil {
		return fmt.Errorf("failed to sync display: %w", err)
	}
	m.logger.Debug("setup finished", "check", m.check, "viewport", m.viewport)
	return nil
}

func (m *Manager) setupCheckWindow() error {
	check, err := m.display.CreateCheckWindow()
	if err != nil {
		return fmt.Errorf("failed to create check window: %w", err)
	}
	m.check = check

	err = m.display.SetProperty32(check, m.atoms.Get(NetSupportingWMCheck), m.atoms.Get(TypeWindow), []uint32{uint32(check)})
	if err != nil {
		return fmt.Errorf("failed to label check window: %w", err)
	}
	return m.setTitle(check, Name)
}

func (m *Manager) setupRoot() error {
	err := m.display.SetProperty32(m.root, m.atoms.Get(NetSupportingWMCheck), m.atoms.Get(TypeWindow), []uint32{uint32(m.check)})
	if err != nil {
		return fmt.Errorf("failed to publish check window: %w", err)
	}

	supported := m.atoms.Supported()
	values := make([]uint32, len(supported))
	for i, a := range supported {
		values[i] = uint32(a)
	}
	if err := m.display.SetProperty32(m.root, m.atoms.Get(NetSupported), m.atoms.Get(TypeAtom), values); err != nil {
		return fmt.Errorf("failed to publish supported atoms: %w", err)
	}

	m.publishWorkArea()
	return nil
}

func (m *Manager) setupViewport() error {
	bounds, err := m.table.Viewport(m.policyContext(platform.Rect{}))
	if err != nil {
		return fmt.Errorf("failed to resolve viewport geometry: %w", err)
	}

	viewport, err := m.display.CreateWrapper(bounds.Clamped(), m.visual)
	if err != nil {
		return fmt.Errorf("failed to create experience viewport: %w", err)
	}
	m.viewport = viewport

	// Capture sources must look like ordinary managed windows.
	if err := m.markManaged(viewport); err != nil {
		return fmt.Errorf("failed to label experience viewport: %w", err)
	}
	if err := m.setTitle(viewport, ViewportTitle); err != nil {
		return err
	}
	if err := m.display.Map(viewport); err != nil {
		return fmt.Errorf("failed to map experience viewport: %w", err)
	}
	return nil
}

// Run handles events until the display connection closes. Commands queued
// while an event is handled are applied before the next event is read.
func (m *Manager) Run() error {
	for {
		ev, err := m.display.NextEvent()
		if err != nil {
			var perr *platform.ProtocolError
			if errors.As(err, &perr) {
				m.logger.Warn("request failed", "error", perr.Err)
				continue
			}
			return fmt.Errorf("event loop stopped: %w", err)
		}

		m.HandleEvent(ev)
		m.ProcessCommands()
	}
}

// ProcessCommands applies every queued command in arrival order.
func (m *Manager) ProcessCommands() {
	for _, cmd := range m.queue.Drain() {
		m.logger.Debug("processing command", "type", cmd.Type())

		switch c := cmd.(type) {
		case command.SetLayout:
			m.SetLayout(c.Layout, c.After)
		case command.ClearViewport:
			m.ClearViewport(c.Before, c.Include)
		default:
			m.logger.Error("unhandled command", "type", cmd.Type())
		}
	}
}

// Layout returns the current layout.
func (m *Manager) Layout() policy.Layout {
	return m.layout
}

// Scenario returns the display scenario.
func (m *Manager) Scenario() policy.Scenario {
	return m.scenario
}

// ScreenSize returns the cached root window size.
func (m *Manager) ScreenSize() (width, height int) {
	return m.width, m.height
}

// Registry returns the client registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Viewport returns the experience viewport window.
func (m *Manager) Viewport() platform.WindowID {
	return m.viewport
}

// Atoms returns the interned atom table. It is nil before Setup.
func (m *Manager) Atoms() *AtomTable {
	return m.atoms
}

func (m *Manager) policyContext(desired platform.Rect) policy.Context {
	return policy.Context{
		Desired:      desired,
		Scenario:     m.scenario,
		Layout:       m.layout,
		ScreenWidth:  m.width,
		ScreenHeight: m.height,
	}
}

// warn logs a failed request that does not abandon the operation in progress.
func (m *Manager) warn(msg string, w platform.WindowID, err error) {
	if err != nil {
		m.logger.Warn(msg, "window", w, "error", err)
	}
}
