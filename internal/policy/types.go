package policy

import "fmt"

// ClientType is the role of a managed window, derived from its title.
type ClientType string

const (
	// TypeExperience is ordinary interactive content: a window with no
	// special role.
	TypeExperience      ClientType = "experience"
	TypePlacard         ClientType = "placard"
	TypeLoader          ClientType = "loader"
	TypeOffscreenSource ClientType = "offscreen_source"
	TypeOffscreenHack   ClientType = "offscreen_hack"
)

// ClientTypes lists every client type.
var ClientTypes = []ClientType{
	TypeExperience,
	TypePlacard,
	TypeLoader,
	TypeOffscreenSource,
	TypeOffscreenHack,
}

// ParseClientType validates a client type name.
func ParseClientType(s string) (ClientType, error) {
	for _, t := range ClientTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown client type %q", s)
}

// InViewport reports whether windows of this type live inside the
// experience viewport.
func (t ClientType) InViewport() bool {
	return t == TypeExperience || t == TypeLoader
}

// Scenario is the physical display arrangement, fixed for the process lifetime.
type Scenario string

const (
	ScenarioCenter     Scenario = "center"
	ScenarioProduction Scenario = "production"
	ScenarioFullscreen Scenario = "fullscreen"
)

// Scenarios lists every display scenario.
var Scenarios = []Scenario{ScenarioCenter, ScenarioProduction, ScenarioFullscreen}

// ParseScenario validates a scenario name.
func ParseScenario(s string) (Scenario, error) {
	for _, sc := range Scenarios {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown display scenario %q", s)
}

// Layout selects how experience content is arranged. It can change at runtime.
type Layout string

const (
	LayoutFull       Layout = "full"
	LayoutFit4k      Layout = "fit4k"
	LayoutProduction Layout = "production"
)

// Layouts lists every display layout.
var Layouts = []Layout{LayoutFull, LayoutFit4k, LayoutProduction}

// ParseLayout validates a layout name.
func ParseLayout(s string) (Layout, error) {
	for _, l := range Layouts {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown display layout %q", s)
}

// DefaultLayout is the layout a scenario starts in.
func DefaultLayout(scenario Scenario) Layout {
	if scenario == ScenarioProduction {
		return LayoutProduction
	}
	return LayoutFull
}
