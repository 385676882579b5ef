package policy

import (
	"fmt"

	"github.com/footron/foowm/internal/platform"
)

// Context is everything a geometry rule may depend on.
type Context struct {
	Desired      platform.Rect
	Scenario     Scenario
	Layout       Layout
	ScreenWidth  int
	ScreenHeight int
}

// Rule resolves to a rectangle for a context.
type Rule interface {
	Resolve(ctx Context) (platform.Rect, error)
}

// Constant is a fixed rectangle.
type Constant platform.Rect

func (c Constant) Resolve(Context) (platform.Rect, error) {
	return platform.Rect(c), nil
}

// ByScenario picks a rule by the display scenario.
type ByScenario map[Scenario]Rule

func (m ByScenario) Resolve(ctx Context) (platform.Rect, error) {
	rule, ok := m[ctx.Scenario]
	if !ok {
		return platform.Rect{}, fmt.Errorf("no geometry rule for scenario %q", ctx.Scenario)
	}
	return rule.Resolve(ctx)
}

// ByLayout picks a rule by the current display layout.
type ByLayout map[Layout]Rule

func (m ByLayout) Resolve(ctx Context) (platform.Rect, error) {
	rule, ok := m[ctx.Layout]
	if !ok {
		return platform.Rect{}, fmt.Errorf("no geometry rule for layout %q", ctx.Layout)
	}
	return rule.Resolve(ctx)
}

// Computed derives a rectangle from the context.
type Computed func(ctx Context) platform.Rect

func (f Computed) Resolve(ctx Context) (platform.Rect, error) {
	return f(ctx), nil
}

// Table maps each client type to its geometry rule.
type Table map[ClientType]Rule

// Geometry returns the authoritative geometry for a client. Floating
// experience windows keep their desired geometry; everything else comes
// from the table.
func (t Table) Geometry(ctx Context, typ ClientType, floating bool) (platform.Rect, error) {
	if typ == TypeExperience && floating {
		return ctx.Desired, nil
	}
	rule, ok := t[typ]
	if !ok {
		return platform.Rect{}, fmt.Errorf("no geometry rule for client type %q", typ)
	}
	return rule.Resolve(ctx)
}

// Viewport returns the geometry of the experience viewport, which is the
// experience-content rule evaluated without a desired geometry.
func (t Table) Viewport(ctx Context) (platform.Rect, error) {
	ctx.Desired = platform.Rect{}
	return t.Geometry(ctx, TypeExperience, false)
}

var (
	placardRect = Constant{X: 0, Y: 0, Width: 715, Height: 1758}

	fullScreen = Computed(func(ctx Context) platform.Rect {
		return platform.Rect{Width: ctx.ScreenWidth, Height: ctx.ScreenHeight}
	})

	placardStrip = Computed(func(ctx Context) platform.Rect {
		return platform.Rect{Width: int(float64(ctx.ScreenWidth) * 0.2), Height: ctx.ScreenHeight}
	})

	productionBand = Computed(func(ctx Context) platform.Rect {
		return platform.Rect{X: 978, Y: 0, Width: 3125, Height: ctx.ScreenHeight}
	})

	contentByLayout = ByLayout{
		LayoutFull:       fullScreen,
		LayoutFit4k:      Constant{X: 715, Y: 0, Width: 3125, Height: 1758},
		LayoutProduction: productionBand,
	}

	content = ByScenario{
		ScenarioFullscreen: fullScreen,
		ScenarioCenter:     contentByLayout,
		ScenarioProduction: contentByLayout,
	}
)

// DefaultTable is the geometry policy of the exhibit display.
var DefaultTable = Table{
	TypePlacard: ByScenario{
		ScenarioFullscreen: placardStrip,
		ScenarioCenter:     placardRect,
		ScenarioProduction: placardRect,
	},
	TypeExperience: content,
	TypeLoader:     content,
	// Offscreen windows keep their own size but are pushed just past the
	// visible area: sources to the right, hacks below.
	TypeOffscreenSource: Computed(func(ctx Context) platform.Rect {
		return platform.Rect{X: ctx.ScreenWidth, Y: 0, Width: ctx.Desired.Width, Height: ctx.Desired.Height}
	}),
	TypeOffscreenHack: Computed(func(ctx Context) platform.Rect {
		return platform.Rect{X: 0, Y: ctx.ScreenHeight, Width: ctx.Desired.Width, Height: ctx.Desired.Height}
	}),
}
