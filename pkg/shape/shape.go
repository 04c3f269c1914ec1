// Package shape resolves a style request into a fully specified ShapeToken.
//
// Resolution is a pure function of the request and the three tables held by
// a Context (token store, semantic map, dimension table). A Context never
// changes after construction, so one value may serve any number of
// concurrent Resolve calls without locking.
package shape

import (
	"errors"

	"github.com/gnana997/shapespec/pkg/dimension"
	"github.com/gnana997/shapespec/pkg/semantic"
	"github.com/gnana997/shapespec/pkg/style"
	"github.com/gnana997/shapespec/pkg/tokenstore"
)

// SurfaceBackgroundToken is the token holding the scene background behind a control.
const SurfaceBackgroundToken = "bgL1"

// ShapeToken is the renderer-agnostic style record of one control.
type ShapeToken struct {
	// outer frame
	OuterRadius  int         `json:"outer_radius"`
	OuterPadding int         `json:"outer_padding"`
	OuterBg      style.Color `json:"outer_bg"`

	// inner box
	Radius      int         `json:"radius"`
	Bg          style.Color `json:"bg"`
	BorderWidth int         `json:"border_width"`
	BorderColor style.Color `json:"border_color"`

	PaddingX      int `json:"padding_x"`
	PaddingY      int `json:"padding_y"`
	PaddingBottom int `json:"padding_bottom"`

	FontSize  int         `json:"font_size"`
	TextColor style.Color `json:"text_color"`

	Gap         int `json:"gap"`
	IconBoxSize int `json:"icon_box_size"`
	IconSize    int `json:"icon_size"`
}

// Palette is every color channel resolved for one (surface, hierarchy).
type Palette struct {
	BgDefault     style.Color `json:"bg_default"`
	BgHover       style.Color `json:"bg_hover"`
	BgPressed     style.Color `json:"bg_pressed"`
	BgDisabled    style.Color `json:"bg_disabled"`
	Frame         style.Color `json:"frame"`
	Border        style.Color `json:"border"`
	HwOutline     style.Color `json:"hw_outline"`
	LabelDefault  style.Color `json:"label_default"`
	LabelDisabled style.Color `json:"label_disabled"`
}

// Context bundles the read-only tables used by resolution.
type Context struct {
	tokens     *tokenstore.Store
	semantic   *semantic.Map
	dimensions dimension.Table
}

// NewContext validates and bundles the tables. The dimension table is deep-copied.
func NewContext(tokens *tokenstore.Store, sem *semantic.Map, dims dimension.Table) (*Context, error) {
	if tokens == nil {
		return nil, errors.New("shape: token store is required")
	}
	if sem == nil {
		return nil, errors.New("shape: semantic map is required")
	}
	if dims == nil {
		return nil, errors.New("shape: dimension table is required")
	}
	if errs := dims.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Context{tokens: tokens, semantic: sem, dimensions: dims.Clone()}, nil
}

// DefaultContext builds a Context from the embedded export, the standard
// semantic map and the built-in dimension table.
func DefaultContext() (*Context, error) {
	tokens, err := tokenstore.Default()
	if err != nil {
		return nil, err
	}
	return NewContext(tokens, semantic.Standard(), dimension.Default())
}

// Tokens returns the context's token store.
func (c *Context) Tokens() *tokenstore.Store { return c.tokens }

// Semantic returns the context's semantic map.
func (c *Context) Semantic() *semantic.Map { return c.semantic }

// Dimensions returns a copy of the entry for size.
func (c *Context) Dimensions(size style.Size) (dimension.Dimensions, error) {
	return c.dimensions.Lookup(size)
}

// Resolve maps a request onto a ShapeToken. Any lookup failure aborts
// resolution; no partial record is returned.
func (c *Context) Resolve(req style.Request) (ShapeToken, error) {
	if err := req.Validate(); err != nil {
		return ShapeToken{}, err
	}

	dims, err := c.dimensions.Lookup(req.Size)
	if err != nil {
		return ShapeToken{}, err
	}

	pal, err := c.palette(req.Surface, req.EffectiveHierarchy())
	if err != nil {
		return ShapeToken{}, err
	}

	outerBg, borderColor := selectFrame(req.Input, req.State, pal)

	return ShapeToken{
		OuterRadius:  dims.OuterRadius(),
		OuterPadding: dims.OuterPadding(),
		OuterBg:      outerBg,

		Radius:      dims.Radius,
		Bg:          selectBackground(req.State, pal),
		BorderWidth: dims.BorderWidth(),
		BorderColor: borderColor,

		PaddingX:      dims.PaddingX,
		PaddingY:      dims.PaddingY,
		PaddingBottom: dims.PaddingBottom,

		FontSize:  dims.FontSize,
		TextColor: selectText(req.State, pal),

		Gap:         dims.Gap,
		IconBoxSize: dims.IconBoxSize,
		IconSize:    dims.IconSize,
	}, nil
}

// ResolvePalette returns every color channel for a surface and hierarchy,
// applying the same high-priority escalation as Resolve.
func (c *Context) ResolvePalette(surface style.Surface, hierarchy style.Hierarchy, highPriority bool) (Palette, error) {
	req := style.Request{Hierarchy: hierarchy, HighPriority: highPriority}
	if !surface.Valid() {
		return Palette{}, &style.InvalidFieldError{Field: "surface", Value: string(surface)}
	}
	if !hierarchy.Valid() {
		return Palette{}, &style.InvalidFieldError{Field: "hierarchy", Value: string(hierarchy)}
	}
	return c.palette(surface, req.EffectiveHierarchy())
}

// SurfaceBackground returns the scene background color for a surface.
func (c *Context) SurfaceBackground(surface style.Surface) (style.Color, error) {
	return c.tokens.LookupColor(SurfaceBackgroundToken, surface)
}

// ResolveTokenName exposes the semantic map lookup.
func (c *Context) ResolveTokenName(hierarchy style.Hierarchy, part semantic.Part, state style.State) (string, error) {
	return c.semantic.ResolveTokenName(hierarchy, part, state)
}

// channel names one palette slot and where its color comes from.
type channel struct {
	part  semantic.Part
	state style.State
	dst   func(*Palette) *style.Color
}

// The frame is read from the border family; there is no separate frame family.
var channels = []channel{
	{semantic.PartBackground, style.StateDefault, func(p *Palette) *style.Color { return &p.BgDefault }},
	{semantic.PartBackground, style.StateHover, func(p *Palette) *style.Color { return &p.BgHover }},
	{semantic.PartBackground, style.StatePressed, func(p *Palette) *style.Color { return &p.BgPressed }},
	{semantic.PartBackground, style.StateDisabled, func(p *Palette) *style.Color { return &p.BgDisabled }},
	{semantic.PartBorder, style.StateDefault, func(p *Palette) *style.Color { return &p.Frame }},
	{semantic.PartBorder, style.StateDefault, func(p *Palette) *style.Color { return &p.Border }},
	{semantic.PartHardwareOutline, style.StateDefault, func(p *Palette) *style.Color { return &p.HwOutline }},
	{semantic.PartLabel, style.StateDefault, func(p *Palette) *style.Color { return &p.LabelDefault }},
	{semantic.PartLabel, style.StateDisabled, func(p *Palette) *style.Color { return &p.LabelDisabled }},
}

func (c *Context) palette(surface style.Surface, hierarchy style.Hierarchy) (Palette, error) {
	var pal Palette
	for _, ch := range channels {
		name, err := c.semantic.ResolveTokenName(hierarchy, ch.part, ch.state)
		if err != nil {
			return Palette{}, err
		}
		color, err := c.tokens.LookupColor(name, surface)
		if err != nil {
			return Palette{}, err
		}
		*ch.dst(&pal) = color
	}
	return pal, nil
}

func selectBackground(state style.State, pal Palette) style.Color {
	switch state {
	case style.StateHover:
		return pal.BgHover
	case style.StatePressed:
		return pal.BgPressed
	case style.StateDisabled:
		return pal.BgDisabled
	default:
		return pal.BgDefault
	}
}

// selectFrame picks the outer background and border color. Both input
// modalities currently produce the frame and border colors in every state;
// the hardware branch is where a dedicated hardware-outline family would plug in.
func selectFrame(input style.Input, state style.State, pal Palette) (outerBg, border style.Color) {
	if input != style.InputHardware {
		return pal.Frame, pal.Border
	}
	switch state {
	case style.StateHover, style.StatePressed:
		return pal.Frame, pal.Border
	case style.StateDisabled:
		return pal.Frame, pal.Border
	default:
		return pal.Frame, pal.Border
	}
}

func selectText(state style.State, pal Palette) style.Color {
	if state == style.StateDisabled {
		return pal.LabelDisabled
	}
	return pal.LabelDefault
}
