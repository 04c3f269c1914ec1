// Package preview draws resolved shape tokens in the terminal.
//
// Pixel values are scaled to character cells: one column per 8px and one
// row per 16px, with at least one column of horizontal padding so the label
// never touches the edge. Colors degrade with the terminal's color profile.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gnana997/shapespec/pkg/shape"
	"github.com/gnana997/shapespec/pkg/style"
)

const (
	pxPerColumn = 8
	pxPerRow    = 16
)

// DefaultLabel is drawn when Render is given an empty label.
const DefaultLabel = "Button"

// Previewer renders with one lipgloss renderer.
type Previewer struct {
	r *lipgloss.Renderer
}

// New returns a Previewer. A nil renderer uses lipgloss.DefaultRenderer().
func New(r *lipgloss.Renderer) *Previewer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Previewer{r: r}
}

// Render draws token as a button with the given label.
func Render(token shape.ShapeToken, label string) string {
	return New(nil).Render(token, label)
}

// RenderOnSurface draws token on a patch of the surface background color.
func RenderOnSurface(token shape.ShapeToken, label string, surfaceBg style.Color) string {
	return New(nil).RenderOnSurface(token, label, surfaceBg)
}

// RenderPalette lists every channel of p as a swatch with its hex value.
func RenderPalette(p shape.Palette) string {
	return New(nil).RenderPalette(p)
}

// Render draws the inner box inside the outer frame.
func (pv *Previewer) Render(token shape.ShapeToken, label string) string {
	if label == "" {
		label = DefaultLabel
	}

	inner := pv.r.NewStyle().
		Foreground(color(token.TextColor)).
		Background(color(token.Bg)).
		Bold(true).
		Padding(rows(token.PaddingY), columns(token.PaddingX), rows(token.PaddingBottom), columns(token.PaddingX))
	if token.BorderWidth > 0 {
		inner = inner.
			Border(borderFor(token.Radius)).
			BorderForeground(color(token.BorderColor)).
			BorderBackground(color(token.OuterBg))
	}

	outer := pv.r.NewStyle().
		Border(borderFor(token.OuterRadius)).
		BorderForeground(color(token.OuterBg)).
		Background(color(token.OuterBg)).
		Padding(rows(token.OuterPadding), columns(token.OuterPadding))

	return outer.Render(inner.Render(label))
}

// RenderOnSurface surrounds Render's output with one row and two columns
// of surfaceBg.
func (pv *Previewer) RenderOnSurface(token shape.ShapeToken, label string, surfaceBg style.Color) string {
	return pv.r.NewStyle().
		Background(color(surfaceBg)).
		Padding(1, 2).
		Render(pv.Render(token, label))
}

// RenderPalette draws one line per channel.
func (pv *Previewer) RenderPalette(p shape.Palette) string {
	channels := []struct {
		name string
		c    style.Color
	}{
		{"bg default", p.BgDefault},
		{"bg hover", p.BgHover},
		{"bg pressed", p.BgPressed},
		{"bg disabled", p.BgDisabled},
		{"frame", p.Frame},
		{"border", p.Border},
		{"hw outline", p.HwOutline},
		{"label", p.LabelDefault},
		{"label disabled", p.LabelDisabled},
	}

	name := pv.r.NewStyle().Width(16)
	var b strings.Builder
	for i, ch := range channels {
		swatch := pv.r.NewStyle().Background(color(ch.c)).Render("    ")
		fmt.Fprintf(&b, "%s %s %s", name.Render(ch.name), swatch, ch.c)
		if i < len(channels)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func color(c style.Color) lipgloss.TerminalColor {
	if c == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(string(c))
}

func borderFor(radius int) lipgloss.Border {
	if radius > 0 {
		return lipgloss.RoundedBorder()
	}
	return lipgloss.NormalBorder()
}

func columns(px int) int {
	if n := px / pxPerColumn; n > 1 {
		return n
	}
	return 1
}

func rows(px int) int {
	return px / pxPerRow
}
