package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/shapespec/pkg/shape"
	"github.com/gnana997/shapespec/pkg/style"
)

// plain renders without ANSI sequences so output can be compared as text.
func plain() *Previewer {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	return New(r)
}

func sampleToken() shape.ShapeToken {
	return shape.ShapeToken{
		OuterRadius:   16,
		OuterPadding:  24,
		OuterBg:       "#E0E0E0",
		Radius:        8,
		Bg:            "#F3F3F3",
		PaddingX:      56,
		PaddingY:      24,
		PaddingBottom: 20,
		FontSize:      50,
		TextColor:     "#111111",
		Gap:           16,
		IconBoxSize:   64,
		IconSize:      52,
	}
}

func TestRender_Layout(t *testing.T) {
	out := plain().Render(sampleToken(), "Save")
	lines := strings.Split(out, "\n")

	assert.True(t, strings.HasPrefix(lines[0], "╭"), "outer frame is rounded")
	assert.Contains(t, out, "Save")

	// outer border 1 + outer padding 3 + inner padding 7 on each side.
	width := lipgloss.Width(out)
	assert.Equal(t, 2*(1+3+7)+len("Save"), width)

	// outer border 1 + outer padding 1 + inner padding top 1, bottom 1.
	assert.Len(t, lines, 2*1+2*1+1+1+1)
}

func TestRender_DefaultLabel(t *testing.T) {
	out := plain().Render(sampleToken(), "")
	assert.Contains(t, out, DefaultLabel)
}

func TestRender_InnerBorder(t *testing.T) {
	tok := sampleToken()
	tok.BorderWidth = 2
	tok.BorderColor = "#000000"
	tok.OuterRadius = 0

	out := plain().Render(tok, "Go")
	lines := strings.Split(out, "\n")

	assert.True(t, strings.HasPrefix(lines[0], "┌"), "square outer frame without radius")
	assert.Contains(t, out, "╭", "inner border follows the inner radius")
}

func TestRenderOnSurface(t *testing.T) {
	pv := plain()
	bare := pv.Render(sampleToken(), "Save")
	out := pv.RenderOnSurface(sampleToken(), "Save", "#FFFFFF")

	assert.Equal(t, lipgloss.Width(bare)+4, lipgloss.Width(out))
	assert.Equal(t, lipgloss.Height(bare)+2, lipgloss.Height(out))
}

func TestRender_PackageLevel(t *testing.T) {
	c, err := shape.DefaultContext()
	require.NoError(t, err)
	tok, err := c.Resolve(style.Request{
		Surface:   style.SurfaceBrightSolid,
		Hierarchy: style.HierarchySecondary,
		Input:     style.InputHardware,
		Size:      style.SizeSmall,
		State:     style.StateDefault,
	})
	require.NoError(t, err)

	assert.Contains(t, Render(tok, "OK"), "OK")
}

func TestRenderPalette(t *testing.T) {
	out := plain().RenderPalette(shape.Palette{
		BgDefault:     "#111111",
		BgHover:       "#222222",
		BgPressed:     "#333333",
		BgDisabled:    "#444444",
		Frame:         "#555555",
		Border:        "#555555",
		HwOutline:     "#666666",
		LabelDefault:  "#777777",
		LabelDisabled: "#888888",
	})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "bg default"))
	assert.True(t, strings.HasSuffix(lines[0], "#111111"))
	assert.True(t, strings.HasSuffix(lines[8], "#888888"))
}

func TestScale(t *testing.T) {
	assert.Equal(t, 1, columns(0))
	assert.Equal(t, 1, columns(8))
	assert.Equal(t, 7, columns(56))
	assert.Equal(t, 0, rows(8))
	assert.Equal(t, 1, rows(24))
}
