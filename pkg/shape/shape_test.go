package shape

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/shapespec/pkg/dimension"
	"github.com/gnana997/shapespec/pkg/semantic"
	"github.com/gnana997/shapespec/pkg/style"
	"github.com/gnana997/shapespec/pkg/tokenstore"
)

// --- helpers ---

// fixtureRecord encodes the token name and surface into each color so tests
// can tell exactly which entry was consulted.
func fixtureRecord(name string) tokenstore.ModeRecord {
	return tokenstore.ModeRecord{
		BrightSolid:   style.Color("bs:" + name),
		DarkSolid:     style.Color("ds:" + name),
		DarkDynamic:   style.Color("dd:" + name),
		BrightDynamic: style.Color("bd:" + name),
	}
}

func fixtureTokens(m *semantic.Map, omit ...string) *tokenstore.Store {
	skip := make(map[string]bool, len(omit))
	for _, name := range omit {
		skip[name] = true
	}
	tokens := map[string]tokenstore.ModeRecord{
		SurfaceBackgroundToken: fixtureRecord(SurfaceBackgroundToken),
	}
	for _, name := range m.TokenNames() {
		if !skip[name] {
			tokens[name] = fixtureRecord(name)
		}
	}
	return tokenstore.New(tokens)
}

func fixtureContext(t *testing.T, omit ...string) *Context {
	t.Helper()
	sem := semantic.Standard()
	c, err := NewContext(fixtureTokens(sem, omit...), sem, dimension.Default())
	require.NoError(t, err)
	return c
}

func baseRequest() style.Request {
	return style.Request{
		Surface:   style.SurfaceBrightSolid,
		Hierarchy: style.HierarchyPrimary,
		Input:     style.InputHardware,
		Size:      style.SizeLarge,
		State:     style.StateDefault,
		Intent:    style.IntentNeutral,
	}
}

func colors(tok ShapeToken) [4]style.Color {
	return [4]style.Color{tok.OuterBg, tok.Bg, tok.BorderColor, tok.TextColor}
}

// --- end-to-end ---

func TestResolve_EndToEnd(t *testing.T) {
	c := fixtureContext(t)

	got, err := c.Resolve(baseRequest())
	require.NoError(t, err)

	want := ShapeToken{
		OuterRadius:   16,
		OuterPadding:  24,
		OuterBg:       "bs:buttonStandardPrimaryLine",
		Radius:        8,
		Bg:            "bs:buttonStandardPrimaryDefault",
		BorderWidth:   0,
		BorderColor:   "bs:buttonStandardPrimaryLine",
		PaddingX:      56,
		PaddingY:      24,
		PaddingBottom: 20,
		FontSize:      50,
		TextColor:     "bs:buttonStandardPrimaryCont",
		Gap:           16,
		IconBoxSize:   64,
		IconSize:      52,
	}
	assert.Equal(t, want, got)
}

func TestResolve_EmbeddedTable(t *testing.T) {
	c, err := DefaultContext()
	require.NoError(t, err)

	got, err := c.Resolve(baseRequest())
	require.NoError(t, err)

	tokens := c.Tokens()
	bg, err := tokens.LookupColor("buttonStandardPrimaryDefault", style.SurfaceBrightSolid)
	require.NoError(t, err)
	text, err := tokens.LookupColor("buttonStandardPrimaryCont", style.SurfaceBrightSolid)
	require.NoError(t, err)
	line, err := tokens.LookupColor("buttonStandardPrimaryLine", style.SurfaceBrightSolid)
	require.NoError(t, err)

	assert.Equal(t, bg, got.Bg)
	assert.Equal(t, text, got.TextColor)
	assert.Equal(t, line, got.BorderColor)
	assert.Equal(t, line, got.OuterBg)
}

func TestResolve_EveryRequestSucceedsOnEmbeddedTable(t *testing.T) {
	c, err := DefaultContext()
	require.NoError(t, err)

	for _, req := range AllRequests() {
		_, err := c.Resolve(req)
		require.NoError(t, err, "%+v", req)
	}
}

// --- properties ---

func TestResolve_Deterministic(t *testing.T) {
	c := fixtureContext(t)
	for _, req := range AllRequests() {
		a, errA := c.Resolve(req)
		b, errB := c.Resolve(req)
		require.NoError(t, errA)
		require.NoError(t, errB)
		require.Equal(t, a, b)
	}
}

func TestResolve_HighPriorityEscalation(t *testing.T) {
	c := fixtureContext(t)

	for _, state := range style.States() {
		t.Run(string(state), func(t *testing.T) {
			escalated := baseRequest()
			escalated.HighPriority = true
			escalated.State = state

			high := baseRequest()
			high.Hierarchy = style.HierarchyHigh
			high.State = state

			a, err := c.Resolve(escalated)
			require.NoError(t, err)
			b, err := c.Resolve(high)
			require.NoError(t, err)
			assert.Equal(t, colors(b), colors(a))
			assert.Equal(t, style.HierarchyPrimary, escalated.Hierarchy)
		})
	}
}

func TestResolve_SecondaryDoesNotEscalate(t *testing.T) {
	c := fixtureContext(t)

	req := baseRequest()
	req.Hierarchy = style.HierarchySecondary
	req.HighPriority = true

	got, err := c.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, style.Color("bs:buttonStandardSecondaryDefault"), got.Bg)
	assert.Equal(t, style.Color("bs:buttonStandardSecoundaryLine"), got.BorderColor)
}

func TestResolve_StateSelectsBackground(t *testing.T) {
	c := fixtureContext(t)

	tests := []struct {
		state style.State
		bg    style.Color
		text  style.Color
	}{
		{style.StateDefault, "dd:buttonStandardTertiaryDefault", "dd:buttonStandardTertiaryCont"},
		{style.StateHover, "dd:buttonStandardTertiaryHover", "dd:buttonStandardTertiaryCont"},
		{style.StatePressed, "dd:buttonStandardTertiaryPressed", "dd:buttonStandardTertiaryCont"},
		{style.StateDisabled, "dd:buttonStandardTertiaryDisable", "dd:buttonStandardTertiaryContDisable"},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			req := baseRequest()
			req.Surface = style.SurfaceDarkDynamic
			req.Hierarchy = style.HierarchyTertiary
			req.State = tt.state

			got, err := c.Resolve(req)
			require.NoError(t, err)
			assert.Equal(t, tt.bg, got.Bg)
			assert.Equal(t, tt.text, got.TextColor)
		})
	}
}

func TestResolve_DisabledOverridesText(t *testing.T) {
	c := fixtureContext(t)

	for _, req := range AllRequests() {
		if req.State != style.StateDisabled {
			continue
		}
		got, err := c.Resolve(req)
		require.NoError(t, err)

		pal, err := c.ResolvePalette(req.Surface, req.Hierarchy, req.HighPriority)
		require.NoError(t, err)
		require.Equal(t, pal.LabelDisabled, got.TextColor, "%+v", req)
		require.NotEqual(t, pal.LabelDefault, got.TextColor)
	}
}

func TestResolve_InputModalitiesAgree(t *testing.T) {
	c := fixtureContext(t)

	for _, req := range AllRequests() {
		if req.Input != style.InputSoftware {
			continue
		}
		hw := req
		hw.Input = style.InputHardware

		a, err := c.Resolve(req)
		require.NoError(t, err)
		b, err := c.Resolve(hw)
		require.NoError(t, err)
		require.Equal(t, a, b, "%+v", req)
		require.Equal(t, a.OuterBg, a.BorderColor)
	}
}

func TestResolve_SizeIndependenceOfColor(t *testing.T) {
	c := fixtureContext(t)
	dims := dimension.Default()

	var tokens []ShapeToken
	for _, size := range style.Sizes() {
		req := baseRequest()
		req.Size = size
		tok, err := c.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, dims[size].FontSize, tok.FontSize)
		assert.Equal(t, dims[size].PaddingX, tok.PaddingX)
		assert.Equal(t, dims[size].OuterRadius(), tok.OuterRadius)
		tokens = append(tokens, tok)
	}

	for i := 1; i < len(tokens); i++ {
		assert.Equal(t, colors(tokens[0]), colors(tokens[i]))
		assert.NotEqual(t, tokens[0].FontSize, tokens[i].FontSize)
		assert.NotEqual(t, tokens[0].Radius, tokens[i].Radius)
	}
}

func TestResolve_IntentIsInert(t *testing.T) {
	c := fixtureContext(t)

	neutral, err := c.Resolve(baseRequest())
	require.NoError(t, err)

	for _, intent := range []style.Intent{"", style.IntentAdditive, style.IntentDestructive} {
		req := baseRequest()
		req.Intent = intent
		got, err := c.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, neutral, got, "intent %q", intent)
	}
}

// --- failures ---

func TestResolve_InvalidIntent(t *testing.T) {
	c := fixtureContext(t)

	req := baseRequest()
	req.Intent = "playful"
	got, err := c.Resolve(req)
	assert.ErrorIs(t, err, style.ErrInvalidIntent)
	assert.Equal(t, ShapeToken{}, got)
}

func TestResolve_MissingToken(t *testing.T) {
	for _, name := range semantic.Standard().TokenNames() {
		t.Run(name, func(t *testing.T) {
			c := fixtureContext(t, name)

			var failed bool
			for _, req := range AllRequests() {
				got, err := c.Resolve(req)
				if err == nil {
					continue
				}
				failed = true
				var me *tokenstore.MissingTokenError
				require.True(t, errors.As(err, &me), "unexpected error %v", err)
				require.Equal(t, name, me.Name)
				require.Equal(t, ShapeToken{}, got, "no partial record on failure")
			}
			assert.True(t, failed, "some request must need %s", name)
		})
	}
}

func TestResolve_UnmappedToken(t *testing.T) {
	sem := semantic.NewMap(map[style.Hierarchy]semantic.Family{
		style.HierarchyPrimary: {
			Background: semantic.StateTokens{Default: "bg"},
			Label:      semantic.StateTokens{Default: "label"},
			Border:     "line",
		},
	})
	tokens := tokenstore.New(map[string]tokenstore.ModeRecord{
		"bg": fixtureRecord("bg"), "label": fixtureRecord("label"), "line": fixtureRecord("line"),
	})
	c, err := NewContext(tokens, sem, dimension.Default())
	require.NoError(t, err)

	_, err = c.Resolve(baseRequest())
	require.ErrorIs(t, err, semantic.ErrUnmappedToken)

	var ue *semantic.UnmappedTokenError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, semantic.PartHardwareOutline, ue.Part)
	assert.Equal(t, style.HierarchyPrimary, ue.Hierarchy)
}

func TestNewContext_Validation(t *testing.T) {
	sem := semantic.Standard()
	tokens := fixtureTokens(sem)

	_, err := NewContext(nil, sem, dimension.Default())
	assert.Error(t, err)
	_, err = NewContext(tokens, nil, dimension.Default())
	assert.Error(t, err)
	_, err = NewContext(tokens, sem, nil)
	assert.Error(t, err)

	partial := dimension.Table{style.SizeLarge: dimension.Default()[style.SizeLarge]}
	_, err = NewContext(tokens, sem, partial)
	assert.ErrorContains(t, err, "entry is required")
}

func TestNewContext_CopiesDimensions(t *testing.T) {
	sem := semantic.Standard()
	dims := dimension.Default()
	c, err := NewContext(fixtureTokens(sem), sem, dims)
	require.NoError(t, err)

	large := dims[style.SizeLarge]
	large.FontSize = 1
	dims[style.SizeLarge] = large
	*dims[style.SizeLarge].OutlineRadius = 999

	got, err := c.Resolve(baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 50, got.FontSize)
	assert.Equal(t, 16, got.OuterRadius)

	// Writing through a returned entry does not reach the context either.
	entry, err := c.Dimensions(style.SizeLarge)
	require.NoError(t, err)
	*entry.OutlineRadius = 777

	got, err = c.Resolve(baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 16, got.OuterRadius)
}

// --- supplemental operations ---

func TestResolvePalette(t *testing.T) {
	c := fixtureContext(t)

	pal, err := c.ResolvePalette(style.SurfaceDarkSolid, style.HierarchyPrimary, true)
	require.NoError(t, err)
	assert.Equal(t, style.Color("ds:buttonStandardHighDefault"), pal.BgDefault)
	assert.Equal(t, style.Color("ds:buttonStandardHighHwLine"), pal.HwOutline)
	assert.Equal(t, pal.Border, pal.Frame)

	_, err = c.ResolvePalette("neon", style.HierarchyPrimary, false)
	assert.ErrorIs(t, err, style.ErrInvalidRequest)
	_, err = c.ResolvePalette(style.SurfaceDarkSolid, "boss", false)
	assert.ErrorIs(t, err, style.ErrInvalidRequest)
}

func TestSurfaceBackground(t *testing.T) {
	c := fixtureContext(t)
	for _, surface := range style.Surfaces() {
		got, err := c.SurfaceBackground(surface)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%s:%s", surfacePrefix(surface), SurfaceBackgroundToken), string(got))
	}

	bare := tokenstore.New(map[string]tokenstore.ModeRecord{"x": fixtureRecord("x")})
	c, err := NewContext(bare, semantic.Standard(), dimension.Default())
	require.NoError(t, err)
	_, err = c.SurfaceBackground(style.SurfaceBrightSolid)
	assert.ErrorIs(t, err, tokenstore.ErrMissingToken)
}

func surfacePrefix(s style.Surface) string {
	switch s {
	case style.SurfaceBrightSolid:
		return "bs"
	case style.SurfaceDarkSolid:
		return "ds"
	case style.SurfaceDarkDynamic:
		return "dd"
	default:
		return "bd"
	}
}

func TestAllRequests(t *testing.T) {
	reqs := AllRequests()
	assert.Len(t, reqs, 4*4*2*2*3*4*3)

	seen := make(map[style.Request]bool, len(reqs))
	for _, r := range reqs {
		require.NoError(t, r.Validate())
		require.False(t, seen[r], "duplicate %+v", r)
		seen[r] = true
	}
}
