// Package audit checks a token table against a semantic map.
//
// Resolution fails lazily: a token the map references but the export lacks
// only shows up when a request happens to need it. An audit walks every
// reference up front and also flags colors that do not parse and
// label/background pairs whose contrast is below WCAG AA.
package audit

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gnana997/shapespec/pkg/semantic"
	"github.com/gnana997/shapespec/pkg/shape"
	"github.com/gnana997/shapespec/pkg/style"
	"github.com/gnana997/shapespec/pkg/tokenstore"
)

// MinContrast is the WCAG AA ratio for normal text.
const MinContrast = 4.5

// MissingToken is a referenced name absent from the token table.
type MissingToken struct {
	Name string `json:"name"`
	// ReferencedBy is empty for the surface background token, which no
	// hierarchy owns.
	ReferencedBy []semantic.Reference `json:"referenced_by,omitempty"`
}

// InvalidColor is a token value that is not a #RGB or #RRGGBB hex color.
type InvalidColor struct {
	Token   string        `json:"token"`
	Surface style.Surface `json:"surface"`
	Value   style.Color   `json:"value"`
}

// LowContrast is a label/background pair below MinContrast.
type LowContrast struct {
	Hierarchy  style.Hierarchy `json:"hierarchy"`
	Surface    style.Surface   `json:"surface"`
	State      style.State     `json:"state"`
	Label      style.Color     `json:"label"`
	Background style.Color     `json:"background"`
	Ratio      float64         `json:"ratio"`
}

// Report is the outcome of one audit.
type Report struct {
	Source        string         `json:"source"`
	TokenCount    int            `json:"token_count"`
	Missing       []MissingToken `json:"missing,omitempty"`
	InvalidColors []InvalidColor `json:"invalid_colors,omitempty"`
	LowContrast   []LowContrast  `json:"low_contrast,omitempty"`
}

// OK reports whether every reference resolves to a parsable color.
// Contrast findings are advisory and do not affect OK.
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.InvalidColors) == 0
}

// Summary is a one-line description of the report.
func (r Report) Summary() string {
	return fmt.Sprintf("%s: %d tokens, %d missing, %d invalid colors, %d low-contrast pairs",
		r.Source, r.TokenCount, len(r.Missing), len(r.InvalidColors), len(r.LowContrast))
}

// Run audits store against sem.
func Run(store *tokenstore.Store, sem *semantic.Map) Report {
	report := Report{
		Source:     store.Source(),
		TokenCount: store.Len(),
	}

	refs := sem.References()
	names := sem.TokenNames()
	for _, name := range names {
		if !store.Has(name) {
			report.Missing = append(report.Missing, MissingToken{Name: name, ReferencedBy: refs[name]})
		}
	}
	if !store.Has(shape.SurfaceBackgroundToken) {
		report.Missing = append(report.Missing, MissingToken{Name: shape.SurfaceBackgroundToken})
		sort.Slice(report.Missing, func(i, j int) bool {
			return report.Missing[i].Name < report.Missing[j].Name
		})
	}

	for _, name := range store.Names() {
		rec, _ := store.Record(name)
		for _, surface := range style.Surfaces() {
			value, _ := rec.For(surface)
			if _, err := ParseColor(value); err != nil {
				report.InvalidColors = append(report.InvalidColors, InvalidColor{
					Token: name, Surface: surface, Value: value,
				})
			}
		}
	}

	report.LowContrast = contrastFindings(store, sem)
	return report
}

// Disabled pairs are exempt from WCAG contrast and are skipped. Pairs with a
// missing or unparsable color were already reported above.
func contrastFindings(store *tokenstore.Store, sem *semantic.Map) []LowContrast {
	var findings []LowContrast
	for _, h := range style.Hierarchies() {
		for _, state := range style.States() {
			if state == style.StateDisabled {
				continue
			}
			bgName, err := sem.ResolveTokenName(h, semantic.PartBackground, state)
			if err != nil {
				continue
			}
			labelName, err := sem.ResolveTokenName(h, semantic.PartLabel, state)
			if err != nil {
				continue
			}
			for _, surface := range style.Surfaces() {
				bg, err := store.LookupColor(bgName, surface)
				if err != nil {
					continue
				}
				label, err := store.LookupColor(labelName, surface)
				if err != nil {
					continue
				}
				ratio, err := ContrastRatio(label, bg)
				if err != nil {
					continue
				}
				if ratio < MinContrast {
					findings = append(findings, LowContrast{
						Hierarchy:  h,
						Surface:    surface,
						State:      state,
						Label:      label,
						Background: bg,
						Ratio:      math.Round(ratio*100) / 100,
					})
				}
			}
		}
	}
	return findings
}

// ParseColor parses a #RGB or #RRGGBB token value.
func ParseColor(c style.Color) (colorful.Color, error) {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", c, err)
	}
	return col, nil
}

// ContrastRatio returns the WCAG contrast ratio between two colors, in [1, 21].
func ContrastRatio(a, b style.Color) (float64, error) {
	ca, err := ParseColor(a)
	if err != nil {
		return 0, err
	}
	cb, err := ParseColor(b)
	if err != nil {
		return 0, err
	}
	la, lb := luminance(ca), luminance(cb)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05), nil
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
