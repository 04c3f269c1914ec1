// Package dimension holds the static size-class table: the geometric and
// typographic constants of a control for each size. Values are in pixels.
package dimension

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/shapespec/pkg/style"
)

// ErrUnknownSize is returned when a table has no entry for a size class.
var ErrUnknownSize = errors.New("unknown size")

// Dimensions is one row of the table.
//
// OutlineRadius, OutlinePadding and OutlineWidth are optional; use the
// accessor methods, which apply the fallbacks.
type Dimensions struct {
	OutlineRadius  *int `yaml:"outlineRadius,omitempty" json:"outline_radius,omitempty"`
	OutlinePadding *int `yaml:"outlinePadding,omitempty" json:"outline_padding,omitempty"`
	OutlineWidth   *int `yaml:"outlineWidth,omitempty" json:"outline_width,omitempty"`

	Radius        int `yaml:"radius" json:"radius"`
	PaddingX      int `yaml:"paddingX" json:"padding_x"`
	PaddingY      int `yaml:"paddingY" json:"padding_y"`
	PaddingBottom int `yaml:"paddingBottom" json:"padding_bottom"`
	FontSize      int `yaml:"fontSize" json:"font_size"`
	IconBoxSize   int `yaml:"iconBoxSize" json:"icon_box_size"`
	IconSize      int `yaml:"iconSize" json:"icon_size"`
	Gap           int `yaml:"gap" json:"gap"`
}

// OuterRadius is the outline radius, or the inner radius when unset.
func (d Dimensions) OuterRadius() int {
	if d.OutlineRadius != nil {
		return *d.OutlineRadius
	}
	return d.Radius
}

// OuterPadding is the outline padding, or PaddingY when unset.
func (d Dimensions) OuterPadding() int {
	if d.OutlinePadding != nil {
		return *d.OutlinePadding
	}
	return d.PaddingY
}

// BorderWidth is the outline width, or 0 when unset.
func (d Dimensions) BorderWidth() int {
	if d.OutlineWidth != nil {
		return *d.OutlineWidth
	}
	return 0
}

// Table maps each size class to its dimensions.
type Table map[style.Size]Dimensions

// Default returns a fresh copy of the built-in table.
func Default() Table {
	return Table{
		style.SizeLarge: {
			OutlineRadius: intPtr(16),
			Radius:        8,
			PaddingX:      56,
			PaddingY:      24,
			PaddingBottom: 20,
			FontSize:      50,
			IconBoxSize:   64,
			IconSize:      52,
			Gap:           16,
		},
		style.SizeMedium: {
			OutlineRadius: intPtr(12),
			Radius:        6,
			PaddingX:      40,
			PaddingY:      20,
			PaddingBottom: 16,
			FontSize:      32,
			IconBoxSize:   48,
			IconSize:      40,
			Gap:           12,
		},
		style.SizeSmall: {
			OutlineRadius: intPtr(10),
			Radius:        4,
			PaddingX:      32,
			PaddingY:      16,
			PaddingBottom: 12,
			FontSize:      24,
			IconBoxSize:   40,
			IconSize:      32,
			Gap:           8,
		},
	}
}

// Lookup returns a copy of the entry for size.
func (t Table) Lookup(size style.Size) (Dimensions, error) {
	d, ok := t[size]
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrUnknownSize, size)
	}
	return d.Clone(), nil
}

// Clone returns a deep copy of d; the optional outline fields get their own storage.
func (d Dimensions) Clone() Dimensions {
	d.OutlineRadius = cloneInt(d.OutlineRadius)
	d.OutlinePadding = cloneInt(d.OutlinePadding)
	d.OutlineWidth = cloneInt(d.OutlineWidth)
	return d
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	cp := make(Table, len(t))
	for size, d := range t {
		cp[size] = d.Clone()
	}
	return cp
}

// Validate checks that every size class is present and that no value is negative.
func (t Table) Validate() []error {
	var errs []error
	for _, size := range style.Sizes() {
		d, ok := t[size]
		if !ok {
			errs = append(errs, fmt.Errorf("size %q: entry is required", size))
			continue
		}
		errs = append(errs, d.validate(size)...)
	}
	for size := range t {
		if !size.Valid() {
			errs = append(errs, fmt.Errorf("size %q: unknown size class", size))
		}
	}
	return errs
}

func (d Dimensions) validate(size style.Size) []error {
	var errs []error
	fields := []struct {
		name  string
		value *int
	}{
		{"outlineRadius", d.OutlineRadius},
		{"outlinePadding", d.OutlinePadding},
		{"outlineWidth", d.OutlineWidth},
		{"radius", &d.Radius},
		{"paddingX", &d.PaddingX},
		{"paddingY", &d.PaddingY},
		{"paddingBottom", &d.PaddingBottom},
		{"fontSize", &d.FontSize},
		{"iconBoxSize", &d.IconBoxSize},
		{"iconSize", &d.IconSize},
		{"gap", &d.Gap},
	}
	for _, f := range fields {
		if f.value != nil && *f.value < 0 {
			errs = append(errs, fmt.Errorf("size %q: %s must not be negative (got %d)", size, f.name, *f.value))
		}
	}
	if d.FontSize == 0 {
		errs = append(errs, fmt.Errorf("size %q: fontSize is required", size))
	}
	return errs
}

// LoadFile reads a YAML dimension table from path.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dimension file: %w", err)
	}
	return LoadYAML(data)
}

// LoadYAML parses a YAML document keyed by size class and validates it.
func LoadYAML(data []byte) (Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse dimension YAML: %w", err)
	}
	if errs := table.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("dimension table validation failed: %w", errors.Join(errs...))
	}
	return table, nil
}

func intPtr(v int) *int { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	return intPtr(*p)
}
