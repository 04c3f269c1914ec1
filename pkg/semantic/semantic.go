// Package semantic maps (hierarchy, part, state) to token names.
//
// Border and hardware-outline parts carry a single name that applies to
// every state. Background and label parts are looked up by state with a
// default → disabled fallback.
package semantic

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gnana997/shapespec/pkg/style"
)

// Part is a visual part of a control.
type Part string

const (
	PartBackground      Part = "bg"
	PartLabel           Part = "label"
	PartBorder          Part = "border"
	PartHardwareOutline Part = "hwOutline"
)

// Parts returns every part.
func Parts() []Part {
	return []Part{PartBackground, PartLabel, PartBorder, PartHardwareOutline}
}

// ErrUnmappedToken matches any *UnmappedTokenError.
var ErrUnmappedToken = errors.New("unmapped token")

// UnmappedTokenError reports a combination with no token name after the
// fallback chain is exhausted.
type UnmappedTokenError struct {
	Hierarchy style.Hierarchy
	Part      Part
	State     style.State
}

func (e *UnmappedTokenError) Error() string {
	return fmt.Sprintf("no token mapping for %s.%s.%s", e.Hierarchy, e.Part, e.State)
}

func (e *UnmappedTokenError) Unwrap() error { return ErrUnmappedToken }

// StateTokens holds a token name per state. An empty name means the state
// has no entry of its own.
type StateTokens struct {
	Default  string
	Hover    string
	Pressed  string
	Disabled string
}

func (st StateTokens) exact(state style.State) string {
	switch state {
	case style.StateDefault:
		return st.Default
	case style.StateHover:
		return st.Hover
	case style.StatePressed:
		return st.Pressed
	case style.StateDisabled:
		return st.Disabled
	}
	return ""
}

// lookup applies the exact → default → disabled chain.
func (st StateTokens) lookup(state style.State) (string, bool) {
	for _, name := range []string{st.exact(state), st.Default, st.Disabled} {
		if name != "" {
			return name, true
		}
	}
	return "", false
}

func (st StateTokens) names() []string {
	return []string{st.Default, st.Hover, st.Pressed, st.Disabled}
}

// Family is the token family of one hierarchy tier.
type Family struct {
	Background      StateTokens
	Label           StateTokens
	Border          string
	HardwareOutline string
}

// accessor resolves one part of a family for a state.
type accessor func(f Family, state style.State) (string, bool)

func single(name string) (string, bool) { return name, name != "" }

var accessors = map[Part]accessor{
	PartBackground:      func(f Family, s style.State) (string, bool) { return f.Background.lookup(s) },
	PartLabel:           func(f Family, s style.State) (string, bool) { return f.Label.lookup(s) },
	PartBorder:          func(f Family, _ style.State) (string, bool) { return single(f.Border) },
	PartHardwareOutline: func(f Family, _ style.State) (string, bool) { return single(f.HardwareOutline) },
}

// Map is an immutable semantic token map.
type Map struct {
	families map[style.Hierarchy]Family
}

// NewMap builds a Map from families. The input map is copied.
func NewMap(families map[style.Hierarchy]Family) *Map {
	cp := make(map[style.Hierarchy]Family, len(families))
	for h, f := range families {
		cp[h] = f
	}
	return &Map{families: cp}
}

// ResolveTokenName returns the token name for a (hierarchy, part, state)
// combination.
func (m *Map) ResolveTokenName(hierarchy style.Hierarchy, part Part, state style.State) (string, error) {
	unmapped := &UnmappedTokenError{Hierarchy: hierarchy, Part: part, State: state}

	family, ok := m.Family(hierarchy)
	if !ok {
		return "", unmapped
	}
	get, ok := accessors[part]
	if !ok {
		return "", unmapped
	}
	name, ok := get(family, state)
	if !ok {
		return "", unmapped
	}
	return name, nil
}

// Family returns the family registered for hierarchy.
func (m *Map) Family(hierarchy style.Hierarchy) (Family, bool) {
	f, ok := m.families[hierarchy]
	return f, ok
}

// Reference is one place a token name is used.
type Reference struct {
	Hierarchy style.Hierarchy `json:"hierarchy"`
	Part      Part            `json:"part"`
}

// References returns, for every token name the map uses, the places that use it.
func (m *Map) References() map[string][]Reference {
	refs := make(map[string][]Reference)
	add := func(name string, h style.Hierarchy, p Part) {
		if name == "" {
			return
		}
		for _, r := range refs[name] {
			if r.Hierarchy == h && r.Part == p {
				return
			}
		}
		refs[name] = append(refs[name], Reference{Hierarchy: h, Part: p})
	}
	for _, h := range style.Hierarchies() {
		f, ok := m.families[h]
		if !ok {
			continue
		}
		for _, name := range f.Background.names() {
			add(name, h, PartBackground)
		}
		for _, name := range f.Label.names() {
			add(name, h, PartLabel)
		}
		add(f.Border, h, PartBorder)
		add(f.HardwareOutline, h, PartHardwareOutline)
	}
	return refs
}

// TokenNames returns every token name the map references, sorted and de-duplicated.
func (m *Map) TokenNames() []string {
	refs := m.References()
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
