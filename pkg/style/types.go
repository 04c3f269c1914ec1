// Package style defines the discrete interaction-state inputs of a control and
// the request that carries them into resolution.
//
// Every enumeration is a typed string whose values match the keys used by the
// design-token export, so requests can be parsed straight from CLI flags or
// tool-call arguments.
package style

// Color is a color value as stored in the token export (usually "#RRGGBB").
type Color string

// Surface identifies one of the four visual theme contexts.
type Surface string

const (
	SurfaceBrightSolid   Surface = "bright_solid"
	SurfaceDarkSolid     Surface = "dark_solid"
	SurfaceDarkDynamic   Surface = "dark_dynamic"
	SurfaceBrightDynamic Surface = "bright_dynamic"
)

// Hierarchy is the semantic importance tier of a control.
type Hierarchy string

const (
	HierarchyHigh      Hierarchy = "high"
	HierarchyPrimary   Hierarchy = "primary"
	HierarchySecondary Hierarchy = "secondary"
	HierarchyTertiary  Hierarchy = "tertiary"
)

// Input is the pointer modality driving the control.
type Input string

const (
	InputSoftware Input = "sw"
	InputHardware Input = "hw"
)

// Size is the size class of a control.
type Size string

const (
	SizeLarge  Size = "large"
	SizeMedium Size = "medium"
	SizeSmall  Size = "small"
)

// State is the interaction state. States are mutually exclusive.
type State string

const (
	StateDefault  State = "default"
	StateHover    State = "hover"
	StatePressed  State = "pressed"
	StateDisabled State = "disabled"
)

// Intent is accepted and validated but does not affect resolution yet.
type Intent string

const (
	IntentNeutral     Intent = "neutral"
	IntentAdditive    Intent = "additive"
	IntentDestructive Intent = "destructive"
)

var (
	surfaces    = []Surface{SurfaceBrightSolid, SurfaceDarkSolid, SurfaceDarkDynamic, SurfaceBrightDynamic}
	hierarchies = []Hierarchy{HierarchyHigh, HierarchyPrimary, HierarchySecondary, HierarchyTertiary}
	inputs      = []Input{InputSoftware, InputHardware}
	sizes       = []Size{SizeLarge, SizeMedium, SizeSmall}
	states      = []State{StateDefault, StateHover, StatePressed, StateDisabled}
	intents     = []Intent{IntentNeutral, IntentAdditive, IntentDestructive}
)

// Surfaces returns every surface variant in declaration order.
func Surfaces() []Surface { return append([]Surface(nil), surfaces...) }

// Hierarchies returns every hierarchy tier, highest first.
func Hierarchies() []Hierarchy { return append([]Hierarchy(nil), hierarchies...) }

// Inputs returns every input modality.
func Inputs() []Input { return append([]Input(nil), inputs...) }

// Sizes returns every size class, largest first.
func Sizes() []Size { return append([]Size(nil), sizes...) }

// States returns every interaction state.
func States() []State { return append([]State(nil), states...) }

// Intents returns every recognized intent.
func Intents() []Intent { return append([]Intent(nil), intents...) }

// Valid reports whether s is a known surface variant.
func (s Surface) Valid() bool { return contains(surfaces, s) }

// Dark reports whether the surface is one of the dark variants.
func (s Surface) Dark() bool { return s == SurfaceDarkSolid || s == SurfaceDarkDynamic }

// Valid reports whether h is a known hierarchy tier.
func (h Hierarchy) Valid() bool { return contains(hierarchies, h) }

// Valid reports whether i is a known input modality.
func (i Input) Valid() bool { return contains(inputs, i) }

// Valid reports whether s is a known size class.
func (s Size) Valid() bool { return contains(sizes, s) }

// Valid reports whether s is a known interaction state.
func (s State) Valid() bool { return contains(states, s) }

// Valid reports whether i is a recognized intent.
func (i Intent) Valid() bool { return contains(intents, i) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
