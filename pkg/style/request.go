package style

import "strings"

// Request carries every input of one resolution call. It is a value type and
// resolution never modifies it.
type Request struct {
	Surface      Surface   `json:"surface"`
	Hierarchy    Hierarchy `json:"hierarchy"`
	HighPriority bool      `json:"high_priority"`
	Input        Input     `json:"input"`
	Size         Size      `json:"size"`
	State        State     `json:"state"`
	Intent       Intent    `json:"intent"`
}

// EffectiveHierarchy returns the hierarchy used for token lookups. Only a
// high-priority primary control escalates, and only to the high tier.
func (r Request) EffectiveHierarchy() Hierarchy {
	if r.HighPriority && r.Hierarchy == HierarchyPrimary {
		return HierarchyHigh
	}
	return r.Hierarchy
}

// Normalized returns a copy with a zero intent replaced by IntentNeutral.
func (r Request) Normalized() Request {
	if r.Intent == "" {
		r.Intent = IntentNeutral
	}
	return r
}

// Validate checks the intent first, then every other enumeration field.
// An empty intent counts as neutral.
func (r Request) Validate() error {
	r = r.Normalized()
	if !r.Intent.Valid() {
		return &InvalidIntentError{Value: r.Intent}
	}
	switch {
	case !r.Surface.Valid():
		return &InvalidFieldError{Field: "surface", Value: string(r.Surface)}
	case !r.Hierarchy.Valid():
		return &InvalidFieldError{Field: "hierarchy", Value: string(r.Hierarchy)}
	case !r.Input.Valid():
		return &InvalidFieldError{Field: "input", Value: string(r.Input)}
	case !r.Size.Valid():
		return &InvalidFieldError{Field: "size", Value: string(r.Size)}
	case !r.State.Valid():
		return &InvalidFieldError{Field: "state", Value: string(r.State)}
	}
	return nil
}

// ParseRequest builds a Request from raw string values, as received from
// flags or tool arguments. Values are trimmed and lower-cased; empty intent
// defaults to neutral. The returned request is already validated.
func ParseRequest(surface, hierarchy string, highPriority bool, input, size, state, intent string) (Request, error) {
	req := Request{
		Surface:      Surface(norm(surface)),
		Hierarchy:    Hierarchy(norm(hierarchy)),
		HighPriority: highPriority,
		Input:        Input(norm(input)),
		Size:         Size(norm(size)),
		State:        State(norm(state)),
		Intent:       Intent(norm(intent)),
	}.Normalized()
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ParseSurface parses a surface variant name.
func ParseSurface(s string) (Surface, error) {
	v := Surface(norm(s))
	if !v.Valid() {
		return "", &InvalidFieldError{Field: "surface", Value: s}
	}
	return v, nil
}

// ParseHierarchy parses a hierarchy tier name.
func ParseHierarchy(s string) (Hierarchy, error) {
	v := Hierarchy(norm(s))
	if !v.Valid() {
		return "", &InvalidFieldError{Field: "hierarchy", Value: s}
	}
	return v, nil
}

// ParseState parses an interaction state name.
func ParseState(s string) (State, error) {
	v := State(norm(s))
	if !v.Valid() {
		return "", &InvalidFieldError{Field: "state", Value: s}
	}
	return v, nil
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
