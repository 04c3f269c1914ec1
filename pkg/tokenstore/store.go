// Package tokenstore wraps a design-token export and answers color lookups
// by token name and surface variant.
//
// A Store is immutable after construction and safe for concurrent use.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/gnana997/shapespec/catalogs"
	"github.com/gnana997/shapespec/pkg/style"
)

// ErrMissingToken matches any *MissingTokenError.
var ErrMissingToken = errors.New("missing token")

// MissingTokenError reports a token name absent from the loaded table.
type MissingTokenError struct {
	Name string
}

func (e *MissingTokenError) Error() string {
	return fmt.Sprintf("missing token: %s", e.Name)
}

func (e *MissingTokenError) Unwrap() error { return ErrMissingToken }

// ModeRecord holds one color per surface mode, keyed as in the export.
type ModeRecord struct {
	BrightSolid   style.Color `json:"brightSolid"`
	DarkSolid     style.Color `json:"darkSolid"`
	DarkDynamic   style.Color `json:"darkDynamic"`
	BrightDynamic style.Color `json:"brightDynamic"`
}

// For returns the color stored under surface's mode key.
func (m ModeRecord) For(surface style.Surface) (style.Color, bool) {
	switch surface {
	case style.SurfaceBrightSolid:
		return m.BrightSolid, true
	case style.SurfaceDarkSolid:
		return m.DarkSolid, true
	case style.SurfaceDarkDynamic:
		return m.DarkDynamic, true
	case style.SurfaceBrightDynamic:
		return m.BrightDynamic, true
	}
	return "", false
}

// ModeKey returns the export's mode key for a surface ("brightSolid", ...).
func ModeKey(surface style.Surface) string {
	switch surface {
	case style.SurfaceBrightSolid:
		return "brightSolid"
	case style.SurfaceDarkSolid:
		return "darkSolid"
	case style.SurfaceDarkDynamic:
		return "darkDynamic"
	case style.SurfaceBrightDynamic:
		return "brightDynamic"
	}
	return ""
}

// Export is the on-disk shape of a token table.
type Export struct {
	VariableCollection map[string]ModeRecord `json:"variableCollection"`
}

// Store is a read-only token table.
type Store struct {
	tokens map[string]ModeRecord
	source string
}

// New builds a Store from an in-memory table. The map is copied.
func New(tokens map[string]ModeRecord) *Store {
	return newStore(tokens, "memory")
}

func newStore(tokens map[string]ModeRecord, source string) *Store {
	cp := make(map[string]ModeRecord, len(tokens))
	for name, rec := range tokens {
		cp[name] = rec
	}
	return &Store{tokens: cp, source: source}
}

// Default loads the export bundled in the binary.
func Default() (*Store, error) {
	s, err := LoadFromBytes(catalogs.ButtonTokensJSON)
	if err != nil {
		return nil, err
	}
	s.source = "embedded"
	return s, nil
}

// LoadFromFile loads a token export from a JSON file.
func LoadFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	s, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.source = path
	return s, nil
}

// LoadFromBytes parses a token export. Names are not checked against any
// semantic map here; a missing name surfaces at lookup time.
func LoadFromBytes(data []byte) (*Store, error) {
	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse token JSON: %w", err)
	}
	if len(export.VariableCollection) == 0 {
		return nil, fmt.Errorf("token export has no variableCollection entries")
	}
	return newStore(export.VariableCollection, "bytes"), nil
}

// LookupColor returns the color of token name under surface's mode.
func (s *Store) LookupColor(name string, surface style.Surface) (style.Color, error) {
	rec, ok := s.tokens[name]
	if !ok {
		return "", &MissingTokenError{Name: name}
	}
	color, ok := rec.For(surface)
	if !ok {
		return "", &style.InvalidFieldError{Field: "surface", Value: string(surface)}
	}
	return color, nil
}

// Record returns the full mode record of a token.
func (s *Store) Record(name string) (ModeRecord, bool) {
	rec, ok := s.tokens[name]
	return rec, ok
}

// Has reports whether the table contains name.
func (s *Store) Has(name string) bool {
	_, ok := s.tokens[name]
	return ok
}

// Names returns every token name, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.tokens))
	for name := range s.tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tokens.
func (s *Store) Len() int { return len(s.tokens) }

// Source describes where the table was loaded from.
func (s *Store) Source() string { return s.source }
