package shape

import (
	"github.com/gnana997/shapespec/pkg/dimension"
	"github.com/gnana997/shapespec/pkg/semantic"
	"github.com/gnana997/shapespec/pkg/tokenstore"
)

// LoadContext builds a Context from files. An empty tokensPath uses the
// embedded export, an empty dimensionsPath the built-in table, and a nil
// sem the standard map.
func LoadContext(tokensPath, dimensionsPath string, sem *semantic.Map) (*Context, error) {
	var (
		tokens *tokenstore.Store
		err    error
	)
	if tokensPath == "" {
		tokens, err = tokenstore.Default()
	} else {
		tokens, err = tokenstore.LoadFromFile(tokensPath)
	}
	if err != nil {
		return nil, err
	}

	dims := dimension.Default()
	if dimensionsPath != "" {
		if dims, err = dimension.LoadFile(dimensionsPath); err != nil {
			return nil, err
		}
	}

	if sem == nil {
		sem = semantic.Standard()
	}
	return NewContext(tokens, sem, dims)
}
