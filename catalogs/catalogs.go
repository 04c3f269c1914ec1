// Package catalogs provides embedded design-token exports, bundled at build time.
package catalogs

import _ "embed"

// ButtonTokensJSON is the standard-button color export ("variableCollection"
// keyed by token name, one color per surface mode).
//
//go:embed figma/button-tokens.json
var ButtonTokensJSON []byte
