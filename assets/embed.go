// Package assets embeds the stylesheet and scripts served under /assets/.
// css/output.css is built from css/input.css by "do gen".
package assets

import "embed"

//go:embed css js
var AssetsFS embed.FS
