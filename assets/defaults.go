package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded example configuration written by
// `ronde init`.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// StyleCSS is the stylesheet of the status page.
//
//go:embed web/style.css
var StyleCSS []byte

// MainJS toggles entry details on the status page.
//
//go:embed web/main.js
var MainJS []byte

// IndexTemplate is the html/template source of index.html.
//
//go:embed web/index.html.tmpl
var IndexTemplate string
