// Package assets embeds static resources shipped with the binary.
package assets

import _ "embed"

// AppIconBytes is the window and application icon.
//
//go:embed icon.svg
var AppIconBytes []byte

// AppIconName is the resource name the icon is registered under.
const AppIconName = "icon.svg"
