package theme

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed themes/*.css
var bundled embed.FS

// DefaultThemeName is the name of the built-in stylesheet.
const DefaultThemeName = "default"

// BundledStylesheet returns the built-in stylesheet called name with its
// imports left unresolved.
func BundledStylesheet(name string) (string, bool) {
	return readBundled(name + ".css")
}

// BundledPartial returns a built-in partial. The leading underscore and
// the .css suffix are optional.
func BundledPartial(name string) (string, bool) {
	name = "_" + strings.TrimPrefix(name, "_")
	if path.Ext(name) != ".css" {
		name += ".css"
	}
	return readBundled(name)
}

func readBundled(file string) (string, bool) {
	data, err := fs.ReadFile(bundled, path.Join("themes", file))
	if err != nil {
		return "", false
	}
	return string(data), true
}
