package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/recnotify/internal/config"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// UserThemeFile is the name of the user stylesheet in the config directory.
const UserThemeFile = "popup.css"

// Theme is a loaded stylesheet.
type Theme struct {
	Name      string    // Theme name (file name without .css)
	Path      string    // Full path to the CSS file (empty for default)
	CSS       string    // The CSS content with imports inlined
	ModTime   time.Time // Last modification time
	IsDefault bool      // True for the embedded default
}

// UserThemePath returns the path of the user stylesheet.
func UserThemePath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return filepath.Join(dir, UserThemeFile), nil
}

// Resolve returns the stylesheet at path, or the embedded default when the
// file does not exist. Empty path means UserThemePath.
func Resolve(path string) (*Theme, error) {
	if path == "" {
		p, err := UserThemePath()
		if err != nil {
			return NewDefaultTheme(), err
		}
		path = p
	}

	t, err := NewTheme(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewDefaultTheme(), nil
	}
	if err != nil {
		return NewDefaultTheme(), err
	}
	return t, nil
}

// NewTheme loads a CSS file. @import statements are resolved and inlined.
func NewTheme(path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	css, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme: %w", err)
	}

	return &Theme{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// NewDefaultTheme returns the embedded default with partials inlined.
func NewDefaultTheme() *Theme {
	css, _ := BundledStylesheet(DefaultThemeName)
	return &Theme{
		Name:      DefaultThemeName,
		CSS:       ProcessImports(css, "", nil),
		IsDefault: true,
	}
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, then against the embedded
// partials. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = map[string]bool{}
	}
	return importRegex.ReplaceAllStringFunc(css, func(stmt string) string {
		m := importRegex.FindStringSubmatch(stmt)
		if m == nil {
			return stmt
		}
		return inline(m[1], baseDir, seen)
	})
}

// inline returns the contents of one imported file, a bundled partial with
// the same base name, or a marker comment.
func inline(name, baseDir string, seen map[string]bool) string {
	full := name
	if !filepath.IsAbs(full) {
		full = filepath.Join(baseDir, full)
	}
	if seen[full] {
		return "/* circular import prevented: " + name + " */"
	}
	seen[full] = true

	data, err := os.ReadFile(full)
	if err == nil {
		return "/* imported: " + name + " */\n" + ProcessImports(string(data), filepath.Dir(full), seen)
	}
	if partial, ok := BundledPartial(filepath.Base(name)); ok {
		return "/* imported (embedded): " + name + " */\n" + partial
	}
	return "/* import failed: " + name + " */"
}

// Reload re-reads the file if its modification time moved forward.
// It reports whether the CSS changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsDefault {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read theme: %w", err)
	}

	old := t.CSS
	t.CSS = ProcessImports(string(css), filepath.Dir(t.Path), nil)
	t.ModTime = info.ModTime()

	return old != t.CSS, nil
}
