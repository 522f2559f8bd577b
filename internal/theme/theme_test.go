package theme

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessImports_NoImports(t *testing.T) {
	css := `.recnotify-popup { color: red; }`
	assert.Equal(t, css, ProcessImports(css, "", nil))
}

func TestProcessImports_FileImport(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_custom.css"), []byte(`@define-color accent #ff0000;`), 0644))

	result := ProcessImports(`@import "_custom.css";
.recnotify-label { color: @accent; }`, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _custom.css */")
	assert.Contains(t, result, "@define-color accent #ff0000")
	assert.Contains(t, result, ".recnotify-label")
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_a.css"), []byte(`@import "_b.css"; .a {}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_b.css"), []byte(`@import "_a.css"; .b {}`), 0644))

	result := ProcessImports(`@import "_a.css";`, tmpDir, nil)

	assert.Contains(t, result, ".a {}")
	assert.Contains(t, result, ".b {}")
	assert.Contains(t, result, "circular import prevented")
}

func TestProcessImports_FallsBackToEmbeddedPartial(t *testing.T) {
	result := ProcessImports(`@import "_palette.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* imported (embedded): _palette.css */")
	assert.Contains(t, result, "recnotify_border")
}

func TestProcessImports_MissingFile(t *testing.T) {
	result := ProcessImports(`@import "nope.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* import failed: nope.css */")
}

func TestNewDefaultTheme_InlinesPalette(t *testing.T) {
	th := NewDefaultTheme()
	assert.True(t, th.IsDefault)
	assert.Equal(t, DefaultThemeName, th.Name)
	assert.NotContains(t, th.CSS, "@import")
	assert.Contains(t, th.CSS, "@define-color recnotify_text #ffffff")
}

func TestResolve_MissingFileUsesDefault(t *testing.T) {
	th, err := Resolve(filepath.Join(t.TempDir(), "popup.css"))
	require.NoError(t, err)
	assert.True(t, th.IsDefault)
}

func TestResolve_UserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popup.css")
	require.NoError(t, os.WriteFile(path, []byte(`.recnotify-label { color: yellow; }`), 0644))

	th, err := Resolve(path)
	require.NoError(t, err)
	assert.False(t, th.IsDefault)
	assert.Equal(t, "popup", th.Name)
	assert.Equal(t, path, th.Path)
	assert.Contains(t, th.CSS, "yellow")
}

func TestResolve_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := UserThemePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "recnotify", UserThemeFile), path)

	th, err := Resolve("")
	require.NoError(t, err)
	assert.True(t, th.IsDefault)
}

func TestTheme_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popup.css")
	require.NoError(t, os.WriteFile(path, []byte(`.a {}`), 0644))

	th, err := NewTheme(path)
	require.NoError(t, err)

	changed, err := th.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "unchanged mtime should not reload")

	require.NoError(t, os.WriteFile(path, []byte(`.b {}`), 0644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err = th.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, `.b {}`, th.CSS)
}

func TestTheme_ReloadDefaultIsNoop(t *testing.T) {
	changed, err := NewDefaultTheme().Reload()
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestWatcher_ReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popup.css")
	require.NoError(t, os.WriteFile(path, []byte(`.a {}`), 0644))
	th, err := NewTheme(path)
	require.NoError(t, err)

	got := make(chan string, 4)
	w := NewWatcher(th, nil)
	w.SetChangeCallback(func(css string) { got <- css })
	w.Start(t.Context())
	defer w.Stop()
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(path, []byte(`.c {}`), 0644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	select {
	case css := <-got:
		assert.Equal(t, `.c {}`, css)
	case <-time.After(2 * time.Second):
		t.Fatal("theme change not observed")
	}
}

func TestWatcher_IgnoresDefault(t *testing.T) {
	w := NewWatcher(NewDefaultTheme(), nil)
	w.Start(t.Context())
	assert.False(t, w.IsRunning())
	w.Stop()
}
