package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/micro-editor/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToStyle(t *testing.T) {
	st := StringToStyle("bold reverse #ff0000,#0000ff")

	want := tcell.StyleDefault.Bold(true).Reverse(true).
		Foreground(tcell.GetColor("#ff0000")).
		Background(tcell.GetColor("#0000ff"))
	assert.Equal(t, want, st)

	assert.Equal(t, tcell.StyleDefault, StringToStyle("default"))
	assert.Equal(t, tcell.StyleDefault.Underline(true), StringToStyle("underline"))
}

func TestBuiltinSchemes(t *testing.T) {
	names := Names()
	require.Contains(t, names, DefaultName)

	for _, name := range names {
		c, err := Load(name)
		require.NoError(t, err, name)
		assert.True(t, c.Has("active"), name)
	}
}

func TestStyleFallback(t *testing.T) {
	c, err := Parse("test", []byte(`{
		// comments are allowed
		"text": "bold",
		"accent": "underline",
	}`))
	require.NoError(t, err)

	assert.Equal(t, tcell.StyleDefault.Underline(true), c.Style("accent.strong"))
	assert.Equal(t, tcell.StyleDefault.Bold(true), c.Style("nope"))

	var nilScheme *Colorscheme
	assert.Equal(t, tcell.StyleDefault, nilScheme.Style("accent"))
}

func TestLoadUserDirFirst(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.json"), []byte(`{"accent": "dim"}`), 0o644))

	c, err := Load(DefaultName, "", dir)
	require.NoError(t, err)
	assert.Equal(t, tcell.StyleDefault.Dim(true), c.Style("accent"))
	assert.False(t, c.Has("active"))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("does-not-exist", t.TempDir())
	assert.Error(t, err)

	assert.Equal(t, DefaultName, Default().Name)
}

func TestParseError(t *testing.T) {
	_, err := Parse("broken", []byte(`{"accent": `))
	assert.Error(t, err)
}
