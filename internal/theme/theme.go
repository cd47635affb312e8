// Package theme resolves semantic style names ("accent", "muted", ...) to
// tcell styles. Colorschemes are JSON5 objects mapping a name to a style
// string such as "bold #E07A5F,default".
package theme

import (
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
	"github.com/micro-editor/json5"
	"github.com/micro-editor/tcell/v2"
)

//go:embed colorschemes/*.json
var builtin embed.FS

// DefaultName is the colorscheme used when none is configured.
const DefaultName = "default"

// Colorscheme maps semantic names to styles.
type Colorscheme struct {
	Name   string
	styles map[string]tcell.Style
}

// Style returns the style for name. Dotted names fall back to their prefix
// ("accent.bold" -> "accent"), unknown names to "text" and then to the
// terminal default.
func (c *Colorscheme) Style(name string) tcell.Style {
	if c == nil {
		return tcell.StyleDefault
	}
	for name != "" {
		if st, ok := c.styles[name]; ok {
			return st
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	if st, ok := c.styles["text"]; ok {
		return st
	}
	return tcell.StyleDefault
}

// Has reports whether the colorscheme defines name exactly.
func (c *Colorscheme) Has(name string) bool {
	_, ok := c.styles[name]
	return ok
}

// Parse reads a colorscheme from JSON5 data.
func Parse(name string, data []byte) (*Colorscheme, error) {
	var raw map[string]string
	if err := json5.Unmarshal(data, &raw); err != nil {
		return nil, errors.Errorf("colorscheme %s: %v", name, err)
	}
	c := &Colorscheme{Name: name, styles: make(map[string]tcell.Style, len(raw))}
	for k, v := range raw {
		c.styles[k] = StringToStyle(v)
	}
	return c, nil
}

// Load finds the colorscheme called name. Each dir is searched for
// name.json before the built-in schemes.
func Load(name string, dirs ...string) (*Colorscheme, error) {
	file := name + ".json"
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err == nil {
			return Parse(name, data)
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, 0)
		}
	}
	data, err := builtin.ReadFile("colorschemes/" + file)
	if err != nil {
		return nil, errors.Errorf("colorscheme %s not found", name)
	}
	return Parse(name, data)
}

// Default returns the built-in default colorscheme.
func Default() *Colorscheme {
	c, err := Load(DefaultName)
	if err != nil {
		return &Colorscheme{Name: DefaultName, styles: map[string]tcell.Style{}}
	}
	return c
}

// Names lists the built-in colorschemes.
func Names() []string {
	entries, err := builtin.ReadDir("colorschemes")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".json"))
	}
	return out
}

// StringToStyle parses "attr attr fg,bg". Attributes are bold, dim,
// reverse and underline; colors are anything tcell.GetColor accepts.
func StringToStyle(str string) tcell.Style {
	st := tcell.StyleDefault
	var fg, bg string
	fields := strings.Fields(str)
	for _, f := range fields {
		switch f {
		case "bold":
			st = st.Bold(true)
		case "dim":
			st = st.Dim(true)
		case "reverse":
			st = st.Reverse(true)
		case "underline":
			st = st.Underline(true)
		default:
			split := strings.SplitN(f, ",", 2)
			fg = split[0]
			if len(split) > 1 {
				bg = split[1]
			}
		}
	}
	if fg != "" && fg != "default" {
		st = st.Foreground(tcell.GetColor(fg))
	}
	if bg != "" && bg != "default" {
		st = st.Background(tcell.GetColor(bg))
	}
	return st
}
