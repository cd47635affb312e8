// Package plugin runs Lua plugins from <configdir>/plug. A plugin sees a
// global table named tabform:
//
//	tabform.version            -- version string of tabform
//	tabform.requires(range)    -- fail unless the version is in range, e.g. ">=0.1.0"
//	tabform.log(msg)           -- write msg to the debug log
//	tabform.register(name, spec [, onsubmit])
//
// register adds a form command called name. spec is a table shaped like a
// form file. onsubmit(transcript, answers) runs after the form is
// submitted; answers maps tab ids to answer text.
package plugin

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/blang/semver"
	"github.com/go-errors/errors"
	lua "github.com/yuin/gopher-lua"
	luar "layeh.com/gopher-luar"

	"github.com/helmutkemper/tabform/internal/action"
	"github.com/helmutkemper/tabform/internal/util"
)

// ErrIncompatible is returned for a plugin whose requires range excludes
// the running version.
var ErrIncompatible = errors.New("plugin is incompatible with this version of tabform")

// Plugin is one loaded plugin file.
type Plugin struct {
	Name  string
	Path  string
	Forms []*Form

	err error
}

// Manager owns the Lua state shared by all plugins.
type Manager struct {
	L       *lua.LState
	Plugins []*Plugin

	forms   map[string]*Form
	current *Plugin
}

// New creates a Lua state with the tabform API installed.
func New() *Manager {
	m := &Manager{L: lua.NewState(), forms: make(map[string]*Form)}
	api := m.L.NewTable()
	api.RawSetString("version", lua.LString(util.Version))
	api.RawSetString("requires", m.L.NewFunction(m.requires))
	api.RawSetString("register", m.L.NewFunction(m.register))
	api.RawSetString("log", luar.New(m.L, func(msg string) {
		name := "plugin"
		if m.current != nil {
			name = m.current.Name
		}
		log.Println(name+":", msg)
	}))
	m.L.SetGlobal("tabform", api)
	return m
}

// LoadAll loads every *.lua file in dir in name order and registers the
// forms of the plugins that loaded. A failing plugin is skipped; the
// errors of all failing plugins are returned together.
func LoadAll(dir string) (*Manager, error) {
	m := New()
	files, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return m, errors.Wrap(err, 0)
	}
	var msgs []string
	for _, f := range files {
		if err := m.Load(f); err != nil {
			log.Println(err)
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) > 0 {
		return m, errors.New(strings.Join(msgs, "\n"))
	}
	return m, nil
}

// Load runs one plugin file and registers its forms as commands.
func (m *Manager) Load(path string) error {
	p := &Plugin{
		Name: strings.TrimSuffix(filepath.Base(path), ".lua"),
		Path: path,
	}
	m.current = p
	err := m.L.DoFile(path)
	m.current = nil
	if p.err != nil {
		return p.err
	}
	if err != nil {
		return errors.Errorf("plugin %s: %v", p.Name, err)
	}

	// A plugin registers all of its forms or none.
	for i, f := range p.Forms {
		if err := action.Register(f.Name, f.Name+" (plugin "+p.Name+")", m.command(f)); err != nil {
			for _, done := range p.Forms[:i] {
				action.Unregister(done.Name)
			}
			return errors.Errorf("plugin %s: %v", p.Name, err)
		}
	}
	for _, f := range p.Forms {
		m.forms[f.Name] = f
	}
	m.Plugins = append(m.Plugins, p)
	log.Printf("loaded plugin %s, %d forms", p.Name, len(p.Forms))
	return nil
}

// Form returns the plugin form registered under name.
func (m *Manager) Form(name string) (*Form, bool) {
	f, ok := m.forms[name]
	return f, ok
}

// Close releases the Lua state.
func (m *Manager) Close() {
	m.L.Close()
}

func (m *Manager) command(f *Form) func(*action.App, []string) error {
	return func(a *action.App, args []string) error {
		if len(args) > 0 {
			return errors.Errorf("%s takes no arguments", f.Name)
		}
		res, err := a.RunForm(f.Name, f.Spec)
		if err != nil || res == nil {
			return err
		}
		return m.Submit(f, res)
	}
}

func (m *Manager) requires(L *lua.LState) int {
	want := L.CheckString(1)
	rng, err := semver.ParseRange(want)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	if !rng(util.SemVersion) {
		name := "plugin"
		if m.current != nil {
			name = m.current.Name
			m.current.err = fmt.Errorf("%w: %s requires %s, running %s", ErrIncompatible, name, want, util.Version)
		}
		L.RaiseError("%s requires tabform %s", name, want)
	}
	return 0
}

func (m *Manager) register(L *lua.LState) int {
	name := L.CheckString(1)
	tbl := L.CheckTable(2)
	var hook *lua.LFunction
	if L.GetTop() >= 3 && L.Get(3) != lua.LNil {
		hook = L.CheckFunction(3)
	}
	if m.current == nil {
		L.RaiseError("register called outside of plugin loading")
		return 0
	}
	spec, err := toSpec(tbl)
	if err != nil {
		L.RaiseError("form %s: %v", name, err)
		return 0
	}
	m.current.Forms = append(m.current.Forms, &Form{
		Name:   name,
		Plugin: m.current.Name,
		Spec:   spec,
		hook:   hook,
	})
	return 0
}
