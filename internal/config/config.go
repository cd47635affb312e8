// Package config locates the configuration directory and reads the
// settings and form files it holds.
//
// Layout of the configuration directory:
//
//	settings.json     JSON5 settings, see Settings
//	colorschemes/     user colorschemes (<name>.json)
//	forms/            YAML form files
//	plug/             Lua plugins
package config

import (
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
	homedir "github.com/mitchellh/go-homedir"
)

// EnvConfigHome overrides the configuration directory.
const EnvConfigHome = "TABFORM_CONFIG_HOME"

// Paths resolves files inside a configuration directory.
type Paths struct {
	Root string
}

func (p Paths) Settings() string { return filepath.Join(p.Root, "settings.json") }
func (p Paths) Colorschemes() string { return filepath.Join(p.Root, "colorschemes") }
func (p Paths) Forms() string { return filepath.Join(p.Root, "forms") }
func (p Paths) Plugins() string { return filepath.Join(p.Root, "plug") }

// InitConfigDir picks the configuration directory and creates it if needed.
// Precedence: flagDir, $TABFORM_CONFIG_HOME, $XDG_CONFIG_HOME/tabform,
// ~/.config/tabform.
func InitConfigDir(flagDir string) (Paths, error) {
	dir, err := configDir(flagDir)
	if err != nil {
		return Paths{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, errors.Errorf("creating config dir %s: %v", dir, err)
	}
	return Paths{Root: dir}, nil
}

func configDir(flagDir string) (string, error) {
	for _, d := range []string{flagDir, os.Getenv(EnvConfigHome)} {
		if d != "" {
			return homedir.Expand(d)
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		xdg, err := homedir.Expand(xdg)
		if err != nil {
			return "", err
		}
		return filepath.Join(xdg, "tabform"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Errorf("cannot find home directory: %v", err)
	}
	return filepath.Join(home, ".config", "tabform"), nil
}
