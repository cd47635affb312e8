package config

import (
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-errors/errors"
	"github.com/helmutkemper/glob"
	"github.com/micro-editor/json5"
	homedir "github.com/mitchellh/go-homedir"
)

// MinWidth is the narrowest form box the settings allow.
const MinWidth = 24

// Settings are the options of one form run.
type Settings struct {
	// Colorscheme names a scheme in colorschemes/ or a built-in one.
	Colorscheme string
	// Width of the form box in cells, capped by the terminal width.
	Width int
	// CopyTranscript copies the transcript to the clipboard after submit.
	CopyTranscript bool
	// TranscriptDir, when set, receives <form>.md after submit.
	TranscriptDir string
	// QuickSelect enables the 1-9 keys.
	QuickSelect bool
}

// DefaultSettings returns the settings used when settings.json is absent.
func DefaultSettings() Settings {
	return Settings{
		Colorscheme: "default",
		Width:       72,
		QuickSelect: true,
	}
}

type override struct {
	pattern string
	glob    *glob.Glob
	values  map[string]interface{}
}

// Config is the parsed settings.json: global settings plus overrides keyed
// by glob patterns on form file names.
type Config struct {
	Global    Settings
	overrides []override
}

// ReadSettings reads settings.json from p. A missing file yields defaults.
func ReadSettings(p Paths) (*Config, error) {
	cfg := &Config{Global: DefaultSettings()}
	data, err := os.ReadFile(p.Settings())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, 0)
	}
	if err := cfg.parse(data); err != nil {
		return nil, errors.Errorf("%s: %v", p.Settings(), err)
	}
	return cfg, nil
}

func (c *Config) parse(data []byte) error {
	var raw map[string]interface{}
	if err := json5.Unmarshal(data, &raw); err != nil {
		return err
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sub, ok := raw[k].(map[string]interface{})
		if !ok {
			if err := apply(&c.Global, k, raw[k]); err != nil {
				return err
			}
			continue
		}
		g, err := glob.Compile(k)
		if err != nil {
			return errors.Errorf("bad pattern %q: %v", k, err)
		}
		probe := c.Global
		for sk, sv := range sub {
			if err := apply(&probe, sk, sv); err != nil {
				return errors.Errorf("%s: %v", k, err)
			}
		}
		if err := normalize(&probe); err != nil {
			return errors.Errorf("%s: %v", k, err)
		}
		c.overrides = append(c.overrides, override{pattern: k, glob: g, values: sub})
	}
	return normalize(&c.Global)
}

// ForForm returns the settings for the form file at path: the global
// settings with every matching override applied in pattern order.
// Overrides are checked by ReadSettings; a value that still fails is
// logged and skipped.
func (c *Config) ForForm(path string) Settings {
	s := c.Global
	base := filepath.Base(path)
	for _, o := range c.overrides {
		if !o.glob.MatchString(base) {
			continue
		}
		for k, v := range o.values {
			if err := apply(&s, k, v); err != nil {
				log.Printf("settings override %s: %v", o.pattern, err)
			}
		}
	}
	if err := normalize(&s); err != nil {
		log.Printf("settings for %s: %v", base, err)
		s.TranscriptDir = ""
	}
	return s
}

func apply(s *Settings, key string, v interface{}) error {
	switch key {
	case "colorscheme":
		str, ok := v.(string)
		if !ok {
			return typeError(key, "a string")
		}
		s.Colorscheme = str
	case "transcriptdir":
		str, ok := v.(string)
		if !ok {
			return typeError(key, "a string")
		}
		s.TranscriptDir = str
	case "width":
		n, ok := v.(float64)
		if !ok {
			return typeError(key, "a number")
		}
		s.Width = int(n)
	case "copytranscript":
		b, ok := v.(bool)
		if !ok {
			return typeError(key, "a boolean")
		}
		s.CopyTranscript = b
	case "quickselect":
		b, ok := v.(bool)
		if !ok {
			return typeError(key, "a boolean")
		}
		s.QuickSelect = b
	default:
		return errors.Errorf("unknown option %q", key)
	}
	return nil
}

func typeError(key, want string) error {
	return errors.Errorf("option %q must be %s", key, want)
}

func normalize(s *Settings) error {
	if s.Width < MinWidth {
		s.Width = MinWidth
	}
	if s.Colorscheme == "" {
		s.Colorscheme = "default"
	}
	if s.TranscriptDir != "" {
		dir, err := homedir.Expand(s.TranscriptDir)
		if err != nil {
			return errors.Wrap(err, 0)
		}
		s.TranscriptDir = dir
	}
	return nil
}
