package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-errors/errors"
	"gopkg.in/yaml.v2"

	"github.com/helmutkemper/tabform/internal/form"
)

// LoadForm reads and validates a YAML form file.
func LoadForm(path string) (form.FormSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return form.FormSpec{}, errors.Wrap(err, 0)
	}
	spec, err := ParseForm(data)
	if err != nil {
		return form.FormSpec{}, errors.Errorf("%s: %v", path, err)
	}
	return spec, nil
}

// ParseForm decodes a YAML form. Unknown fields are rejected.
func ParseForm(data []byte) (form.FormSpec, error) {
	var spec form.FormSpec
	if err := yaml.UnmarshalStrict(data, &spec); err != nil {
		return form.FormSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return form.FormSpec{}, err
	}
	return spec, nil
}

// FormFiles lists the YAML files in the forms directory, sorted by name.
func FormFiles(p Paths) ([]string, error) {
	entries, err := os.ReadDir(p.Forms())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, 0)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		files = append(files, filepath.Join(p.Forms(), name))
	}
	sort.Strings(files)
	return files, nil
}

// ResolveForm maps a form argument to a file: an existing path is used as
// is, otherwise name, name.yaml and name.yml are tried in the forms
// directory.
func ResolveForm(p Paths, name string) (string, bool) {
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return name, true
	}
	for _, cand := range []string{name, name + ".yaml", name + ".yml"} {
		path := filepath.Join(p.Forms(), cand)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path, true
		}
	}
	return "", false
}
