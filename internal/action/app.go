package action

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"

	"github.com/helmutkemper/tabform/internal/config"
	"github.com/helmutkemper/tabform/internal/form"
	"github.com/helmutkemper/tabform/internal/theme"
)

// App is what commands run against: the configuration, the screen host and
// the transcript targets chosen on the command line.
type App struct {
	Ctx    context.Context
	Paths  config.Paths
	Config *config.Config
	Host   *Host
	Stdout io.Writer

	// Output is the -o transcript file. It wins over transcriptdir.
	Output string
	// Clip copies every transcript to the clipboard.
	Clip bool
	// Colorscheme overrides the configured colorscheme when set.
	Colorscheme string
	// Clipboard opens the clipboard; nil means SystemClipboard.
	Clipboard func() (Clipboard, error)
}

// Settings returns the settings for the form loaded from source.
func (a *App) Settings(source string) config.Settings {
	s := config.DefaultSettings()
	if a.Config != nil {
		s = a.Config.ForForm(source)
	}
	if a.Colorscheme != "" {
		s.Colorscheme = a.Colorscheme
	}
	return s
}

// RunForm asks spec and delivers the transcript on submit. source is the
// form file, or the command name of a plugin form, and selects settings
// overrides and the transcriptdir file name. A cancelled form returns nil
// and no error.
func (a *App) RunForm(source string, spec form.FormSpec) (*form.Result, error) {
	if a.Host == nil {
		return nil, ErrNotInteractive
	}
	st := a.Settings(source)
	th, err := theme.Load(st.Colorscheme, a.Paths.Colorschemes())
	if err != nil {
		log.Println(err, ", using the default colorscheme")
		th = theme.Default()
	}

	res, err := a.Host.Ask(a.context(), spec, st.Width, form.WithTheme(th), form.WithQuickSelect(st.QuickSelect))
	if err != nil || res == nil {
		return nil, err
	}

	d := Delivery{Stdout: a.Stdout, File: a.Output}
	if d.File == "" && st.TranscriptDir != "" {
		d.File = filepath.Join(st.TranscriptDir, transcriptName(source))
	}
	if a.Clip || st.CopyTranscript {
		open := a.Clipboard
		if open == nil {
			open = SystemClipboard
		}
		if cb, err := open(); err != nil {
			log.Println(err, " (transcript not copied)")
		} else {
			d.Clipboard = cb
		}
	}
	return res, Deliver(spec, res, d)
}

func (a *App) context() context.Context {
	if a.Ctx == nil {
		return context.Background()
	}
	return a.Ctx
}

func transcriptName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".md"
}

// OpenCmd opens a form file, or a form by name from the forms directory.
func (a *App) OpenCmd(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: " + Usage("open"))
	}
	path, ok := config.ResolveForm(a.Paths, args[0])
	if !ok {
		return errors.Errorf("form %s not found", args[0])
	}
	spec, err := config.LoadForm(path)
	if err != nil {
		return err
	}
	_, err = a.RunForm(path, spec)
	return err
}

// ListCmd prints the forms in the forms directory and the registered
// commands.
func (a *App) ListCmd(args []string) error {
	files, err := config.FormFiles(a.Paths)
	if err != nil {
		return err
	}
	w := a.Stdout
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintln(w, "Forms:")
	for _, f := range files {
		fmt.Fprintln(w, "    "+strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)))
	}
	fmt.Fprintln(w, "Commands:")
	for _, name := range Commands() {
		fmt.Fprintln(w, "    "+Usage(name))
	}
	return nil
}
