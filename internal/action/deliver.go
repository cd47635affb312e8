package action

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/go-errors/errors"
	"github.com/zyedidia/clipper"

	"github.com/helmutkemper/tabform/internal/form"
)

// Clipboard is the part of a clipper clipboard that Deliver writes to.
type Clipboard interface {
	WriteAll(reg string, p []byte) error
}

// SystemClipboard returns the first clipboard tool that works here.
func SystemClipboard() (Clipboard, error) {
	c, err := clipper.GetClipboard(clipper.Clipboards...)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return c, nil
}

// Delivery says where the transcript of a submitted form goes. Zero fields
// are skipped.
type Delivery struct {
	Stdout    io.Writer
	File      string
	Clipboard Clipboard
}

// Deliver writes the transcript of res to every target of d. A nil result
// (cancelled form) delivers nothing. All targets are tried; the first error
// is returned.
func Deliver(spec form.FormSpec, res *form.Result, d Delivery) error {
	if res == nil {
		return nil
	}
	text := form.Transcript(spec, res)

	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if d.Stdout != nil {
		_, err := io.WriteString(d.Stdout, text)
		keep(err)
	}
	if d.File != "" {
		keep(writeTranscript(d.File, text))
	}
	if d.Clipboard != nil {
		if err := d.Clipboard.WriteAll(clipper.RegClipboard, []byte(text)); err != nil {
			keep(errors.Errorf("clipboard: %v", err))
		} else {
			log.Println("transcript copied to clipboard")
		}
	}
	return first
}

func writeTranscript(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, 0)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return errors.Wrap(err, 0)
	}
	log.Printf("transcript written to %s (%s)", path, humanize.Bytes(uint64(len(text))))
	return nil
}
