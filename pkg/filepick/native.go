//go:build cgo && !nodialog

package filepick

import (
	"errors"

	"github.com/sqweek/dialog"
)

// Available reports whether Native can show a dialog in this build.
const Available = true

// Native shows the file dialog of the desktop environment.
type Native struct {
	Title string
	// Dir is the directory the dialog starts in. Empty means the dialog's
	// default.
	Dir string
}

func (n Native) Pick() (string, bool, error) {
	b := dialog.File().Title(n.Title).Filter("NBT files", Extensions...).Filter("All files", "*")
	if n.Dir != "" {
		b = b.SetStartDir(n.Dir)
	}
	path, err := b.Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
