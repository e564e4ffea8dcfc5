//go:build !cgo || nodialog

package filepick

import "errors"

// Available reports whether Native can show a dialog in this build.
const Available = false

var errNoDialog = errors.New("native file dialogs are not supported by this build")

// Native shows the file dialog of the desktop environment. In this build it
// always fails.
type Native struct {
	Title string
	Dir   string
}

func (Native) Pick() (string, bool, error) { return "", false, errNoDialog }
