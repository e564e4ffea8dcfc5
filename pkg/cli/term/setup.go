package term

import (
	"errors"
	"os"

	goterm "golang.org/x/term"
)

const (
	// Switch to the alternate screen, disable autowrap and enable bracketed
	// paste.
	setupSeq = "\033[?1049h\033[?7l\033[?2004h"
	// Undo setupSeq in reverse order.
	restoreSeq = "\033[?2004l\033[?7h\033[?1049l"
)

// Setup sets up the terminal for a full-screen interface: input is switched
// to raw mode and output to the alternate screen. It returns a function that
// restores the terminal.
func Setup(in, out *os.File) (func() error, error) {
	state, err := goterm.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, err
	}
	if _, err := out.WriteString(setupSeq); err != nil {
		goterm.Restore(int(in.Fd()), state)
		return nil, err
	}
	return func() error {
		_, errWrite := out.WriteString(restoreSeq)
		errRestore := goterm.Restore(int(in.Fd()), state)
		return errors.Join(errWrite, errRestore)
	}, nil
}

// IsTerminal reports whether the file is a terminal.
func IsTerminal(f *os.File) bool {
	return goterm.IsTerminal(int(f.Fd()))
}
