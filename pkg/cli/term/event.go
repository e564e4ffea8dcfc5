package term

import "github.com/kregerl/nbt-editor/pkg/ui"

// Event represents an event that can be read from the terminal.
type Event interface {
	isEvent()
}

// KeyEvent represents a key press.
type KeyEvent ui.Key

// K constructs a new KeyEvent.
func K(r rune, mods ...ui.Mod) KeyEvent {
	return KeyEvent(ui.K(r, mods...))
}

// PasteSetting indicates the start or finish of pasted text.
type PasteSetting bool

// FatalErrorEvent represents an error that affects the Reader's ability to
// continue reading events. After sending a FatalErrorEvent, the Reader makes
// no more attempts at continuing to read events and wait for Stop to be
// called.
type FatalErrorEvent struct{ Err error }

// NonfatalErrorEvent represents an error that can be gradually recovered. It
// does not affect the Reader's ability to read further events.
type NonfatalErrorEvent struct{ Err error }

func (KeyEvent) isEvent()           {}
func (PasteSetting) isEvent()       {}
func (FatalErrorEvent) isEvent()    {}
func (NonfatalErrorEvent) isEvent() {}
