// Package render defines the instruction surface that tree views are drawn
// to.
//
// A Surface is immediate-mode: the whole view is emitted again on every
// frame, and the Surface reports interactions that happened since the last
// frame through the Response returned for each element. Elements are
// correlated across frames only by their ID.
package render

// ID identifies an element across frames. It must be unique within a frame.
type ID string

// Response reports the interactions with an element since the last frame.
type Response struct {
	// The element was clicked or selected.
	Clicked bool
	// The element was activated, for example with a double click or the Enter
	// key.
	Activated bool
	// The contents of a text edit changed.
	Changed bool
	// A text edit or window was submitted.
	Submitted bool
	// A window was closed by the user.
	Closed bool
}

// Surface receives render instructions.
type Surface interface {
	// Line emits a line of text.
	Line(id ID, text string) Response
	// BeginCollapsible starts a collapsible region drawn in the given state.
	// A click on the header is reported with Clicked; the caller owns the
	// state and decides whether to toggle it. Every BeginCollapsible must be
	// matched by an EndCollapsible, whether the region is open or not.
	BeginCollapsible(id ID, label string, open bool) Response
	// EndCollapsible ends the innermost region.
	EndCollapsible()
	// BeginWindow starts a floating window.
	BeginWindow(id ID, title string) Response
	// EndWindow ends the innermost window.
	EndWindow()
	// TextEdit emits an editable text field backed by buf.
	TextEdit(id ID, buf *EditBuffer) Response
	// Selectable emits a label that can be selected.
	Selectable(id ID, label string, selected bool) Response
}

// EditBuffer is the text and cursor position of a text edit. Dot is a byte
// index into Text.
type EditBuffer struct {
	Text string
	Dot  int
}

// NewEditBuffer returns an EditBuffer with the cursor at the end of text.
func NewEditBuffer(text string) *EditBuffer {
	return &EditBuffer{text, len(text)}
}
