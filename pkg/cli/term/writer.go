package term

import (
	"bytes"
	"fmt"
	"io"
)

// Writer represents the output to a terminal.
type Writer interface {
	// Buffer returns the current buffer.
	Buffer() *Buffer
	// ResetBuffer resets the current buffer.
	ResetBuffer()
	// UpdateBuffer writes the notes buffer above the current buffer, where it
	// scrolls out of view, and updates the terminal to reflect the main buffer.
	UpdateBuffer(bufNotes, bufMain *Buffer, fullRefresh bool) error
	// ClearScreen clears the terminal screen and places the cursor at the top
	// left corner.
	ClearScreen()
}

type writer struct {
	file   io.Writer
	curBuf *Buffer
}

// NewWriter returns a Writer that writes VT100 sequences to the given
// io.Writer. The terminal is assumed to be in raw mode, so line feeds are
// always preceded by carriage returns.
func NewWriter(f io.Writer) Writer {
	return &writer{f, &Buffer{}}
}

func (w *writer) Buffer() *Buffer { return w.curBuf }

func (w *writer) ResetBuffer() { w.curBuf = &Buffer{} }

// deltaPos calculates the escape sequence needed to move the cursor from one
// position to another. It uses relative movements to move to the destination
// line and absolute movement to move to the destination column.
func deltaPos(from, to Pos) []byte {
	buf := new(bytes.Buffer)
	if from.Line < to.Line {
		fmt.Fprintf(buf, "\033[%dB", to.Line-from.Line)
	} else if from.Line > to.Line {
		fmt.Fprintf(buf, "\033[%dA", from.Line-to.Line)
	}
	buf.WriteString("\r")
	if to.Col > 0 {
		fmt.Fprintf(buf, "\033[%dC", to.Col)
	}
	return buf.Bytes()
}

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	newline    = "\r\n"
)

func (w *writer) UpdateBuffer(bufNotes, buf *Buffer, fullRefresh bool) error {
	hasNotes := bufNotes != nil && len(bufNotes.Lines) > 0
	if w.curBuf.Lines != nil && (buf.Width != w.curBuf.Width || hasNotes) {
		// Delta rendering is meaningless when the width changed or the old
		// content is being pushed down by notes.
		fullRefresh = true
	}

	output := new(bytes.Buffer)
	output.WriteString(hideCursor)

	// Rewind to the top left of the current buffer.
	if pLine := w.curBuf.Dot.Line; pLine > 0 {
		fmt.Fprintf(output, "\033[%dA", pLine)
	}
	output.WriteString("\r")

	if fullRefresh && w.curBuf.Lines != nil {
		// Writing a space before erasing keeps tmux from saving the screen in
		// its scrollback buffer.
		output.WriteString(" \033[J\r")
	}

	style := ""
	switchStyle := func(newstyle string) {
		if newstyle != style {
			fmt.Fprintf(output, "\033[0;%sm", newstyle)
			style = newstyle
		}
	}
	writeCells := func(cs []Cell) {
		for _, c := range cs {
			switchStyle(c.Style)
			output.WriteString(c.Text)
		}
	}

	if hasNotes {
		for _, line := range bufNotes.Lines {
			writeCells(line)
			switchStyle("")
			output.WriteString("\033[K" + newline)
		}
	}

	for i, line := range buf.Lines {
		if i > 0 {
			output.WriteString(newline)
		}
		if fullRefresh || i >= len(w.curBuf.Lines) {
			writeCells(line)
			continue
		}
		eq, j := compareCells(line, w.curBuf.Lines[i])
		if eq {
			continue
		}
		// Move to the first differing cell.
		if firstCol := cellsWidth(line[:j]); firstCol != 0 {
			fmt.Fprintf(output, "\033[%dC", firstCol)
		}
		// Erase the rest of the line, unless the old line is a prefix of the
		// new one.
		if j < len(w.curBuf.Lines[i]) {
			switchStyle("")
			output.WriteString("\033[K")
		}
		writeCells(line[j:])
	}
	if !fullRefresh && len(w.curBuf.Lines) > len(buf.Lines) {
		// Erase the lines the old buffer had in excess. The line feed cannot
		// create a bogus line since the old buffer was higher.
		switchStyle("")
		output.WriteString(newline + "\033[J\033[A")
	}
	switchStyle("")
	cursor := endPos(buf)
	output.Write(deltaPos(cursor, buf.Dot))
	output.WriteString(showCursor)

	if _, err := w.file.Write(output.Bytes()); err != nil {
		return err
	}
	w.curBuf = buf
	return nil
}

func (w *writer) ClearScreen() {
	fmt.Fprint(w.file,
		"\033[H",  // move cursor to the top left corner
		"\033[2J", // clear entire buffer
	)
}
