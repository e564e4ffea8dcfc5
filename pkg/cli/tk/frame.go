package tk

import (
	"strings"
	"unicode/utf8"

	"github.com/kregerl/nbt-editor/pkg/cli/term"
	"github.com/kregerl/nbt-editor/pkg/render"
	"github.com/kregerl/nbt-editor/pkg/ui"
	"github.com/kregerl/nbt-editor/pkg/wcwidth"
)

// Frame collects the elements of one frame. It implements render.Surface.
type Frame struct {
	view       *View
	actions    map[render.ID]action
	dispatched bool

	main    container
	windows []*window
	// Windows being built, innermost last.
	open []*window
}

type item struct {
	id       render.ID
	kind     elemKind
	text     string
	open     bool
	selected bool
	buf      *render.EditBuffer
}

type row struct {
	items  []item
	depth  int
	parent render.ID
}

// A sequence of rows with its own nesting of collapsibles.
type container struct {
	rows    []*row
	headers []render.ID
	// Whether the last row is a strip of selectables still accepting items,
	// and the group of its items.
	strip      bool
	stripGroup string
}

type window struct {
	id    render.ID
	title string
	container
}

var _ render.Surface = (*Frame)(nil)

func (f *Frame) target() *container {
	if n := len(f.open); n > 0 {
		return &f.open[n-1].container
	}
	return &f.main
}

// group returns the part of id before the first slash. Consecutive
// selectables of the same group share a row.
func group(id render.ID) string {
	s := string(id)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return ""
}

func (c *container) add(it item) {
	if it.kind == kindSelectable && c.strip && group(it.id) == c.stripGroup {
		last := c.rows[len(c.rows)-1]
		last.items = append(last.items, it)
		return
	}
	r := &row{items: []item{it}, depth: len(c.headers)}
	if n := len(c.headers); n > 0 {
		r.parent = c.headers[n-1]
	}
	c.rows = append(c.rows, r)
	c.strip = it.kind == kindSelectable
	c.stripGroup = group(it.id)
}

// take returns the action dispatched to id in this frame, if any. Each action
// is delivered once.
func (f *Frame) take(id render.ID) (action, bool) {
	a, ok := f.actions[id]
	if ok {
		delete(f.actions, id)
	}
	return a, ok
}

func (f *Frame) respond(id render.ID) render.Response {
	a, ok := f.take(id)
	if !ok {
		return render.Response{}
	}
	switch a.kind {
	case actClick:
		return render.Response{Clicked: true}
	case actActivate:
		return render.Response{Activated: true}
	case actClickActivate:
		return render.Response{Clicked: true, Activated: true}
	case actClose:
		return render.Response{Closed: true}
	case actSubmit:
		return render.Response{Submitted: true}
	}
	return render.Response{}
}

func (f *Frame) Line(id render.ID, text string) render.Response {
	f.target().add(item{id: id, kind: kindLine, text: text})
	return f.respond(id)
}

func (f *Frame) BeginCollapsible(id render.ID, label string, open bool) render.Response {
	c := f.target()
	c.add(item{id: id, kind: kindHeader, text: label, open: open})
	c.headers = append(c.headers, id)
	return f.respond(id)
}

func (f *Frame) EndCollapsible() {
	c := f.target()
	if n := len(c.headers); n > 0 {
		c.headers = c.headers[:n-1]
	}
	c.strip = false
}

func (f *Frame) BeginWindow(id render.ID, title string) render.Response {
	w := &window{id: id, title: title}
	f.windows = append(f.windows, w)
	f.open = append(f.open, w)
	return f.respond(id)
}

func (f *Frame) EndWindow() {
	if n := len(f.open); n > 0 {
		f.open = f.open[:n-1]
	}
}

func (f *Frame) Selectable(id render.ID, label string, selected bool) render.Response {
	f.target().add(item{id: id, kind: kindSelectable, text: label, selected: selected})
	return f.respond(id)
}

func (f *Frame) TextEdit(id render.ID, buf *render.EditBuffer) render.Response {
	f.target().add(item{id: id, kind: kindTextEdit, buf: buf})
	a, ok := f.take(id)
	if !ok || a.kind != actEdit {
		return render.Response{}
	}
	return editKey(buf, a.key)
}

// editKey applies a key press to buf.
func editKey(buf *render.EditBuffer, k ui.Key) render.Response {
	old := buf.Text
	switch {
	case k == ui.K(ui.Enter):
		return render.Response{Submitted: true}
	case k == ui.K(ui.Backspace) || k == ui.K('H', ui.Ctrl):
		if buf.Dot > 0 {
			_, n := utf8.DecodeLastRuneInString(buf.Text[:buf.Dot])
			buf.Text = buf.Text[:buf.Dot-n] + buf.Text[buf.Dot:]
			buf.Dot -= n
		}
	case k == ui.K(ui.Delete):
		if buf.Dot < len(buf.Text) {
			_, n := utf8.DecodeRuneInString(buf.Text[buf.Dot:])
			buf.Text = buf.Text[:buf.Dot] + buf.Text[buf.Dot+n:]
		}
	case k == ui.K(ui.Left):
		if buf.Dot > 0 {
			_, n := utf8.DecodeLastRuneInString(buf.Text[:buf.Dot])
			buf.Dot -= n
		}
	case k == ui.K(ui.Right):
		if buf.Dot < len(buf.Text) {
			_, n := utf8.DecodeRuneInString(buf.Text[buf.Dot:])
			buf.Dot += n
		}
	case k == ui.K(ui.Home) || k == ui.K('A', ui.Ctrl):
		buf.Dot = 0
	case k == ui.K(ui.End) || k == ui.K('E', ui.Ctrl):
		buf.Dot = len(buf.Text)
	case k == ui.K('U', ui.Ctrl):
		buf.Text = buf.Text[buf.Dot:]
		buf.Dot = 0
	case k.Mod == 0 && k.Rune >= 0x20 && k.Rune != ui.Backspace:
		s := string(k.Rune)
		buf.Text = buf.Text[:buf.Dot] + s + buf.Text[buf.Dot:]
		buf.Dot += len(s)
	}
	return render.Response{Changed: buf.Text != old}
}

// Render finishes the frame and lays it out in a buffer of the given size.
// Windows are stacked at the bottom; the rest shows the main flow, scrolled so
// that the focused element is visible.
func (f *Frame) Render(width, height int) *term.Buffer {
	v := f.view
	f.updateFocus()
	f.updateWindows()

	winHeight := 0
	for _, w := range f.windows {
		winHeight += len(w.rows) + 2
	}
	mainHeight := max(height-winHeight, 0)
	v.pageSize = max(mainHeight, 1)

	focusRow := -1
	if v.focusIdx < len(v.order) {
		focusRow = v.order[v.focusIdx].row
	}
	if focusRow >= 0 {
		if focusRow < v.scroll {
			v.scroll = focusRow
		} else if focusRow >= v.scroll+mainHeight {
			v.scroll = focusRow - mainHeight + 1
		}
	}
	v.scroll = max(min(v.scroll, len(f.main.rows)-mainHeight), 0)

	bb := term.NewBufferBuilder(width)
	lines := 0
	newline := func() {
		if lines > 0 {
			bb.Newline()
		}
		lines++
	}
	for i := v.scroll; i < v.scroll+mainHeight; i++ {
		newline()
		if i < len(f.main.rows) {
			if i == focusRow {
				bb.SetDot(term.Pos{Line: lines - 1, Col: 2 * f.main.rows[i].depth})
			}
			f.writeRow(bb, f.main.rows[i], width)
		}
	}

	top, hasTop := v.TopWindow()
	for _, w := range f.windows {
		if lines >= height {
			break
		}
		newline()
		writeBorder(bb, "┌", "┐", w.title, width)
		for _, r := range w.rows {
			if lines >= height {
				break
			}
			newline()
			bb.Write("│ ")
			if len(r.items) == 1 && r.items[0].kind == kindTextEdit {
				dot := writeEdit(bb, r.items[0].buf, width-4)
				if hasTop && w.id == top {
					bb.SetDot(term.Pos{Line: lines - 1, Col: 2 + dot})
				}
			} else {
				f.writeItems(bb, r.items, width-4)
			}
			bb.WriteSpaces(max(width-1-bb.Col, 0))
			bb.Write("│")
		}
		if lines < height {
			newline()
			writeBorder(bb, "└", "┘", "", width)
		}
	}
	return bb.Buffer()
}

// updateFocus replaces the focus order with that of this frame. If the focused
// element disappeared, the element now at its position gets the focus.
func (f *Frame) updateFocus() {
	v := f.view
	v.order = v.order[:0]
	for i, r := range f.main.rows {
		for _, it := range r.items {
			if it.kind == kindTextEdit {
				continue
			}
			v.order = append(v.order, focusable{it.id, it.kind, it.open, r.parent, i})
		}
	}
	if len(v.order) == 0 {
		v.focus, v.focusIdx = "", 0
		return
	}
	for i, fe := range v.order {
		if fe.id == v.focus {
			v.focusIdx = i
			return
		}
	}
	v.focusIdx = min(v.focusIdx, len(v.order)-1)
	v.focus = v.order[v.focusIdx].id
}

func (f *Frame) updateWindows() {
	v := f.view
	present := make(map[render.ID]bool, len(f.windows))
	clear(v.windowEdit)
	for _, w := range f.windows {
		present[w.id] = true
		for _, r := range w.rows {
			for _, it := range r.items {
				if _, ok := v.windowEdit[w.id]; !ok && it.kind == kindTextEdit {
					v.windowEdit[w.id] = it.id
				}
			}
		}
	}
	kept := v.windows[:0]
	known := make(map[render.ID]bool, len(v.windows))
	for _, id := range v.windows {
		if present[id] {
			kept = append(kept, id)
			known[id] = true
		}
	}
	for _, w := range f.windows {
		if !known[w.id] && !v.closed[w.id] {
			kept = append(kept, w.id)
		}
	}
	v.windows = kept
}

func (f *Frame) writeRow(bb *term.BufferBuilder, r *row, width int) {
	indent := 2 * r.depth
	if indent >= width {
		return
	}
	bb.WriteSpaces(indent)
	f.writeItems(bb, r.items, width-indent)
}

func (f *Frame) writeItems(bb *term.BufferBuilder, items []item, width int) {
	used := 0
	for i, it := range items {
		if used >= width {
			return
		}
		var text string
		var styles []ui.Styling
		switch it.kind {
		case kindHeader:
			if it.open {
				text = "▾ " + it.text
			} else {
				text = "▸ " + it.text
			}
			styles = append(styles, ui.Bold)
		case kindSelectable:
			if i > 0 {
				bb.Write(" ")
				used++
			}
			if it.selected {
				text = "[" + it.text + "]"
				styles = append(styles, ui.Bold)
			} else {
				text = " " + it.text + " "
			}
		case kindTextEdit:
			text = it.buf.Text
		default:
			text = it.text
		}
		if it.id == f.view.focus {
			styles = append(styles, ui.Inverse)
		}
		text = wcwidth.Trim(text, width-used)
		bb.Write(text, styles...)
		used += wcwidth.Of(text)
	}
}

// writeEdit writes the content of an edit buffer trimmed to width, scrolled so
// that the cursor is visible, and returns the column of the cursor.
func writeEdit(bb *term.BufferBuilder, buf *render.EditBuffer, width int) int {
	before, after := buf.Text[:buf.Dot], buf.Text[buf.Dot:]
	for wcwidth.Of(before) >= width && before != "" {
		_, n := utf8.DecodeRuneInString(before)
		before = before[n:]
	}
	col := wcwidth.Of(before)
	bb.Write(wcwidth.Trim(before+after, width), ui.Underlined)
	if rest := width - wcwidth.Of(wcwidth.Trim(before+after, width)); rest > 0 {
		bb.WriteSpaces(rest, ui.Underlined)
	}
	return col
}

func writeBorder(bb *term.BufferBuilder, left, right, title string, width int) {
	if width < 2 {
		return
	}
	inner := width - 2
	if title != "" {
		title = wcwidth.Trim(" "+title+" ", inner)
	}
	bb.Write(left + title + strings.Repeat("─", inner-wcwidth.Of(title)) + right)
}
