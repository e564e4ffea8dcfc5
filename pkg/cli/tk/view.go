// Package tk lays out render instructions on a terminal and routes keyboard
// input to them.
//
// A View persists across frames and holds focus, scroll position and pending
// keys. Each frame is built by calling Begin, emitting elements to the
// returned Frame, which implements render.Surface, and finally calling
// Render. Elements learn about key presses through the render.Response of the
// frame in which the key is dispatched.
package tk

import (
	"github.com/kregerl/nbt-editor/pkg/cli/term"
	"github.com/kregerl/nbt-editor/pkg/render"
	"github.com/kregerl/nbt-editor/pkg/ui"
)

type elemKind int

const (
	kindLine elemKind = iota
	kindHeader
	kindSelectable
	kindTextEdit
)

// A focusable element of the last frame.
type focusable struct {
	id     render.ID
	kind   elemKind
	open   bool
	parent render.ID
	row    int
}

// View holds the state of the terminal interface between frames. The zero
// value is not usable; use NewView.
type View struct {
	focus    render.ID
	focusIdx int
	scroll   int
	pageSize int

	// Focusable elements of the main flow in the last frame.
	order []focusable
	// Windows open in the last frame, in the order they were opened. The last
	// one receives keys.
	windows []render.ID
	// The text edit of each window, if any.
	windowEdit map[render.ID]render.ID
	// Windows closed by a key in the current frame.
	closed map[render.ID]bool

	keys []ui.Key
}

// NewView returns a new View.
func NewView() *View {
	return &View{pageSize: 1,
		windowEdit: map[render.ID]render.ID{}, closed: map[render.ID]bool{}}
}

// Queue queues a key press to be dispatched by the next frames.
func (v *View) Queue(k ui.Key) { v.keys = append(v.keys, k) }

// Pending returns whether there are keys that have not been dispatched yet.
// Each frame dispatches at most one key to an element, so the caller should
// build frames until Pending returns false.
func (v *View) Pending() bool { return len(v.keys) > 0 }

// Focus returns the identity of the focused element of the main flow.
func (v *View) Focus() render.ID { return v.focus }

// SetFocus moves the focus to id. It takes effect in the next frame if id is
// emitted there.
func (v *View) SetFocus(id render.ID) { v.focus = id }

// TopWindow returns the identity of the window receiving keys, and whether
// there is one.
func (v *View) TopWindow() (render.ID, bool) {
	if len(v.windows) == 0 {
		return "", false
	}
	return v.windows[len(v.windows)-1], true
}

type actionKind int

const (
	actClick actionKind = iota
	actActivate
	actClickActivate
	actClose
	actSubmit
	actEdit
)

type action struct {
	kind actionKind
	key  ui.Key
}

// Begin starts a new frame. Navigation keys are applied to the focus using the
// layout of the last frame, up to the first key that targets an element.
func (v *View) Begin() *Frame {
	f := &Frame{view: v, actions: map[render.ID]action{}}
	clear(v.closed)
	for len(v.keys) > 0 {
		k := v.keys[0]
		v.keys = v.keys[1:]
		if id, a, ok := v.dispatch(k); ok {
			f.actions[id] = a
			f.dispatched = true
			break
		}
	}
	return f
}

// maxFramesPerDraw bounds the number of frames Draw builds.
const maxFramesPerDraw = 1024

// Draw builds frames with draw until all queued keys are dispatched and the
// effects of the last one are visible, and returns the layout of the last
// frame.
func (v *View) Draw(width, height int, draw func(render.Surface)) *term.Buffer {
	var buf *term.Buffer
	for i := 0; i < maxFramesPerDraw; i++ {
		f := v.Begin()
		draw(f)
		buf = f.Render(width, height)
		if !f.dispatched && !v.Pending() {
			break
		}
	}
	return buf
}

// dispatch either applies k as navigation and returns false, or returns the
// element targeted by k.
func (v *View) dispatch(k ui.Key) (render.ID, action, bool) {
	if w, ok := v.TopWindow(); ok {
		if k == ui.K(ui.Esc) {
			v.windows = v.windows[:len(v.windows)-1]
			v.closed[w] = true
			return w, action{kind: actClose}, true
		}
		if edit, ok := v.windowEdit[w]; ok {
			return edit, action{kind: actEdit, key: k}, true
		}
		if k == ui.K(ui.Enter) {
			return w, action{kind: actSubmit}, true
		}
		return "", action{}, false
	}

	switch k {
	case ui.K(ui.Up):
		v.moveRow(-1)
		return "", action{}, false
	case ui.K(ui.Down):
		v.moveRow(1)
		return "", action{}, false
	case ui.K(ui.PageUp):
		v.moveRow(-v.pageSize)
		return "", action{}, false
	case ui.K(ui.PageDown):
		v.moveRow(v.pageSize)
		return "", action{}, false
	case ui.K(ui.Home):
		v.moveFocus(-len(v.order))
		return "", action{}, false
	case ui.K(ui.End):
		v.moveFocus(len(v.order))
		return "", action{}, false
	}

	if v.focusIdx >= len(v.order) {
		return "", action{}, false
	}
	fe := v.order[v.focusIdx]
	switch fe.kind {
	case kindHeader:
		switch {
		case k == ui.K(ui.Enter) || k == ui.K(' '):
			return fe.id, action{kind: actClick}, true
		case k == ui.K(ui.Right):
			if !fe.open {
				return fe.id, action{kind: actClick}, true
			}
			v.moveFocus(1)
		case k == ui.K(ui.Left):
			if fe.open {
				return fe.id, action{kind: actClick}, true
			}
			v.focusParent(fe)
		}
	case kindLine:
		switch {
		case k == ui.K(ui.Enter) || k == ui.K('e'):
			return fe.id, action{kind: actActivate}, true
		case k == ui.K(' '):
			return fe.id, action{kind: actClick}, true
		case k == ui.K(ui.Left):
			v.focusParent(fe)
		}
	case kindSelectable:
		switch {
		case k == ui.K(ui.Enter) || k == ui.K(' '):
			return fe.id, action{kind: actClickActivate}, true
		case k == ui.K(ui.Left) && v.sameRow(v.focusIdx-1):
			v.moveFocus(-1)
		case k == ui.K(ui.Right) && v.sameRow(v.focusIdx+1):
			v.moveFocus(1)
		}
	}
	return "", action{}, false
}

func (v *View) moveFocus(delta int) {
	if len(v.order) == 0 {
		return
	}
	i := min(max(v.focusIdx+delta, 0), len(v.order)-1)
	v.focusIdx = i
	v.focus = v.order[i].id
}

// moveRow moves the focus to the first element of the row delta rows away,
// counting only rows with focusable elements.
func (v *View) moveRow(delta int) {
	if len(v.order) == 0 {
		return
	}
	var starts []int
	cur := 0
	for i, fe := range v.order {
		if i == 0 || fe.row != v.order[i-1].row {
			starts = append(starts, i)
		}
		if i == v.focusIdx {
			cur = len(starts) - 1
		}
	}
	i := starts[min(max(cur+delta, 0), len(starts)-1)]
	v.focusIdx = i
	v.focus = v.order[i].id
}

func (v *View) sameRow(i int) bool {
	return i >= 0 && i < len(v.order) && v.order[i].row == v.order[v.focusIdx].row
}

func (v *View) focusParent(fe focusable) {
	if fe.parent == "" {
		return
	}
	for i, o := range v.order {
		if o.id == fe.parent {
			v.focusIdx = i
			v.focus = o.id
			return
		}
	}
}
