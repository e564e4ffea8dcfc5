package render

import (
	"fmt"
	"strings"
)

// Op is the type of an Instruction.
type Op uint8

// Possible values of Op.
const (
	OpLine Op = iota
	OpBeginCollapsible
	OpEndCollapsible
	OpBeginWindow
	OpEndWindow
	OpTextEdit
	OpSelectable
)

// Instruction is a recorded call to a Surface.
type Instruction struct {
	Op    Op
	ID    ID
	Text  string
	State bool
}

// Recorder is a Surface that records the instructions it receives, and
// replays scripted interactions. It is used for tests and for non-interactive
// output.
type Recorder struct {
	Instructions []Instruction
	// Responses maps IDs to the response returned the next time an element
	// with that ID is emitted. Each response is used once.
	Responses map[ID]Response
	// Edits maps IDs of text edits to the text they are set to the next time
	// they are emitted. Each edit is used once and implies Changed.
	Edits map[ID]string
}

var _ Surface = (*Recorder)(nil)

// Respond schedules a response for the next emission of id.
func (r *Recorder) Respond(id ID, resp Response) {
	if r.Responses == nil {
		r.Responses = make(map[ID]Response)
	}
	r.Responses[id] = resp
}

// Reset clears the recorded instructions.
func (r *Recorder) Reset() { r.Instructions = r.Instructions[:0] }

func (r *Recorder) take(id ID) Response {
	resp, ok := r.Responses[id]
	if ok {
		delete(r.Responses, id)
	}
	return resp
}

func (r *Recorder) add(op Op, id ID, text string, state bool) {
	r.Instructions = append(r.Instructions, Instruction{op, id, text, state})
}

func (r *Recorder) Line(id ID, text string) Response {
	r.add(OpLine, id, text, false)
	return r.take(id)
}

func (r *Recorder) BeginCollapsible(id ID, label string, open bool) Response {
	r.add(OpBeginCollapsible, id, label, open)
	return r.take(id)
}

func (r *Recorder) EndCollapsible() { r.add(OpEndCollapsible, "", "", false) }

func (r *Recorder) BeginWindow(id ID, title string) Response {
	r.add(OpBeginWindow, id, title, false)
	return r.take(id)
}

func (r *Recorder) EndWindow() { r.add(OpEndWindow, "", "", false) }

func (r *Recorder) TextEdit(id ID, buf *EditBuffer) Response {
	resp := r.take(id)
	if text, ok := r.Edits[id]; ok {
		delete(r.Edits, id)
		buf.Text, buf.Dot = text, len(text)
		resp.Changed = true
	}
	r.add(OpTextEdit, id, buf.Text, false)
	return resp
}

func (r *Recorder) Selectable(id ID, label string, selected bool) Response {
	r.add(OpSelectable, id, label, selected)
	return r.take(id)
}

// IDs returns the IDs of all recorded instructions that carry one.
func (r *Recorder) IDs() []ID {
	var ids []ID
	for _, ins := range r.Instructions {
		if ins.ID != "" {
			ids = append(ids, ins.ID)
		}
	}
	return ids
}

// Outline formats the recorded instructions as an indented outline, one
// element per line. Collapsible headers are prefixed with "▾" when open and
// "▸" when closed.
func (r *Recorder) Outline() string {
	var sb strings.Builder
	depth := 0
	indent := func() { sb.WriteString(strings.Repeat("  ", depth)) }
	for _, ins := range r.Instructions {
		switch ins.Op {
		case OpLine, OpTextEdit:
			indent()
			sb.WriteString(ins.Text)
		case OpBeginCollapsible, OpBeginWindow:
			indent()
			if ins.Op == OpBeginWindow {
				fmt.Fprintf(&sb, "[%s]", ins.Text)
			} else if ins.State {
				sb.WriteString("▾ " + ins.Text)
			} else {
				sb.WriteString("▸ " + ins.Text)
			}
			depth++
		case OpEndCollapsible, OpEndWindow:
			depth--
			continue
		case OpSelectable:
			indent()
			if ins.State {
				fmt.Fprintf(&sb, "*%s*", ins.Text)
			} else {
				sb.WriteString(ins.Text)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
