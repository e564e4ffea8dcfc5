// Package walk renders tag trees to a render.Surface.
//
// A Walker traverses a compound depth-first on every frame and emits one
// element per node. Each node gets an identity derived from its path from the
// root, which is used to look up its view state in a uistate.Scope:
//
//   - A compound entry named n under the node p has identity p + "/" + the Go
//     quoting of n, so names containing separators cannot collide.
//   - The i-th element of a list or array under p has identity p + "[i]".
//   - The edit window of a node with identity p has identity p + "#edit".
//
// The index i counts the elements visited in that container during the
// current pass, starting from 0, so it equals the element's position. Array
// elements are not nodes: they are not counted in Result.Visited and are not
// checked for identity collisions, since the array's own identity is.
//
// Identities therefore stay the same across frames as long as the tree is not
// structurally changed. Inserting into a list shifts the identities of the
// elements after it, which moves their view state along with their positions.
package walk

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kregerl/nbt-editor/pkg/logutil"
	"github.com/kregerl/nbt-editor/pkg/render"
	"github.com/kregerl/nbt-editor/pkg/tag"
	"github.com/kregerl/nbt-editor/pkg/uistate"
)

// DefaultMaxDepth is the nesting limit used when Walker.MaxDepth is zero.
const DefaultMaxDepth = 512

// NestingLimitText is shown in place of nodes beyond the nesting limit.
const NestingLimitText = "… nesting limit"

var logger = logutil.GetLogger("walk")

// Walker holds the parameters of a traversal.
type Walker struct {
	Surface render.Surface
	// Scope holds the view state. A nil Scope makes every node render in its
	// default state and discards toggles.
	Scope *uistate.Scope
	// MaxDepth limits how deep the walker recurses. The entries of the root
	// are at depth 1. Zero means DefaultMaxDepth.
	MaxDepth int
	// DefaultExpanded is the state of containers that have never been
	// toggled.
	DefaultExpanded bool
	// Logger defaults to the package logger.
	Logger *slog.Logger
}

// Result summarizes a traversal.
type Result struct {
	// Number of nodes visited. Array elements are not nodes.
	Visited int
	// Edits committed during the traversal, in the order they were applied.
	Edits []Edit
	// Non-nil if two nodes were assigned the same identity.
	Err error
}

// Edit is a committed edit.
type Edit struct {
	ID    render.ID
	Value tag.Value
}

// IdentityCollisionError is reported when two nodes of one traversal are
// assigned the same identity.
type IdentityCollisionError struct {
	ID render.ID
}

func (e *IdentityCollisionError) Error() string {
	return fmt.Sprintf("identity %s assigned twice in one pass", strconv.Quote(string(e.ID)))
}

// Walk renders the entries of c under the identity prefix root. Activations
// are ignored and the tree is never modified; only expansion state changes.
func (w *Walker) Walk(root render.ID, c *tag.Compound) Result {
	return w.walk(root, c, false)
}

// WalkMut is like Walk, but activating a scalar opens an edit window, and
// edits submitted in an edit window are parsed and stored in the tree.
func (w *Walker) WalkMut(root render.ID, c *tag.Compound) Result {
	return w.walk(root, c, true)
}

func (w *Walker) walk(root render.ID, c *tag.Compound, mut bool) Result {
	p := &pass{Walker: w, mut: mut, seen: make(map[render.ID]struct{})}
	p.maxDepth = w.MaxDepth
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	p.logger = w.Logger
	if p.logger == nil {
		p.logger = logger
	}
	p.compoundEntries(root, c, 1)
	return p.result
}

// ChildID returns the identity of the entry named name in the compound
// identified by parent.
func ChildID(parent render.ID, name string) render.ID {
	return parent + render.ID("/"+strconv.Quote(name))
}

// ElemID returns the identity of the i-th element of the list or array
// identified by parent.
func ElemID(parent render.ID, i int) render.ID {
	return parent + render.ID("["+strconv.Itoa(i)+"]")
}

// EditID returns the identity of the edit window of the node id.
func EditID(id render.ID) render.ID { return id + "#edit" }

type pass struct {
	*Walker
	mut      bool
	maxDepth int
	logger   *slog.Logger
	seen     map[render.ID]struct{}
	result   Result
}

// claim records a visit to id and reports a collision if it was seen before
// in this pass.
func (p *pass) claim(id render.ID) {
	p.result.Visited++
	if _, dup := p.seen[id]; dup {
		err := &IdentityCollisionError{id}
		if p.result.Err == nil {
			p.result.Err = err
		}
		p.logger.Error("identity collision", "id", string(id))
		return
	}
	p.seen[id] = struct{}{}
}

func (p *pass) compoundEntries(id render.ID, c *tag.Compound, depth int) {
	for i := 0; i < c.Len(); i++ {
		name, v := c.At(i)
		p.node(ChildID(id, name), name, v, depth, func(nv tag.Value) { c.Set(name, nv) })
	}
}

func prefixed(name, text string) string {
	if name == "" {
		return text
	}
	return name + ": " + text
}

// node renders one node. set replaces the node in its parent.
func (p *pass) node(id render.ID, name string, v tag.Value, depth int, set func(tag.Value)) {
	p.claim(id)
	if depth > p.maxDepth {
		p.Surface.Line(id, prefixed(name, NestingLimitText))
		return
	}
	switch v := v.(type) {
	case tag.String:
		resp := p.Surface.Line(id, string(v))
		p.editable(id, name, v.Kind(), string(v), resp, func(text string) (tag.Value, error) {
			nv, err := tag.ParseAs(tag.KindString, text)
			if err == nil {
				set(nv)
			}
			return nv, err
		})
	case *tag.List:
		if p.collapsible(id, name) {
			for i, item := range v.Items {
				i := i
				p.node(ElemID(id, i), "", item, depth+1, func(nv tag.Value) { v.Items[i] = nv })
			}
		}
		p.Surface.EndCollapsible()
	case *tag.Compound:
		label := name
		if label == "" {
			label = tag.Format(v)
		}
		if p.collapsible(id, label) {
			p.compoundEntries(id, v, depth+1)
		}
		p.Surface.EndCollapsible()
	case tag.ByteArray, tag.IntArray, tag.LongArray:
		if p.collapsible(id, name) {
			n, _ := tag.ArrayLen(v)
			ek, _ := tag.ElemKind(v.Kind())
			for i := 0; i < n; i++ {
				i := i
				eid := ElemID(id, i)
				text := tag.FormatElem(v, i)
				resp := p.Surface.Line(eid, text)
				p.editable(eid, "", ek, text, resp, func(text string) (tag.Value, error) {
					return v, tag.SetElem(v, i, text)
				})
			}
		}
		p.Surface.EndCollapsible()
	default:
		text := tag.Format(v)
		resp := p.Surface.Line(id, prefixed(name, text))
		p.editable(id, name, v.Kind(), text, resp, func(text string) (tag.Value, error) {
			nv, err := tag.ParseAs(v.Kind(), text)
			if err == nil {
				set(nv)
			}
			return nv, err
		})
	}
}

// collapsible begins the region of a container and returns whether its
// children should be rendered.
func (p *pass) collapsible(id render.ID, label string) bool {
	open := p.Scope.Expanded(id, p.DefaultExpanded)
	resp := p.Surface.BeginCollapsible(id, label, open)
	if resp.Clicked || resp.Activated {
		open = !open
		p.Scope.SetExpanded(id, open)
	}
	return open
}

// editable handles the edit affordance of the node id. commit parses the
// text, stores it and returns the stored value.
func (p *pass) editable(id render.ID, name string, k tag.Kind, text string, resp render.Response, commit func(string) (tag.Value, error)) {
	if !p.mut {
		return
	}
	if resp.Activated {
		p.Scope.OpenEdit(id, text)
	}
	edit := p.Scope.Edit(id)
	if edit == nil {
		return
	}
	wid := EditID(id)
	title := "Edit " + k.String()
	if name != "" {
		title = "Edit " + name + " (" + k.String() + ")"
	}
	wresp := p.Surface.BeginWindow(wid, title)
	tresp := p.Surface.TextEdit(wid+".text", &edit.Buffer)
	if edit.Err != "" {
		p.Surface.Line(wid+".error", edit.Err)
	}
	p.Surface.EndWindow()
	if tresp.Changed {
		edit.Err = ""
	}
	switch {
	case wresp.Closed:
		p.Scope.CloseEdit(id)
	case tresp.Submitted || wresp.Submitted:
		nv, err := commit(edit.Buffer.Text)
		if err != nil {
			edit.Err = err.Error()
			p.logger.Debug("edit rejected", "id", string(id), "err", err)
			return
		}
		p.result.Edits = append(p.result.Edits, Edit{id, nv})
		p.Scope.CloseEdit(id)
	}
}
