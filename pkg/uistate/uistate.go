// Package uistate keeps transient view state for tree nodes, keyed by node
// identity.
//
// The state lives outside the tree, so the tree can be replaced or mutated
// between frames. A missing entry always reads as the default state:
// collapsed, with no edit in progress. Entries for identities that no longer
// exist are kept until their scope is evicted.
package uistate

import (
	"sort"

	"github.com/kregerl/nbt-editor/pkg/render"
)

// NodeState is the view state of one node.
type NodeState struct {
	// Expanded is meaningful only when Explicit is set; otherwise the view's
	// default applies.
	Expanded bool
	Explicit bool
	Edit     *EditState
}

// EditState is an edit in progress.
type EditState struct {
	Buffer render.EditBuffer
	// Err is the error from the last failed commit, shown with the edit.
	Err string
}

// Scope holds the state of the nodes of one document. A nil *Scope reads as
// empty and ignores writes.
type Scope struct {
	nodes map[render.ID]*NodeState
}

// NewScope returns an empty Scope.
func NewScope() *Scope {
	return &Scope{nodes: make(map[render.ID]*NodeState)}
}

// Get returns a copy of the state of id.
func (s *Scope) Get(id render.ID) NodeState {
	if s == nil {
		return NodeState{}
	}
	if st, ok := s.nodes[id]; ok {
		return *st
	}
	return NodeState{}
}

func (s *Scope) node(id render.ID) *NodeState {
	st, ok := s.nodes[id]
	if !ok {
		st = &NodeState{}
		s.nodes[id] = st
	}
	return st
}

// Expanded returns whether id is expanded, using def if it has never been
// toggled.
func (s *Scope) Expanded(id render.ID, def bool) bool {
	st := s.Get(id)
	if !st.Explicit {
		return def
	}
	return st.Expanded
}

// SetExpanded records the expanded state of id.
func (s *Scope) SetExpanded(id render.ID, expanded bool) {
	if s == nil {
		return
	}
	st := s.node(id)
	st.Expanded, st.Explicit = expanded, true
}

// Toggle flips the expanded state of id and returns the new state.
func (s *Scope) Toggle(id render.ID, def bool) bool {
	expanded := !s.Expanded(id, def)
	s.SetExpanded(id, expanded)
	return expanded
}

// Edit returns the edit in progress on id, or nil.
func (s *Scope) Edit(id render.ID) *EditState {
	if s == nil {
		return nil
	}
	if st, ok := s.nodes[id]; ok {
		return st.Edit
	}
	return nil
}

// OpenEdit starts an edit on id seeded with text. An edit already in
// progress is kept.
func (s *Scope) OpenEdit(id render.ID, text string) *EditState {
	if s == nil {
		return nil
	}
	st := s.node(id)
	if st.Edit == nil {
		st.Edit = &EditState{Buffer: *render.NewEditBuffer(text)}
	}
	return st.Edit
}

// CloseEdit discards the edit on id.
func (s *Scope) CloseEdit(id render.ID) {
	if s == nil {
		return
	}
	if st, ok := s.nodes[id]; ok {
		st.Edit = nil
		if !st.Explicit {
			delete(s.nodes, id)
		}
	}
}

// Editing returns the identities with an edit in progress, sorted.
func (s *Scope) Editing() []render.ID {
	if s == nil {
		return nil
	}
	var ids []render.ID
	for id, st := range s.nodes {
		if st.Edit != nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of entries.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Table maps document titles to scopes.
type Table struct {
	scopes map[string]*Scope
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{scopes: make(map[string]*Scope)}
}

// Scope returns the scope for title, creating it if needed.
func (t *Table) Scope(title string) *Scope {
	s, ok := t.scopes[title]
	if !ok {
		s = NewScope()
		t.scopes[title] = s
	}
	return s
}

// Lookup returns the scope for title if it exists. The returned *Scope may
// be nil, which is still usable.
func (t *Table) Lookup(title string) (*Scope, bool) {
	s, ok := t.scopes[title]
	return s, ok
}

// Evict drops the scope for title.
func (t *Table) Evict(title string) {
	delete(t.scopes, title)
}

// Len returns the number of scopes.
func (t *Table) Len() int { return len(t.scopes) }
