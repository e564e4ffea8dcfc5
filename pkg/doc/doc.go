// Package doc manages the set of open documents.
package doc

import (
	"sort"
	"strconv"

	"github.com/kregerl/nbt-editor/pkg/nbt"
	"github.com/kregerl/nbt-editor/pkg/tag"
	"github.com/kregerl/nbt-editor/pkg/uistate"
)

// Document is a loaded tree together with where it came from.
type Document struct {
	Title string
	// Path is empty for documents that were not read from a file.
	Path     string
	Envelope nbt.Envelope
	Tree     *tag.Tree
	// Dirty is set when the tree has been edited.
	Dirty bool
}

// Layout records which documents are placed in tabs, and which tab is
// active. Active is -1 when there are no tabs.
type Layout struct {
	Tabs   []string
	Active int
}

// Set holds the open documents by title, along with their view state.
//
// Titles are unique. When a document is opened with a title that is already
// taken, it is renamed by appending " (n)" with the smallest n >= 2 that
// gives a free title. An existing document is never replaced.
//
// A Set is not safe for concurrent use.
type Set struct {
	docs   map[string]*Document
	tabs   []string
	active int
	states *uistate.Table
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{docs: make(map[string]*Document), active: -1, states: uistate.NewTable()}
}

// FreeTitle returns title if it is not taken, or the disambiguated title that
// Open would use.
func (s *Set) FreeTitle(title string) string {
	if _, taken := s.docs[title]; !taken {
		return title
	}
	for n := 2; ; n++ {
		t := title + " (" + strconv.Itoa(n) + ")"
		if _, taken := s.docs[t]; !taken {
			return t
		}
	}
}

// Open adds d to the set, places it in a tab and activates it. It returns
// the final title, which is also stored in d.Title.
func (s *Set) Open(d *Document) string {
	d.Title = s.FreeTitle(d.Title)
	s.docs[d.Title] = d
	s.Activate(d.Title)
	return d.Title
}

// Activate makes the tab of title the active one. A document that is not in
// a tab is placed in a new tab after the active one. Unknown titles are
// ignored.
func (s *Set) Activate(title string) {
	if _, ok := s.docs[title]; !ok {
		return
	}
	for i, t := range s.tabs {
		if t == title {
			s.active = i
			return
		}
	}
	at := s.active + 1
	s.tabs = append(s.tabs[:at], append([]string{title}, s.tabs[at:]...)...)
	s.active = at
}

// Hide removes title from the tabs without closing the document.
func (s *Set) Hide(title string) {
	for i, t := range s.tabs {
		if t == title {
			s.removeTab(i)
			return
		}
	}
}

func (s *Set) removeTab(i int) {
	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
	if s.active > i || s.active >= len(s.tabs) {
		s.active--
	}
	if s.active < 0 && len(s.tabs) > 0 {
		s.active = 0
	}
}

// Close removes the document, its tab and its view state. It returns false if
// there is no such document.
func (s *Set) Close(title string) bool {
	if _, ok := s.docs[title]; !ok {
		return false
	}
	delete(s.docs, title)
	s.states.Evict(title)
	s.Hide(title)
	return true
}

// Get returns the document with the given title.
func (s *Set) Get(title string) (*Document, bool) {
	d, ok := s.docs[title]
	return d, ok
}

// Active returns the document in the active tab, or nil.
func (s *Set) Active() *Document {
	if s.active < 0 {
		return nil
	}
	return s.docs[s.tabs[s.active]]
}

// Titles returns all titles in lexicographic order.
func (s *Set) Titles() []string {
	titles := make([]string, 0, len(s.docs))
	for t := range s.docs {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// Len returns the number of documents.
func (s *Set) Len() int { return len(s.docs) }

// Layout returns a copy of the tab layout.
func (s *Set) Layout() Layout {
	return Layout{append([]string(nil), s.tabs...), s.active}
}

// Cycle activates the document delta positions away from the active one in
// title order, wrapping around.
func (s *Set) Cycle(delta int) {
	titles := s.Titles()
	n := len(titles)
	if n == 0 {
		return
	}
	i := 0
	if d := s.Active(); d != nil {
		i = sort.SearchStrings(titles, d.Title)
	}
	s.Activate(titles[((i+delta)%n+n)%n])
}

// Scope returns the view state of the document with the given title.
// Unknown titles get a nil Scope, which reads as the default state.
func (s *Set) Scope(title string) *uistate.Scope {
	if _, ok := s.docs[title]; !ok {
		return nil
	}
	return s.states.Scope(title)
}
