// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/kregerl/nbt-editor/pkg/nbt"
	"github.com/kregerl/nbt-editor/pkg/store/storedefs"
)

func paths(docs []storedefs.Doc) []string {
	ps := make([]string, len(docs))
	for i, d := range docs {
		ps[i] = d.Path
	}
	return ps
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestRecent tests the recent documents API.
func TestRecent(t *testing.T, store storedefs.Store) {
	for _, p := range []string{"/a.dat", "/b.dat", "/c.dat"} {
		if _, err := store.AddDoc(p, nbt.Gzip); err != nil {
			t.Fatalf("AddDoc(%q) -> %v", p, err)
		}
	}
	// Reopening moves a document to the front without duplicating it.
	if _, err := store.AddDoc("/a.dat", nbt.Raw); err != nil {
		t.Fatal(err)
	}

	docs, err := store.Docs(0)
	if want := []string{"/a.dat", "/c.dat", "/b.dat"}; err != nil || !equalStrings(paths(docs), want) {
		t.Errorf("Docs(0) -> %v, %v, want %v", paths(docs), err, want)
	}
	docs, err = store.Docs(2)
	if want := []string{"/a.dat", "/c.dat"}; err != nil || !equalStrings(paths(docs), want) {
		t.Errorf("Docs(2) -> %v, %v, want %v", paths(docs), err, want)
	}

	doc, err := store.Doc("/a.dat")
	if err != nil || doc.Envelope != nbt.Raw || doc.Opened.IsZero() {
		t.Errorf("Doc(/a.dat) -> %+v, %v", doc, err)
	}
	if _, err := store.Doc("/nope.dat"); err != storedefs.ErrNoMatchingDoc {
		t.Errorf("Doc(/nope.dat) -> %v, want ErrNoMatchingDoc", err)
	}

	if err := store.DelDoc("/c.dat"); err != nil {
		t.Fatal(err)
	}
	if err := store.DelDoc("/nope.dat"); err != nil {
		t.Errorf("DelDoc(/nope.dat) -> %v", err)
	}
	docs, _ = store.Docs(0)
	if want := []string{"/a.dat", "/b.dat"}; !equalStrings(paths(docs), want) {
		t.Errorf("Docs(0) after DelDoc -> %v, want %v", paths(docs), want)
	}
}
