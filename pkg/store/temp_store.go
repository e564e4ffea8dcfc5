package store

import (
	"os"

	"github.com/kregerl/nbt-editor/pkg/testutil"
)

// MustTempStore returns a Store backed by a temporary file, which is closed
// and removed when the test finishes.
func MustTempStore(c testutil.Cleanuper) DBStore {
	f, err := os.CreateTemp("", "nbted.test")
	if err != nil {
		panic(err)
	}
	name := f.Name()
	f.Close()
	st, err := NewStore(name)
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() {
		st.Close()
		os.Remove(name)
	})
	return st
}
