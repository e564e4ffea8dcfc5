package store_test

import (
	"path/filepath"
	"testing"

	"github.com/kregerl/nbt-editor/pkg/nbt"
	"github.com/kregerl/nbt-editor/pkg/store"
	"github.com/kregerl/nbt-editor/pkg/store/storetest"
	"github.com/kregerl/nbt-editor/pkg/testutil"
)

func TestRecent(t *testing.T) {
	storetest.TestRecent(t, store.MustTempStore(t))
}

func TestRecent_Persists(t *testing.T) {
	name := filepath.Join(testutil.TempDir(t), "recent.db")
	st, err := store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	st.AddDoc("/world/level.dat", nbt.Gzip)
	st.Close()

	st, err = store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	docs, err := st.Docs(0)
	if err != nil || len(docs) != 1 || docs[0].Path != "/world/level.dat" || docs[0].Envelope != nbt.Gzip {
		t.Errorf("Docs(0) after reopening -> %+v, %v", docs, err)
	}
}
