package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kregerl/nbt-editor/pkg/testutil"
)

func TestParse(t *testing.T) {
	c, err := Parse("test.toml", `
[log]
file = "/tmp/nbted.log"
level = "debug"

[view]
max_depth = 64
hierarchy = true

[open]
picker = "native"

[store]
db = "/tmp/recent.db"
`)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Log:   Log{File: "/tmp/nbted.log", Level: "debug"},
		View:  View{MaxDepth: 64, Hierarchy: true},
		Open:  Open{Picker: PickerNative, Parallel: 4},
		Store: Store{DB: "/tmp/recent.db"},
		Path:  "test.toml",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

var invalidTests = []struct {
	name, data, wantErr string
}{
	{"syntax", "[log", "parse error in test.toml"},
	{"level", "[log]\nlevel = \"loud\"", "log.level"},
	{"depth", "[view]\nmax_depth = -1", "view.max_depth"},
	{"picker", "[open]\npicker = \"zenity\"", "open.picker"},
	{"parallel", "[open]\nparallel = -2", "open.parallel"},
}

func TestParse_Invalid(t *testing.T) {
	for _, test := range invalidTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse("test.toml", test.data)
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("got error %v, want one containing %q", err, test.wantErr)
			}
		})
	}
}

func TestLoad_MissingDefaultIsOK(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.Setenv(t, "XDG_CONFIG_HOME", dir)
	testutil.Setenv(t, "HOME", dir)
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.Setenv(t, "XDG_CONFIG_HOME", dir)
	testutil.Setenv(t, "HOME", dir)
	path, err := DefaultPath()
	if err != nil {
		t.Skip("no config dir on this platform:", err)
	}
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte("[view]\nhierarchy = true\n"), 0644)
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !c.View.Hierarchy || c.Path != path {
		t.Errorf("got %+v", c)
	}
}

func TestLoad_MissingExplicitIsError(t *testing.T) {
	if _, err := Load(filepath.Join(testutil.TempDir(t), "nope.toml")); err == nil {
		t.Error("no error for a missing explicit path")
	}
}
