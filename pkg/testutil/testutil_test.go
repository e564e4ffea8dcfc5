package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kregerl/nbt-editor/pkg/nbt"
)

type cleanuper struct{ fns []func() }

func (c *cleanuper) Cleanup(fn func()) { c.fns = append(c.fns, fn) }

func (c *cleanuper) runCleanups() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
}

func TestTempDir(t *testing.T) {
	c := &cleanuper{}
	dir := TempDir(c)
	if stat, err := os.Stat(dir); err != nil || !stat.IsDir() {
		t.Fatalf("TempDir returned %q which is not a dir", dir)
	}
	if resolved, _ := filepath.EvalSymlinks(dir); resolved != dir {
		t.Errorf("TempDir returned %q which resolves to %q", dir, resolved)
	}
	c.runCleanups()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("dir still exists after cleanup")
	}
}

func TestInTempDir(t *testing.T) {
	before, _ := os.Getwd()
	c := &cleanuper{}
	dir := InTempDir(c)
	if wd, _ := os.Getwd(); wd != dir {
		t.Errorf("working directory is %q, want %q", wd, dir)
	}
	c.runCleanups()
	if wd, _ := os.Getwd(); wd != before {
		t.Errorf("working directory is %q after cleanup, want %q", wd, before)
	}
}

func TestSet(t *testing.T) {
	c := &cleanuper{}
	x := 1
	Set(c, &x, 2)
	if x != 2 {
		t.Errorf("x = %d after Set", x)
	}
	c.runCleanups()
	if x != 1 {
		t.Errorf("x = %d after cleanup", x)
	}
}

func TestSetenv(t *testing.T) {
	c := &cleanuper{}
	Unsetenv(c, "NBTED_TEST_VAR")
	Setenv(c, "NBTED_TEST_VAR", "x")
	if os.Getenv("NBTED_TEST_VAR") != "x" {
		t.Error("Setenv did not set the variable")
	}
	c.runCleanups()
	if _, ok := os.LookupEnv("NBTED_TEST_VAR"); ok {
		t.Error("variable still set after cleanup")
	}
}

func TestWriteTree(t *testing.T) {
	path := filepath.Join(TempDir(t), "a.dat")
	WriteTree(path, HealthItems(), nbt.Gzip)
	data, err := os.ReadFile(path)
	if err != nil || len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		t.Errorf("file is % x, %v", data, err)
	}
}
