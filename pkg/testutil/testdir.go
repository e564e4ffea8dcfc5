package testutil

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/kregerl/nbt-editor/pkg/nbt"
	"github.com/kregerl/nbt-editor/pkg/tag"
)

// TempDir creates a temporary directory that is removed when the test
// finishes. Unlike testing.TB.TempDir, symlinks in the returned path are
// resolved, so it can be compared with paths reported by the OS.
func TempDir(c Cleanuper) string {
	dir, err := os.MkdirTemp("", "nbtedtest")
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() { os.RemoveAll(dir) })
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		panic(err)
	}
	return dir
}

// InTempDir is like TempDir, but also changes into the directory, and changes
// back when the test finishes.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	Chdir(c, dir)
	return dir
}

// Chdir changes into dir, and changes back when the test finishes.
func Chdir(c Cleanuper, dir string) {
	old, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
	c.Cleanup(func() { os.Chdir(old) })
}

// WriteTree encodes tree with the given envelope and writes it to path. It
// panics on failure.
func WriteTree(path string, tree *tag.Tree, env nbt.Envelope) {
	var buf bytes.Buffer
	if err := (nbt.Codec{}).Encode(&buf, tree, env); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		panic(err)
	}
}

// HealthItems returns the tree {"health": 20f, "items": []}.
func HealthItems() *tag.Tree {
	return tag.NewTree(tag.NewCompound(
		tag.E("health", tag.Float(20)),
		tag.E("items", tag.NewList())))
}
