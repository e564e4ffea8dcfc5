// nbted shows Minecraft NBT documents as collapsible trees in the terminal,
// and lets scalar values be edited in place. When stdout is not a terminal,
// or with -dump, it prints documents as text, YAML, JSON or CBOR instead.
package main

import (
	"os"

	"github.com/kregerl/nbt-editor/pkg/buildinfo"
	"github.com/kregerl/nbt-editor/pkg/dump"
	"github.com/kregerl/nbt-editor/pkg/prog"
	"github.com/kregerl/nbt-editor/pkg/viewer"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&buildinfo.Program{}, &dump.Program{}, &viewer.Program{})))
}
