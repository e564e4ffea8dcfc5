package export

import (
	"io"

	"github.com/kregerl/nbt-editor/pkg/render"
	"github.com/kregerl/nbt-editor/pkg/tag"
	"github.com/kregerl/nbt-editor/pkg/walk"
)

// writeTree writes the view of t with everything expanded.
func writeTree(w io.Writer, t *tag.Tree, opts Options) error {
	r := &render.Recorder{}
	walker := &walk.Walker{Surface: r, MaxDepth: opts.MaxDepth, DefaultExpanded: true}
	res := walker.Walk("tree", t.Root)
	if res.Err != nil {
		return res.Err
	}
	_, err := io.WriteString(w, r.Outline())
	return err
}
