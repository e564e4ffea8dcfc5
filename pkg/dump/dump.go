// Package dump implements the non-interactive subprogram, which prints
// documents to stdout in one of the export formats.
package dump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kregerl/nbt-editor/pkg/doc"
	"github.com/kregerl/nbt-editor/pkg/export"
	"github.com/kregerl/nbt-editor/pkg/filepick"
	"github.com/kregerl/nbt-editor/pkg/ingest"
	"github.com/kregerl/nbt-editor/pkg/logutil"
	"github.com/kregerl/nbt-editor/pkg/prog"
	"github.com/kregerl/nbt-editor/pkg/sys"
)

var logger = logutil.GetLogger("dump")

// Program is the dump subprogram. It runs when -dump is given, or when
// stdout is not a terminal.
type Program struct {
	dump   bool
	format string
	config *prog.ConfigFlags
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.dump, "dump", false,
		"print documents to stdout instead of viewing them; implied when stdout is not a terminal")
	fs.StringVar(&p.format, "format", string(export.Tree),
		"output format of -dump: tree, yaml, json or cbor")
	p.config = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.dump && sys.IsATTY(fds[1].Fd()) {
		return prog.ErrNotSuitable
	}
	format, err := export.ParseFormat(p.format)
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	cfg, err := p.config.Load()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		path, ok, err := filepick.NewPrompt(fds[0], fds[2]).Pick()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no file to dump")
		}
		args = []string{path}
	}

	results := ingest.LoadAll(context.Background(), args, cfg.Open.Parallel, nil)
	opts := export.Options{MaxDepth: cfg.View.MaxDepth}
	failed := false
	first := true
	for _, r := range results {
		if r.Err != nil {
			logger.Error("cannot open", "path", r.Path, "err", r.Err)
			fmt.Fprintln(fds[2], r.Err)
			failed = true
			continue
		}
		if len(results) > 1 {
			writeSeparator(fds[1], format, r.Doc, first)
		}
		first = false
		if err := export.Write(fds[1], r.Doc.Tree, format, opts); err != nil {
			return fmt.Errorf("%s: %w", r.Path, err)
		}
		logger.Debug("dumped", "path", r.Path, "format", format)
	}
	if failed {
		return prog.Exit(1)
	}
	return nil
}

// writeSeparator introduces a document when more than one is printed. JSON
// values and CBOR items are simply concatenated into a stream.
func writeSeparator(w io.Writer, f export.Format, d *doc.Document, first bool) {
	switch f {
	case export.Tree:
		if !first {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "==> %s (%s) <==\n", d.Path, d.Envelope)
	case export.YAML:
		fmt.Fprintf(w, "--- # %s\n", d.Path)
	}
}
