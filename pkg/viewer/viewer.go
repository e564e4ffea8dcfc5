// Package viewer implements the interactive subprogram of nbted.
package viewer

import (
	"context"
	"fmt"
	"os"

	"github.com/kregerl/nbt-editor/pkg/cli"
	"github.com/kregerl/nbt-editor/pkg/config"
	"github.com/kregerl/nbt-editor/pkg/doc"
	"github.com/kregerl/nbt-editor/pkg/filepick"
	"github.com/kregerl/nbt-editor/pkg/ingest"
	"github.com/kregerl/nbt-editor/pkg/logutil"
	"github.com/kregerl/nbt-editor/pkg/prog"
	"github.com/kregerl/nbt-editor/pkg/store"
	"github.com/kregerl/nbt-editor/pkg/store/storedefs"
	"github.com/kregerl/nbt-editor/pkg/sys"
	"github.com/kregerl/nbt-editor/pkg/ui"
)

var logger = logutil.GetLogger("viewer")

// Program is the interactive subprogram. It runs when stdin and stderr are
// terminals; the interface is drawn on stderr.
type Program struct {
	config *prog.ConfigFlags
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	p.config = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !sys.IsATTY(fds[0].Fd()) || !sys.IsATTY(fds[2].Fd()) {
		return prog.ErrNotSuitable
	}
	cfg, err := p.config.Load()
	if err != nil {
		return err
	}
	logger.Info("starting", "pid", os.Getpid(), "config", cfg.Path)

	var st storedefs.Store
	if cfg.Store.DB != "" {
		s, err := store.NewStore(cfg.Store.DB)
		if err != nil {
			// The viewer is still useful without the recent list.
			fmt.Fprintln(fds[2], "cannot open database:", err)
		} else {
			defer s.Close()
			st = s
		}
	}

	docs := doc.NewSet()
	var failed []ingest.Result
	for _, r := range ingest.LoadAll(context.Background(), args, cfg.Open.Parallel, nil) {
		if r.Err != nil {
			logger.Error("cannot open", "path", r.Path, "err", r.Err)
			failed = append(failed, r)
			continue
		}
		title := docs.Open(r.Doc)
		logger.Info("opened", "path", r.Path, "title", title, "envelope", r.Doc.Envelope)
		if st != nil {
			if _, err := st.AddDoc(r.Path, r.Doc.Envelope); err != nil {
				logger.Warn("cannot record document", "path", r.Path, "err", err)
			}
		}
	}
	// The first document given on the command line is shown first.
	if titles := docs.Layout().Tabs; len(titles) > 0 {
		docs.Activate(titles[0])
	}

	app := cli.NewApp(cli.AppSpec{
		TTY:       cli.NewTTY(fds[0], fds[2]),
		Docs:      docs,
		Store:     st,
		Picker:    picker(cfg),
		MaxDepth:  cfg.View.MaxDepth,
		Hierarchy: cfg.View.Hierarchy,
	})
	for _, r := range failed {
		app.Notify(ui.T(r.Err.Error(), ui.Fg(ui.Red)))
	}
	return app.Run()
}

func picker(cfg *config.Config) filepick.Picker {
	if cfg.Open.Picker != config.PickerNative {
		return nil
	}
	if !filepick.Available {
		logger.Warn("native file picker not supported by this build; asking for paths instead")
		return nil
	}
	return filepick.Native{Title: "Open NBT file"}
}
