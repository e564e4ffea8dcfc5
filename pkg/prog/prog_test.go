package prog_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/kregerl/nbt-editor/pkg/logutil"
	. "github.com/kregerl/nbt-editor/pkg/prog"
	"github.com/kregerl/nbt-editor/pkg/prog/progtest"
	"github.com/kregerl/nbt-editor/pkg/testutil"
)

var (
	Test      = progtest.Test
	ThatNbted = progtest.ThatNbted
)

func TestCommonFlagHandling(t *testing.T) {
	testutil.InTempDir(t)
	t.Cleanup(func() {
		logutil.SetOutput(nil)
		logutil.SetLevel(0)
	})

	Test(t, testProgram{},
		ThatNbted("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatNbted("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatNbted("-help").
			WritesStdoutContaining("Usage: nbted [flags] [file...]"),

		ThatNbted("-log", "log.txt").DoesNothing(),
		ThatNbted("-log", "/a/bad/path/log.txt").
			WritesStderrContaining("/a/bad/path/log.txt"),

		ThatNbted("-log-level", "debug").DoesNothing(),
		ThatNbted("-log-level", "loud").
			ExitsWith(2).
			WritesStderrContaining("bad value for -log-level:"),
	)

	if _, err := os.Stat("log.txt"); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatNbted().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatNbted().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{notSuitable: true}),
		ThatNbted().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatNbted().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatNbted().ExitsWith(2).WritesStderrContaining("lorem ipsum\nUsage:"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatNbted().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatNbted().ExitsWith(0),
	)
}

func TestSharedFlagsRegisteredOnce(t *testing.T) {
	testutil.Setenv(t, "XDG_CONFIG_HOME", testutil.InTempDir(t))
	Test(t,
		Composite(&configProgram{}, &configProgram{}, testProgram{}),
		ThatNbted("-json", "-max-depth", "3").
			WritesStdout("max_depth=3 picker=prompt\nmax_depth=3 picker=prompt\n"),
	)
}

func TestConfigFlags(t *testing.T) {
	testutil.InTempDir(t)
	t.Cleanup(func() {
		logutil.SetOutput(nil)
		logutil.SetLevel(0)
	})
	os.WriteFile("config.toml", []byte(`
[view]
max_depth = 7
[open]
picker = "native"
[store]
db = "from-file.db"
`), 0644)

	Test(t, &configProgram{verbose: true},
		ThatNbted("-config", "config.toml").
			WritesStdout("max_depth=7 picker=native db=from-file.db\n"),
		ThatNbted("-config", "config.toml", "-max-depth", "0", "-db", "x.db").
			WritesStdout("max_depth=0 picker=native db=x.db\n"),
		ThatNbted("-config", "config.toml", "-picker", "zenity").
			ExitsWith(2).
			WritesStderrContaining(`open.picker: must be "prompt" or "native", got "zenity"`),
		ThatNbted("-config", "missing.toml").
			ExitsWith(2).
			WritesStderrContaining("cannot read missing.toml"),
	)
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	returnErr   error
}

func (p testProgram) RegisterFlags(f *FlagSet) {}

func (p testProgram) Run(fds [3]*os.File, args []string) error {
	if p.notSuitable {
		return ErrNotSuitable
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

// A program that prints the configuration and is never the last one.
type configProgram struct {
	verbose bool
	config  *ConfigFlags
	json    *bool
}

func (p *configProgram) RegisterFlags(f *FlagSet) {
	p.config = f.Config()
	p.json = f.JSON()
}

func (p *configProgram) Run(fds [3]*os.File, args []string) error {
	c, err := p.config.Load()
	if err != nil {
		return err
	}
	if p.verbose {
		fmt.Fprintf(fds[1], "max_depth=%d picker=%s db=%s\n", c.View.MaxDepth, c.Open.Picker, c.Store.DB)
		return nil
	}
	fmt.Fprintf(fds[1], "max_depth=%d picker=%s\n", c.View.MaxDepth, c.Open.Picker)
	return ErrNotSuitable
}
