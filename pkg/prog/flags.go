package prog

import (
	"flag"
	"fmt"

	"github.com/kregerl/nbt-editor/pkg/config"
	"github.com/kregerl/nbt-editor/pkg/logutil"
)

// FlagSet wraps a flag.FlagSet. Flags shared by several subprograms are
// registered once through its methods.
type FlagSet struct {
	*flag.FlagSet
	config *ConfigFlags
	json   *bool
}

// ConfigFlags keeps the flags that override values of the configuration
// file.
type ConfigFlags struct {
	Path     string
	DB       string
	MaxDepth int
	Picker   string

	fs *flag.FlagSet
}

// Config registers the configuration flags if they have not been registered,
// and returns them.
func (fs *FlagSet) Config() *ConfigFlags {
	if fs.config == nil {
		cf := ConfigFlags{fs: fs.FlagSet}
		fs.StringVar(&cf.Path, "config", "",
			"path to the configuration file; defaults to nbted/config.toml in the user configuration directory")
		fs.StringVar(&cf.DB, "db", "",
			"path to the database of recent documents; overrides store.db")
		fs.IntVar(&cf.MaxDepth, "max-depth", 0,
			"maximum nesting shown in tree views; overrides view.max_depth")
		fs.StringVar(&cf.Picker, "picker", "",
			"how Open asks for a file (prompt or native); overrides open.picker")
		fs.config = &cf
	}
	return fs.config
}

// JSON registers the -json flag if it has not been registered, and returns
// it.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"show the output from -buildinfo or -version in JSON")
		fs.json = &json
	}
	return fs.json
}

// Load reads the configuration file and applies the flags that were set on
// the command line. It also applies the log settings of the file unless
// -log or -log-level was given.
func (cf *ConfigFlags) Load() (*config.Config, error) {
	c, err := config.Load(cf.Path)
	if err != nil {
		return nil, err
	}
	set := map[string]bool{}
	cf.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["db"] {
		c.Store.DB = cf.DB
	}
	if set["max-depth"] {
		c.View.MaxDepth = cf.MaxDepth
	}
	if set["picker"] {
		c.Open.Picker = cf.Picker
	}
	if err := c.Validate(); err != nil {
		return nil, BadUsage(err.Error())
	}

	if !set["log"] && c.Log.File != "" {
		if err := logutil.SetOutputFile(c.Log.File); err != nil {
			return nil, fmt.Errorf("log.file: %w", err)
		}
	}
	if !set["log-level"] {
		// Validate has checked the level.
		l, _ := logutil.ParseLevel(c.Log.Level)
		logutil.SetLevel(l)
	}
	return c, nil
}
