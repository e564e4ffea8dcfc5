// Package config handles the configuration file of nbted.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kregerl/nbt-editor/pkg/logutil"
)

// Config is the contents of the configuration file.
type Config struct {
	Log   Log   `toml:"log"`
	View  View  `toml:"view"`
	Open  Open  `toml:"open"`
	Store Store `toml:"store"`

	// Path is the file the configuration was read from, or empty if none was
	// read.
	Path string `toml:"-"`
}

// Log configures logging.
type Log struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// View configures tree views.
type View struct {
	MaxDepth  int  `toml:"max_depth"`
	Hierarchy bool `toml:"hierarchy"`
}

// Open configures how documents are opened.
type Open struct {
	// Picker is "prompt" or "native".
	Picker   string `toml:"picker"`
	Parallel int    `toml:"parallel"`
}

// Store configures the recent documents database. Nothing is stored when DB
// is empty.
type Store struct {
	DB string `toml:"db"`
}

// Possible values of Open.Picker.
const (
	PickerPrompt = "prompt"
	PickerNative = "native"
)

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Log:  Log{Level: "info"},
		View: View{MaxDepth: 512},
		Open: Open{Picker: PickerPrompt, Parallel: 4},
	}
}

// DefaultPath returns the path of the configuration file when none is given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "nbted", "config.toml"), nil
}

// Load reads the configuration file at path, filling in defaults for
// missing values. If path is empty, DefaultPath is used, and a missing file
// is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return Parse(path, string(data))
}

// Parse parses the contents of a configuration file. The path is used in
// error messages.
func Parse(path, data string) (*Config, error) {
	c := Default()
	md, err := toml.Decode(data, c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logutil.GetLogger("config").Warn("unknown keys ignored",
			"path", path, "keys", strings.Join(keys, ","))
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Validate checks that all values are in range.
func (c *Config) Validate() error {
	if _, err := logutil.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.View.MaxDepth < 0 {
		return fmt.Errorf("view.max_depth: must not be negative, got %d", c.View.MaxDepth)
	}
	switch c.Open.Picker {
	case PickerPrompt, PickerNative:
	default:
		return fmt.Errorf("open.picker: must be %q or %q, got %q", PickerPrompt, PickerNative, c.Open.Picker)
	}
	if c.Open.Parallel < 0 {
		return fmt.Errorf("open.parallel: must not be negative, got %d", c.Open.Parallel)
	}
	return nil
}
