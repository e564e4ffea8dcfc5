// Package export writes trees in text and interchange formats.
package export

import (
	"fmt"
	"io"

	"github.com/kregerl/nbt-editor/pkg/tag"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	Tree Format = "tree"
	YAML Format = "yaml"
	JSON Format = "json"
	CBOR Format = "cbor"
)

// Formats lists the supported formats.
var Formats = []Format{Tree, YAML, JSON, CBOR}

// ParseFormat parses the name of a format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Options controls the output.
type Options struct {
	// MaxDepth limits the nesting of the tree format. Zero means the walker's
	// default.
	MaxDepth int
}

// Write writes t to w in format f.
func Write(w io.Writer, t *tag.Tree, f Format, opts Options) error {
	switch f {
	case Tree:
		return writeTree(w, t, opts)
	case YAML:
		return writeYAML(w, t)
	case JSON:
		return writeJSON(w, t)
	case CBOR:
		return writeCBOR(w, t)
	}
	return fmt.Errorf("unknown format %q", f)
}
