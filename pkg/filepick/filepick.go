// Package filepick asks the user for a file to open.
package filepick

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Picker asks for a path. It returns ok == false when the user cancelled.
// Pick may block until the user answers.
type Picker interface {
	Pick() (path string, ok bool, err error)
}

// Extensions lists the file extensions offered by pickers that filter by
// extension.
var Extensions = []string{"nbt", "dat", "dat_old", "schematic", "schem", "litematic"}

// Prompt reads a path from a line of In after writing Label to Out. An empty
// line or end of input cancels.
type Prompt struct {
	In    io.Reader
	Out   io.Writer
	Label string

	r *bufio.Reader
}

// NewPrompt returns a Prompt with the default label.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{In: in, Out: out, Label: "path to open: "}
}

func (p *Prompt) Pick() (string, bool, error) {
	if p.r == nil {
		p.r = bufio.NewReader(p.In)
	}
	if _, err := fmt.Fprint(p.Out, p.Label); err != nil {
		return "", false, err
	}
	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		return "", false, err
	}
	path := strings.TrimSpace(line)
	return path, path != "", nil
}

// Func adapts a function to a Picker.
type Func func() (string, bool, error)

func (f Func) Pick() (string, bool, error) { return f() }
