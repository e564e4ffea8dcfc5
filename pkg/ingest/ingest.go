// Package ingest turns byte streams into documents.
//
// The compression envelope of a stream is detected from its first two bytes,
// and the stream is then decoded by a Codec.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kregerl/nbt-editor/pkg/doc"
	"github.com/kregerl/nbt-editor/pkg/nbt"
	"github.com/kregerl/nbt-editor/pkg/tag"
)

// UntitledTitle is the title of documents loaded without a name.
const UntitledTitle = "Untitled"

// Codec decodes streams in each envelope.
type Codec interface {
	DecodeRaw(io.Reader) (*tag.Tree, error)
	DecodeGzip(io.Reader) (*tag.Tree, error)
	DecodeZlib(io.Reader) (*tag.Tree, error)
}

// DefaultCodec is used when no codec is given.
var DefaultCodec Codec = nbt.Codec{}

var (
	gzipSignature  = [2]byte{0x1f, 0x8b}
	zlibSignatures = [][2]byte{{0x78, 0x01}, {0x78, 0x5e}, {0x78, 0x9c}, {0x78, 0xda}}
)

// Sniff classifies a stream by its first two bytes.
func Sniff(sig [2]byte) nbt.Envelope {
	if sig == gzipSignature {
		return nbt.Gzip
	}
	for _, z := range zlibSignatures {
		if sig == z {
			return nbt.Zlib
		}
	}
	return nbt.Raw
}

// IOError is returned when the source cannot be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// CodecError is returned when a stream cannot be decompressed or decoded.
type CodecError struct {
	Path     string
	Envelope nbt.Envelope
	Err      error
}

func (e *CodecError) Error() string {
	msg := fmt.Sprintf("decode %s: %v", e.Envelope, e.Err)
	if e.Path == "" {
		return msg
	}
	return e.Path + ": " + msg
}

func (e *CodecError) Unwrap() error { return e.Err }

// Title derives a document title from a source name.
func Title(name string) string {
	if name == "" {
		return UntitledTitle
	}
	return filepath.Base(name)
}

// Load decodes the stream r into a Document. The first two bytes are read to
// detect the envelope, and r is seeked back to where it was before decoding.
// The name is used to derive the title and is stored as the path.
func Load(name string, r io.ReadSeeker, codec Codec) (*doc.Document, error) {
	if codec == nil {
		codec = DefaultCodec
	}
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, &IOError{name, err}
	}
	var sig [2]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, &IOError{name, fmt.Errorf("read signature: %w", err)}
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, &IOError{name, err}
	}
	env := Sniff(sig)
	var tree *tag.Tree
	switch env {
	case nbt.Gzip:
		tree, err = codec.DecodeGzip(r)
	case nbt.Zlib:
		tree, err = codec.DecodeZlib(r)
	default:
		tree, err = codec.DecodeRaw(r)
	}
	if err != nil {
		return nil, &CodecError{name, env, err}
	}
	if tree == nil || tree.Root == nil {
		return nil, &CodecError{name, env, errors.New("no root compound")}
	}
	return &doc.Document{Title: Title(name), Path: name, Envelope: env, Tree: tree}, nil
}

// LoadFile opens and loads the named file.
func LoadFile(path string, codec Codec) (*doc.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{path, err}
	}
	defer f.Close()
	return Load(path, f, codec)
}
