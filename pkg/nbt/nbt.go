// Package nbt implements the binary encoding of tag trees.
//
// A stream is a single named tag whose payload is a compound. All numbers are
// big-endian; strings are prefixed with an unsigned 16-bit length and use the
// modified UTF-8 encoding of the JVM. The stream may be wrapped in a gzip or
// zlib envelope.
package nbt

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/kregerl/nbt-editor/pkg/tag"
)

// DefaultMaxDepth is the nesting limit used when Codec.MaxDepth is zero.
const DefaultMaxDepth = 512

// Envelope is the compression wrapper around an encoded stream.
type Envelope uint8

// Possible values of Envelope.
const (
	Raw Envelope = iota
	Gzip
	Zlib
)

func (e Envelope) String() string {
	switch e {
	case Raw:
		return "raw"
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	}
	return fmt.Sprintf("envelope(%d)", uint8(e))
}

// Codec decodes and encodes trees. The zero value is ready to use.
type Codec struct {
	// MaxDepth limits the nesting of lists and compounds. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

func (c Codec) maxDepth() int {
	if c.MaxDepth > 0 {
		return c.MaxDepth
	}
	return DefaultMaxDepth
}

// DecodeRaw decodes an uncompressed stream.
func (c Codec) DecodeRaw(r io.Reader) (*tag.Tree, error) {
	return decode(r, c.maxDepth())
}

// DecodeGzip decodes a gzip-wrapped stream.
func (c Codec) DecodeGzip(r io.Reader) (*tag.Tree, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()
	return decode(zr, c.maxDepth())
}

// DecodeZlib decodes a zlib-wrapped stream.
func (c Codec) DecodeZlib(r io.Reader) (*tag.Tree, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer zr.Close()
	return decode(zr, c.maxDepth())
}

// Decode decodes a stream with the given envelope.
func (c Codec) Decode(r io.Reader, e Envelope) (*tag.Tree, error) {
	switch e {
	case Gzip:
		return c.DecodeGzip(r)
	case Zlib:
		return c.DecodeZlib(r)
	}
	return c.DecodeRaw(r)
}

// Encode writes t to w, wrapped in the given envelope.
func (c Codec) Encode(w io.Writer, t *tag.Tree, e Envelope) error {
	switch e {
	case Gzip:
		zw := gzip.NewWriter(w)
		if err := encode(zw, t, c.maxDepth()); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	case Zlib:
		zw := zlib.NewWriter(w)
		if err := encode(zw, t, c.maxDepth()); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	}
	return encode(w, t, c.maxDepth())
}
