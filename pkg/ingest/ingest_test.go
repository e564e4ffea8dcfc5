package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kregerl/nbt-editor/pkg/nbt"
	"github.com/kregerl/nbt-editor/pkg/tag"
	"github.com/kregerl/nbt-editor/pkg/tt"
)

// fakeCodec records which path was taken and the stream position at the
// time of the call.
type fakeCodec struct {
	called string
	pos    int64
	err    error
}

func (c *fakeCodec) record(name string, r io.Reader) (*tag.Tree, error) {
	c.called = name
	c.pos, _ = r.(io.Seeker).Seek(0, io.SeekCurrent)
	if c.err != nil {
		return nil, c.err
	}
	return tag.NewTree(tag.NewCompound()), nil
}

func (c *fakeCodec) DecodeRaw(r io.Reader) (*tag.Tree, error)  { return c.record("raw", r) }
func (c *fakeCodec) DecodeGzip(r io.Reader) (*tag.Tree, error) { return c.record("gzip", r) }
func (c *fakeCodec) DecodeZlib(r io.Reader) (*tag.Tree, error) { return c.record("zlib", r) }

// route loads a stream starting with prefix, and returns the decoder that
// was called, the envelope of the document and the stream position at the
// time of the call.
func route(prefix []byte) (string, nbt.Envelope, int64) {
	c := &fakeCodec{}
	d, err := Load("x.dat", bytes.NewReader(prefix), c)
	if err != nil {
		return "error: " + err.Error(), nbt.Raw, c.pos
	}
	return c.called, d.Envelope, c.pos
}

func TestLoad_Routes(t *testing.T) {
	tt.Test(t, tt.Fn("route", route).ArgsFmt("% x"),
		tt.Args([]byte{0x1f, 0x8b, 0x08}).Rets("gzip", nbt.Gzip, int64(0)),
		tt.Args([]byte{0x78, 0x01}).Rets("zlib", nbt.Zlib, int64(0)),
		tt.Args([]byte{0x78, 0x5e}).Rets("zlib", nbt.Zlib, int64(0)),
		tt.Args([]byte{0x78, 0x9c, 0x00}).Rets("zlib", nbt.Zlib, int64(0)),
		tt.Args([]byte{0x78, 0xda}).Rets("zlib", nbt.Zlib, int64(0)),
		tt.Args([]byte{0x78, 0x00}).Rets("raw", nbt.Raw, int64(0)),
		tt.Args([]byte{0x1f, 0x8c}).Rets("raw", nbt.Raw, int64(0)),
		tt.Args([]byte{0x0a, 0x00, 0x00, 0x00}).Rets("raw", nbt.Raw, int64(0)),
	)
}

func TestLoad_RestoresNonZeroStart(t *testing.T) {
	r := bytes.NewReader([]byte{0xff, 0xff, 0x1f, 0x8b, 0x00})
	r.Seek(2, io.SeekStart)
	c := &fakeCodec{}
	if _, err := Load("", r, c); err != nil {
		t.Fatal(err)
	}
	if c.called != "gzip" || c.pos != 2 {
		t.Errorf("got %s at %d, want gzip at 2", c.called, c.pos)
	}
}

func TestLoad_ShortStream(t *testing.T) {
	for _, in := range [][]byte{nil, {0x0a}} {
		c := &fakeCodec{}
		_, err := Load("short", bytes.NewReader(in), c)
		var ioErr *IOError
		if !errors.As(err, &ioErr) || !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("% x: got %v, want IOError wrapping ErrUnexpectedEOF", in, err)
		}
		if c.called != "" {
			t.Errorf("% x: codec called on a short stream", in)
		}
	}
}

func TestLoad_CodecErrorCarriesEnvelope(t *testing.T) {
	bad := errors.New("bad tag")
	_, err := Load("x", bytes.NewReader([]byte{0x78, 0xda}), &fakeCodec{err: bad})
	var ce *CodecError
	if !errors.As(err, &ce) || ce.Envelope != nbt.Zlib || !errors.Is(err, bad) {
		t.Errorf("got %v, want CodecError(zlib) wrapping the codec error", err)
	}
}

func TestLoad_Titles(t *testing.T) {
	c := &fakeCodec{}
	d, _ := Load("", bytes.NewReader([]byte{0, 0}), c)
	if d.Title != UntitledTitle {
		t.Errorf("Title = %q, want %q", d.Title, UntitledTitle)
	}
	d, _ = Load(filepath.Join("world", "level.dat"), bytes.NewReader([]byte{0, 0}), c)
	if d.Title != "level.dat" {
		t.Errorf("Title = %q, want level.dat", d.Title)
	}
}

func writeFixture(t *testing.T, dir, name string, env nbt.Envelope) string {
	t.Helper()
	tree := tag.NewTree(tag.NewCompound(
		tag.E("health", tag.Float(20)),
		tag.E("items", tag.NewList())))
	var buf bytes.Buffer
	if err := (nbt.Codec{}).Encode(&buf, tree, env); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_RealCodec(t *testing.T) {
	dir := t.TempDir()
	for _, env := range []nbt.Envelope{nbt.Raw, nbt.Gzip, nbt.Zlib} {
		path := writeFixture(t, dir, env.String()+".dat", env)
		d, err := LoadFile(path, nil)
		if err != nil {
			t.Errorf("%s: %v", env, err)
			continue
		}
		if d.Envelope != env || d.Tree.Root.Len() != 2 {
			t.Errorf("%s: got envelope %s with %d entries", env, d.Envelope, d.Tree.Root.Len())
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope"), nil)
	var ioErr *IOError
	if !errors.As(err, &ioErr) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want IOError wrapping ErrNotExist", err)
	}
}

func TestLoadFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dat")
	os.WriteFile(path, []byte{0x1f, 0x8b, 0x00, 0x01}, 0644)
	_, err := LoadFile(path, nil)
	var ce *CodecError
	if !errors.As(err, &ce) || ce.Envelope != nbt.Gzip {
		t.Errorf("got %v, want CodecError(gzip)", err)
	}
}

func TestLoadAll_KeepsOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFixture(t, dir, "b.dat", nbt.Gzip),
		filepath.Join(dir, "missing.dat"),
		writeFixture(t, dir, "a.dat", nbt.Raw),
	}
	results := LoadAll(context.Background(), paths, 2, nil)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d is for %s, want %s", i, r.Path, paths[i])
		}
	}
	if results[0].Err != nil || results[2].Err != nil || results[1].Err == nil {
		t.Errorf("errors = %v, %v, %v", results[0].Err, results[1].Err, results[2].Err)
	}
}

func TestLoader_DeliversLatest(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "a.dat", nbt.Raw)
	l := NewLoader(nil)
	first := l.Request(path)
	second := l.Request(path)
	if l.Current(first) || !l.Current(second) {
		t.Fatal("second request did not supersede the first")
	}
	var r Result
	for r = range l.Results() {
		if l.Current(r.Seq) {
			break
		}
	}
	if r.Seq != second || r.Err != nil || r.Doc == nil {
		t.Errorf("got result %+v, want seq %d", r, second)
	}
	select {
	case extra := <-l.Results():
		t.Errorf("superseded result delivered: %+v", extra)
	default:
	}
}
