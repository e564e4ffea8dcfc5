package nbt

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/kregerl/nbt-editor/pkg/tag"
	"github.com/kregerl/nbt-editor/pkg/tt"
)

// {"health": 20f, "items": []}
var healthItems = []byte{
	0x0a, 0x00, 0x00,
	0x05, 0x00, 0x06, 'h', 'e', 'a', 'l', 't', 'h', 0x41, 0xa0, 0x00, 0x00,
	0x09, 0x00, 0x05, 'i', 't', 'e', 'm', 's', 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00,
}

func TestDecodeRaw_HealthItems(t *testing.T) {
	tree, err := Codec{}.DecodeRaw(bytes.NewReader(healthItems))
	if err != nil {
		t.Fatal(err)
	}
	want := tag.NewCompound(
		tag.E("health", tag.Float(20)),
		tag.E("items", &tag.List{Elem: tag.KindEnd, Items: []tag.Value{}}))
	if tree.Name != "" || !tag.Equal(tree.Root, want) {
		t.Errorf("got %q %v, want empty name and %v", tree.Name, tree.Root, want)
	}
}

func sampleTree() *tag.Tree {
	return &tag.Tree{Name: "Level", Root: tag.NewCompound(
		tag.E("b", tag.Byte(-1)),
		tag.E("s", tag.Short(-300)),
		tag.E("i", tag.Int(math.MinInt32)),
		tag.E("l", tag.Long(math.MaxInt64)),
		tag.E("f", tag.Float(1.5)),
		tag.E("d", tag.Double(math.Inf(-1))),
		tag.E("str", tag.String("nul\x00 and \U0001F600")),
		tag.E("ba", tag.ByteArray{-128, 0, 127}),
		tag.E("ia", tag.IntArray{}),
		tag.E("la", tag.LongArray{1, -1}),
		tag.E("list", tag.NewList(
			tag.NewCompound(tag.E("x", tag.Int(1))),
			tag.NewCompound())),
		tag.E("nested", tag.NewCompound(
			tag.E("strings", tag.NewList(tag.String("a"), tag.String(""))))),
		tag.E("", tag.Byte(0)),
	)}
}

func TestRoundTrip(t *testing.T) {
	for _, env := range []Envelope{Raw, Gzip, Zlib} {
		t.Run(env.String(), func(t *testing.T) {
			var buf bytes.Buffer
			want := sampleTree()
			if err := (Codec{}).Encode(&buf, want, env); err != nil {
				t.Fatal(err)
			}
			got, err := Codec{}.Decode(&buf, env)
			if err != nil {
				t.Fatal(err)
			}
			if got.Name != want.Name || !tag.Equal(got.Root, want.Root) {
				t.Errorf("round trip mismatch:\ngot  %v\nwant %v", got.Root, want.Root)
			}
		})
	}
}

func TestEncode_EnvelopeSignatures(t *testing.T) {
	tree := sampleTree()
	var gz, zl bytes.Buffer
	if err := (Codec{}).Encode(&gz, tree, Gzip); err != nil {
		t.Fatal(err)
	}
	if err := (Codec{}).Encode(&zl, tree, Zlib); err != nil {
		t.Fatal(err)
	}
	if b := gz.Bytes(); b[0] != 0x1f || b[1] != 0x8b {
		t.Errorf("gzip output starts with % x", b[:2])
	}
	if b := zl.Bytes(); b[0] != 0x78 {
		t.Errorf("zlib output starts with % x", b[:2])
	}
}

var decodeErrorTests = []struct {
	name string
	in   []byte
	want error
}{
	{"empty", nil, io.ErrUnexpectedEOF},
	{"truncated name", []byte{0x0a, 0x00, 0x05, 'a'}, io.ErrUnexpectedEOF},
	{"missing end", []byte{0x0a, 0x00, 0x00, 0x01, 0x00, 0x01, 'b', 0x05}, io.ErrUnexpectedEOF},
	{"root not compound", []byte{0x01, 0x00, 0x00, 0x05}, ErrRootNotCompound},
	{"negative length", []byte{0x0a, 0x00, 0x00, 0x07, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0x00}, ErrNegativeLength},
	{"list of ends", []byte{0x0a, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00}, ErrEndList},
	{"forged length", []byte{0x0a, 0x00, 0x00, 0x0b, 0x00, 0x00, 0x7f, 0xff, 0xff, 0xff, 0x00}, io.ErrUnexpectedEOF},
}

func TestDecodeRaw_Errors(t *testing.T) {
	for _, test := range decodeErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Codec{}.DecodeRaw(bytes.NewReader(test.in))
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("got error %v, want *DecodeError", err)
			}
			if !errors.Is(err, test.want) {
				t.Errorf("got error %v, want %v", err, test.want)
			}
		})
	}
}

func TestDecodeRaw_UnknownTag(t *testing.T) {
	_, err := Codec{}.DecodeRaw(bytes.NewReader([]byte{0x0a, 0x00, 0x00, 0x2a, 0x00, 0x00}))
	var ute *UnknownTagError
	if !errors.As(err, &ute) || ute.ID != 0x2a {
		t.Fatalf("got error %v, want unknown tag 42", err)
	}
	var de *DecodeError
	if errors.As(err, &de) && de.Offset != 4 {
		t.Errorf("Offset = %d, want 4", de.Offset)
	}
}

func TestDecodeRaw_MaxDepth(t *testing.T) {
	var v tag.Value = tag.NewCompound()
	for i := 0; i < 10; i++ {
		v = tag.NewList(v)
	}
	tree := tag.NewTree(tag.NewCompound(tag.E("deep", v)))
	var buf bytes.Buffer
	if err := (Codec{}).Encode(&buf, tree, Raw); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if _, err := (Codec{MaxDepth: 12}).DecodeRaw(bytes.NewReader(data)); err != nil {
		t.Errorf("depth 12: %v", err)
	}
	if _, err := (Codec{MaxDepth: 11}).DecodeRaw(bytes.NewReader(data)); !errors.Is(err, ErrTooDeep) {
		t.Errorf("depth 11: got %v, want ErrTooDeep", err)
	}
}

func TestDecodeGzip_Corrupt(t *testing.T) {
	if _, err := (Codec{}).DecodeGzip(bytes.NewReader([]byte{0x1f, 0x8b, 0x00})); err == nil {
		t.Error("no error for corrupt gzip")
	}
}

func TestEncode_MixedList(t *testing.T) {
	tree := tag.NewTree(tag.NewCompound(tag.E("l", tag.NewList(tag.Int(1), tag.String("x")))))
	if err := (Codec{}).Encode(io.Discard, tree, Raw); !errors.Is(err, ErrMixedList) {
		t.Errorf("got %v, want ErrMixedList", err)
	}
}

var mutf8Tests = []struct {
	s       string
	encoded []byte
}{
	{"abc", []byte("abc")},
	{"\x00", []byte{0xc0, 0x80}},
	{"é", []byte{0xc3, 0xa9}},
	{"\U0001F600", []byte{0xed, 0xa0, 0xbd, 0xed, 0xb8, 0x80}},
}

func TestMUTF8(t *testing.T) {
	var enc, dec []*tt.Case
	for _, test := range mutf8Tests {
		enc = append(enc, tt.Args(test.s).Rets(test.encoded))
		dec = append(dec, tt.Args(test.encoded).Rets(test.s))
	}
	// Standard 4-byte sequences are accepted too.
	dec = append(dec, tt.Args([]byte("\U0001F600")).Rets("\U0001F600"))

	tt.Test(t, tt.Fn("encodeMUTF8", encodeMUTF8).RetsFmt("% x"), enc...)
	tt.Test(t, tt.Fn("decodeMUTF8", decodeMUTF8).ArgsFmt("% x"), dec...)
}

