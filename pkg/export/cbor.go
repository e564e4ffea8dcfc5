package export

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/kregerl/nbt-editor/pkg/tag"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("export: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

func writeCBOR(w io.Writer, t *tag.Tree) error {
	b, err := appendCBOR(nil, t.Root)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// appendHead appends the head of a data item with the given major type and
// argument.
func appendHead(b []byte, major byte, n uint64) []byte {
	major <<= 5
	switch {
	case n < 24:
		return append(b, major|byte(n))
	case n <= 0xff:
		return append(b, major|24, byte(n))
	case n <= 0xffff:
		return binary.BigEndian.AppendUint16(append(b, major|25), uint16(n))
	case n <= 0xffffffff:
		return binary.BigEndian.AppendUint32(append(b, major|26), uint32(n))
	}
	return binary.BigEndian.AppendUint64(append(b, major|27), n)
}

const (
	majorArray = 4
	majorMap   = 5
)

// appendCBOR encodes v. Compounds are encoded as maps with their entries in
// order, which canonical encoding of a Go map would not preserve, so the
// heads of maps and arrays are written here and only leaves go through the
// encoder.
func appendCBOR(b []byte, v tag.Value) ([]byte, error) {
	var leaf any
	switch v := v.(type) {
	case tag.Byte:
		leaf = int8(v)
	case tag.Short:
		leaf = int16(v)
	case tag.Int:
		leaf = int32(v)
	case tag.Long:
		leaf = int64(v)
	case tag.Float:
		leaf = float32(v)
	case tag.Double:
		leaf = float64(v)
	case tag.String:
		leaf = string(v)
	case tag.ByteArray:
		leaf = []int8(v)
	case tag.IntArray:
		leaf = []int32(v)
	case tag.LongArray:
		leaf = []int64(v)
	case *tag.List:
		b = appendHead(b, majorArray, uint64(len(v.Items)))
		for _, item := range v.Items {
			var err error
			if b, err = appendCBOR(b, item); err != nil {
				return nil, err
			}
		}
		return b, nil
	case *tag.Compound:
		b = appendHead(b, majorMap, uint64(v.Len()))
		for i := 0; i < v.Len(); i++ {
			name, child := v.At(i)
			var err error
			if b, err = appendCBOR(b, tag.String(name)); err != nil {
				return nil, err
			}
			if b, err = appendCBOR(b, child); err != nil {
				return nil, err
			}
		}
		return b, nil
	default:
		return nil, fmt.Errorf("cannot export %T", v)
	}
	enc, err := cborEncMode.Marshal(leaf)
	if err != nil {
		return nil, err
	}
	return append(b, enc...), nil
}
