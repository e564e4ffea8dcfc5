package nbt

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/kregerl/nbt-editor/pkg/tag"
)

// Errors reported inside a DecodeError.
var (
	ErrRootNotCompound = errors.New("root tag is not a compound")
	ErrNegativeLength  = errors.New("negative length")
	ErrTooDeep         = errors.New("nesting too deep")
	ErrEndList         = errors.New("non-empty list of end tags")
)

// UnknownTagError is reported when a tag ID is outside the known range.
type UnknownTagError struct {
	ID byte
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag id %d", e.ID)
}

// DecodeError is returned by all decode functions when the tag stream is
// malformed. Offset is counted in bytes of the uncompressed stream.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type decoder struct {
	r        *bufio.Reader
	off      int64
	depth    int
	maxDepth int
	buf      [8]byte
}

// decode reads one named root compound. Trailing bytes are not read.
func decode(r io.Reader, maxDepth int) (*tag.Tree, error) {
	d := &decoder{r: bufio.NewReader(r), maxDepth: maxDepth}
	t, err := d.tree()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, &DecodeError{d.off, err}
	}
	return t, nil
}

func (d *decoder) tree() (*tag.Tree, error) {
	id, err := d.u8()
	if err != nil {
		return nil, err
	}
	if tag.Kind(id) != tag.KindCompound {
		if !tag.Kind(id).Valid() {
			return nil, &UnknownTagError{id}
		}
		return nil, ErrRootNotCompound
	}
	name, err := d.str()
	if err != nil {
		return nil, err
	}
	root, err := d.compound()
	if err != nil {
		return nil, err
	}
	return &tag.Tree{Name: name, Root: root}, nil
}

func (d *decoder) read(n int) ([]byte, error) {
	b := d.buf[:n]
	m, err := io.ReadFull(d.r, b)
	d.off += int64(m)
	return b, err
}

func (d *decoder) u8() (byte, error) {
	b, err := d.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.read(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *decoder) length() (int, error) {
	n, err := d.u32()
	if err != nil {
		return 0, err
	}
	if int32(n) < 0 {
		return 0, ErrNegativeLength
	}
	return int(int32(n)), nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u16()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	m, err := io.ReadFull(d.r, b)
	d.off += int64(m)
	if err != nil {
		return "", err
	}
	return decodeMUTF8(b), nil
}

// capHint bounds preallocation so that a forged length cannot exhaust memory
// before the stream runs out.
func capHint(n int) int {
	return min(n, 4096)
}

func (d *decoder) payload(k tag.Kind) (tag.Value, error) {
	switch k {
	case tag.KindByte:
		b, err := d.u8()
		return tag.Byte(int8(b)), err
	case tag.KindShort:
		n, err := d.u16()
		return tag.Short(int16(n)), err
	case tag.KindInt:
		n, err := d.u32()
		return tag.Int(int32(n)), err
	case tag.KindLong:
		n, err := d.u64()
		return tag.Long(int64(n)), err
	case tag.KindFloat:
		n, err := d.u32()
		return tag.Float(math.Float32frombits(n)), err
	case tag.KindDouble:
		n, err := d.u64()
		return tag.Double(math.Float64frombits(n)), err
	case tag.KindString:
		s, err := d.str()
		return tag.String(s), err
	case tag.KindByteArray:
		n, err := d.length()
		if err != nil {
			return nil, err
		}
		arr := make(tag.ByteArray, 0, capHint(n))
		for i := 0; i < n; i++ {
			b, err := d.u8()
			if err != nil {
				return nil, err
			}
			arr = append(arr, int8(b))
		}
		return arr, nil
	case tag.KindIntArray:
		n, err := d.length()
		if err != nil {
			return nil, err
		}
		arr := make(tag.IntArray, 0, capHint(n))
		for i := 0; i < n; i++ {
			v, err := d.u32()
			if err != nil {
				return nil, err
			}
			arr = append(arr, int32(v))
		}
		return arr, nil
	case tag.KindLongArray:
		n, err := d.length()
		if err != nil {
			return nil, err
		}
		arr := make(tag.LongArray, 0, capHint(n))
		for i := 0; i < n; i++ {
			v, err := d.u64()
			if err != nil {
				return nil, err
			}
			arr = append(arr, int64(v))
		}
		return arr, nil
	case tag.KindList:
		return d.list()
	case tag.KindCompound:
		return d.compound()
	}
	return nil, &UnknownTagError{byte(k)}
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > d.maxDepth {
		return ErrTooDeep
	}
	return nil
}

func (d *decoder) list() (*tag.List, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()
	id, err := d.u8()
	if err != nil {
		return nil, err
	}
	elem := tag.Kind(id)
	if !elem.Valid() {
		return nil, &UnknownTagError{id}
	}
	n, err := d.length()
	if err != nil {
		return nil, err
	}
	if elem == tag.KindEnd && n > 0 {
		return nil, ErrEndList
	}
	l := &tag.List{Elem: elem, Items: make([]tag.Value, 0, capHint(n))}
	for i := 0; i < n; i++ {
		v, err := d.payload(elem)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, v)
	}
	return l, nil
}

func (d *decoder) compound() (*tag.Compound, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()
	c := &tag.Compound{}
	for {
		id, err := d.u8()
		if err != nil {
			return nil, err
		}
		k := tag.Kind(id)
		if k == tag.KindEnd {
			return c, nil
		}
		if !k.Valid() {
			return nil, &UnknownTagError{id}
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		v, err := d.payload(k)
		if err != nil {
			return nil, err
		}
		c.Set(name, v)
	}
}
