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

// Errors returned by Encode.
var (
	ErrMixedList  = errors.New("list elements have different kinds")
	ErrLongString = errors.New("string too long")
)

type encoder struct {
	w        *bufio.Writer
	depth    int
	maxDepth int
	buf      [8]byte
}

func encode(w io.Writer, t *tag.Tree, maxDepth int) error {
	e := &encoder{w: bufio.NewWriter(w), maxDepth: maxDepth}
	e.u8(byte(tag.KindCompound))
	if err := e.str(t.Name); err != nil {
		return err
	}
	root := t.Root
	if root == nil {
		root = &tag.Compound{}
	}
	if err := e.compound(root); err != nil {
		return err
	}
	return e.w.Flush()
}

// The bufio.Writer keeps the first write error and reports it from Flush, so
// the primitive writers below don't return errors.

func (e *encoder) u8(b byte) { e.w.WriteByte(b) }

func (e *encoder) u16(n uint16) {
	binary.BigEndian.PutUint16(e.buf[:2], n)
	e.w.Write(e.buf[:2])
}

func (e *encoder) u32(n uint32) {
	binary.BigEndian.PutUint32(e.buf[:4], n)
	e.w.Write(e.buf[:4])
}

func (e *encoder) u64(n uint64) {
	binary.BigEndian.PutUint64(e.buf[:8], n)
	e.w.Write(e.buf[:8])
}

func (e *encoder) str(s string) error {
	b := encodeMUTF8(s)
	if len(b) > math.MaxUint16 {
		return ErrLongString
	}
	e.u16(uint16(len(b)))
	e.w.Write(b)
	return nil
}

func (e *encoder) enter() error {
	e.depth++
	if e.depth > e.maxDepth {
		return ErrTooDeep
	}
	return nil
}

func (e *encoder) payload(v tag.Value) error {
	switch v := v.(type) {
	case tag.Byte:
		e.u8(byte(v))
	case tag.Short:
		e.u16(uint16(v))
	case tag.Int:
		e.u32(uint32(v))
	case tag.Long:
		e.u64(uint64(v))
	case tag.Float:
		e.u32(math.Float32bits(float32(v)))
	case tag.Double:
		e.u64(math.Float64bits(float64(v)))
	case tag.String:
		return e.str(string(v))
	case tag.ByteArray:
		e.u32(uint32(len(v)))
		for _, b := range v {
			e.u8(byte(b))
		}
	case tag.IntArray:
		e.u32(uint32(len(v)))
		for _, n := range v {
			e.u32(uint32(n))
		}
	case tag.LongArray:
		e.u32(uint32(len(v)))
		for _, n := range v {
			e.u64(uint64(n))
		}
	case *tag.List:
		return e.list(v)
	case *tag.Compound:
		return e.compound(v)
	default:
		return fmt.Errorf("cannot encode %T", v)
	}
	return nil
}

func (e *encoder) list(l *tag.List) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer func() { e.depth-- }()
	elem := l.Elem
	if len(l.Items) > 0 {
		elem = l.Items[0].Kind()
	}
	for _, item := range l.Items {
		if item.Kind() != elem {
			return ErrMixedList
		}
	}
	e.u8(byte(elem))
	e.u32(uint32(len(l.Items)))
	for _, item := range l.Items {
		if err := e.payload(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) compound(c *tag.Compound) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer func() { e.depth-- }()
	for i := 0; i < c.Len(); i++ {
		name, v := c.At(i)
		e.u8(byte(v.Kind()))
		if err := e.str(name); err != nil {
			return err
		}
		if err := e.payload(v); err != nil {
			return err
		}
	}
	e.u8(byte(tag.KindEnd))
	return nil
}
