// Package tag implements the in-memory model of NBT trees.
//
// A tree is made of values drawn from a closed set of variants: seven scalar
// types, three array types, List and Compound. All of them implement Value;
// code that needs to distinguish them uses a type switch.
//
// Values carry no reference to their parent. Any code that needs to know where
// a value is in a tree must keep track of that itself while traversing from
// the root.
package tag

import "fmt"

// Kind identifies the variant of a Value. The numeric values match the tag IDs
// of the binary format.
type Kind uint8

// Possible values of Kind.
const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

var kindNames = [...]string{
	KindEnd:       "end",
	KindByte:      "byte",
	KindShort:     "short",
	KindInt:       "int",
	KindLong:      "long",
	KindFloat:     "float",
	KindDouble:    "double",
	KindByteArray: "byte-array",
	KindString:    "string",
	KindList:      "list",
	KindCompound:  "compound",
	KindIntArray:  "int-array",
	KindLongArray: "long-array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid returns whether k is one of the known kinds.
func (k Kind) Valid() bool { return k <= KindLongArray }

// IsScalar returns whether k is a numeric or string kind.
func (k Kind) IsScalar() bool {
	switch k {
	case KindByte, KindShort, KindInt, KindLong, KindFloat, KindDouble, KindString:
		return true
	}
	return false
}

// Value is a node in a tree. It is implemented by the types in this package
// only.
type Value interface {
	Kind() Kind
	value()
}

// Scalar types.
type (
	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	String string
)

// Array types. Elements of arrays are not values themselves and have no names.
type (
	ByteArray []int8
	IntArray  []int32
	LongArray []int64
)

func (Byte) Kind() Kind      { return KindByte }
func (Short) Kind() Kind     { return KindShort }
func (Int) Kind() Kind       { return KindInt }
func (Long) Kind() Kind      { return KindLong }
func (Float) Kind() Kind     { return KindFloat }
func (Double) Kind() Kind    { return KindDouble }
func (String) Kind() Kind    { return KindString }
func (ByteArray) Kind() Kind { return KindByteArray }
func (IntArray) Kind() Kind  { return KindIntArray }
func (LongArray) Kind() Kind { return KindLongArray }
func (*List) Kind() Kind     { return KindList }
func (*Compound) Kind() Kind { return KindCompound }

func (Byte) value()      {}
func (Short) value()     {}
func (Int) value()       {}
func (Long) value()      {}
func (Float) value()     {}
func (Double) value()    {}
func (String) value()    {}
func (ByteArray) value() {}
func (IntArray) value()  {}
func (LongArray) value() {}
func (*List) value()     {}
func (*Compound) value() {}

// List is an ordered sequence of unnamed values.
//
// Elem records the element kind declared in the encoded form. Lists produced by
// the codec are homogeneous, but nothing else in this package relies on that.
type List struct {
	Elem  Kind
	Items []Value
}

// NewList returns a List with the given elements. The element kind is taken
// from the first element, or KindEnd if there is none.
func NewList(items ...Value) *List {
	l := &List{Elem: KindEnd, Items: items}
	if len(items) > 0 {
		l.Elem = items[0].Kind()
	}
	return l
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.Items) }

// Tree is a root compound together with its name. The name of the root is
// usually empty.
type Tree struct {
	Name string
	Root *Compound
}

// NewTree returns a Tree with an empty name.
func NewTree(root *Compound) *Tree {
	return &Tree{Root: root}
}
