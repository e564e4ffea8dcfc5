package tag

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format returns the display form of a scalar value. Floating-point numbers
// use the shortest decimal representation that round-trips, without an
// exponent, so Float(20) is formatted as "20". Strings are returned as is.
//
// For non-scalar values it returns a short summary such as "3 entries".
func Format(v Value) string {
	switch v := v.(type) {
	case Byte:
		return strconv.FormatInt(int64(v), 10)
	case Short:
		return strconv.FormatInt(int64(v), 10)
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Long:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		return formatFloat(float64(v), 32)
	case Double:
		return formatFloat(float64(v), 64)
	case String:
		return string(v)
	case ByteArray:
		return plural(len(v), "byte")
	case IntArray:
		return plural(len(v), "int")
	case LongArray:
		return plural(len(v), "long")
	case *List:
		return plural(v.Len(), "item")
	case *Compound:
		return plural(v.Len(), "entry")
	}
	return fmt.Sprintf("<%T>", v)
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "y") {
		return strconv.Itoa(n) + " " + noun[:len(noun)-1] + "ies"
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// FormatElem returns the display form of the i-th element of an array value.
func FormatElem(v Value, i int) string {
	switch v := v.(type) {
	case ByteArray:
		return strconv.FormatInt(int64(v[i]), 10)
	case IntArray:
		return strconv.FormatInt(int64(v[i]), 10)
	case LongArray:
		return strconv.FormatInt(int64(v[i]), 10)
	}
	panic(fmt.Sprintf("tag: FormatElem on %s", v.Kind()))
}

// ArrayLen returns the number of elements of an array value, and whether v is
// an array at all.
func ArrayLen(v Value) (int, bool) {
	switch v := v.(type) {
	case ByteArray:
		return len(v), true
	case IntArray:
		return len(v), true
	case LongArray:
		return len(v), true
	}
	return 0, false
}

// ParseError is returned by ParseAs when the text is not a valid value of the
// requested kind.
type ParseError struct {
	Kind Kind
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s: %v", e.Text, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseAs parses text as a scalar value of the given kind. Surrounding
// whitespace is ignored for numbers but kept for strings. Integers must be in
// the range of the kind.
func ParseAs(k Kind, text string) (Value, error) {
	if k == KindString {
		return String(text), nil
	}
	s := strings.TrimSpace(text)
	wrap := func(err error) error {
		if ne, ok := err.(*strconv.NumError); ok {
			err = ne.Err
		}
		return &ParseError{k, text, err}
	}
	switch k {
	case KindByte, KindShort, KindInt, KindLong:
		n, err := strconv.ParseInt(s, 10, bitSize(k))
		if err != nil {
			return nil, wrap(err)
		}
		switch k {
		case KindByte:
			return Byte(n), nil
		case KindShort:
			return Short(n), nil
		case KindInt:
			return Int(n), nil
		default:
			return Long(n), nil
		}
	case KindFloat, KindDouble:
		f, err := parseFloat(s, bitSize(k))
		if err != nil {
			return nil, wrap(err)
		}
		if k == KindFloat {
			return Float(f), nil
		}
		return Double(f), nil
	}
	return nil, &ParseError{k, text, fmt.Errorf("%s is not a scalar kind", k)}
}

func parseFloat(s string, bits int) (float64, error) {
	switch strings.ToLower(s) {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, bits)
}

func bitSize(k Kind) int {
	switch k {
	case KindByte:
		return 8
	case KindShort:
		return 16
	case KindInt, KindFloat:
		return 32
	}
	return 64
}

// ElemKind returns the kind of the elements of an array kind.
func ElemKind(k Kind) (Kind, bool) {
	switch k {
	case KindByteArray:
		return KindByte, true
	case KindIntArray:
		return KindInt, true
	case KindLongArray:
		return KindLong, true
	}
	return KindEnd, false
}

// SetElem parses text as an element of the array value v and stores it at
// index i.
func SetElem(v Value, i int, text string) error {
	ek, ok := ElemKind(v.Kind())
	if !ok {
		return fmt.Errorf("tag: SetElem on %s", v.Kind())
	}
	parsed, err := ParseAs(ek, text)
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case ByteArray:
		v[i] = int8(parsed.(Byte))
	case IntArray:
		v[i] = int32(parsed.(Int))
	case LongArray:
		v[i] = int64(parsed.(Long))
	}
	return nil
}
