package tag

import "math"

// Equal returns whether two values are structurally equal: same variant, and
// equal elements in the same order. Compounds are equal only if their entries
// appear in the same order. Floating-point values are compared by their bit
// patterns, so a NaN is equal to an identical NaN and 0 is not equal to -0.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case Byte, Short, Int, Long, String:
		return a == b
	case Float:
		return math.Float32bits(float32(a)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(a)) == math.Float64bits(float64(b.(Double)))
	case ByteArray:
		return equalSlice(a, b.(ByteArray))
	case IntArray:
		return equalSlice(a, b.(IntArray))
	case LongArray:
		return equalSlice(a, b.(LongArray))
	case *List:
		b := b.(*List)
		if a.Elem != b.Elem || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case *Compound:
		b := b.(*Compound)
		if a.Len() != b.Len() {
			return false
		}
		for i, e := range a.entries {
			if e.Name != b.entries[i].Name || !Equal(e.Value, b.entries[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func equalSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch v := v.(type) {
	case ByteArray:
		return append(ByteArray(nil), v...)
	case IntArray:
		return append(IntArray(nil), v...)
	case LongArray:
		return append(LongArray(nil), v...)
	case *List:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = Clone(item)
		}
		return &List{Elem: v.Elem, Items: items}
	case *Compound:
		c := &Compound{}
		for _, e := range v.entries {
			c.Set(e.Name, Clone(e.Value))
		}
		return c
	}
	return v
}

// Count returns the number of values in the subtree rooted at v, including v
// itself. Array elements are not values and are not counted.
func Count(v Value) int {
	n := 1
	switch v := v.(type) {
	case *List:
		for _, item := range v.Items {
			n += Count(item)
		}
	case *Compound:
		for _, e := range v.entries {
			n += Count(e.Value)
		}
	}
	return n
}
