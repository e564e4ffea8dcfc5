package tag

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kregerl/nbt-editor/pkg/tt"
)

func TestCompound_PreservesInsertionOrder(t *testing.T) {
	c := NewCompound(E("zeta", Int(1)), E("alpha", Int(2)), E("mid", Int(3)))
	want := []string{"zeta", "alpha", "mid"}
	if diff := cmp.Diff(want, c.Names()); diff != "" {
		t.Errorf("Names() (-want +got):\n%s", diff)
	}
}

func TestCompound_SetExistingKeepsPosition(t *testing.T) {
	c := NewCompound(E("a", Int(1)), E("b", Int(2)), E("c", Int(3)))
	c.Set("b", String("two"))
	if name, v := c.At(1); name != "b" || v != String("two") {
		t.Errorf("At(1) = %q, %v, want b, two", name, v)
	}
	c.Set("d", Int(4))
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, c.Names()); diff != "" {
		t.Errorf("Names() (-want +got):\n%s", diff)
	}
}

func TestCompound_Delete(t *testing.T) {
	c := NewCompound(E("a", Int(1)), E("b", Int(2)), E("c", Int(3)))
	if !c.Delete("a") {
		t.Fatal("Delete(a) = false")
	}
	if c.Delete("a") {
		t.Error("second Delete(a) = true")
	}
	v, ok := c.Get("c")
	if !ok || v != Int(3) {
		t.Errorf("Get(c) after Delete = %v, %v", v, ok)
	}
	c.Set("a", Int(5))
	if diff := cmp.Diff([]string{"b", "c", "a"}, c.Names()); diff != "" {
		t.Errorf("Names() (-want +got):\n%s", diff)
	}
}

func TestCompound_ZeroValue(t *testing.T) {
	var c Compound
	if _, ok := c.Get("x"); ok {
		t.Error("Get on zero Compound found a value")
	}
	c.Set("x", Byte(1))
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestNewList(t *testing.T) {
	if l := NewList(); l.Elem != KindEnd || l.Len() != 0 {
		t.Errorf("NewList() = %+v", l)
	}
	if l := NewList(Short(1), Short(2)); l.Elem != KindShort || l.Len() != 2 {
		t.Errorf("NewList(shorts) = %+v", l)
	}
}

var equalTests = []struct {
	name string
	a, b Value
	want bool
}{
	{"same int", Int(1), Int(1), true},
	{"different kinds", Int(1), Long(1), false},
	{"nan equals itself", Double(math.NaN()), Double(math.NaN()), true},
	{"signed zeros", Float(0), Float(float32(math.Copysign(0, -1))), false},
	{"arrays", IntArray{1, 2}, IntArray{1, 2}, true},
	{"array lengths", LongArray{1}, LongArray{1, 2}, false},
	{"lists", NewList(String("a")), NewList(String("a")), true},
	{"list elem kinds", &List{Elem: KindInt}, &List{Elem: KindByte}, false},
	{"compound order matters",
		NewCompound(E("a", Int(1)), E("b", Int(2))),
		NewCompound(E("b", Int(2)), E("a", Int(1))), false},
	{"nested",
		NewCompound(E("l", NewList(NewCompound(E("x", Byte(1)))))),
		NewCompound(E("l", NewList(NewCompound(E("x", Byte(1)))))), true},
	{"nil", nil, nil, true},
	{"nil and value", nil, Int(0), false},
}

func TestEqual(t *testing.T) {
	for _, test := range equalTests {
		t.Run(test.name, func(t *testing.T) {
			if got := Equal(test.a, test.b); got != test.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := NewCompound(
		E("arr", ByteArray{1, 2}),
		E("list", NewList(NewCompound(E("n", Int(1))))))
	clone := Clone(orig).(*Compound)
	if !Equal(orig, clone) {
		t.Fatal("clone is not equal to original")
	}
	arr, _ := clone.Get("arr")
	arr.(ByteArray)[0] = 9
	l, _ := clone.Get("list")
	l.(*List).Items[0].(*Compound).Set("n", Int(2))
	if Equal(orig, clone) {
		t.Error("mutating the clone changed the original")
	}
}

func TestCount(t *testing.T) {
	v := NewCompound(E("a", Int(1)), E("l", NewList(Int(1), Int(2))), E("arr", IntArray{1, 2, 3}))
	if got := Count(v); got != 6 {
		t.Errorf("Count = %d, want 6", got)
	}
}

func TestFormat(t *testing.T) {
	tt.Test(t, tt.Fn("Format", Format),
		tt.Args(Byte(-3)).Rets("-3"),
		tt.Args(Short(300)).Rets("300"),
		tt.Args(Int(-70000)).Rets("-70000"),
		tt.Args(Long(1<<40)).Rets("1099511627776"),
		tt.Args(Float(20)).Rets("20"),
		tt.Args(Float(0.1)).Rets("0.1"),
		tt.Args(Double(1e21)).Rets("1000000000000000000000"),
		tt.Args(Double(math.Inf(-1))).Rets("-inf"),
		tt.Args(String(`say "hi"`)).Rets(`say "hi"`),
		tt.Args(NewCompound()).Rets("0 entries"),
		tt.Args(NewCompound(E("a", Int(1)))).Rets("1 entry"),
		tt.Args(NewList(Int(1), Int(2))).Rets("2 items"),
		tt.Args(ByteArray{1, 2, 3}).Rets("3 bytes"),
	)
}

func TestFormatElem(t *testing.T) {
	if got := FormatElem(LongArray{5, -6}, 1); got != "-6" {
		t.Errorf("FormatElem = %q, want -6", got)
	}
}

// parseErrorOf matches a *ParseError that wraps err.
type parseErrorOf struct{ err error }

func (m parseErrorOf) Match(v tt.RetValue) bool {
	err, ok := v.(error)
	var pe *ParseError
	return ok && errors.As(err, &pe) && errors.Is(err, m.err)
}

func TestParseAs(t *testing.T) {
	tt.Test(t, tt.Fn("ParseAs", ParseAs),
		tt.Args(KindByte, "127").Rets(Byte(127), nil),
		tt.Args(KindByte, "128").Rets(tt.Any, parseErrorOf{strconv.ErrRange}),
		tt.Args(KindShort, " -2 ").Rets(Short(-2), nil),
		tt.Args(KindInt, "010").Rets(Int(10), nil),
		tt.Args(KindLong, "abc").Rets(tt.Any, parseErrorOf{strconv.ErrSyntax}),
		tt.Args(KindFloat, "20").Rets(Float(20), nil),
		tt.Args(KindDouble, "-inf").Rets(Double(math.Inf(-1)), nil),
		tt.Args(KindString, " keep spaces ").Rets(String(" keep spaces "), nil),
		tt.Args(KindList, "1").Rets(tt.Any, tt.AnyError),
	)
}

func TestSetElem(t *testing.T) {
	arr := IntArray{1, 2, 3}
	if err := SetElem(arr, 1, "42"); err != nil {
		t.Fatal(err)
	}
	if arr[1] != 42 {
		t.Errorf("arr[1] = %d, want 42", arr[1])
	}
	if err := SetElem(ByteArray{0}, 0, "300"); err == nil {
		t.Error("SetElem out of range returned no error")
	}
}

func TestKind(t *testing.T) {
	tt.Test(t, tt.Fn("Kind.String", Kind.String),
		tt.Args(KindByte).Rets("byte"),
		tt.Args(KindLongArray).Rets("long-array"),
		tt.Args(Kind(99)).Rets("kind(99)"),
	)
	tt.Test(t, tt.Fn("Kind.Valid", Kind.Valid),
		tt.Args(KindCompound).Rets(true),
		tt.Args(Kind(99)).Rets(false),
	)
}

