package tt

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

// recorder implements T and keeps the messages passed to Errorf.
type recorder []string

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	*r = append(*r, fmt.Sprintf(format, args...))
}

func add(x, y int) int { return x + y }

func divmod(x, y int) (int, int) { return x / y, x % y }

func open(name string) (io.Reader, error) {
	if name == "" {
		return nil, io.ErrUnexpectedEOF
	}
	return strings.NewReader(name), nil
}

func count(r io.Reader, extra ...io.Reader) int {
	n := len(extra)
	if r != nil {
		n++
	}
	return n
}

func TestTest_Pass(t *testing.T) {
	var r recorder
	Test(&r, Fn("divmod", divmod),
		Args(7, 2).Rets(3, 1),
		Args(9, 3).Rets(3, 0).Rets(Any, 0),
	)
	if len(r) > 0 {
		t.Errorf("Test reported errors for passing cases: %q", r)
	}
}

func TestTest_DefaultFormat(t *testing.T) {
	var r recorder
	Test(&r, Fn("add", add), Args(1, 10).Rets(12))
	assertOneError(t, r, "add(1, 10) returns 11, want 12")

	r = nil
	Test(&r, Fn("divmod", divmod), Args(7, 2).Rets(3, 2))
	assertOneError(t, r, "divmod(7, 2) returns (3, 1), want (3, 2)")
}

func TestTest_CustomFormat(t *testing.T) {
	var r recorder
	Test(&r, Fn("divmod", divmod).ArgsFmt("x = %d, y = %d").RetsFmt("(q = %d, r = %d)"),
		Args(7, 2).Rets(3, 2))
	assertOneError(t, r, "divmod(x = 7, y = 2) returns (q = 3, r = 1), want (q = 3, r = 2)")
}

func TestTest_ErrorMatchers(t *testing.T) {
	var r recorder
	Test(&r, Fn("open", open),
		Args("").Rets(nil, AnyError),
		Args("").Rets(Any, ErrorIs(io.ErrUnexpectedEOF)),
		Args("x").Rets(Any, nil),
	)
	if len(r) > 0 {
		t.Errorf("Test reported errors for passing cases: %q", r)
	}

	Test(&r, Fn("open", open), Args("x").Rets(Any, AnyError))
	if len(r) != 1 {
		t.Errorf("AnyError matched a nil error")
	}
	r = nil
	Test(&r, Fn("open", open), Args("").Rets(Any, ErrorIs(errors.New("other"))))
	if len(r) != 1 {
		t.Errorf("ErrorIs matched an unrelated error")
	}
}

func TestTest_NilArguments(t *testing.T) {
	var r recorder
	Test(&r, Fn("count", count),
		Args(nil).Rets(0),
		Args(strings.NewReader(""), nil, nil).Rets(3),
	)
	if len(r) > 0 {
		t.Errorf("Test reported errors for passing cases: %q", r)
	}
}

func assertOneError(t *testing.T, r recorder, want string) {
	t.Helper()
	switch len(r) {
	case 0:
		t.Errorf("Test didn't report an error")
	case 1:
		if r[0] != want {
			t.Errorf("Test reported:\n%q\nwant:\n%q", r[0], want)
		}
	default:
		t.Errorf("Test reported too many errors: %q", r)
	}
}
