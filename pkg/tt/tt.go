// Package tt supports table-driven tests with little boilerplate.
//
// A test names a function with Fn and lists cases built with Args and Rets:
//
//	tt.Test(t, tt.Fn("Format", tag.Format),
//		tt.Args(tag.Int(1)).Rets("1"),
//		tt.Args(tag.NewCompound()).Rets("0 entries"),
//	)
//
// Return values are compared with reflect.DeepEqual, unless the wanted value
// is a Matcher.
package tt

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Case is one call of the function under test, with the return values it
// should produce.
type Case struct {
	args     []any
	matchers [][]any
}

// Args returns a new Case calling the function with the given arguments.
func Args(args ...any) *Case {
	return &Case{args: args}
}

// Rets requires the return values to match the given values, and returns c
// itself. It may be called several times; every set must match.
func (c *Case) Rets(matchers ...any) *Case {
	c.matchers = append(c.matchers, matchers)
	return c
}

// FnToTest describes a function to test.
type FnToTest struct {
	name    string
	body    any
	argsFmt string
	retsFmt string
}

// Fn makes a new FnToTest with the given name, used in error messages, and
// body.
func Fn(name string, body any) *FnToTest {
	return &FnToTest{name: name, body: body}
}

// ArgsFmt sets the format used for the arguments in error messages, and
// returns fn itself.
func (fn *FnToTest) ArgsFmt(s string) *FnToTest {
	fn.argsFmt = s
	return fn
}

// RetsFmt sets the format used for the return values in error messages, and
// returns fn itself.
func (fn *FnToTest) RetsFmt(s string) *FnToTest {
	fn.retsFmt = s
	return fn
}

// T is the part of testing.T used by Test.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test calls fn with the arguments of each case and reports the cases whose
// return values don't match.
func Test(t T, fn *FnToTest, cases ...*Case) {
	t.Helper()
	for _, c := range cases {
		rets := call(fn.body, c.args)
		for _, want := range c.matchers {
			if match(want, rets) {
				continue
			}
			t.Errorf("%s(%s) returns %s, want %s", fn.name,
				fn.format(fn.argsFmt, c.args, sprintArgs),
				fn.format(fn.retsFmt, rets, sprintRets),
				fn.format(fn.retsFmt, want, sprintRets))
		}
	}
}

func (fn *FnToTest) format(f string, values []any, dflt func([]any) string) string {
	if f == "" {
		return dflt(values)
	}
	return fmt.Sprintf(f, values...)
}

// RetValue is the type of the argument of Matcher.Match. It is distinct
// from any so that Matcher cannot be implemented accidentally.
type RetValue any

// Matcher decides whether a return value matches.
type Matcher interface {
	Match(RetValue) bool
}

// Any matches any value.
var Any Matcher = matcherFunc(func(RetValue) bool { return true })

// AnyError matches any non-nil error.
var AnyError Matcher = matcherFunc(func(v RetValue) bool {
	err, ok := v.(error)
	return ok && err != nil
})

// ErrorIs returns a Matcher that matches errors for which errors.Is(err,
// target) is true.
func ErrorIs(target error) Matcher {
	return errorIs{target}
}

type errorIs struct{ target error }

func (m errorIs) Match(v RetValue) bool {
	err, ok := v.(error)
	return ok && errors.Is(err, m.target)
}

func (m errorIs) String() string { return fmt.Sprintf("error matching %v", m.target) }

type matcherFunc func(RetValue) bool

func (f matcherFunc) Match(v RetValue) bool { return f(v) }

func match(matchers, actual []any) bool {
	if len(matchers) != len(actual) {
		return false
	}
	for i, m := range matchers {
		if m, ok := m.(Matcher); ok {
			if !m.Match(actual[i]) {
				return false
			}
		} else if !reflect.DeepEqual(m, actual[i]) {
			return false
		}
	}
	return true
}

func sprintArgs(args []any) string {
	return sprintCommaDelimited(args)
}

func sprintRets(rets []any) string {
	if len(rets) == 1 {
		return fmt.Sprintf("%#v", rets[0])
	}
	return "(" + sprintCommaDelimited(rets) + ")"
}

func sprintCommaDelimited(values []any) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%#v", v)
	}
	return sb.String()
}

// call calls fn with args. A nil argument becomes the zero value of the
// corresponding parameter.
func call(fn any, args []any) []any {
	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg != nil {
			in[i] = reflect.ValueOf(arg)
			continue
		}
		var paramType reflect.Type
		if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
			paramType = fnType.In(fnType.NumIn() - 1).Elem()
		} else {
			paramType = fnType.In(i)
		}
		in[i] = reflect.Zero(paramType)
	}
	out := fnValue.Call(in)
	rets := make([]any, len(out))
	for i, v := range out {
		rets[i] = v.Interface()
	}
	return rets
}
