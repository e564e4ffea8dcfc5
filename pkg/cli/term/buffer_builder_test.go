package term

import (
	"reflect"
	"testing"

	"github.com/kregerl/nbt-editor/pkg/ui"
)

var bufferBuilderWritesTests = []struct {
	name  string
	bb    *BufferBuilder
	text  string
	style string
	want  *Buffer
}{
	{"nothing", NewBufferBuilder(10), "", "",
		&Buffer{Width: 10, Lines: [][]Cell{{}}}},
	{"single rune", NewBufferBuilder(10), "a", "1",
		&Buffer{Width: 10, Lines: [][]Cell{{{"a", "1"}}}}},
	{"control character", NewBufferBuilder(10), "\t", "",
		&Buffer{Width: 10, Lines: [][]Cell{{{"^I", "7"}}}}},
	{"styled control character", NewBufferBuilder(10), "a\033b", "1",
		&Buffer{Width: 10, Lines: [][]Cell{{
			{"a", "1"}, {"^[", "1;7"}, {"b", "1"}}}}},
	{"newline", NewBufferBuilder(10), "a\nb", "1",
		&Buffer{Width: 10, Lines: [][]Cell{{{"a", "1"}}, {{"b", "1"}}}}},
	{"newline with indent", NewBufferBuilder(10).SetIndent(2), "a\nb", "1",
		&Buffer{Width: 10, Lines: [][]Cell{
			{{"a", "1"}},
			{{" ", ""}, {" ", ""}, {"b", "1"}},
		}}},
	{"wrapping", NewBufferBuilder(4), "aaaab", "1",
		&Buffer{Width: 4, Lines: [][]Cell{
			{{"a", "1"}, {"a", "1"}, {"a", "1"}, {"a", "1"}},
			{{"b", "1"}}}}},
	{"eager wrapping", NewBufferBuilder(4).SetEagerWrap(true), "aaaa", "1",
		&Buffer{Width: 4, Lines: [][]Cell{
			{{"a", "1"}, {"a", "1"}, {"a", "1"}, {"a", "1"}},
			{}}}},
	{"wide rune at the edge", NewBufferBuilder(3), "a好b", "",
		&Buffer{Width: 3, Lines: [][]Cell{
			{{"a", ""}, {"好", ""}},
			{{"b", ""}}}}},
}

func TestBufferBuilder_WriteStringSGR(t *testing.T) {
	for _, test := range bufferBuilderWritesTests {
		t.Run(test.name, func(t *testing.T) {
			buf := test.bb.WriteStringSGR(test.text, test.style).Buffer()
			if !reflect.DeepEqual(buf, test.want) {
				t.Errorf("got %v, want %v", buf, test.want)
			}
		})
	}
}

func TestBufferBuilder_Styled(t *testing.T) {
	buf := NewBufferBuilder(10).
		Write("a", ui.Bold).
		WriteSpaces(1, ui.Inverse).
		WriteText(ui.T("b", ui.Fg(ui.Red))).
		SetDotHere().
		Buffer()
	want := &Buffer{Width: 10,
		Lines: [][]Cell{{{"a", "1"}, {" ", "7"}, {"b", "31"}}},
		Dot:   Pos{0, 3}}
	if !reflect.DeepEqual(buf, want) {
		t.Errorf("got %v, want %v", buf, want)
	}
}
