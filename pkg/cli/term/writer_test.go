package term

import (
	"strings"
	"testing"
)

func TestWriter(t *testing.T) {
	sb := &strings.Builder{}
	testOutput := func(want string) {
		t.Helper()
		if sb.String() != want {
			t.Errorf("got %q, want %q", sb.String(), want)
		}
		sb.Reset()
	}

	w := NewWriter(sb)
	w.UpdateBuffer(
		NewBufferBuilder(10).Write("note 1").Buffer(),
		NewBufferBuilder(10).Write("line 1").SetDotHere().Buffer(),
		false)
	testOutput(hideCursor + "\rnote 1\033[K\r\n" + "line 1\r\033[6C" + showCursor)

	// Only the changed suffix of a line is rewritten.
	w.UpdateBuffer(nil,
		NewBufferBuilder(10).Write("line 2").SetDotHere().Buffer(),
		false)
	testOutput(hideCursor + "\r" + "\033[5C\033[K2" + "\r\033[6C" + showCursor)

	// Unchanged lines are skipped, excess old lines are erased.
	w.UpdateBuffer(nil,
		NewBufferBuilder(10).Write("line 2\nline 3").Buffer(),
		false)
	testOutput(hideCursor + "\r" + "\r\nline 3" + "\033[1A\r" + showCursor)
	w.UpdateBuffer(nil, NewBufferBuilder(10).Write("line 2").Buffer(), false)
	testOutput(hideCursor + "\r" + "\r\n\033[J\033[A" + "\r" + showCursor)
}

func TestWriter_FullRefreshOnWidthChange(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	w.UpdateBuffer(nil, NewBufferBuilder(10).Write("a").Buffer(), false)
	sb.Reset()
	w.UpdateBuffer(nil, NewBufferBuilder(20).Write("a").Buffer(), false)
	want := hideCursor + "\r" + " \033[J\r" + "a" + "\r" + showCursor
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

func TestWriter_Styles(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	w.UpdateBuffer(nil, NewBufferBuilder(10).WriteStringSGR("ab", "7").Buffer(), false)
	want := hideCursor + "\r" + "\033[0;7mab\033[0;m" + "\r" + showCursor
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}
