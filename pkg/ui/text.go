package ui

import (
	"strings"
)

// Segment is a string that has some style applied to it.
type Segment struct {
	Style
	Text string
}

// VTString renders the segment using VT-style escape sequences. Any existing
// SGR state is cleared.
func (s *Segment) VTString() string {
	sgr := s.SGR()
	if sgr == "" {
		return "\033[m" + s.Text
	}
	return "\033[;" + sgr + "m" + s.Text + "\033[m"
}

// Text contains a list of styled Segments.
type Text []*Segment

// T constructs a new Text with the given content and the given Styling's
// applied.
func T(s string, ts ...Styling) Text {
	return Text{&Segment{Text: s, Style: ApplyStyling(Style{}, ts...)}}
}

// Concat returns a new Text with the segments of t2 added to the end.
func (t Text) Concat(t2 Text) Text {
	return append(append(Text(nil), t...), t2...)
}

// String returns the content of the Text without any styling.
func (t Text) String() string {
	var b strings.Builder
	for _, seg := range t {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// VTString renders the Text using VT-style escape sequences.
func (t Text) VTString() string {
	var b strings.Builder
	for _, seg := range t {
		b.WriteString(seg.VTString())
	}
	return b.String()
}
