package ui

import (
	"strconv"
	"strings"
)

// Color is one of the 16 basic terminal colors. The zero value is the
// terminal default.
type Color int

// Values for Color.
const (
	Default Color = iota
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

func (c Color) sgr(base int) string {
	switch {
	case c == Default:
		return ""
	case c <= White:
		return strconv.Itoa(base + int(c-Black))
	default:
		return strconv.Itoa(base + 60 + int(c-BrightBlack))
	}
}

// Style specifies how a piece of text shall be displayed.
type Style struct {
	Fg         Color
	Bg         Color
	Bold       bool
	Dim        bool
	Italic     bool
	Underlined bool
	Inverse    bool
}

// SGR returns the SGR sequence for the style, without the leading CSI and the
// trailing 'm'.
func (s Style) SGR() string {
	var sgr []string
	addIf := func(b bool, code string) {
		if b {
			sgr = append(sgr, code)
		}
	}
	addIf(s.Bold, "1")
	addIf(s.Dim, "2")
	addIf(s.Italic, "3")
	addIf(s.Underlined, "4")
	addIf(s.Inverse, "7")
	if fg := s.Fg.sgr(30); fg != "" {
		sgr = append(sgr, fg)
	}
	if bg := s.Bg.sgr(40); bg != "" {
		sgr = append(sgr, bg)
	}
	return strings.Join(sgr, ";")
}

// Styling changes a Style.
type Styling func(*Style)

// Common stylings.
var (
	Bold       Styling = func(s *Style) { s.Bold = true }
	Dim        Styling = func(s *Style) { s.Dim = true }
	Italic     Styling = func(s *Style) { s.Italic = true }
	Underlined Styling = func(s *Style) { s.Underlined = true }
	Inverse    Styling = func(s *Style) { s.Inverse = true }
)

// Fg returns a Styling that sets the foreground color.
func Fg(c Color) Styling { return func(s *Style) { s.Fg = c } }

// Bg returns a Styling that sets the background color.
func Bg(c Color) Styling { return func(s *Style) { s.Bg = c } }

// ApplyStyling returns a new Style with the given Styling's applied.
func ApplyStyling(s Style, ts ...Styling) Style {
	for _, t := range ts {
		if t != nil {
			t(&s)
		}
	}
	return s
}
