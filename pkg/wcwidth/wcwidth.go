// Package wcwidth provides the display width of strings in a terminal.
//
// Widths come from go-runewidth, with East Asian ambiguous characters treated
// as narrow. Individual runes can be overridden for terminals that disagree.
package wcwidth

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

var (
	cond = func() *runewidth.Condition {
		c := runewidth.NewCondition()
		c.EastAsianWidth = false
		return c
	}()

	overrideMutex sync.RWMutex
	override      = map[rune]int{}
)

// OfRune returns the column width of a rune.
func OfRune(r rune) int {
	overrideMutex.RLock()
	w, ok := override[r]
	overrideMutex.RUnlock()
	if ok {
		return w
	}
	return cond.RuneWidth(r)
}

// Override overrides the column width of a rune to be a specific non-negative
// value. A negative width removes the override.
func Override(r rune, w int) {
	if w < 0 {
		Unoverride(r)
		return
	}
	overrideMutex.Lock()
	defer overrideMutex.Unlock()
	override[r] = w
}

// Unoverride removes the column width override of a rune.
func Unoverride(r rune) {
	overrideMutex.Lock()
	defer overrideMutex.Unlock()
	delete(override, r)
}

// Of returns the column width of a string, assuming no soft line breaks.
func Of(s string) int {
	w := 0
	for _, r := range s {
		w += OfRune(r)
	}
	return w
}

// Trim trims the string s so that it uses at most wmax columns.
func Trim(s string, wmax int) string {
	w := 0
	for i, r := range s {
		w += OfRune(r)
		if w > wmax {
			return s[:i]
		}
	}
	return s
}

// Force forces the string s to the given column width by trimming and padding.
func Force(s string, width int) string {
	s = Trim(s, width)
	return s + strings.Repeat(" ", width-Of(s))
}

// TrimEachLine trims each line of s so that it is no wider than the specified
// width.
func TrimEachLine(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = Trim(lines[i], width)
	}
	return strings.Join(lines, "\n")
}
