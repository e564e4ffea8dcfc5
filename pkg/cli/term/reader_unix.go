//go:build unix

package term

import (
	"os"
	"time"

	"github.com/kregerl/nbt-editor/pkg/ui"
)

// reader reads terminal escape sequences and decodes them into events.
type reader struct {
	fr fileReader
}

func newReader(f *os.File) (Reader, error) {
	fr, err := newFileReader(f)
	if err != nil {
		return nil, err
	}
	return &reader{fr}, nil
}

func (rd *reader) ReadEvent() (Event, error) {
	return readEvent(rd.fr)
}

func (rd *reader) ReadRawEvent() (Event, error) {
	r, err := readRune(rd.fr, -1)
	return K(r), err
}

func (rd *reader) Close() {
	rd.fr.Stop()
	rd.fr.Close()
}

// Returned by seqReader.next to signal the end of the current sequence.
const runeEndOfSeq rune = -1

// Timeout for bytes in escape sequences. Terminal emulators send escape
// sequences in one write, so 10ms is plenty except over slow SSH links.
var keySeqTimeout = 10 * time.Millisecond

// seqReader accumulates the runes of one escape sequence.
type seqReader struct {
	rd  byteReaderWithTimeout
	seq []rune
}

func (s *seqReader) next() rune {
	r, err := readRune(s.rd, keySeqTimeout)
	if err != nil {
		return runeEndOfSeq
	}
	s.seq = append(s.seq, r)
	return r
}

func (s *seqReader) bad(msg string) error {
	return seqError{msg, string(s.seq)}
}

func readEvent(rd byteReaderWithTimeout) (Event, error) {
	r, err := readRune(rd, -1)
	if err != nil {
		return nil, err
	}
	if r != ui.Esc {
		return KeyEvent(ctrlModify(r)), nil
	}

	s := &seqReader{rd: rd, seq: []rune{r}}
	r2 := s.next()
	// rxvt and derivatives signal Alt by prepending another ESC to a CSI or
	// G3 sequence.
	alt := false
	if r2 == ui.Esc {
		alt = true
		r2 = s.next()
	}
	switch r2 {
	case runeEndOfSeq:
		if alt {
			return K(ui.Esc, ui.Alt), nil
		}
		return K(ui.Esc), nil
	case '[':
		return s.csi(alt)
	case 'O':
		return s.g3(alt)
	}
	// Anything else is an Alt-modified key, possibly also modified by Ctrl.
	k := ctrlModify(r2)
	k.Mod |= ui.Alt
	return KeyEvent(k), nil
}

func (s *seqReader) csi(alt bool) (Event, error) {
	r := s.next()
	if r == runeEndOfSeq {
		return K('[', ui.Alt), nil
	}
	var nums []int
params:
	for ; ; r = s.next() {
		switch {
		case r == ';':
			if len(nums) == 0 {
				nums = append(nums, 0)
			}
			nums = append(nums, 0)
		case '0' <= r && r <= '9':
			if len(nums) == 0 {
				nums = append(nums, 0)
			}
			cur := len(nums) - 1
			nums[cur] = nums[cur]*10 + int(r-'0')
		case r == runeEndOfSeq:
			return nil, s.bad("incomplete CSI")
		default:
			break params
		}
	}
	if r == '~' && len(nums) == 1 && (nums[0] == 200 || nums[0] == 201) {
		return PasteSetting(nums[0] == 200), nil
	}
	k := parseCSI(nums, r)
	if k == (ui.Key{}) {
		return nil, s.bad("bad CSI")
	}
	if alt {
		k.Mod |= ui.Alt
	}
	return KeyEvent(k), nil
}

func (s *seqReader) g3(alt bool) (Event, error) {
	r := s.next()
	if r == runeEndOfSeq {
		return K('O', ui.Alt), nil
	}
	k, ok := g3Seq[r]
	if !ok {
		return nil, s.bad("bad G3")
	}
	if alt {
		k.Mod |= ui.Alt
	}
	return KeyEvent(k), nil
}

// ctrlModify returns the key a single rune represents, treating C0 control
// characters as Ctrl-modified keys.
func ctrlModify(r rune) ui.Key {
	switch r {
	case 0x0:
		return ui.K('`', ui.Ctrl) // ^@
	case 0x1e:
		return ui.K('6', ui.Ctrl) // ^^
	case 0x1f:
		return ui.K('/', ui.Ctrl) // ^_
	case ui.Tab, ui.Enter, '\n', ui.Backspace, ui.Esc:
		// Prefer the non-Ctrl form of ambiguous keys.
		return ui.K(r)
	}
	if 0x1 <= r && r <= 0x1d {
		return ui.K(r+0x40, ui.Ctrl)
	}
	return ui.K(r)
}

// G3-style key sequences: \eO followed by exactly one character.
var g3Seq = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End), 'M': ui.K(ui.Insert),
	// urxvt
	'a': ui.K(ui.Up, ui.Ctrl), 'b': ui.K(ui.Down, ui.Ctrl),
	'c': ui.K(ui.Right, ui.Ctrl), 'd': ui.K(ui.Left, ui.Ctrl),
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

// CSI-style key sequences identified by the last rune, like \e[A for Up. When
// modified, two arguments are added, the first always 1 and the second the
// xterm modifier, like \e[1;5A for Ctrl-Up.
var csiSeqByLast = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	// urxvt
	'a': ui.K(ui.Up, ui.Shift), 'b': ui.K(ui.Down, ui.Shift),
	'c': ui.K(ui.Right, ui.Shift), 'd': ui.K(ui.Left, ui.Shift),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	'Z': ui.K(ui.Tab, ui.Shift),
}

// CSI-style key sequences ending with '~', identified by the first argument.
// An optional second argument is the xterm modifier. urxvt instead signals
// modifiers by replacing '~' with '$' (Shift), '^' (Ctrl) or '@' (both).
var csiSeqTilde = map[int]rune{
	1: ui.Home, 2: ui.Insert, 3: ui.Delete, 4: ui.End,
	5: ui.PageUp, 6: ui.PageDown, 7: ui.Home, 8: ui.End,
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4,
	15: ui.F5, 17: ui.F6, 18: ui.F7, 19: ui.F8,
	20: ui.F9, 21: ui.F10, 23: ui.F11, 24: ui.F12,
}

func parseCSI(nums []int, last rune) ui.Key {
	if k, ok := csiSeqByLast[last]; ok {
		switch {
		case len(nums) == 0:
			return k
		case len(nums) == 2 && nums[0] == 1:
			return xtermModify(k, nums[1])
		}
		return ui.Key{}
	}
	switch last {
	case '~':
		if len(nums) == 1 || len(nums) == 2 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				if len(nums) == 1 {
					return ui.K(r)
				}
				return xtermModify(ui.K(r), nums[1])
			}
		}
	case '$', '^', '@':
		if len(nums) == 1 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				mod := map[rune]ui.Mod{'$': ui.Shift, '^': ui.Ctrl, '@': ui.Shift | ui.Ctrl}[last]
				return ui.K(r, mod)
			}
		}
	}
	return ui.Key{}
}

// xtermModify applies an xterm modifier argument, which is 1 plus a bitmask
// of Shift (1), Alt (2), Ctrl (4) and Meta (8). Meta is treated as Alt.
func xtermModify(k ui.Key, mod int) ui.Key {
	if mod < 0 || mod > 16 {
		return ui.Key{}
	}
	if mod == 0 {
		return k
	}
	flags := mod - 1
	if flags&0x1 != 0 {
		k.Mod |= ui.Shift
	}
	if flags&0x2 != 0 || flags&0x8 != 0 {
		k.Mod |= ui.Alt
	}
	if flags&0x4 != 0 {
		k.Mod |= ui.Ctrl
	}
	return k
}
