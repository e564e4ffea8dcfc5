package nbt

import (
	"unicode/utf16"
	"unicode/utf8"
)

// decodeMUTF8 converts modified UTF-8 to UTF-8. NUL is encoded as C0 80 and
// supplementary characters as surrogate pairs of three bytes each. Malformed
// sequences become U+FFFD.
func decodeMUTF8(b []byte) string {
	plain := true
	for _, c := range b {
		if c == 0xc0 || c == 0xed || c >= 0xf0 {
			plain = false
			break
		}
	}
	if plain && utf8.Valid(b) {
		return string(b)
	}
	out := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		r, n := decodeUnit(b[i:])
		i += n
		if utf16.IsSurrogate(r) && r < 0xdc00 {
			if r2, n2 := decodeUnit(b[i:]); n2 > 0 && r2 >= 0xdc00 && r2 <= 0xdfff {
				out = append(out, utf16.DecodeRune(r, r2))
				i += n2
				continue
			}
		}
		if utf16.IsSurrogate(r) {
			r = utf8.RuneError
		}
		out = append(out, r)
	}
	return string(out)
}

// decodeUnit decodes one 1-, 2- or 3-byte unit. Surrogate halves are returned
// as is.
func decodeUnit(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}
	c := b[0]
	switch {
	case c < 0x80:
		return rune(c), 1
	case c&0xe0 == 0xc0 && len(b) >= 2 && b[1]&0xc0 == 0x80:
		return rune(c&0x1f)<<6 | rune(b[1]&0x3f), 2
	case c&0xf0 == 0xe0 && len(b) >= 3 && b[1]&0xc0 == 0x80 && b[2]&0xc0 == 0x80:
		return rune(c&0x0f)<<12 | rune(b[1]&0x3f)<<6 | rune(b[2]&0x3f), 3
	case c >= 0xf0:
		// Standard 4-byte UTF-8, written by some third-party tools.
		return utf8.DecodeRune(b)
	}
	return utf8.RuneError, 1
}

func encodeMUTF8(s string) []byte {
	plain := true
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] >= 0xf0 {
			plain = false
			break
		}
	}
	if plain {
		return []byte(s)
	}
	out := make([]byte, 0, len(s)+4)
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xc0, 0x80)
		case r < 0x10000:
			out = utf8.AppendRune(out, r)
		default:
			r1, r2 := utf16.EncodeRune(r)
			out = appendUnit(out, r1)
			out = appendUnit(out, r2)
		}
	}
	return out
}

func appendUnit(b []byte, r rune) []byte {
	return append(b, 0xe0|byte(r>>12), 0x80|byte(r>>6)&0x3f, 0x80|byte(r)&0x3f)
}
