package symbol

import (
	"strings"
	"unicode/utf8"
)

// Skip reports whether a character is transparently consumed before each
// terminal match.
type Skip func(r rune) bool

// DefaultSkip accepts ASCII whitespace and control characters.
func DefaultSkip(r rune) bool {
	return r <= ' '
}

// NoSkip never skips anything.
func NoSkip(rune) bool {
	return false
}

// SkipSet skips exactly the characters listed in chars.
func SkipSet(chars string) Skip {
	return func(r rune) bool {
		return strings.ContainsRune(chars, r)
	}
}

// Advance returns the first position at or after pos whose character is not
// skipped. A nil Skip behaves like DefaultSkip.
func (s Skip) Advance(input string, pos int) int {
	if s == nil {
		s = DefaultSkip
	}
	for pos < len(input) {
		r, size := utf8.DecodeRuneInString(input[pos:])
		if !s(r) {
			break
		}
		pos += size
	}
	return pos
}
