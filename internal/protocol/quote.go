package protocol

import (
	"strings"
)

// Escape sequences accepted inside QuotedString values. The daemon escapes
// backslashes, quotes, and control characters when it quotes a value; we
// reverse the same set.
var controlEscapes = map[byte]byte{
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
	'r':  '\r',
	'n':  '\n',
	't':  '\t',
}

// EscapeQuotes escapes embedded double quotes in s so it can be embedded in
// a QuotedString command argument. The daemon expects escaped quotes from
// controllers but accepts other bytes verbatim.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// unescape reverses QuotedString escaping on the raw content of a quoted
// value (the text between the quotes).
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if c, ok := controlEscapes[s[i+1]]; ok {
				b.WriteByte(c)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// quotedSpan returns the index just past the closing quote of a quoted value
// starting at s[0] (which must be '"'). When escaped is true a backslash
// protects the following byte. Returns -1 if the quote is never closed.
func quotedSpan(s string, escaped bool) int {
	if len(s) == 0 || s[0] != '"' {
		return -1
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if escaped {
				i++
			}
		case '"':
			return i + 1
		}
	}
	return -1
}
