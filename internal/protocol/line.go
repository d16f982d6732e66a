package protocol

import (
	"strings"
)

// Line is one tokenized control-protocol line. Callers consume it from the
// front: bare tokens are whitespace delimited, and KEY=VALUE mappings can be
// inspected before they are popped. A Line never grows back.
type Line struct {
	text      string // original content, for error reporting
	remainder string
}

// NewLine wraps one reply line's content for tokenization.
func NewLine(text string) *Line {
	return &Line{text: text, remainder: text}
}

// Text returns the original, unconsumed line content.
func (l *Line) Text() string {
	return l.text
}

// Remainder returns the content that has not been popped yet.
func (l *Line) Remainder() string {
	return l.remainder
}

// IsEmpty reports whether all content has been consumed.
func (l *Line) IsEmpty() bool {
	return l.remainder == ""
}

// Peek returns the next whitespace-delimited token without consuming it.
func (l *Line) Peek() (string, bool) {
	if l.remainder == "" {
		return "", false
	}
	if i := strings.IndexByte(l.remainder, ' '); i != -1 {
		return l.remainder[:i], true
	}
	return l.remainder, true
}

// Pop consumes and returns the next whitespace-delimited token.
func (l *Line) Pop() (string, bool) {
	token, ok := l.Peek()
	if !ok {
		return "", false
	}
	l.remainder = strings.TrimLeft(l.remainder[len(token):], " ")
	return token, true
}

// IsNextMapping reports whether the line continues with a KEY=VALUE mapping
// for the given key. When quoted is true the value must be a well-formed
// QuotedString; escaped additionally honors backslash escapes inside it.
func (l *Line) IsNextMapping(key string, quoted, escaped bool) bool {
	rest, ok := strings.CutPrefix(l.remainder, key+"=")
	if !ok {
		return false
	}
	if quoted {
		return quotedSpan(rest, escaped) != -1
	}
	return true
}

// PopMapping consumes a KEY=VALUE mapping and returns its key and value.
// Quoted values are returned without their quotes; escaped values are
// additionally unescaped. Returns ok=false if no well-formed mapping is
// pending.
func (l *Line) PopMapping(quoted, escaped bool) (key, value string, ok bool) {
	eq := strings.IndexByte(l.remainder, '=')
	if eq <= 0 {
		return "", "", false
	}
	key = l.remainder[:eq]
	if strings.ContainsRune(key, ' ') {
		return "", "", false
	}
	rest := l.remainder[eq+1:]

	if quoted {
		end := quotedSpan(rest, escaped)
		if end == -1 {
			return "", "", false
		}
		value = rest[1 : end-1]
		if escaped {
			value = unescape(value)
		}
		l.remainder = strings.TrimLeft(rest[end:], " ")
		return key, value, true
	}

	if i := strings.IndexByte(rest, ' '); i != -1 {
		value = rest[:i]
		l.remainder = strings.TrimLeft(rest[i:], " ")
	} else {
		value = rest
		l.remainder = ""
	}
	return key, value, true
}
