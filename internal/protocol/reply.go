// Package protocol implements the wire level of the daemon's control
// protocol: CRLF-terminated, status-coded reply lines, QuotedString
// escaping, and a tokenizer for the KEY=VALUE mappings embedded in them.
//
// A reply is a sequence of lines shaped
//
//	NNN<div>content CRLF
//
// where NNN is a three-digit status code and <div> is "-" (more lines
// follow), "+" (a data block follows, closed by a line holding a single
// "."), or a space (final line of the reply).
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedReply indicates wire data that violates the reply grammar.
// It is always fatal to the read or parse that encountered it.
var ErrMalformedReply = errors.New("malformed control reply")

// StatusOK is the code the daemon uses for every successful reply line.
const StatusOK = 250

// ReplyLine is one status-coded line of a control reply. Text holds the
// content after the divider; for data lines it additionally holds the data
// block, newline separated.
type ReplyLine struct {
	Code int
	Text string
}

// Reply is one complete control reply, in wire order.
type Reply struct {
	Lines []ReplyLine
}

// Text joins the reply's line contents with newlines. A single-line reply
// yields its content verbatim.
func (r *Reply) Text() string {
	parts := make([]string, len(r.Lines))
	for i, line := range r.Lines {
		parts[i] = line.Text
	}
	return strings.Join(parts, "\n")
}

// IsOK reports whether the reply is exactly the positive "OK" acknowledgment.
func (r *Reply) IsOK() bool {
	return r.Text() == "OK"
}

// Code returns the status code of the reply's final line.
func (r *Reply) Code() int {
	if len(r.Lines) == 0 {
		return 0
	}
	return r.Lines[len(r.Lines)-1].Code
}

// TokenLines returns the reply's contents as tokenizable lines.
func (r *Reply) TokenLines() []*Line {
	lines := make([]*Line, len(r.Lines))
	for i, line := range r.Lines {
		lines[i] = NewLine(line.Text)
	}
	return lines
}

// ReadReply reads one complete reply from br. It returns ErrMalformedReply
// (wrapped with detail) for lines that do not follow the reply grammar, and
// the underlying read error if the connection fails mid-reply.
func ReadReply(br *bufio.Reader) (*Reply, error) {
	reply := &Reply{}

	for {
		raw, err := readCRLFLine(br)
		if err != nil {
			return nil, err
		}
		if len(raw) < 4 {
			return nil, fmt.Errorf("%w: truncated reply line %q", ErrMalformedReply, raw)
		}

		code, err := strconv.Atoi(raw[:3])
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric status code in %q", ErrMalformedReply, raw)
		}
		divider := raw[3]
		content := raw[4:]

		switch divider {
		case '-':
			reply.Lines = append(reply.Lines, ReplyLine{Code: code, Text: content})
		case ' ':
			reply.Lines = append(reply.Lines, ReplyLine{Code: code, Text: content})
			return reply, nil
		case '+':
			data, err := readDataBlock(br)
			if err != nil {
				return nil, err
			}
			reply.Lines = append(reply.Lines, ReplyLine{Code: code, Text: content + "\n" + data})
		default:
			return nil, fmt.Errorf("%w: unrecognized divider in %q", ErrMalformedReply, raw)
		}
	}
}

// readDataBlock consumes the raw lines of a "+" data block up to and
// including its "." terminator, undoing dot-stuffing.
func readDataBlock(br *bufio.Reader) (string, error) {
	var lines []string
	for {
		raw, err := readCRLFLine(br)
		if err != nil {
			return "", err
		}
		if raw == "." {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, strings.TrimPrefix(raw, "."))
	}
}

// readCRLFLine reads one CRLF-terminated line and strips the terminator.
func readCRLFLine(br *bufio.Reader) (string, error) {
	raw, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(raw, "\r\n") {
		return "", fmt.Errorf("%w: line %q is not CRLF terminated", ErrMalformedReply, raw)
	}
	return raw[:len(raw)-2], nil
}
