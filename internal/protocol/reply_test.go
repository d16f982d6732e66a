package protocol

import (
	"bufio"
	"errors"
	"strings"
	"testing"
)

func readReply(t *testing.T, wire string) (*Reply, error) {
	t.Helper()
	return ReadReply(bufio.NewReader(strings.NewReader(wire)))
}

func TestReadReplyMultiLine(t *testing.T) {
	wire := "250-PROTOCOLINFO 1\r\n" +
		"250-AUTH METHODS=COOKIE COOKIEFILE=\"/tmp/cookie\"\r\n" +
		"250-VERSION Tor=\"0.2.1.30\"\r\n" +
		"250 OK\r\n"

	reply, err := readReply(t, wire)
	if err != nil {
		t.Fatalf("ReadReply() error = %v", err)
	}
	if len(reply.Lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(reply.Lines))
	}
	if reply.Lines[0].Text != "PROTOCOLINFO 1" {
		t.Errorf("first line = %q", reply.Lines[0].Text)
	}
	if reply.Code() != StatusOK {
		t.Errorf("Code() = %d, want %d", reply.Code(), StatusOK)
	}
	if reply.IsOK() {
		t.Error("a multi-line reply is not the bare OK acknowledgment")
	}
}

func TestReadReplySingleOK(t *testing.T) {
	reply, err := readReply(t, "250 OK\r\n")
	if err != nil {
		t.Fatalf("ReadReply() error = %v", err)
	}
	if !reply.IsOK() {
		t.Errorf("IsOK() = false for %q", reply.Text())
	}
}

func TestReadReplyRejection(t *testing.T) {
	reply, err := readReply(t, "515 Authentication failed: Wrong length on authentication cookie.\r\n")
	if err != nil {
		t.Fatalf("ReadReply() error = %v", err)
	}
	if reply.IsOK() {
		t.Error("IsOK() = true for a 515 rejection")
	}
	if reply.Code() != 515 {
		t.Errorf("Code() = %d, want 515", reply.Code())
	}
	if !strings.Contains(reply.Text(), "Wrong length") {
		t.Errorf("Text() = %q", reply.Text())
	}
}

func TestReadReplyDataBlock(t *testing.T) {
	wire := "250+onions/current=\r\n" +
		"first\r\n" +
		"..dotted\r\n" +
		".\r\n" +
		"250 OK\r\n"

	reply, err := readReply(t, wire)
	if err != nil {
		t.Fatalf("ReadReply() error = %v", err)
	}
	if len(reply.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(reply.Lines))
	}
	want := "onions/current=\nfirst\n.dotted"
	if reply.Lines[0].Text != want {
		t.Errorf("data line = %q, want %q", reply.Lines[0].Text, want)
	}
}

func TestReadReplyMalformed(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{name: "missing CR", wire: "250 OK\n"},
		{name: "truncated line", wire: "25\r\n"},
		{name: "non-numeric status", wire: "2x0 OK\r\n"},
		{name: "unknown divider", wire: "250~OK\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readReply(t, tt.wire)
			if !errors.Is(err, ErrMalformedReply) {
				t.Errorf("ReadReply() error = %v, want ErrMalformedReply", err)
			}
		})
	}
}
