package control

import (
	"errors"

	"torctl/internal/protocol"
)

// ErrMalformedReply indicates a reply that violates the PROTOCOLINFO
// grammar. Re-exported from the protocol package so callers can classify
// wire-level and parse-level failures with one sentinel.
var ErrMalformedReply = protocol.ErrMalformedReply

var (
	// ErrNotConnected is returned when sending on a transport that has not
	// been connected, or has been closed.
	ErrNotConnected = errors.New("not connected to control socket")

	// ErrAuthRejected is returned when the daemon replies with anything but
	// "OK" to an authentication attempt. The daemon closes the transport
	// after a rejection; callers must not reuse it.
	ErrAuthRejected = errors.New("authentication rejected")

	// ErrMissingCookieFile is returned when the authentication cookie file
	// does not exist.
	ErrMissingCookieFile = errors.New("authentication cookie does not exist")

	// ErrWrongCookieSize is returned when the authentication cookie file is
	// not exactly 32 bytes. The bound rejects attempts to make us read an
	// attacker-chosen file as if it were a cookie.
	ErrWrongCookieSize = errors.New("authentication cookie is the wrong size")

	// ErrNoAuthMethod is returned by Authenticate when the daemon offers no
	// method this client can satisfy with the credentials at hand.
	ErrNoAuthMethod = errors.New("no usable authentication method")
)
