// Package control implements the bootstrap of a control connection to a
// Tor-style daemon: the PROTOCOLINFO capability-discovery query, parsing
// of its reply, best-effort expansion of a relative cookie path against
// the daemon's working directory, and the three authentication handshakes.
//
// A typical exchange looks like:
//
//	250-PROTOCOLINFO 1
//	250-AUTH METHODS=COOKIE COOKIEFILE="/home/user/.tor/control_auth_cookie"
//	250-VERSION Tor="0.2.1.30"
//	250 OK
//
// Everything here is a synchronous round trip over an already-open
// transport; the transport owns cancellation and timeouts.
package control

import (
	"fmt"
	"strings"

	"torctl/internal/procinfo"
	"torctl/internal/protocol"
	"torctl/internal/version"
)

// AuthMethod is one authentication scheme the daemon will accept.
type AuthMethod int

const (
	// AuthNone requires no credentials.
	AuthNone AuthMethod = iota
	// AuthPassword requires the password matching the daemon's hashed
	// control password.
	AuthPassword
	// AuthCookie requires the contents of the daemon's cookie file.
	AuthCookie
	// AuthUnknown marks that the daemon advertised at least one method this
	// client does not recognize. It appears in a method list at most once.
	AuthUnknown
)

func (m AuthMethod) String() string {
	switch m {
	case AuthNone:
		return "NONE"
	case AuthPassword:
		return "PASSWORD"
	case AuthCookie:
		return "COOKIE"
	case AuthUnknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("AuthMethod(%d)", int(m))
	}
}

// ProtocolInfo is the parsed reply of one PROTOCOLINFO query.
//
// ProtocolVersion is the only field the daemon must provide; everything
// else is zero-valued when the reply omits it. CookiePath holds the path
// from the wire, possibly rewritten to an absolute path by cookie-path
// expansion (the daemon often reports a path relative to its own working
// directory).
type ProtocolInfo struct {
	// ProtocolVersion is the control-protocol version of the reply.
	ProtocolVersion int
	// TorVersion is the daemon's software version, nil if not reported.
	TorVersion *version.Version
	// AuthMethods lists the accepted authentication methods in wire order,
	// with all unrecognized methods collapsed into a single AuthUnknown.
	AuthMethods []AuthMethod
	// UnknownAuthMethods retains the raw names of unrecognized methods.
	UnknownAuthMethods []string
	// CookiePath is the daemon's authentication cookie file, "" if none.
	CookiePath string

	conn Transport // retained open transport, nil unless KeepOpen was set
}

// Conn returns the still-open transport the reply arrived on, or nil if
// the query was not asked to keep it open.
func (p *ProtocolInfo) Conn() Transport {
	return p.conn
}

// ParseProtocolInfo parses one complete PROTOCOLINFO reply into a
// ProtocolInfo. It fails with ErrMalformedReply on syntax violations
// inside recognized lines; unrecognized line types and unrecognized
// authentication method names are forward-compatible and never fatal.
//
// When the reply names a relative cookie file, a best-effort by-name
// expansion runs immediately; queries over a port or socket follow up with
// an authoritative expansion that overwrites this one.
func ParseProtocolInfo(reply *protocol.Reply, opts ...Option) (*ProtocolInfo, error) {
	return parseProtocolInfo(reply, newOptions(opts))
}

func parseProtocolInfo(reply *protocol.Reply, o *options) (*ProtocolInfo, error) {
	lines := reply.TokenLines()
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedReply)
	}
	if first, _ := lines[0].Peek(); first != "PROTOCOLINFO" {
		return nil, fmt.Errorf("%w: not a PROTOCOLINFO reply: %q", ErrMalformedReply, lines[0].Text())
	}

	info := &ProtocolInfo{ProtocolVersion: -1}

	for _, line := range lines {
		if line.Remainder() == "OK" {
			break
		}
		if line.IsEmpty() {
			continue
		}

		lineType, _ := line.Pop()
		switch lineType {
		case "PROTOCOLINFO":
			// FirstLine = "PROTOCOLINFO" SP PIVERSION CRLF
			if err := parseVersionLine(info, line, o); err != nil {
				return nil, err
			}
		case "AUTH":
			// AuthLine = "AUTH" SP "METHODS=" AuthMethod *("," AuthMethod)
			//            *(SP "COOKIEFILE=" QuotedString) CRLF
			if err := parseAuthLine(info, line, o); err != nil {
				return nil, err
			}
		case "VERSION":
			// VersionLine = "VERSION" SP "Tor=" QuotedString CRLF
			if err := parseTorVersionLine(info, line); err != nil {
				return nil, err
			}
		default:
			o.log.V(1).Info("ignoring unrecognized PROTOCOLINFO line type",
				"type", lineType, "line", line.Remainder())
		}
	}

	if info.ProtocolVersion < 0 {
		return nil, fmt.Errorf("%w: reply is missing its protocol version", ErrMalformedReply)
	}
	return info, nil
}

func parseVersionLine(info *ProtocolInfo, line *protocol.Line, o *options) error {
	piversion, ok := line.Pop()
	if !ok {
		return fmt.Errorf("%w: PROTOCOLINFO line is missing the protocol version", ErrMalformedReply)
	}

	v := 0
	for _, c := range piversion {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: non-numeric protocol version %q", ErrMalformedReply, piversion)
		}
		v = v*10 + int(c-'0')
	}
	info.ProtocolVersion = v

	// The daemon does not have to answer with the version we asked for. A
	// version we don't expect still parses as v1 on a best-effort basis;
	// warn rather than fail.
	if v != 1 {
		o.log.Info("PROTOCOLINFO v1 query answered with a different version; parsing as v1 anyway",
			"version", v)
	}
	return nil
}

func parseAuthLine(info *ProtocolInfo, line *protocol.Line, o *options) error {
	if !line.IsNextMapping("METHODS", false, false) {
		return fmt.Errorf("%w: AUTH line is missing its mandatory METHODS mapping: %q",
			ErrMalformedReply, line.Remainder())
	}
	_, methods, _ := line.PopMapping(false, false)

	for _, method := range strings.Split(methods, ",") {
		switch method {
		case "NULL":
			info.AuthMethods = append(info.AuthMethods, AuthNone)
		case "HASHEDPASSWORD":
			info.AuthMethods = append(info.AuthMethods, AuthPassword)
		case "COOKIE":
			info.AuthMethods = append(info.AuthMethods, AuthCookie)
		default:
			info.UnknownAuthMethods = append(info.UnknownAuthMethods, method)
			o.log.Info("daemon advertised an unrecognized authentication method", "method", method)
			if !hasMethod(info.AuthMethods, AuthUnknown) {
				info.AuthMethods = append(info.AuthMethods, AuthUnknown)
			}
		}
	}

	// COOKIEFILE is optional, quoted, and may carry escapes.
	if line.IsNextMapping("COOKIEFILE", true, true) {
		_, path, _ := line.PopMapping(true, true)
		info.CookiePath = path
		expandCookiePath(info, o.resolver, procinfo.ByName(o.processName), o.log)
	}
	return nil
}

func parseTorVersionLine(info *ProtocolInfo, line *protocol.Line) error {
	if !line.IsNextMapping("Tor", true, false) {
		return fmt.Errorf("%w: VERSION line is missing its mandatory Tor version mapping: %q",
			ErrMalformedReply, line.Remainder())
	}
	_, value, _ := line.PopMapping(true, false)

	v, err := version.Parse(value)
	if err != nil {
		return fmt.Errorf("%w: unparsable Tor version: %v", ErrMalformedReply, err)
	}
	info.TorVersion = v
	return nil
}

func hasMethod(methods []AuthMethod, m AuthMethod) bool {
	for _, have := range methods {
		if have == m {
			return true
		}
	}
	return false
}
