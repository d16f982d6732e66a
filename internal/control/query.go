package control

import (
	"torctl/internal/procinfo"
)

// protocolInfoQuery asks for a version 1 reply; newer daemons may answer
// with a different version anyway, which the parser tolerates.
const protocolInfoQuery = "PROTOCOLINFO 1"

// QueryPort connects to the daemon's TCP control port, issues the
// PROTOCOLINFO query, and returns the parsed reply. For loopback queries
// the cookie path is additionally expanded by looking up the process that
// listens on the port, overwriting the parser's by-name attempt.
//
// With KeepOpen the transport stays open and is reachable through the
// reply's Conn; otherwise it is closed before returning. The transport is
// always closed on error.
func QueryPort(addr string, port int, opts ...Option) (*ProtocolInfo, error) {
	o := newOptions(opts)
	conn := NewControlPort(addr, port)

	info, err := runQuery(conn, o)
	if err != nil {
		return nil, err
	}

	// A remote daemon's process table is not ours to inspect.
	if addr == "127.0.0.1" {
		expandCookiePath(info, o.resolver, procinfo.ByPort(port), o.log)
	}
	return retain(conn, info, o)
}

// QuerySocket connects to the daemon's unix domain control socket, issues
// the PROTOCOLINFO query, and returns the parsed reply. The cookie path is
// additionally expanded by looking up the process holding the socket open,
// overwriting the parser's by-name attempt.
//
// Transport handling matches QueryPort.
func QuerySocket(path string, opts ...Option) (*ProtocolInfo, error) {
	o := newOptions(opts)
	conn := NewControlSocket(path)

	info, err := runQuery(conn, o)
	if err != nil {
		return nil, err
	}

	expandCookiePath(info, o.resolver, procinfo.ByOpenFile(path), o.log)
	return retain(conn, info, o)
}

// runQuery drives one discovery round trip: connect, send, receive, parse.
// The transport is closed on every failure path.
func runQuery(conn Transport, o *options) (*ProtocolInfo, error) {
	if err := conn.Connect(); err != nil {
		return nil, err
	}
	if err := conn.Send(protocolInfoQuery); err != nil {
		conn.Close()
		return nil, err
	}
	reply, err := conn.Recv()
	if err != nil {
		conn.Close()
		return nil, err
	}

	info, err := parseProtocolInfo(reply, o)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return info, nil
}

func retain(conn Transport, info *ProtocolInfo, o *options) (*ProtocolInfo, error) {
	if o.keepOpen {
		info.conn = conn
		return info, nil
	}
	if err := conn.Close(); err != nil {
		return nil, err
	}
	return info, nil
}
