package control

import (
	"bufio"
	"net"
	"strconv"
	"sync"

	"torctl/internal/protocol"
)

// Transport is one control connection to the daemon. It carries at most
// one in-flight command: send a command, then consume its full reply
// before sending the next. Cancellation and timeouts belong to the
// underlying connection, not to this layer.
type Transport interface {
	// Connect establishes the connection. Connecting an already-connected
	// transport is a no-op.
	Connect() error
	// Send writes one command line; the CRLF terminator is appended here.
	Send(command string) error
	// Recv reads one complete reply.
	Recv() (*protocol.Reply, error)
	// Close closes the connection. Closing a closed transport is a no-op.
	Close() error
}

// controlConn is the shared connection state behind ControlPort and
// ControlSocket.
type controlConn struct {
	dial func() (net.Conn, error)

	mu   sync.Mutex // guards conn and br
	conn net.Conn
	br   *bufio.Reader
}

func (c *controlConn) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}
	conn, err := c.dial()
	if err != nil {
		return err
	}
	c.conn = conn
	c.br = bufio.NewReader(conn)
	return nil
}

func (c *controlConn) Send(command string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	_, err := c.conn.Write([]byte(command + "\r\n"))
	return err
}

func (c *controlConn) Recv() (*protocol.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}
	return protocol.ReadReply(c.br)
}

func (c *controlConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.br = nil
	return err
}

// ControlPort is a transport over the daemon's TCP control port.
type ControlPort struct {
	controlConn
	addr string
	port int
}

// NewControlPort creates a transport for the control port at addr:port.
// It does not connect.
func NewControlPort(addr string, port int) *ControlPort {
	t := &ControlPort{addr: addr, port: port}
	t.dial = func() (net.Conn, error) {
		return net.Dial("tcp", net.JoinHostPort(addr, strconv.Itoa(port)))
	}
	return t
}

// Address returns the control port's host address.
func (t *ControlPort) Address() string { return t.addr }

// Port returns the control port's TCP port.
func (t *ControlPort) Port() int { return t.port }

// ControlSocket is a transport over the daemon's unix domain control
// socket.
type ControlSocket struct {
	controlConn
	path string
}

// NewControlSocket creates a transport for the control socket at path.
// It does not connect.
func NewControlSocket(path string) *ControlSocket {
	t := &ControlSocket{path: path}
	t.dial = func() (net.Conn, error) {
		return net.Dial("unix", path)
	}
	return t
}

// Path returns the control socket's filesystem path.
func (t *ControlSocket) Path() string { return t.path }
