package control

import (
	"bufio"
	"net"
	"path/filepath"
	"strings"
	"testing"
)

// serveControl answers each incoming connection on l with the canned reply
// after reading one command line, then keeps reading so a follow-up
// AUTHENTICATE can be answered with 250 OK.
func serveControl(t *testing.T, l net.Listener, reply string) {
	t.Helper()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				br := bufio.NewReader(conn)
				if _, err := br.ReadString('\n'); err != nil {
					return
				}
				if _, err := conn.Write([]byte(reply)); err != nil {
					return
				}
				for {
					if _, err := br.ReadString('\n'); err != nil {
						return
					}
					if _, err := conn.Write([]byte("250 OK\r\n")); err != nil {
						return
					}
				}
			}(conn)
		}
	}()
}

const fullReply = "250-PROTOCOLINFO 1\r\n" +
	"250-AUTH METHODS=NULL,COOKIE COOKIEFILE=\"relative/control_auth_cookie\"\r\n" +
	"250-VERSION Tor=\"0.2.1.30\"\r\n" +
	"250 OK\r\n"

func TestQuerySocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	serveControl(t, l, fullReply)

	resolver := &fakeResolver{
		byFile: map[string]int32{path: 42},
		cwds:   map[int32]string{42: "/var/lib/tor"},
	}
	info, err := QuerySocket(path, WithResolver(resolver))
	if err != nil {
		t.Fatalf("QuerySocket() error = %v", err)
	}

	if info.ProtocolVersion != 1 {
		t.Errorf("ProtocolVersion = %d, want 1", info.ProtocolVersion)
	}
	if info.TorVersion == nil || info.TorVersion.String() != "0.2.1.30" {
		t.Errorf("TorVersion = %v, want 0.2.1.30", info.TorVersion)
	}
	if want := filepath.Join("/var/lib/tor", "relative/control_auth_cookie"); info.CookiePath != want {
		t.Errorf("CookiePath = %q, want %q", info.CookiePath, want)
	}
	if info.Conn() != nil {
		t.Error("transport must be closed without KeepOpen")
	}
}

// Once the parser's by-name attempt has produced an absolute path, the
// later by-open-file lookup leaves it alone.
func TestQuerySocketKeepsNameExpansion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	serveControl(t, l, fullReply)

	resolver := &fakeResolver{
		byName: map[string]int32{"tor": 7},
		byFile: map[string]int32{path: 42},
		cwds: map[int32]string{
			7:  "/etc/tor",
			42: "/var/lib/tor",
		},
	}
	info, err := QuerySocket(path, WithResolver(resolver))
	if err != nil {
		t.Fatalf("QuerySocket() error = %v", err)
	}
	if want := filepath.Join("/etc/tor", "relative/control_auth_cookie"); info.CookiePath != want {
		t.Errorf("CookiePath = %q, want %q", info.CookiePath, want)
	}
}

func TestQuerySocketKeepOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	serveControl(t, l, "250-PROTOCOLINFO 1\r\n250-AUTH METHODS=NULL\r\n250 OK\r\n")

	info, err := QuerySocket(path, WithResolver(noResolver()), KeepOpen())
	if err != nil {
		t.Fatalf("QuerySocket() error = %v", err)
	}
	conn := info.Conn()
	if conn == nil {
		t.Fatal("KeepOpen must retain the transport")
	}
	defer conn.Close()

	if err := Authenticate(conn, info, ""); err != nil {
		t.Fatalf("Authenticate() over the retained transport error = %v", err)
	}
}

func TestQueryPort(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	serveControl(t, l, fullReply)
	port := l.Addr().(*net.TCPAddr).Port

	resolver := &fakeResolver{
		byPort: map[int]int32{port: 42},
		cwds:   map[int32]string{42: "/var/lib/tor"},
	}
	info, err := QueryPort("127.0.0.1", port, WithResolver(resolver))
	if err != nil {
		t.Fatalf("QueryPort() error = %v", err)
	}
	if want := filepath.Join("/var/lib/tor", "relative/control_auth_cookie"); info.CookiePath != want {
		t.Errorf("CookiePath = %q, want %q", info.CookiePath, want)
	}
}

func TestQuerySocketMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	serveControl(t, l, "250 BOGUS REPLY\r\n")

	_, err = QuerySocket(path, WithResolver(noResolver()))
	if err == nil {
		t.Fatal("QuerySocket() succeeded on a non-PROTOCOLINFO reply")
	}
	if !strings.Contains(err.Error(), "malformed") {
		t.Errorf("error = %v, want a malformed reply error", err)
	}
}

func TestQueryPortRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	if _, err := QueryPort("127.0.0.1", port, WithResolver(noResolver())); err == nil {
		t.Fatal("QueryPort() succeeded against a closed port")
	}
}
