package control

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"torctl/internal/protocol"
)

// cookieSize is the exact size of a valid authentication cookie. Anything
// else is refused before the file is opened, so a hostile daemon cannot
// make us disclose the contents of an arbitrary file.
const cookieSize = 32

// AuthenticateNone authenticates to a daemon that requires no credentials.
// Every control connection must authenticate before use, even then.
//
// On rejection the daemon closes the transport; do not reuse it.
func AuthenticateNone(conn Transport) error {
	return authenticate(conn, "AUTHENTICATE")
}

// AuthenticatePassword authenticates with the password matching the
// daemon's hashed control password. Embedded quotes are escaped; the
// daemon expects that from controllers.
//
// On rejection the daemon closes the transport; do not reuse it.
func AuthenticatePassword(conn Transport, password string) error {
	return authenticate(conn, fmt.Sprintf(`AUTHENTICATE "%s"`, protocol.EscapeQuotes(password)))
}

// AuthenticateCookie authenticates with the hex-encoded contents of the
// daemon's cookie file. The file must exist and be exactly 32 bytes; both
// checks run before any byte of it is read.
//
// On rejection the daemon closes the transport; do not reuse it.
func AuthenticateCookie(conn Transport, cookiePath string) error {
	fi, err := os.Stat(cookiePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingCookieFile, cookiePath)
		}
		return err
	}
	if fi.Size() != cookieSize {
		return fmt.Errorf("%w: %s is %d bytes rather than %d",
			ErrWrongCookieSize, cookiePath, fi.Size(), cookieSize)
	}

	cookie, err := readCookie(cookiePath)
	if err != nil {
		return err
	}
	return authenticate(conn, "AUTHENTICATE "+hex.EncodeToString(cookie))
}

// Authenticate performs the first workable handshake among the methods the
// daemon advertised: no-credential, then password (when one was supplied),
// then cookie (when the reply named a cookie file). It fails with
// ErrNoAuthMethod if nothing is workable.
func Authenticate(conn Transport, info *ProtocolInfo, password string) error {
	for _, method := range info.AuthMethods {
		switch method {
		case AuthNone:
			return AuthenticateNone(conn)
		case AuthPassword:
			if password == "" {
				continue
			}
			return AuthenticatePassword(conn, password)
		case AuthCookie:
			if info.CookiePath == "" {
				continue
			}
			return AuthenticateCookie(conn, info.CookiePath)
		}
	}
	return fmt.Errorf("%w: daemon offers %v", ErrNoAuthMethod, info.AuthMethods)
}

// authenticate runs one AUTHENTICATE round trip. Success is exactly "OK";
// any other reply is a rejection carrying the daemon's reply text.
func authenticate(conn Transport, command string) error {
	if err := conn.Send(command); err != nil {
		return err
	}
	reply, err := conn.Recv()
	if err != nil {
		return err
	}
	if !reply.IsOK() {
		return fmt.Errorf("%w: %s", ErrAuthRejected, reply.Text())
	}
	return nil
}

// readCookie reads the full cookie file under a scoped open, closed on
// every path.
func readCookie(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
