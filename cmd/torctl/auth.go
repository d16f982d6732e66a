package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"torctl/internal/control"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate to the daemon",
	Long: `Auth queries the daemon's capabilities and then performs the
authentication handshake over the same connection. Without flags the
method is picked from what the daemon advertises: no-credential first,
then password (when one is available), then cookie.`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().String("password", "", "Authenticate with this control password")
	authCmd.Flags().Bool("ask-password", false, "Prompt for the control password")
	authCmd.Flags().String("cookie", "", "Authenticate with this cookie file")
	authCmd.Flags().Bool("none", false, "Authenticate without credentials")
}

func runAuth(cmd *cobra.Command, args []string) error {
	t, err := loadTarget(cmd)
	if err != nil {
		return err
	}

	password := t.password
	if v, _ := cmd.Flags().GetString("password"); v != "" {
		password = v
	}
	if ask, _ := cmd.Flags().GetBool("ask-password"); ask {
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}

	info, err := t.query(control.WithLogger(newLogger(verbosity(cmd))), control.KeepOpen())
	if err != nil {
		return err
	}
	conn := info.Conn()
	defer conn.Close()

	if t.cookiePath != "" {
		info.CookiePath = t.cookiePath
	}

	switch {
	case mustBool(cmd, "none"):
		err = control.AuthenticateNone(conn)
	case mustString(cmd, "cookie") != "":
		err = control.AuthenticateCookie(conn, mustString(cmd, "cookie"))
	default:
		err = control.Authenticate(conn, info, password)
	}
	if err != nil {
		return err
	}

	fmt.Println("authenticated")
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "control password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
