package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"torctl/internal/control"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Query the daemon's protocol capabilities",
	Long: `Info issues a PROTOCOLINFO query and reports the daemon's protocol
version, software version, accepted authentication methods, and the path
of its authentication cookie (expanded to an absolute path when the
daemon's working directory can be determined).`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	t, err := loadTarget(cmd)
	if err != nil {
		return err
	}

	info, err := t.query(control.WithLogger(newLogger(verbosity(cmd))))
	if err != nil {
		return err
	}

	fmt.Printf("protocol version: %d\n", info.ProtocolVersion)
	if info.TorVersion != nil {
		fmt.Printf("daemon version:   %s\n", info.TorVersion)
	} else {
		fmt.Printf("daemon version:   (not reported)\n")
	}
	fmt.Printf("auth methods:     %s\n", methodList(info))
	if info.CookiePath != "" {
		fmt.Printf("cookie file:      %s\n", info.CookiePath)
	}
	return nil
}

func methodList(info *control.ProtocolInfo) string {
	if len(info.AuthMethods) == 0 {
		return "(none advertised)"
	}
	names := make([]string, len(info.AuthMethods))
	for i, m := range info.AuthMethods {
		names[i] = m.String()
	}
	s := strings.Join(names, ", ")
	if len(info.UnknownAuthMethods) > 0 {
		s += fmt.Sprintf(" (unrecognized: %s)", strings.Join(info.UnknownAuthMethods, ", "))
	}
	return s
}
