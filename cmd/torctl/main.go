package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"torctl/internal/config"
	"torctl/internal/control"
)

const (
	appName    = "torctl"
	appVersion = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Bootstrap client for Tor-style control ports",
	Long: `Torctl bootstraps a control connection to a Tor-style daemon:
  - queries the daemon's protocol capabilities (PROTOCOLINFO)
  - locates and validates its authentication cookie
  - performs the authentication handshake (none, password, or cookie)`,
	Version:       appVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("address", "", "Control port address")
	rootCmd.PersistentFlags().Int("port", 0, "Control port")
	rootCmd.PersistentFlags().String("socket", "", "Control socket path (preferred over the port)")
	rootCmd.PersistentFlags().IntP("verbosity", "v", 0, "Diagnostics verbosity")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(authCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s v%s\n", appName, appVersion))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

// target is where one invocation connects: config-file defaults with any
// command-line overrides applied.
type target struct {
	address     string
	port        int
	socket      string
	processName string
	password    string
	cookiePath  string
}

func loadTarget(cmd *cobra.Command) (*target, error) {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	t := &target{
		address:     cfg.Controller.Address,
		port:        cfg.Controller.Port,
		socket:      cfg.Controller.Socket,
		processName: cfg.Controller.ProcessName,
		password:    cfg.Controller.Password,
		cookiePath:  cfg.Controller.CookiePath,
	}

	if v, _ := cmd.Flags().GetString("address"); v != "" {
		t.address = v
		t.socket = ""
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		t.port = v
		t.socket = ""
	}
	if v, _ := cmd.Flags().GetString("socket"); v != "" {
		t.socket = v
	}
	return t, nil
}

// query runs the capability discovery against the target.
func (t *target) query(opts ...control.Option) (*control.ProtocolInfo, error) {
	opts = append(opts, control.WithProcessName(t.processName))
	if t.socket != "" {
		return control.QuerySocket(t.socket, opts...)
	}
	return control.QueryPort(t.address, t.port, opts...)
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetInt("verbosity")
	return v
}
