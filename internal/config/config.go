// Package config loads torctl's configuration. Settings live in a KDL file
// and hold connection defaults the CLI flags can override.
package config

import (
	"os"
	"path/filepath"

	kdl "github.com/sblinch/kdl-go"
)

// GlobalConfigFile is the config file name under the user config dir.
const GlobalConfigFile = "config.kdl"

// Config holds the complete torctl configuration.
type Config struct {
	Controller Controller `kdl:"controller"`
}

// Controller holds how to reach and authenticate to the daemon.
type Controller struct {
	// Address is the control port's host address.
	Address string `kdl:"address"`
	// Port is the control port's TCP port.
	Port int `kdl:"port"`
	// Socket is the unix control socket path, preferred over the port
	// when set.
	Socket string `kdl:"socket"`
	// ProcessName is the daemon's process name, used to expand relative
	// cookie paths during parsing.
	ProcessName string `kdl:"process-name"`
	// Password is the control password, if the daemon uses one.
	Password string `kdl:"password"`
	// CookiePath overrides the cookie file path reported by the daemon.
	CookiePath string `kdl:"cookie-path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Controller: Controller{
			Address:     "127.0.0.1",
			Port:        9051,
			ProcessName: "tor",
		},
	}
}

// LoadGlobalConfig loads the configuration from the default location,
// falling back to defaults when no file exists.
func LoadGlobalConfig() (*Config, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		configDir = filepath.Join(home, ".config")
	}

	configPath := filepath.Join(configDir, "torctl", GlobalConfigFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(string(data))
}

// ParseConfig parses KDL configuration data, layering it over defaults.
func ParseConfig(data string) (*Config, error) {
	cfg := DefaultConfig()
	if err := kdl.Unmarshal([]byte(data), cfg); err != nil {
		return nil, err
	}
	if cfg.Controller.Address == "" {
		cfg.Controller.Address = "127.0.0.1"
	}
	if cfg.Controller.ProcessName == "" {
		cfg.Controller.ProcessName = "tor"
	}
	return cfg, nil
}
