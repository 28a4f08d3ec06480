package frontend

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the resolved configuration the control plane runs with. CLI
// parsing happens in cmd; this struct is all the core ever sees.
type Config struct {
	Iface      string `toml:"iface"`
	Block      string `toml:"block"`
	IPFile     string `toml:"ip_file"`
	ObjectPath string `toml:"object"`
	Userspace  bool   `toml:"userspace"`
	QueueNum   uint16 `toml:"queue"`
	Verbose    bool   `toml:"verbose"`
}

// DefaultConfig matches the defaults the original deployment used.
func DefaultConfig() *Config {
	return &Config{
		Iface:      "eth0",
		ObjectPath: "ping_drop.o",
	}
}

// LoadConfig reads a TOML config file. Fields not present keep their zero
// value; callers layer flag overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if _, err := toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	return cfg, nil
}
