package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional offload configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Scan     ScanConfig     `toml:"scan"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. Nil means unset.
type DefaultsConfig struct {
	Threshold *string `toml:"threshold"`
	Workers   *int    `toml:"workers"`
	Verify    *bool   `toml:"verify"`
	Preserve  *bool   `toml:"preserve"`
	BWLimit   *string `toml:"bwlimit"`
}

// ScanConfig overrides where and what the scan command looks at.
type ScanConfig struct {
	Roots   []string `toml:"roots"`
	Exclude []string `toml:"exclude"`
}

// ThemeConfig holds optional color overrides for terminal output.
type ThemeConfig struct {
	Accent *string `toml:"accent"`
	OK     *string `toml:"ok"`
	Warn   *string `toml:"warn"`
	Error  *string `toml:"error"`
	Muted  *string `toml:"muted"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "offload", "config.toml")
}

// Load reads the config file from the XDG path. A missing file yields a
// zero Config and no error.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Keys offload does not know are an
// error so typos do not pass silently.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
