// Package config handles the XDG configuration directory, the optional
// config.yaml file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// ConfigFile is the optional settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// LogFile receives the interactive UI's log output.
	LogFile = "tasklist.log"

	// DefaultServer is the task server used when nothing else is configured.
	DefaultServer = "http://localhost:8080"

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 5 * time.Second

	// DefaultFilter is the filter selected on start.
	DefaultFilter = "all"

	envServer  = "TASKLIST_SERVER"
	envTimeout = "TASKLIST_TIMEOUT"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Server is the base URL of the task server.
	Server string

	// Timeout bounds a single API call.
	Timeout time.Duration

	// Filter is the initial filter name.
	Filter string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileConfig mirrors config.yaml.
type fileConfig struct {
	Server  string `yaml:"server"`
	Timeout string `yaml:"timeout"`
	Filter  string `yaml:"filter"`
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklist or $HOME/.config/tasklist.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:     dir,
		Server:  DefaultServer,
		Timeout: DefaultTimeout,
		Filter:  DefaultFilter,
	}
}

// Load builds a Config from defaults, config.yaml (if present) and the environment,
// in increasing order of precedence.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnvironment(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the interactive UI's log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Validate checks the settings that the backend depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return errors.New("server URL is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.FilePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.Server != "" {
		c.Server = fc.Server
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid %s: timeout: %w", ConfigFile, err)
		}
		c.Timeout = d
	}
	if fc.Filter != "" {
		c.Filter = fc.Filter
	}
	return nil
}

func (c *Config) loadEnvironment() error {
	if server := os.Getenv(envServer); server != "" {
		c.Server = server
	}
	if timeout := os.Getenv(envTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}
