// Package config handles the configuration directory and config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todomirror"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Backend names.
const (
	BackendPlaceholder = "placeholder"
	BackendGoogleTasks = "googletasks"
)

// configFiles are tried in order; the first one that exists is loaded.
var configFiles = []string{"config.yaml", "config.yml", "config.toml"}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-" toml:"-"`

	// File is the config file that was loaded, empty if defaults are in use.
	File string `yaml:"-" toml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-" toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-" toml:"-"`

	Backend  string       `yaml:"backend" toml:"backend"`
	BaseURL  string       `yaml:"base_url" toml:"base_url"`
	PageSize int          `yaml:"page_size" toml:"page_size"`
	Policy   string       `yaml:"policy" toml:"policy"`
	Timeout  string       `yaml:"timeout" toml:"timeout"`
	LogLevel string       `yaml:"log_level" toml:"log_level"`
	LogFile  string       `yaml:"log_file,omitempty" toml:"log_file"`
	Google   GoogleConfig `yaml:"google" toml:"google"`
}

// GoogleConfig holds settings for the googletasks backend.
type GoogleConfig struct {
	// ListID is the task list mirrored by the store.
	ListID string `yaml:"list_id" toml:"list_id"`
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todomirror or $HOME/.config/todomirror.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:      dir,
		Backend:  BackendPlaceholder,
		BaseURL:  "https://jsonplaceholder.typicode.com",
		PageSize: 10,
		Policy:   "confirm",
		Timeout:  "5s",
		LogLevel: "info",
		Google:   GoogleConfig{ListID: "@default"},
	}, nil
}

// Load creates a Config like New and overlays the first config file found
// in the directory. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	for _, name := range configFiles {
		path := filepath.Join(cfg.Dir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if strings.HasSuffix(name, ".toml") {
			err = toml.Unmarshal(data, cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", name, err)
		}
		cfg.File = path
		break
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

// APITimeout returns the parsed timeout, or 5s if it is unset or invalid.
// Validate reports invalid values.
func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// YAML renders the effective settings as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
