// Package config handles the XDG configuration directory, file paths and
// the settings loaded from config.yaml and TASKDASH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskdash"

	// EnvPrefix prefixes every environment override, e.g. TASKDASH_BACKEND_URL.
	EnvPrefix = "TASKDASH"

	// SettingsFile is the optional settings file in the config directory.
	SettingsFile = "config.yaml"

	// SessionFile holds the bearer token of the logged-in user.
	SessionFile = "user"

	// GoogleClientFile is the OAuth client credentials filename used by import.
	GoogleClientFile = "oauth_client.json"

	// GoogleTokenFile is the stored Google OAuth token filename.
	GoogleTokenFile = "google_token.json"
)

// Defaults.
const (
	DefaultBackendURL      = "http://localhost:5000/api"
	DefaultTimeout         = 10 * time.Second
	DefaultListenAddr      = ":3000"
	DefaultValidateTimeout = 3 * time.Second
)

// Settings are the tunables read through viper.
type Settings struct {
	BackendURL      string        `mapstructure:"backend_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	SecretKey       string        `mapstructure:"secret_key"`
	ListenAddr      string        `mapstructure:"listen_addr"`
	ValidateTimeout time.Duration `mapstructure:"validate_timeout"`
}

// Validate checks the settings needed to reach the backend.
func (s Settings) Validate() error {
	var errs []error
	u, err := url.Parse(s.BackendURL)
	if s.BackendURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend_url: invalid url %q", s.BackendURL))
	}
	if s.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout: must be positive, got %s", s.Timeout))
	}
	if s.ValidateTimeout <= 0 {
		errs = append(errs, fmt.Errorf("validate_timeout: must be positive, got %s", s.ValidateTimeout))
	}
	return errors.Join(errs...)
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings Settings

	// Log is set by the dispatcher once flags are parsed.
	Log *slog.Logger
}

// New creates a Config for configDir (or the default directory) and loads
// its settings. A missing config.yaml is not an error.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	s, err := LoadSettings(dir)
	if err != nil {
		return nil, err
	}
	return &Config{Dir: dir, Settings: s, Log: slog.Default()}, nil
}

// LoadSettings layers defaults, dir/config.yaml and the environment.
func LoadSettings(dir string) (Settings, error) {
	v := viper.New()
	v.SetDefault("backend_url", DefaultBackendURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("secret_key", "")
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("validate_timeout", DefaultValidateTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	path := filepath.Join(dir, SettingsFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
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

// SessionPath returns the path of the session token file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// GoogleClientPath returns the path to the Google OAuth client credentials.
func (c *Config) GoogleClientPath() string {
	return filepath.Join(c.Dir, GoogleClientFile)
}

// GoogleTokenPath returns the path to the stored Google token.
func (c *Config) GoogleTokenPath() string {
	return filepath.Join(c.Dir, GoogleTokenFile)
}

// EnsureDir creates the config directory with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasGoogleClient reports whether oauth_client.json exists.
func (c *Config) HasGoogleClient() bool {
	_, err := os.Stat(c.GoogleClientPath())
	return err == nil
}

// HasGoogleToken reports whether a Google account is linked.
func (c *Config) HasGoogleToken() bool {
	_, err := os.Stat(c.GoogleTokenPath())
	return err == nil
}

// RemoveGoogleToken deletes the Google token file.
func (c *Config) RemoveGoogleToken() error {
	return os.Remove(c.GoogleTokenPath())
}
