// internal/config/config.go
//
// This package handles configuration and the .dalali directory structure.
// Every machine that runs the client gets a .dalali/ folder holding the
// config file, the cached access token, and session logs.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DalaliDir is the name of the directory we create under the base dir.
	DalaliDir = ".dalali"

	defaultAPIURL  = "http://localhost:8000"
	defaultTimeout = 15 * time.Second
)

const defaultConfigYAML = `# dalali client configuration
version: 1

api:
  # Base URL of the marketplace REST API. Media paths returned by the API
  # are resolved against this origin.
  url: http://localhost:8000
  # Request timeout in seconds.
  timeout: 15
`

// APIConfig captures the api section of .dalali/config.yaml.
type APIConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"`
}

// FileConfig models .dalali/config.yaml.
type FileConfig struct {
	Version int       `yaml:"version"`
	API     APIConfig `yaml:"api"`
}

// Config holds the runtime configuration for the client.
type Config struct {
	// BaseDir is the directory that contains .dalali (usually the home dir).
	BaseDir string

	// DalaliDir is BaseDir/.dalali.
	DalaliDir string

	File FileConfig
}

// Init creates the .dalali directory structure under baseDir.
//
// Structure created:
// .dalali/
// ├── logs/    <- session logs
// ├── state/   <- cached access token
// └── config.yaml
func Init(baseDir string) error {
	dalaliDir := filepath.Join(baseDir, DalaliDir)
	dirs := []string{
		filepath.Join(dalaliDir, "logs"),
		filepath.Join(dalaliDir, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureConfigFile(filepath.Join(dalaliDir, "config.yaml"))
}

// Load reads config.yaml and applies .env and environment overrides.
// Environment wins over .env, which wins over the file.
func Load(baseDir string) (*Config, error) {
	cfg := &Config{
		BaseDir:   baseDir,
		DalaliDir: filepath.Join(baseDir, DalaliDir),
		File: FileConfig{
			Version: 1,
			API:     APIConfig{URL: defaultAPIURL, Timeout: int(defaultTimeout.Seconds())},
		},
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	// .env in the base dir is optional; a missing file is not an error.
	_ = godotenv.Load(filepath.Join(baseDir, ".env"))

	if v := strings.TrimSpace(os.Getenv("DALALI_API_URL")); v != "" {
		cfg.File.API.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("DALALI_TIMEOUT")); v != "" {
		seconds, err := time.ParseDuration(v + "s")
		if err != nil {
			return nil, fmt.Errorf("config: DALALI_TIMEOUT: %w", err)
		}
		cfg.File.API.Timeout = int(seconds.Seconds())
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// APIURL returns the configured API base URL without a trailing slash.
func (c *Config) APIURL() string {
	return strings.TrimRight(strings.TrimSpace(c.File.API.URL), "/")
}

// Timeout returns the request timeout.
func (c *Config) Timeout() time.Duration {
	if c.File.API.Timeout <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.File.API.Timeout) * time.Second
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DalaliDir, "logs")
}

// StateDir returns the path to the state directory.
func (c *Config) StateDir() string {
	return filepath.Join(c.DalaliDir, "state")
}

// LogPath returns the session log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "session.log")
}

// TokenPath returns the file that caches the access token between runs.
func (c *Config) TokenPath() string {
	return filepath.Join(c.StateDir(), "token")
}

// ConfigPath returns the on-disk location of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.DalaliDir, "config.yaml")
}

// SaveToken persists the access token so the next run can revalidate it.
func (c *Config) SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return c.ClearToken()
	}
	if err := os.MkdirAll(c.StateDir(), 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	if err := os.WriteFile(c.TokenPath(), []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("config: write token: %w", err)
	}
	return nil
}

// ReadToken returns the cached token, or "" when none is stored.
func (c *Config) ReadToken() string {
	data, err := os.ReadFile(c.TokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ClearToken removes the cached token. Clearing an absent token is a no-op.
func (c *Config) ClearToken() error {
	err := os.Remove(c.TokenPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: clear token: %w", err)
	}
	return nil
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if parsed.Version == 0 {
		parsed.Version = 1
	}
	if strings.TrimSpace(parsed.API.URL) == "" {
		parsed.API.URL = c.File.API.URL
	}
	if parsed.API.Timeout == 0 {
		parsed.API.Timeout = c.File.API.Timeout
	}
	c.File = parsed
	return nil
}

func (c *Config) validate() error {
	if c.File.Version < 1 {
		return fmt.Errorf("config: version must be >= 1")
	}
	raw := c.APIURL()
	if raw == "" {
		return fmt.Errorf("config: api.url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: api.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("config: api.url must be an http(s) URL, got %q", raw)
	}
	if c.File.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must not be negative")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
