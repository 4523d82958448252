// Package config loads rosterview settings from a YAML file, the process
// environment and an optional .env file.
//
// Precedence, lowest first: built-in defaults, config.yaml, ROSTERVIEW_*
// environment variables (including those read from .env), CLI flags. Flags
// are applied by the cli package after Load returns.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective rosterview configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Roster   RosterConfig   `yaml:"roster"`
	Prefetch PrefetchConfig `yaml:"prefetch"`
	Fixture  FixtureConfig  `yaml:"fixture"`

	path string
}

// APIConfig points at the recruiting backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"ROSTERVIEW_API_URL" env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env:"ROSTERVIEW_API_TIMEOUT" env-default:"10s"`
	// MinVersion is a semver constraint checked against the X-Api-Version
	// response header. Empty disables the check.
	MinVersion string `yaml:"min_version" env:"ROSTERVIEW_API_MIN_VERSION" env-default:""`
}

// AuthConfig holds the session token location.
type AuthConfig struct {
	TokenFile string `yaml:"token_file" env:"ROSTERVIEW_TOKEN_FILE" env-default:""`
	// Token overrides the stored token. Secret, never written to YAML.
	Token string `yaml:"-" env:"ROSTERVIEW_TOKEN"`
}

// LoggingConfig mirrors logging.Config in its file form.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"ROSTERVIEW_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"ROSTERVIEW_LOG_FORMAT" env-default:"json"`
	File   string `yaml:"file" env:"ROSTERVIEW_LOG_FILE" env-default:""`
}

// RosterConfig controls how member fields are split.
type RosterConfig struct {
	Separators string `yaml:"separators" env:"ROSTERVIEW_SEPARATORS" env-default:",;"`
}

// PrefetchConfig controls eager loading of a selected team's profiles.
type PrefetchConfig struct {
	Enabled     bool `yaml:"enabled" env:"ROSTERVIEW_PREFETCH" env-default:"false"`
	Concurrency int  `yaml:"concurrency" env:"ROSTERVIEW_PREFETCH_CONCURRENCY" env-default:"4"`
}

// FixtureConfig configures the local fixture backend.
type FixtureConfig struct {
	Addr     string        `yaml:"addr" env:"ROSTERVIEW_FIXTURE_ADDR" env-default:"127.0.0.1:8080"`
	DataFile string        `yaml:"data_file" env:"ROSTERVIEW_FIXTURE_DATA" env-default:""`
	Latency  time.Duration `yaml:"latency" env:"ROSTERVIEW_FIXTURE_LATENCY" env-default:"0s"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"ROSTERVIEW_FIXTURE_TOKEN_TTL" env-default:"1h"`
	// SigningKey signs fixture tokens. Secret, never written to YAML.
	SigningKey string `yaml:"-" env:"ROSTERVIEW_FIXTURE_SIGNING_KEY" env-default:"rosterview-fixture"`
}

// New returns the built-in defaults, unaffected by the environment.
func New() *Config {
	cfg := &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Roster: RosterConfig{
			Separators: ",;",
		},
		Prefetch: PrefetchConfig{
			Concurrency: 4,
		},
		Fixture: FixtureConfig{
			Addr:       "127.0.0.1:8080",
			TokenTTL:   time.Hour,
			SigningKey: "rosterview-fixture",
		},
		path: DefaultConfigPath(),
	}
	cfg.resolvePaths()
	return cfg
}

// Load reads path (DefaultConfigPath when empty) and the environment. A
// missing file is not an error; defaults and the environment still apply.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := &Config{path: path}
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	case errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot access config path %s: %w", path, statErr)
	}

	cfg.resolvePaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the file this configuration is read from and saved to.
func (c *Config) ConfigPath() string {
	return c.path
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.path = path
}

// Save writes the configuration as YAML. Secrets are omitted.
func (c *Config) Save() error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// YAML renders the configuration the way Save writes it.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Validate checks values that would otherwise fail later and far away.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an http(s) URL", ErrInvalidConfig, c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalidConfig)
	}
	if c.API.MinVersion != "" {
		if _, err = semver.NewConstraint(c.API.MinVersion); err != nil {
			return fmt.Errorf("%w: api.min_version: %w", ErrInvalidConfig, err)
		}
	}
	if _, err = zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}
	if c.Roster.Separators == "" {
		return fmt.Errorf("%w: roster.separators must not be empty", ErrInvalidConfig)
	}
	if c.Prefetch.Concurrency < 1 {
		return fmt.Errorf("%w: prefetch.concurrency must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) resolvePaths() {
	if c.Auth.TokenFile == "" {
		c.Auth.TokenFile = filepath.Join(RosterviewDir(), "token")
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(RosterviewDir(), "logs", "rosterview.log")
	}
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}
