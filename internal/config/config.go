package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"gopkg.in/yaml.v3"

	"github.com/rshade/holdview/internal/cache"
	"github.com/rshade/holdview/internal/render"
)

// Defaults applied by New before the config file and environment are read.
const (
	DefaultSourceURL        = "https://canopy-frontend-task.now.sh/api/holdings"
	DefaultPayloadPath      = "$.payload"
	DefaultTimeout          = 15 * time.Second
	DefaultMaxResponseBytes = 10 * 1024 * 1024
	DefaultPrecision        = 2
	DefaultCacheTTLSeconds  = 86400
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"

	// maxPrecision bounds the displayed decimal places.
	maxPrecision = 8

	configFileName = "config.yaml"
)

// Config is the holdview configuration, loaded from ~/.holdview/config.yaml.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`

	// loadErr records a config file that existed but could not be parsed.
	loadErr error
}

// SourceConfig describes where holdings are fetched from.
type SourceConfig struct {
	// URL is the holdings endpoint. file:// URLs read a local payload.
	URL string `yaml:"url"`

	// PayloadPath is the JSONPath of the holdings array inside the response envelope.
	PayloadPath string `yaml:"payload_path"`

	Timeout          time.Duration     `yaml:"timeout"`
	MaxResponseBytes int64             `yaml:"max_response_bytes"`
	Headers          map[string]string `yaml:"headers,omitempty"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	// DefaultFormat is one of auto, table, styled, json, ndjson, csv, markdown.
	DefaultFormat string `yaml:"default_format"`

	// BaseCurrency is the ISO 4217 code used to display market values. Empty shows plain numbers.
	BaseCurrency string `yaml:"base_currency"`

	Precision int  `yaml:"precision"`
	ExpandAll bool `yaml:"expand_all"`
}

// CacheConfig controls the on-disk snapshot of the last good payload.
type CacheConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Directory       string `yaml:"directory"`
	TTLSeconds      int    `yaml:"ttl_seconds"`
	FallbackOnError bool   `yaml:"fallback_on_error"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration without reading any file or environment.
func Default() *Config {
	cfg := &Config{
		Source: SourceConfig{
			URL:              DefaultSourceURL,
			PayloadPath:      DefaultPayloadPath,
			Timeout:          DefaultTimeout,
			MaxResponseBytes: DefaultMaxResponseBytes,
		},
		Output: OutputConfig{
			DefaultFormat: string(render.FormatAuto),
			Precision:     DefaultPrecision,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTLSeconds:      DefaultCacheTTLSeconds,
			FallbackOnError: true,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}

	if dir, err := GetConfigDir(); err == nil {
		cfg.Cache.Directory = filepath.Join(dir, "cache")
		cfg.Logging.File = filepath.Join(dir, "logs", "holdview.log")
	}

	return cfg
}

// New returns the effective configuration: defaults, then the config file, then the
// nearest project overlay at or above the working directory, then environment overrides.
// A config file that fails to parse is recorded in LoadError and otherwise ignored.
func New() *Config {
	cfg := Default()

	if path := ConfigFilePath(); path != "" {
		if err := cfg.LoadFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			cfg.loadErr = err
		}
	}

	if err := applyProjectOverlay(cfg); err != nil && cfg.loadErr == nil {
		cfg.loadErr = err
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

// LoadFile reads a YAML config file on top of the current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// LoadError returns the error encountered while reading the config file, if any.
func (c *Config) LoadError() error {
	return c.loadErr
}

// Validate checks the configuration for values that would break a fetch or render.
func (c *Config) Validate() error {
	var errs []error

	if err := validateSourceURL(c.Source.URL); err != nil {
		errs = append(errs, err)
	}
	if !strings.HasPrefix(c.Source.PayloadPath, "$") {
		errs = append(errs, fmt.Errorf("source.payload_path must be a JSONPath starting with $, got %q", c.Source.PayloadPath))
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("source.timeout must be positive, got %s", c.Source.Timeout))
	}
	if c.Source.MaxResponseBytes <= 0 {
		errs = append(errs, fmt.Errorf("source.max_response_bytes must be positive, got %d", c.Source.MaxResponseBytes))
	}

	if _, err := render.ParseFormat(c.Output.DefaultFormat); err != nil {
		errs = append(errs, fmt.Errorf("output.default_format: %w", err))
	}
	if code := c.Output.BaseCurrency; code != "" && money.GetCurrency(strings.ToUpper(code)) == nil {
		errs = append(errs, fmt.Errorf("output.base_currency %q is not a known ISO 4217 code", code))
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("output.precision must be between 0 and %d, got %d", maxPrecision, c.Output.Precision))
	}

	if c.Cache.TTLSeconds < 0 || c.Cache.TTLSeconds > cache.MaxTTLSeconds {
		errs = append(errs, fmt.Errorf("cache.ttl_seconds must be between 0 and %d, got %d",
			cache.MaxTTLSeconds, c.Cache.TTLSeconds))
	}
	if c.Cache.Enabled && c.Cache.Directory == "" {
		errs = append(errs, errors.New("cache.directory is required when the cache is enabled"))
	}

	return errors.Join(errs...)
}

func validateSourceURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("source.url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("source.url: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("source.url %q has no host", raw)
		}
	case "file":
	default:
		return fmt.Errorf("source.url scheme must be http, https or file, got %q", u.Scheme)
	}
	return nil
}

// GetConfigDir returns the holdview configuration directory, ~/.holdview unless
// HOLDVIEW_HOME is set.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".holdview"), nil
}

// DefaultConfigPath returns ~/.holdview/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
