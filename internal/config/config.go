// Package config loads kansuji settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config holds all kansuji configuration.
type Config struct {
	// Locale selects the digit grouping of rendered numbers (BCP 47).
	Locale string `yaml:"locale"`

	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
	Convert ConvertConfig `yaml:"convert"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	// Extensions lists the file suffixes the watcher converts.
	Extensions []string `yaml:"extensions"`
	// Debounce is the quiet period before a changed file is converted.
	Debounce string `yaml:"debounce"`
}

// ConvertConfig configures batch conversion.
type ConvertConfig struct {
	// Jobs bounds the number of files converted at once.
	Jobs int `yaml:"jobs"`
	// Encoding is the default input encoding: utf-8, shift_jis or euc-jp.
	Encoding string `yaml:"encoding"`
}

// ValidEncodings lists the canonical input encoding names.
var ValidEncodings = []string{"utf-8", "shift_jis", "euc-jp"}

// EncodingName maps an encoding name or alias (case-insensitive, "-" and
// "_" interchangeable) to its entry in ValidEncodings. An empty name is
// utf-8.
func EncodingName(name string) (string, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_")) {
	case "", "utf_8", "utf8":
		return "utf-8", nil
	case "shift_jis", "sjis", "shiftjis":
		return "shift_jis", nil
	case "euc_jp", "eucjp":
		return "euc-jp", nil
	}
	return "", fmt.Errorf("invalid encoding: %s (valid: %v)", name, ValidEncodings)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Locale: "ja",
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Watch: WatchConfig{
			Extensions: []string{".txt", ".md", ".html", ".htm"},
			Debounce:   "300ms",
		},
		Convert: ConvertConfig{
			Jobs:     4,
			Encoding: "utf-8",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KANSUJI_LOCALE"); v != "" {
		c.Locale = v
	}
	if v := os.Getenv("KANSUJI_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("KANSUJI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KANSUJI_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
}

// Validate checks the configuration for values the programs cannot use.
func (c *Config) Validate() error {
	if _, err := c.Language(); err != nil {
		return err
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	if c.Convert.Jobs < 1 {
		return fmt.Errorf("convert.jobs must be >= 1")
	}
	if c.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("server.max_body_bytes must be >= 1")
	}
	if _, err := EncodingName(c.Convert.Encoding); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}

// Language parses Locale.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// DebounceDuration parses Watch.Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch.debounce must not be negative")
	}
	return d, nil
}
