package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/clientbook/internal/store"
)

// Defaults applied before a file is decoded.
const (
	DefaultDriver    = store.DriverCGO
	DefaultName      = "clientbook.db"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the complete clientbook configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// DatabaseConfig describes the store connection.
type DatabaseConfig struct {
	Driver   string `yaml:"driver" toml:"driver"`
	Name     string `yaml:"name" toml:"name"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
}

// LoggingConfig controls the CLI's slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

var logFormats = []string{"text", "json"}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: DefaultDriver,
			Name:   DefaultName,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads the configuration file at path, expanding ${VAR} references,
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	expanded := expandEnvVars(string(data))

	var defined func(section, key string) bool
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		defined, err = decodeYAML(expanded, cfg)
	case ".toml":
		defined, err = decodeTOML(expanded, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q: use .yaml, .yml or .toml", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.applyDefaults(defined)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// applyDefaults fills the keys the file does not mention. A key that is
// present keeps its value even when empty, so Validate sees it.
func (c *Config) applyDefaults(defined func(section, key string) bool) {
	d := Default()
	if !defined("database", "driver") {
		c.Database.Driver = d.Database.Driver
	}
	if !defined("database", "name") {
		c.Database.Name = d.Database.Name
	}
	if !defined("logging", "level") {
		c.Logging.Level = d.Logging.Level
	}
	if !defined("logging", "format") {
		c.Logging.Format = d.Logging.Format
	}
}

func decodeYAML(data string, cfg *Config) (func(section, key string) bool, error) {
	dec := yaml.NewDecoder(strings.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	// A key set to null, as an unset ${VAR} leaves it, is still present.
	var keys map[string]map[string]any
	if err := yaml.Unmarshal([]byte(data), &keys); err != nil {
		return nil, err
	}
	return func(section, key string) bool {
		_, ok := keys[section][key]
		return ok
	}, nil
}

func decodeTOML(data string, cfg *Config) (func(section, key string) bool, error) {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return func(section, key string) bool {
		return md.IsDefined(section, key)
	}, nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the value of VAR, or "" when unset.
func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envRef.FindStringSubmatch(match)[1])
	})
}

// Validate checks that required fields are present and enumerations hold
// known values. Returns the first failure found.
func (c *Config) Validate() error {
	if !slices.Contains(store.Drivers, c.Database.Driver) {
		return fmt.Errorf("database.driver %q must be one of %s", c.Database.Driver, strings.Join(store.Drivers, ", "))
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if (c.Database.User == "") != (c.Database.Password == "") {
		return fmt.Errorf("database.user and database.password must be set together")
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format %q must be one of %s", c.Logging.Format, strings.Join(logFormats, ", "))
	}
	return nil
}

// StoreConfig returns the store construction parameters.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Driver:   c.Database.Driver,
		Name:     c.Database.Name,
		User:     c.Database.User,
		Password: c.Database.Password,
	}
}

// SlogLevel parses Level (debug, info, warn or error, case-insensitive).
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("logging.level %q: %w", l.Level, err)
	}
	return level, nil
}
