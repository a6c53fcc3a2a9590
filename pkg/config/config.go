// Package config loads letterpress settings from a TOML file.
//
// A missing file is not an error: [Default] values apply. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/markup"
)

// EnvConfig names the environment variable holding a config path.
const EnvConfig = "LETTERPRESS_CONFIG"

// Config is the full configuration.
type Config struct {
	Filter FilterConfig `toml:"filter"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// FilterConfig extends the filter's ignore list and input handling.
type FilterConfig struct {
	IgnoreTags          []string `toml:"ignore_tags"`
	IgnoreClassPrefixes []string `toml:"ignore_class_prefixes"`
	IgnoreClasses       []string `toml:"ignore_classes"`
	Markdown            bool     `toml:"markdown"`
	Typographer         bool     `toml:"typographer"`
	MaxInputBytes       int      `toml:"max_input_bytes"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Filter: FilterConfig{
			Typographer:   true,
			MaxInputBytes: lperrors.DefaultMaxInputBytes,
		},
		Cache: CacheConfig{
			Backend:       lperrors.BackendFile,
			TTL:           Duration{168 * time.Hour},
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "letterpress",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: Duration{10 * time.Second},
		},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, lperrors.Wrap(lperrors.ErrCodeInvalidConfig, err, "cannot read %s", path)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, lperrors.Wrap(lperrors.ErrCodeInvalidConfig, err, "invalid config %s", path)
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML text into cfg, leaving fields absent from text as they
// are.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return lperrors.New(lperrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	for _, tag := range c.Filter.IgnoreTags {
		if err := lperrors.ValidateTag(tag); err != nil {
			return err
		}
	}
	for _, class := range c.Filter.IgnoreClassPrefixes {
		if err := lperrors.ValidateClassName(class); err != nil {
			return err
		}
	}
	for _, class := range c.Filter.IgnoreClasses {
		if err := lperrors.ValidateClassName(class); err != nil {
			return err
		}
	}
	if c.Filter.MaxInputBytes <= 0 {
		return lperrors.New(lperrors.ErrCodeInvalidConfig, "max_input_bytes must be positive")
	}
	if err := lperrors.ValidateCacheBackend(c.Cache.Backend); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return lperrors.New(lperrors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	if c.Server.RequestTimeout.Duration <= 0 {
		return lperrors.New(lperrors.ErrCodeInvalidConfig, "request_timeout must be positive")
	}
	return nil
}

// IgnoreSpec returns the configured extra ignore rules. The filter merges
// them with the built-in list.
func (c Config) IgnoreSpec() markup.IgnoreSpec {
	return markup.IgnoreSpec{
		Tags:          c.Filter.IgnoreTags,
		ClassPrefixes: c.Filter.IgnoreClassPrefixes,
		Classes:       c.Filter.IgnoreClasses,
	}
}

// Path resolves the config file location: flag, then $LETTERPRESS_CONFIG,
// then $XDG_CONFIG_HOME/letterpress/config.toml (or the platform config dir).
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "letterpress", "config.toml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "letterpress", "config.toml")
	}
	return ""
}
