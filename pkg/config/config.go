// Package config loads fourcolor settings from a TOML file and the
// environment.
//
// Values are layered, later sources winning:
//
//  1. [Default]
//  2. the TOML file ($XDG_CONFIG_HOME/fourcolor/config.toml unless a path
//     is given)
//  3. FOURCOLOR_* environment variables
//
// Command-line flags are applied on top by the CLI. A missing file is not
// an error.
//
// Example file:
//
//	algorithm = "dsatur"
//	max_colors = 4
//	timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[session]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/history"
)

const (
	appName   = "fourcolor"
	fileName  = "config.toml"
	envPrefix = "FOURCOLOR_"
)

// Backend names for [CacheConfig] and [SessionConfig].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Log formats accepted by log_format.
const (
	LogFormatText   = "text"
	LogFormatJSON   = "json"
	LogFormatLogfmt = "logfmt"
)

// Config holds all application configuration.
type Config struct {
	// Coloring defaults
	Algorithm   string        `toml:"algorithm"`
	MaxColors   int           `toml:"max_colors"`
	HistorySize int           `toml:"history_size"`
	MaxSteps    int           `toml:"max_steps"`
	Timeout     time.Duration `toml:"timeout"`
	Palette     []string      `toml:"palette"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // text, json or logfmt

	Cache   CacheConfig   `toml:"cache"`
	Session SessionConfig `toml:"session"`
	Server  ServerConfig  `toml:"server"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend  string        `toml:"backend"` // none, file or redis
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"` // zero keeps per-kind defaults
}

// SessionConfig selects where saved sessions live.
type SessionConfig struct {
	Backend       string        `toml:"backend"` // file or mongo
	Dir           string        `toml:"dir"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
	TTL           time.Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Algorithm:   coloring.NameDSATUR,
		MaxColors:   coloring.DefaultMaxColors,
		HistorySize: history.DefaultCapacity,
		MaxSteps:    coloring.DefaultMaxSteps,
		LogLevel:    "info",
		LogFormat:   LogFormatText,
		Cache: CacheConfig{
			Backend: BackendFile,
			Prefix:  "fourcolor:",
		},
		Session: SessionConfig{
			Backend:       BackendFile,
			MongoDatabase: appName,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/fourcolor/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads path (or [DefaultPath] when empty), then applies environment
// overrides and validates the result. A missing default file is ignored; a
// missing explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			switch {
			case os.IsNotExist(err) && !explicit:
			case os.IsNotExist(err):
				return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
			default:
				return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of [Default] without reading the
// environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated fields and ranges.
func (c *Config) Validate() error {
	if _, ok := coloring.Lookup(c.Algorithm); !ok {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "config: unknown algorithm %q", c.Algorithm)
	}
	if err := errors.ValidateMaxColors(c.MaxColors); err != nil {
		return err
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "config: unknown log_format %q", c.LogFormat)
	}
	if c.HistorySize < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "config: history_size must be at least 1")
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "config: cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "config: unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Session.Backend {
	case BackendFile:
	case BackendMongo:
		if c.Session.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "config: session.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "config: unknown session backend %q", c.Session.Backend)
	}
	return nil
}

// ColoringDefaults returns the coloring options implied by c.
func (c *Config) ColoringDefaults() coloring.Options {
	return coloring.Options{
		Algorithm: c.Algorithm,
		MaxColors: c.MaxColors,
		MaxSteps:  c.MaxSteps,
		Timeout:   c.Timeout,
	}
}

// =============================================================================
// Environment Overrides
// =============================================================================

func (c *Config) applyEnv() error {
	setString(&c.Algorithm, "ALGORITHM")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.Dir, "CACHE_DIR")
	setString(&c.Cache.RedisURL, "REDIS_URL")
	setString(&c.Session.Backend, "SESSION_BACKEND")
	setString(&c.Session.Dir, "SESSION_DIR")
	setString(&c.Session.MongoURI, "MONGO_URI")
	setString(&c.Session.MongoDatabase, "MONGO_DATABASE")
	setString(&c.Server.Addr, "ADDR")

	if v := getEnv("PALETTE"); v != "" {
		c.Palette = splitList(v)
	}
	if v := getEnv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	for key, dst := range map[string]*int{
		"MAX_COLORS":   &c.MaxColors,
		"HISTORY_SIZE": &c.HistorySize,
		"MAX_STEPS":    &c.MaxSteps,
	} {
		if v := getEnv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s%s", envPrefix, key)
			}
			*dst = n
		}
	}
	for key, dst := range map[string]*time.Duration{
		"TIMEOUT":     &c.Timeout,
		"CACHE_TTL":   &c.Cache.TTL,
		"SESSION_TTL": &c.Session.TTL,
	} {
		if v := getEnv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s%s", envPrefix, key)
			}
			*dst = d
		}
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func setString(dst *string, key string) {
	if v := getEnv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String renders c as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
