// Package config loads phylo's configuration file.
//
// The file is TOML, found at $XDG_CONFIG_HOME/phylo/config.toml (or
// ~/.config/phylo/config.toml) unless a path is given explicitly:
//
//	log_level = "debug"
//
//	[cache]
//	dir = "/var/cache/phylo"
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	timeout = "30s"
//
// Environment variables override the file: PHYLO_LOG_LEVEL,
// PHYLO_CACHE_DIR, PHYLO_REDIS_ADDR and PHYLO_ADDR.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

const appName = "phylo"

// Config is the merged configuration.
type Config struct {
	LogLevel string       `toml:"log_level"`
	Cache    CacheConfig  `toml:"cache"`
	Server   ServerConfig `toml:"server"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	// Dir is the file cache directory. Empty means the XDG cache directory.
	Dir string `toml:"dir"`
	// TTL is how long results stay cached.
	TTL Duration `toml:"ttl"`
	// RedisAddr, when set, makes the server use Redis instead of files.
	RedisAddr string `toml:"redis_addr"`
	// RedisPassword authenticates against Redis.
	RedisPassword string `toml:"redis_password"`
	// Disabled turns caching off.
	Disabled bool `toml:"disabled"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	Timeout      Duration `toml:"timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a string ("30s", "24h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Cache: CacheConfig{
			TTL: Duration{7 * 24 * time.Hour},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Timeout:      Duration{30 * time.Second},
			MaxBodyBytes: 4 << 20,
		},
	}
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns the XDG cache directory for phylo.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the configuration at path on top of the defaults and applies
// environment overrides. An empty path means DefaultPath, which may be
// missing; an explicit path must exist.
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
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PHYLO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("PHYLO_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := getenv("PHYLO_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := getenv("PHYLO_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks values that cannot be checked while decoding.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.Server.Timeout.Duration <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// CacheDir returns Cache.Dir or the default cache directory.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}
