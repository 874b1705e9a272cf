// Package config loads server settings from a TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultJWTSecret is only suitable for local development.
const DefaultJWTSecret = "budgetwiser-dev-secret-change-me"

// Config holds all budgetwiser configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Cache    CacheConfig    `toml:"cache"`
	Budget   BudgetConfig   `toml:"budget"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
}

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret"`
	TokenTTL  time.Duration `toml:"token_ttl"`
}

// CacheConfig holds the budget summary cache settings. An empty RedisURL
// selects the in-process cache.
type CacheConfig struct {
	RedisURL          string        `toml:"redis_url,omitempty"`
	TTL               time.Duration `toml:"ttl"`
	ConnectMaxRetries uint64        `toml:"connect_max_retries"`
}

// BudgetConfig holds allocator settings.
type BudgetConfig struct {
	// Timezone decides which calendar day "today" is.
	Timezone string `toml:"timezone"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:      ":8080",
			StaticDir: "./static",
		},
		Database: DatabaseConfig{
			Path: "./data/budgetwiser.db",
		},
		Auth: AuthConfig{
			JWTSecret: DefaultJWTSecret,
			TokenTTL:  24 * time.Hour,
		},
		Cache: CacheConfig{
			TTL:               5 * time.Minute,
			ConnectMaxRetries: 5,
		},
		Budget: BudgetConfig{
			Timezone: "Local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set("DB_PATH", &cfg.Database.Path)
	set("STATIC_PATH", &cfg.Server.StaticDir)
	set("JWT_SECRET", &cfg.Auth.JWTSecret)
	set("REDIS_URL", &cfg.Cache.RedisURL)
	set("LOG_LEVEL", &cfg.Log.Level)
	set("LOG_FORMAT", &cfg.Log.Format)
	set("BUDGET_TIMEZONE", &cfg.Budget.Timezone)
	if port := getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Budget.Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Budget.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Budget.Timezone)
	if err != nil {
		return nil, fmt.Errorf("budget.timezone %q: %w", c.Budget.Timezone, err)
	}
	return loc, nil
}

// Write saves cfg as TOML to path.
func Write(path string, cfg Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
