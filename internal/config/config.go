// Package config loads application settings from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	CookieSecure    bool          `mapstructure:"cookie_secure"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects where the user directory and client storage live.
// The directory always uses SQLite unless the backend is memory.
type StorageConfig struct {
	Backend      string        `mapstructure:"backend"`
	DatabasePath string        `mapstructure:"database_path"`
	RedisURL     string        `mapstructure:"redis_url"`
	RedisTTL     time.Duration `mapstructure:"redis_ttl"`
	RedisPrefix  string        `mapstructure:"redis_prefix"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	ClientTokenTTL time.Duration `mapstructure:"client_token_ttl"`
	AttemptsPerMin float64       `mapstructure:"attempts_per_minute"`
	AttemptBurst   int           `mapstructure:"attempt_burst"`
}

type SessionConfig struct {
	Latency               time.Duration `mapstructure:"latency"`
	IdleTTL               time.Duration `mapstructure:"idle_ttl"`
	RegisterIntoDirectory bool          `mapstructure:"register_into_directory"`
	ToastLimit            int           `mapstructure:"toast_limit"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.port":                     "PORT",
	"server.cookie_secure":            "COOKIE_SECURE",
	"storage.backend":                 "STORAGE_BACKEND",
	"storage.database_path":           "DATABASE_PATH",
	"storage.redis_url":               "REDIS_URL",
	"storage.redis_prefix":            "REDIS_PREFIX",
	"auth.jwt_secret":                 "JWT_SECRET",
	"auth.bcrypt_cost":                "BCRYPT_COST",
	"session.latency":                 "SESSION_LATENCY",
	"session.register_into_directory": "REGISTER_INTO_DIRECTORY",
	"log.level":                       "LOG_LEVEL",
}

// Load reads configuration. When path is empty, config.yaml is looked up in
// the working directory and ./config; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	// Default to secure cookies; disable only for local development.
	v.SetDefault("server.cookie_secure", true)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.database_path", "discount-pro.db")
	v.SetDefault("storage.redis_ttl", "720h")
	v.SetDefault("storage.redis_prefix", "discountpro:storage:")

	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.client_token_ttl", "720h")
	v.SetDefault("auth.attempts_per_minute", 10)
	v.SetDefault("auth.attempt_burst", 5)

	v.SetDefault("session.latency", "800ms")
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.register_into_directory", true)
	v.SetDefault("session.toast_limit", 8)

	v.SetDefault("log.level", "info")
}

// Validate checks settings that would otherwise fail at runtime.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.Auth.BcryptCost)
	}
	if c.Auth.AttemptsPerMin <= 0 || c.Auth.AttemptBurst <= 0 {
		return errors.New("attempt rate and burst must be positive")
	}

	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Session.Latency < 0 {
		return errors.New("session latency must not be negative")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured level name.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.Level)
	}
	return level, nil
}
