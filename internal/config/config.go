// Package config loads diary-server configuration from command-line flags,
// environment variables and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers understood by the store.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Search   SearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	DataDir     string // holds the sqlite file, auth key and search index by default
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// DatabaseConfig describes the relational store.
type DatabaseConfig struct {
	URI    string // as configured, e.g. sqlite://./data/diary.db or postgres://...
	Driver string // DriverSQLite or DriverPostgres
	DSN    string // driver-specific data source name
}

// AuthConfig holds token and login throttling configuration.
type AuthConfig struct {
	// AccessTokenKey is the hex encoded 32 byte PASETO v4 key. When empty the
	// key is loaded from (or generated into) DataDir/auth.key.
	AccessTokenKey      string
	AccessTokenDuration time.Duration
	RateLimitPerMinute  int
	RateLimitBurst      int
}

// SearchConfig holds full-text index configuration.
type SearchConfig struct {
	// IndexPath is the on-disk bleve index. Empty keeps the index in memory.
	IndexPath string
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. .env file.
// 4. Defaults.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig over an explicit argument list.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("diary-server", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataDir := fs.String("data-dir", "", "Directory for local data (default: ./data)")
	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	origins := fs.String("cors-origins", "", "Comma separated allowed CORS origins (default: *)")
	databaseURI := fs.String("database-uri", "", "Database URI (sqlite://path or postgres://...)")
	tokenDuration := fs.String("access-token-duration", "", "Access token lifetime (default: 24h)")
	rateLimit := fs.String("auth-rate-limit", "", "Auth requests per minute per client (default: 20)")
	rateBurst := fs.String("auth-rate-burst", "", "Auth request burst per client (default: 10)")
	searchPath := fs.String("search-index-path", "", "Search index directory")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is normal; godotenv never overrides real env vars.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			DataDir:     getConfigValue(*dataDir, "DATA_DIR", "./data"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*port, "PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*origins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			AccessTokenKey:     getConfigValue("", "ACCESS_TOKEN_KEY", os.Getenv("JWT_SECRET")),
			RateLimitPerMinute: getIntConfigValue(*rateLimit, "AUTH_RATE_LIMIT", 20),
			RateLimitBurst:     getIntConfigValue(*rateBurst, "AUTH_RATE_BURST", 10),
		},
	}

	var err error
	if cfg.App.DataDir, err = expandPath(cfg.App.DataDir); err != nil {
		return nil, fmt.Errorf("invalid data dir: %w", err)
	}

	durations := []struct {
		dst      *time.Duration
		flag     string
		envKey   string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Auth.AccessTokenDuration, *tokenDuration, "ACCESS_TOKEN_DURATION", "24h"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, d.fallback)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), raw, err)
		}
		*d.dst = parsed
	}

	defaultDB := "sqlite://" + filepath.Join(cfg.App.DataDir, "diary.db")
	cfg.Database, err = ParseDatabaseURI(getConfigValue(*databaseURI, "DATABASE_URI", defaultDB))
	if err != nil {
		return nil, err
	}

	cfg.Search.IndexPath = filepath.Join(cfg.App.DataDir, "search")
	if v, ok := lookupConfigValue(*searchPath, "SEARCH_INDEX_PATH"); ok {
		cfg.Search.IndexPath = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that all config values are usable.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server port %q", c.Server.Port)
	}
	if c.Auth.AccessTokenDuration <= 0 {
		return errors.New("access token duration must be positive")
	}
	if c.Auth.RateLimitPerMinute <= 0 || c.Auth.RateLimitBurst <= 0 {
		return errors.New("auth rate limit and burst must be positive")
	}
	if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverPostgres {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// ParseDatabaseURI maps a DATABASE_URI onto a database/sql driver and DSN.
//
//	sqlite:///var/lib/diary.db  -> sqlite, /var/lib/diary.db
//	sqlite://./data/diary.db    -> sqlite, ./data/diary.db
//	file:diary.db               -> sqlite, diary.db
//	postgres://u:p@host/diary   -> pgx, unchanged
func ParseDatabaseURI(uri string) (DatabaseConfig, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return DatabaseConfig{}, errors.New("database uri is required")
	}

	switch {
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		if path == "" {
			return DatabaseConfig{}, fmt.Errorf("database uri %q has no path", uri)
		}
		return DatabaseConfig{URI: uri, Driver: DriverSQLite, DSN: path}, nil
	case strings.HasPrefix(uri, "file:"):
		return DatabaseConfig{URI: uri, Driver: DriverSQLite, DSN: strings.TrimPrefix(uri, "file:")}, nil
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		u, err := url.Parse(uri)
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid database uri: %w", err)
		}
		if u.Host == "" {
			return DatabaseConfig{}, fmt.Errorf("database uri %q has no host", u.Redacted())
		}
		return DatabaseConfig{URI: uri, Driver: DriverPostgres, DSN: uri}, nil
	default:
		return DatabaseConfig{}, fmt.Errorf("unsupported database uri scheme in %q", uri)
	}
}

// expandPath expands a leading ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if v, ok := lookupConfigValue(flagValue, envKey); ok && v != "" {
		return v
	}
	return defaultValue
}

// lookupConfigValue is like getConfigValue but reports an env var that is set
// to the empty string, which some settings use to mean "disabled".
func lookupConfigValue(flagValue, envKey string) (string, bool) {
	if flagValue != "" {
		return flagValue, true
	}
	return os.LookupEnv(envKey)
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
