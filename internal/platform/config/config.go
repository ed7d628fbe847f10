// Package config loads server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Environment variable names.
const (
	EnvPort             = "PORT"
	EnvJWTSecret        = "JWT_SECRET"
	EnvDatabaseURL      = "DATABASE_URL"
	EnvDBDriver         = "DB_DRIVER"
	EnvSQLitePath       = "SQLITE_PATH"
	EnvDBConnectTimeout = "DB_CONNECT_TIMEOUT"
	EnvRunMigrations    = "RUN_MIGRATIONS"
	EnvBcryptCost       = "BCRYPT_COST"
	EnvRedisHost        = "REDIS_HOST"
	EnvRedisPort        = "REDIS_PORT"
	EnvRedisPassword    = "REDIS_PASSWORD"
	EnvTaskCacheTTL     = "TASK_CACHE_TTL"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
)

// Defaults applied when a variable is unset.
const (
	DefaultPort             = "8625"
	DefaultDBDriver         = "postgres"
	DefaultSQLitePath       = "./todo.db"
	DefaultDBConnectTimeout = 60 * time.Second
	DefaultBcryptCost       = 11
	DefaultTaskCacheTTL     = 5 * time.Minute
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
)

// ErrMissingJWTSecret is returned when JWT_SECRET is not set.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// ErrMissingDatabaseURL is returned when the postgres driver is selected without DATABASE_URL.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required when DB_DRIVER=postgres")

// Config holds every externally supplied setting of the server.
type Config struct {
	Port      string
	JWTSecret string

	DBDriver         string
	DatabaseURL      string
	SQLitePath       string
	DBConnectTimeout time.Duration
	RunMigrations    bool

	BcryptCost int

	RedisHost     string
	RedisPort     string
	RedisPassword string
	TaskCacheTTL  time.Duration

	LogLevel  string
	LogFormat string
}

// RedisEnabled reports whether a Redis host was configured.
func (c Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr returns host:port for the Redis client.
func (c Config) RedisAddr() string {
	port := c.RedisPort
	if port == "" {
		port = "6379"
	}
	return c.RedisHost + ":" + port
}

// LoadDotEnv reads variables from the given .env files into the process
// environment. A missing file is not an error.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			slog.Info(".env not found; using system environment variables", "file", f)
		}
	}
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port:          getenv(EnvPort, DefaultPort),
		JWTSecret:     os.Getenv(EnvJWTSecret),
		DBDriver:      getenv(EnvDBDriver, DefaultDBDriver),
		DatabaseURL:   os.Getenv(EnvDatabaseURL),
		SQLitePath:    getenv(EnvSQLitePath, DefaultSQLitePath),
		RedisHost:     os.Getenv(EnvRedisHost),
		RedisPort:     os.Getenv(EnvRedisPort),
		RedisPassword: os.Getenv(EnvRedisPassword),
		LogLevel:      getenv(EnvLogLevel, DefaultLogLevel),
		LogFormat:     getenv(EnvLogFormat, DefaultLogFormat),
	}

	var err error
	if cfg.DBConnectTimeout, err = durationEnv(EnvDBConnectTimeout, DefaultDBConnectTimeout); err != nil {
		return Config{}, err
	}
	if cfg.TaskCacheTTL, err = durationEnv(EnvTaskCacheTTL, DefaultTaskCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.RunMigrations, err = boolEnv(EnvRunMigrations, true); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = intEnv(EnvBcryptCost, DefaultBcryptCost); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required values and ranges.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.DBDriver)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
