// Package db opens and migrates the shared gorm connection.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authentity "todo_backend/internal/feature/auth/domain/entity"
	taskentity "todo_backend/internal/feature/tasks/domain/entity"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval is the wait between connection attempts.
const retryInterval = 3 * time.Second

// slowQueryThreshold is the duration above which gorm logs a query as slow.
const slowQueryThreshold = 200 * time.Millisecond

// Config describes how to reach the database.
type Config struct {
	Driver         string
	DatabaseURL    string
	SQLitePath     string
	ConnectTimeout time.Duration
	RunMigrations  bool
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// gormConfig enables error translation so duplicate keys surface as gorm.ErrDuplicatedKey.
// gorm's own log lines are written through the default slog handler.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(slog.Default().Handler()),
	}
}

// newGormLogger reports slow queries and failures at warn level.
// Lookups that find no row are an expected outcome and are not logged.
func newGormLogger(h slog.Handler) logger.Interface {
	return logger.New(slog.NewLogLogger(h, slog.LevelWarn), logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// OpenPostgres opens PostgreSQL through the pgx-based gorm driver.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// OpenSQLite opens a SQLite database file (or ":memory:").
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), gormConfig())
}

// dsnAndOpener picks the DSN and opener for cfg.Driver.
func dsnAndOpener(cfg Config) (string, Opener, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		if _, err := DescribeDSN(cfg.DatabaseURL); err != nil {
			return "", nil, err
		}
		return cfg.DatabaseURL, OpenPostgres, nil
	case DriverSQLite:
		return cfg.SQLitePath, OpenSQLite, nil
	default:
		return "", nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Open connects with retry and runs migrations when cfg.RunMigrations is set.
// Canceling ctx stops the retry loop.
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	dsn, opener, err := dsnAndOpener(cfg)
	if err != nil {
		return nil, err
	}

	target := dsn
	if cfg.Driver != DriverSQLite {
		target, _ = DescribeDSN(dsn)
	}
	slog.Info("connecting to database", "driver", cfg.Driver, "target", target)

	db, err := ConnectWithRetry(ctx, dsn, cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// ConnectWithRetry calls open until it succeeds, timeout elapses or ctx is canceled.
func ConnectWithRetry(ctx context.Context, dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	return connectWithRetry(ctx, dsn, timeout, retryInterval, open)
}

func connectWithRetry(ctx context.Context, dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", interval)

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", errors.Join(ctx.Err(), err))
		case <-timer.C:
		}
	}
}

// Migrate creates or updates the users and tasks tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&authentity.User{}, &taskentity.Task{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// DescribeDSN validates a PostgreSQL URL or keyword/value DSN and returns a
// password-free description for logs.
func DescribeDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", errors.New("empty database url")
	}
	pc, err := pgconn.ParseConfig(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	return fmt.Sprintf("%s@%s:%d/%s", pc.User, pc.Host, pc.Port, pc.Database), nil
}
