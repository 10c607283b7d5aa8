package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	esgadapters "esg_dashboard/internal/feature/esg/adapters"

	"github.com/jackc/pgx/v5"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported values of Config.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// ErrUnsupportedDriver is returned for a Config.Driver other than sqlite or postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Config holds the database connection settings.
type Config struct {
	Driver        string // "sqlite" or "postgres"
	Path          string // SQLite file path
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	SSLMode       string
	RunMigrations bool
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the connection string for the configured driver.
// PostgreSQL DSNs are validated with the pgx parser before use.
func BuildDSN(cfg Config) (string, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		if cfg.Path == "" {
			return "esg.db", nil
		}
		return cfg.Path, nil
	case DriverPostgres:
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslmode)
		if _, err := pgx.ParseConfig(dsn); err != nil {
			return "", fmt.Errorf("invalid postgres configuration: %w", err)
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("%q: %w", cfg.Driver, ErrUnsupportedDriver)
	}
}

// OpenerFor returns the gorm opener of the configured driver.
func OpenerFor(driver string) (Opener, error) {
	switch driver {
	case DriverSQLite, "":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		}, nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		}, nil
	default:
		return nil, fmt.Errorf("%q: %w", driver, ErrUnsupportedDriver)
	}
}

// ConnectWithRetry opens the database, retrying every few seconds until timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying...", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Migrate creates or updates the tables of the record store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&esgadapters.RecordModel{})
}

// OpenDB connects to the configured database and runs migrations when enabled.
func OpenDB(cfg Config) (*gorm.DB, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}
	opener, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(dsn, connectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	slog.Info("database connected", "driver", cfg.Driver, "migrations", cfg.RunMigrations)
	return db, nil
}
