package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

// DB wraps GORM database connection
type DB struct {
	*gorm.DB
}

// New creates a new database connection. postgres:// and postgresql:// URLs
// use the Postgres driver; sqlite:// and file: URLs use SQLite with foreign
// keys enforced.
func New(cfg *config.DatabaseConfig, logLevel string) (*DB, error) {
	dialector, err := Dialector(cfg.URL)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		logging.GormWriter{Logger: logging.WithComponent("gorm")},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(logLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// One connection: SQLite has a single writer and :memory: databases
		// live and die with their connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.GetLogger().Info("Database connection established")

	return &DB{DB: db}, nil
}

// Dialector picks the GORM driver for a database URL
func Dialector(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(withForeignKeys(strings.TrimPrefix(url, "sqlite://"))), nil
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return sqlite.Open(withForeignKeys(url)), nil
	}
	return nil, fmt.Errorf("unsupported database url: %q", url)
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func gormLogLevel(logLevel string) logger.LogLevel {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		return logger.Info
	case "INFO":
		return logger.Warn
	case "WARN", "WARNING":
		return logger.Error
	case "ERROR":
		return logger.Silent
	}
	return logger.Warn
}

// Migrate creates or updates every table
func (d *DB) Migrate(ctx context.Context) error {
	if err := d.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks database health
func (d *DB) Health(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
