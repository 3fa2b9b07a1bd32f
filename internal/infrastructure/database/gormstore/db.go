// Package gormstore is the ORM-backed customer store. It runs on PostgreSQL
// in production and on SQLite for embedded or file-based setups.
package gormstore

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const emailIndex = "customer_email_unique"

type customerRecord struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"not null"`
	Email string `gorm:"not null"`
	Age   int    `gorm:"not null"`
}

func (customerRecord) TableName() string { return "customer" }

func (r customerRecord) toDomain() *customer.Customer {
	return &customer.Customer{ID: r.ID, Name: r.Name, Email: r.Email, Age: r.Age}
}

func fromDomain(c *customer.Customer) customerRecord {
	return customerRecord{ID: c.ID, Name: c.Name, Email: c.Email, Age: c.Age}
}

func dialector(cfg config.GormConfig) (gorm.Dialector, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("gorm DSN is empty in configuration")
	}
	switch cfg.Dialect {
	case config.DialectPostgres:
		return postgres.Open(cfg.DSN), nil
	case config.DialectSQLite:
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported gorm dialect %q", cfg.Dialect)
	}
}

// Open connects with the configured dialect and migrates the customer table.
func Open(cfg config.GormConfig, logger *slog.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Opening ORM database connection", "dialect", cfg.Dialect)
	db, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open %s database: %w", cfg.Dialect, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the customer table and the case-insensitive email index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&customerRecord{}); err != nil {
		return fmt.Errorf("%w: failed to migrate customer table: %w", apperrors.ErrDatabase, err)
	}
	stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON customer (lower(email))", emailIndex)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("%w: failed to create email index: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return customer.ErrNotFound
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %s", customer.ErrDuplicateEmail, emailIndex)
	default:
		return fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)
	}
}
