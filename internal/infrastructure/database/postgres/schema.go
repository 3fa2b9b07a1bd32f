package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"customer-service/internal/pkg/apperrors"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customer (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		age INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS customer_email_unique ON customer (lower(email))`,
}

// EnsureSchema creates the customer table and its case-insensitive email
// index when they are missing.
func EnsureSchema(ctx context.Context, db DBPool, logger *slog.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			logger.ErrorContext(ctx, "Failed to apply schema statement", slog.Any("error", err))
			return fmt.Errorf("%w: failed to apply schema: %w", apperrors.ErrDatabase, err)
		}
	}
	logger.InfoContext(ctx, "Customer schema is in place")
	return nil
}
