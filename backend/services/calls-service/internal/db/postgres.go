package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	libdb "billcalls/backend/libs/db"
)

//go:embed schema.sql
var schema string

// NewPostgres returns shared DB connection.
func NewPostgres(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	return libdb.NewPostgresDB(ctx, dsn, libdb.Options{MaxOpenConns: maxOpenConns})
}

// Migrate creates the calls, call_logs and call_invoices tables when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("db: apply schema: %w", err)
	}
	return nil
}
