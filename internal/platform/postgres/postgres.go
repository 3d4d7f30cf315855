// Package postgres opens the PostgreSQL pool and owns the registry schema.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so stores can run inside or
// outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS region (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT
);

CREATE TABLE IF NOT EXISTS city (
	id               BIGSERIAL PRIMARY KEY,
	name             TEXT,
	postal_code      TEXT,
	population_count INTEGER CHECK (population_count >= 0),
	region_id        BIGINT REFERENCES region (id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS city_region_id_idx ON city (region_id);

CREATE TABLE IF NOT EXISTS player (
	id                BIGSERIAL PRIMARY KEY,
	alias             TEXT,
	credential_secret TEXT,
	registered_at     TIMESTAMPTZ,
	is_administrator  BOOLEAN,
	city_id           BIGINT REFERENCES city (id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS player_city_id_idx ON player (city_id);
`

// Migrate creates the registry tables when missing. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// IsForeignKeyViolation reports whether err is a PostgreSQL FK violation.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}

// IsCheckViolation reports whether err is a PostgreSQL CHECK violation.
func IsCheckViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23514"
	}
	return false
}
