package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to dbURL through the pgx stdlib driver and verifies the
// connection.
func Open(ctx context.Context, dbURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// Table layout:
//
//	id char(24) primary key,
//	email text unique,
//	phone, gender, bio nullable
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(24) PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		age INT NOT NULL,
		gender TEXT,
		bio TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique ON users (email)`,
	`CREATE INDEX IF NOT EXISTS users_name_idx ON users (first_name, last_name)`,
	`CREATE INDEX IF NOT EXISTS users_is_active_idx ON users (is_active)`,
	`CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at DESC)`,
}

// EnsureSchema creates the users table and its indexes when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}
