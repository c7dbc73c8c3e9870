// Package database is the SQLite persistence store for transactions, raw
// messages and settings.
package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/sms-ledger/internal/parsererror"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// timeLayout keeps sub-second precision and the UTC offset.
const timeLayout = time.RFC3339Nano

// DB wraps the SQLite connection pool.
type DB struct {
	*sql.DB
	now func() time.Time
}

// Open opens or creates the database at the given path and applies the schema.
func Open(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	// Open with foreign keys enabled
	sqlDB, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{DB: sqlDB, now: time.Now}
	if err := db.Init(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Init creates tables if they don't exist
func (db *DB) Init() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// SetClock overrides the time source used for created/updated stamps.
func (db *DB) SetClock(now func() time.Time) {
	if now != nil {
		db.now = now
	}
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", value, err)
	}
	return t, nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (db *DB) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return parsererror.Storage(op, fmt.Errorf("begin: %w", err))
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return parsererror.Storage(op, err)
	}
	if err := tx.Commit(); err != nil {
		return parsererror.Storage(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}
