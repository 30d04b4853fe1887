// Package store provides the SQLite-backed note table and its live query.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT    NOT NULL DEFAULT '',
	content       TEXT    NOT NULL DEFAULT '',
	date_created  INTEGER NOT NULL,
	date_modified INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_modified ON notes(date_modified DESC, id DESC);
`

// DB wraps a sql.DB with note operations and a live all-notes query.
type DB struct {
	conn   *sql.DB
	path   string
	logger *slog.Logger
	hub    *hub

	// mu serialises commit and publish so emissions follow commit order.
	mu      sync.Mutex
	lastSum string
}

// Open opens (or creates) the SQLite database at path, applies the schema
// and primes the live query with the current table content.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	db := &DB{
		conn:   conn,
		path:   path,
		logger: logger,
		hub:    newHub(),
	}
	if err := db.Refresh(context.Background()); err != nil {
		db.hub.close()
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close stops the live query, closing every subscriber channel, and closes
// the underlying connection.
func (db *DB) Close() error {
	db.hub.close()
	return db.conn.Close()
}
