// Package testutil provides shared test helpers for setting up stores.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Princelohia9910/NotesApp/internal/models"
	"github.com/Princelohia9910/NotesApp/internal/store"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestDB opens a SQLite store in a temp directory that is closed on cleanup.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "notes-test.db"), Logger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Seed inserts a note with the given title, content and modification time.
func Seed(t *testing.T, db *store.DB, title, content string, modified time.Time) models.Note {
	t.Helper()
	n := models.Note{Title: title, Content: content, DateCreated: modified, DateModified: modified}
	id, err := db.Insert(context.Background(), n)
	if err != nil {
		t.Fatalf("seed %q: %v", title, err)
	}
	n.ID = id
	return n
}

// Next waits for the next value on ch or fails the test.
func Next[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for value")
	}
	var zero T
	return zero
}

// Eventually polls fn every tick until it returns true or timeout elapses.
func Eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}
