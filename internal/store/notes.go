package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Princelohia9910/NotesApp/internal/apperr"
	"github.com/Princelohia9910/NotesApp/internal/checksum"
	"github.com/Princelohia9910/NotesApp/internal/models"
)

const selectNotes = `SELECT id, title, content, date_created, date_modified FROM notes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (models.Note, error) {
	var (
		n                 models.Note
		created, modified int64
	)
	if err := r.Scan(&n.ID, &n.Title, &n.Content, &created, &modified); err != nil {
		return models.Note{}, err
	}
	n.DateCreated = time.Unix(0, created)
	n.DateModified = time.Unix(0, modified)
	return n, nil
}

// All returns every note ordered by modification time, newest first.
func (db *DB) All(ctx context.Context) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, selectNotes+` ORDER BY date_modified DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: all: %w", err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: all: %w", err)
	}
	return out, nil
}

// GetByID returns the note with the given id, or apperr.ErrNotFound.
func (db *DB) GetByID(ctx context.Context, id int64) (models.Note, error) {
	n, err := scanNote(db.conn.QueryRowContext(ctx, selectNotes+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("store: get %d: %w", id, err)
	}
	return n, nil
}

// Insert upserts n keyed by id. A zero id creates a new row with a fresh id;
// an existing id has every column replaced. It returns the row id.
func (db *DB) Insert(ctx context.Context, n models.Note) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var (
		res sql.Result
		err error
	)
	if n.IsDraft() {
		res, err = db.conn.ExecContext(ctx, `
			INSERT INTO notes (title, content, date_created, date_modified)
			VALUES (?, ?, ?, ?)
		`, n.Title, n.Content, n.DateCreated.UnixNano(), n.DateModified.UnixNano())
	} else {
		res, err = db.conn.ExecContext(ctx, `
			INSERT INTO notes (id, title, content, date_created, date_modified)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title         = excluded.title,
				content       = excluded.content,
				date_created  = excluded.date_created,
				date_modified = excluded.date_modified
		`, n.ID, n.Title, n.Content, n.DateCreated.UnixNano(), n.DateModified.UnixNano())
	}
	if err != nil {
		return 0, fmt.Errorf("store: insert: %w", err)
	}

	id := n.ID
	if id == 0 {
		if id, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("store: insert id: %w", err)
		}
	}
	db.publishLocked(ctx)
	return id, nil
}

// Update replaces every column of the row matching n.ID. It is a no-op when
// no such row exists.
func (db *DB) Update(ctx context.Context, n models.Note) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, content = ?, date_created = ?, date_modified = ?
		WHERE id = ?
	`, n.Title, n.Content, n.DateCreated.UnixNano(), n.DateModified.UnixNano(), n.ID)
	if err != nil {
		return fmt.Errorf("store: update %d: %w", n.ID, err)
	}
	if affected(res) {
		db.publishLocked(ctx)
	}
	return nil
}

// DeleteByValue removes the row with n's id.
func (db *DB) DeleteByValue(ctx context.Context, n models.Note) error {
	return db.DeleteByID(ctx, n.ID)
}

// DeleteByID removes the row with the given id. It is a no-op when absent.
func (db *DB) DeleteByID(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %d: %w", id, err)
	}
	if affected(res) {
		db.publishLocked(ctx)
	}
	return nil
}

// Refresh re-reads the table and publishes it when it differs from the last
// emitted snapshot. It picks up writes made by other processes.
func (db *DB) Refresh(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	notes, err := db.All(ctx)
	if err != nil {
		return err
	}
	db.emitLocked(notes)
	return nil
}

// publishLocked emits the post-commit snapshot. The commit already happened,
// so the read must not be abandoned when the caller's ctx is cancelled.
func (db *DB) publishLocked(ctx context.Context) {
	notes, err := db.All(context.WithoutCancel(ctx))
	if err != nil {
		db.logger.Error("store: snapshot after commit failed", slog.String("error", err.Error()))
		return
	}
	db.emitLocked(notes)
}

func (db *DB) emitLocked(notes []models.Note) {
	sum, err := checksum.SumJSON(notes)
	if err != nil {
		db.logger.Error("store: fingerprint snapshot failed", slog.String("error", err.Error()))
		return
	}
	if sum == db.lastSum {
		return
	}
	db.lastSum = sum
	db.hub.publish(notes)
}

func affected(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err != nil || n > 0
}
