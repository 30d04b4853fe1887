package store

import (
	"context"

	"github.com/Princelohia9910/NotesApp/internal/models"
)

// NoteStore is the persistence contract for notes. Consumers should depend
// on this interface rather than the concrete *DB type.
type NoteStore interface {
	ObserveAll(ctx context.Context) (<-chan []models.Note, error)
	All(ctx context.Context) ([]models.Note, error)
	GetByID(ctx context.Context, id int64) (models.Note, error)
	Insert(ctx context.Context, n models.Note) (int64, error)
	Update(ctx context.Context, n models.Note) error
	DeleteByValue(ctx context.Context, n models.Note) error
	DeleteByID(ctx context.Context, id int64) error
}

// Verify *DB satisfies NoteStore at compile time.
var _ NoteStore = (*DB)(nil)
