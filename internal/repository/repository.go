// Package repository is the only way view-models reach persistence.
package repository

import (
	"context"

	"github.com/Princelohia9910/NotesApp/internal/apperr"
	"github.com/Princelohia9910/NotesApp/internal/models"
)

// Repository exposes note persistence under method names that stay the same
// whatever storage backend sits behind it.
type Repository interface {
	// ObserveAll returns the live all-notes query, newest modification first.
	ObserveAll(ctx context.Context) (<-chan []models.Note, error)
	// GetByID returns the note or apperr.ErrNotFound.
	GetByID(ctx context.Context, id int64) (models.Note, error)
	// Insert upserts a note and returns its id.
	Insert(ctx context.Context, n models.Note) (int64, error)
	// Update replaces an existing note; absent ids are ignored.
	Update(ctx context.Context, n models.Note) error
	DeleteByValue(ctx context.Context, n models.Note) error
	DeleteByID(ctx context.Context, id int64) error
}

// Store is the backend contract the repository forwards to.
type Store interface {
	Repository
}

var _ Repository = (*repo)(nil)

type repo struct {
	store Store
}

// New returns a Repository that forwards every call to store unchanged.
func New(store Store) Repository {
	return &repo{store: store}
}

func (r *repo) ObserveAll(ctx context.Context) (<-chan []models.Note, error) {
	return r.store.ObserveAll(ctx)
}

func (r *repo) GetByID(ctx context.Context, id int64) (models.Note, error) {
	return r.store.GetByID(ctx, id)
}

func (r *repo) Insert(ctx context.Context, n models.Note) (int64, error) {
	return r.store.Insert(ctx, n)
}

func (r *repo) Update(ctx context.Context, n models.Note) error {
	return r.store.Update(ctx, n)
}

func (r *repo) DeleteByValue(ctx context.Context, n models.Note) error {
	return r.store.DeleteByValue(ctx, n)
}

func (r *repo) DeleteByID(ctx context.Context, id int64) error {
	return r.store.DeleteByID(ctx, id)
}

// Snapshot returns the first emission of r's live query, which is the
// current content of the store.
func Snapshot(ctx context.Context, r Repository) ([]models.Note, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := r.ObserveAll(ctx)
	if err != nil {
		return nil, err
	}
	select {
	case notes, ok := <-ch:
		if !ok {
			return nil, apperr.ErrClosed
		}
		return notes, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
