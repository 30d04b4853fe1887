package viewmodel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Princelohia9910/NotesApp/internal/apperr"
	"github.com/Princelohia9910/NotesApp/internal/models"
	"github.com/Princelohia9910/NotesApp/internal/repository"
)

// EditState is the in-progress edit of one note. NoteID 0 means a new
// draft; IsSaved marks the terminal Saved state until ResetSaveState.
type EditState struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	NoteID  int64  `json:"note_id"`
	IsSaved bool   `json:"is_saved"`
	Error   string `json:"error,omitempty"`
}

// Drafting reports whether the session edits a note that is not stored yet.
func (s EditState) Drafting() bool {
	return s.NoteID == 0
}

// Edit owns a single draft exclusively. Reads and writes go through the
// repository only when Load or Save is called.
type Edit struct {
	repo   repository.Repository
	logger *slog.Logger
	now    func() time.Time
	scope  *scope
	state  *observable[EditState]
}

// NewEdit starts an edit session in the Drafting-New state.
func NewEdit(ctx context.Context, repo repository.Repository, opts ...Option) *Edit {
	o := buildOptions(opts)
	return &Edit{
		repo:   repo,
		logger: o.logger,
		now:    o.now,
		scope:  newScope(ctx),
		state:  newObservable(EditState{}),
	}
}

// SetTitle replaces the draft title. It is ignored in the Saved state.
func (e *Edit) SetTitle(title string) {
	e.state.update(func(s *EditState) {
		if !s.IsSaved {
			s.Title = title
		}
	})
}

// SetContent replaces the draft content. It is ignored in the Saved state.
func (e *Edit) SetContent(content string) {
	e.state.update(func(s *EditState) {
		if !s.IsSaved {
			s.Content = content
		}
	})
}

// Load fetches note id and makes it the edit target. A missing note leaves
// the state untouched.
func (e *Edit) Load(id int64) <-chan error {
	return e.scope.launch(func(ctx context.Context) error {
		n, err := e.repo.GetByID(ctx, id)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			e.logger.Debug("edit: load missing note", slog.Int64("id", id))
			return nil
		case err != nil:
			return e.result(ctx, "load", err)
		}
		e.state.update(func(s *EditState) {
			s.Title = n.Title
			s.Content = n.Content
			s.NoteID = n.ID
			s.Error = ""
		})
		return nil
	})
}

// Save persists the draft. It is a no-op when title and content are both
// blank. A new draft is inserted; an existing note is re-read and replaced,
// and silently abandoned if it has been deleted meanwhile. Success moves
// the session to the Saved state.
func (e *Edit) Save() <-chan error {
	cur := e.state.get()
	if models.IsBlank(cur.Title, cur.Content) {
		return finished(nil)
	}

	return e.scope.launch(func(ctx context.Context) error {
		now := e.now()

		if cur.Drafting() {
			id, err := e.repo.Insert(ctx, models.Note{
				Title:        cur.Title,
				Content:      cur.Content,
				DateCreated:  now,
				DateModified: now,
			})
			if err != nil {
				return e.result(ctx, "insert", err)
			}
			e.markSaved(id)
			return nil
		}

		existing, err := e.repo.GetByID(ctx, cur.NoteID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			e.logger.Debug("edit: save target vanished", slog.Int64("id", cur.NoteID))
			return nil
		case err != nil:
			return e.result(ctx, "load for save", err)
		}

		// Keep modification times strictly increasing even on coarse clocks.
		if !now.After(existing.DateModified) {
			now = existing.DateModified.Add(time.Nanosecond)
		}
		existing.Title = cur.Title
		existing.Content = cur.Content
		existing.DateModified = now
		if err := e.repo.Update(ctx, existing); err != nil {
			return e.result(ctx, "update", err)
		}

		// Update ignores absent ids, so a delete racing this save leaves
		// nothing written. Only report Saved when the row carries our write.
		stored, err := e.repo.GetByID(ctx, existing.ID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			e.logger.Debug("edit: save target deleted during update", slog.Int64("id", existing.ID))
			return nil
		case err != nil:
			return e.result(ctx, "confirm update", err)
		case !stored.DateModified.Equal(now):
			e.logger.Debug("edit: save overtaken by another writer", slog.Int64("id", existing.ID))
			return nil
		}
		e.markSaved(existing.ID)
		return nil
	})
}

// ResetSaveState leaves the Saved state so a re-entered screen does not see
// a stale saved signal.
func (e *Edit) ResetSaveState() {
	e.state.update(func(s *EditState) {
		s.IsSaved = false
	})
}

// State returns the current state.
func (e *Edit) State() EditState {
	return e.state.get()
}

// Subscribe returns a channel that first yields the current state and then
// every change. Call the returned function to stop receiving.
func (e *Edit) Subscribe() (<-chan EditState, func()) {
	return e.state.subscribe()
}

// Wait blocks until in-flight Load and Save calls have finished and returns
// the first error any of them reported.
func (e *Edit) Wait() error {
	return e.scope.wait()
}

// Close abandons in-flight storage calls and closes every subscription.
func (e *Edit) Close() {
	e.scope.close()
	e.state.close()
}

func (e *Edit) markSaved(id int64) {
	e.state.update(func(s *EditState) {
		s.NoteID = id
		s.IsSaved = true
		s.Error = ""
	})
}

func (e *Edit) result(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	e.logger.Error("edit: "+op+" failed", slog.String("error", err.Error()))
	e.state.update(func(s *EditState) {
		s.Error = err.Error()
	})
	return err
}
