package viewmodel

import (
	"context"
	"log/slog"

	"github.com/Princelohia9910/NotesApp/internal/models"
	"github.com/Princelohia9910/NotesApp/internal/repository"
)

// ListState is what the note list screen renders. Notes must be treated as
// read-only; every emission carries a fresh slice.
type ListState struct {
	Notes     []models.Note `json:"notes"`
	IsLoading bool          `json:"is_loading"`
	Error     string        `json:"error,omitempty"`
}

// List follows the repository's live query and issues deletes. It never
// edits Notes locally: the next emission is the only source of truth.
type List struct {
	repo   repository.Repository
	logger *slog.Logger
	scope  *scope
	state  *observable[ListState]
}

// NewList activates a list view-model. It subscribes to the live query
// immediately and stays active until Close or until ctx is cancelled.
func NewList(ctx context.Context, repo repository.Repository, opts ...Option) *List {
	o := buildOptions(opts)
	l := &List{
		repo:   repo,
		logger: o.logger,
		scope:  newScope(ctx),
		state:  newObservable(ListState{Notes: []models.Note{}, IsLoading: true}),
	}
	l.scope.spawn(l.observe)
	return l
}

func (l *List) observe(ctx context.Context) {
	ch, err := l.repo.ObserveAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			l.fail("observe", err)
		}
		return
	}
	for notes := range ch {
		l.state.update(func(s *ListState) {
			s.Notes = notes
			s.IsLoading = false
			s.Error = ""
		})
	}
}

// Delete removes n from storage asynchronously. The returned channel yields
// the outcome once and may be ignored.
func (l *List) Delete(n models.Note) <-chan error {
	return l.scope.launch(func(ctx context.Context) error {
		return l.result(ctx, "delete", l.repo.DeleteByValue(ctx, n))
	})
}

// DeleteByID removes the note with id asynchronously.
func (l *List) DeleteByID(id int64) <-chan error {
	return l.scope.launch(func(ctx context.Context) error {
		return l.result(ctx, "delete", l.repo.DeleteByID(ctx, id))
	})
}

// Filter returns the current notes whose title or content contains query,
// ignoring case. Order is preserved and storage is not touched.
func (l *List) Filter(query string) []models.Note {
	return l.state.get().Filter(query)
}

// Filter returns the notes of this state matching query, in order. Use it
// when the rest of the state must come from the same emission.
func (s ListState) Filter(query string) []models.Note {
	out := make([]models.Note, 0, len(s.Notes))
	for _, n := range s.Notes {
		if n.Matches(query) {
			out = append(out, n)
		}
	}
	return out
}

// State returns the current state.
func (l *List) State() ListState {
	return l.state.get()
}

// Subscribe returns a channel that first yields the current state and then
// every change. Call the returned function to stop receiving.
func (l *List) Subscribe() (<-chan ListState, func()) {
	return l.state.subscribe()
}

// Wait blocks until in-flight commands have finished and returns the first
// error any of them reported.
func (l *List) Wait() error {
	return l.scope.wait()
}

// Close cancels in-flight work and closes every subscription.
func (l *List) Close() {
	l.scope.close()
	l.state.close()
}

func (l *List) result(ctx context.Context, op string, err error) error {
	if err != nil && ctx.Err() == nil {
		l.fail(op, err)
	}
	return err
}

func (l *List) fail(op string, err error) {
	l.logger.Error("list: "+op+" failed", slog.String("error", err.Error()))
	l.state.update(func(s *ListState) {
		s.IsLoading = false
		s.Error = err.Error()
	})
}
