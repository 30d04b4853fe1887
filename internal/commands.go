package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/Princelohia9910/NotesApp/internal/apperr"
	"github.com/Princelohia9910/NotesApp/internal/archive"
	"github.com/Princelohia9910/NotesApp/internal/models"
	"github.com/Princelohia9910/NotesApp/internal/repository"
	"github.com/Princelohia9910/NotesApp/internal/storage"
	"github.com/Princelohia9910/NotesApp/internal/viewmodel"
)

// session is an opened store for a single CLI command.
type session struct {
	app    *application
	logger *slog.Logger
	repo   repository.Repository
	close  func() error
}

func openSession(opts []Option) (*session, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	logger := app.logger()
	db, err := app.openStore(logger)
	if err != nil {
		return nil, err
	}
	return &session{app: app, logger: logger, repo: repository.New(db), close: db.Close}, nil
}

// ListNotes prints notes matching query, newest first.
func ListNotes(ctx context.Context, query string, opts ...Option) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	notes, err := repository.Snapshot(ctx, s.repo)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	now := s.app.now()
	tw := tabwriter.NewWriter(s.app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tMODIFIED")
	for _, n := range notes {
		if !n.Matches(query) {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", n.ID, displayTitle(n), models.RelativeLabel(n.DateModified, now))
	}
	return tw.Flush()
}

func displayTitle(n models.Note) string {
	if n.Title != "" {
		return n.Title
	}
	return "(untitled)"
}

// AddNote saves a new note through an edit session and prints its id.
func AddNote(ctx context.Context, title, content string, opts ...Option) error {
	if models.IsBlank(title, content) {
		return fmt.Errorf("add note: %w: title or content is required", apperr.ErrInvalid)
	}
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	edit := viewmodel.NewEdit(ctx, s.repo, s.app.viewModelOptions(s.logger)...)
	defer edit.Close()

	edit.SetTitle(title)
	edit.SetContent(content)
	if err := <-edit.Save(); err != nil {
		return fmt.Errorf("add note: %w", err)
	}
	fmt.Fprintln(s.app.out, edit.State().NoteID)
	return nil
}

// RemoveNotes deletes the notes with ids. Missing ids are not an error.
func RemoveNotes(ctx context.Context, ids []int64, opts ...Option) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	list := viewmodel.NewList(ctx, s.repo, s.app.viewModelOptions(s.logger)...)
	defer list.Close()

	results := make([]<-chan error, 0, len(ids))
	for _, id := range ids {
		results = append(results, list.DeleteByID(id))
	}
	var errs []error
	for i, ch := range results {
		if err := <-ch; err != nil {
			errs = append(errs, fmt.Errorf("remove note %d: %w", ids[i], err))
		}
	}
	return errors.Join(errs...)
}

// ExportNotes writes every note into dir as Markdown.
func ExportNotes(ctx context.Context, dir string, opts ...Option) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	fs, err := storage.NewFS(s.archiveDir(dir), true)
	if err != nil {
		return err
	}
	res, err := archive.Export(ctx, s.repo, fs)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.app.out, "written %d, unchanged %d, removed %d\n", res.Written, res.Unchanged, res.Removed)
	return nil
}

// ImportNotes loads every Markdown file in dir.
func ImportNotes(ctx context.Context, dir string, opts ...Option) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	fs, err := storage.NewFS(s.archiveDir(dir), false)
	if err != nil {
		return err
	}
	res, err := archive.Import(ctx, s.repo, fs)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.app.out, "imported %d, skipped %d\n", res.Imported, res.Skipped)
	return nil
}

func (s *session) archiveDir(dir string) string {
	if dir != "" {
		return dir
	}
	return s.app.config.Archive.Path
}
