// Package archive exports notes to a directory of Markdown files and imports
// them back.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strconv"
	"time"

	"github.com/Princelohia9910/NotesApp/internal/checksum"
	"github.com/Princelohia9910/NotesApp/internal/models"
	"github.com/Princelohia9910/NotesApp/internal/parser"
	"github.com/Princelohia9910/NotesApp/internal/repository"
	"github.com/Princelohia9910/NotesApp/internal/storage"
)

var fileRe = regexp.MustCompile(`^note-([0-9]+)\.md$`)

// FileName returns the archive file name for note id.
func FileName(id int64) string {
	return "note-" + strconv.FormatInt(id, 10) + ".md"
}

// ExportResult counts what Export did.
type ExportResult struct {
	Written   int `json:"written"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
}

// Export writes every note to dst as note-<id>.md. Files whose content is
// already current are left alone, and note-<id>.md files for notes that no
// longer exist are removed. Other files in dst are never touched.
func Export(ctx context.Context, repo repository.Repository, dst storage.Provider) (ExportResult, error) {
	var res ExportResult

	notes, err := repository.Snapshot(ctx, repo)
	if err != nil {
		return res, fmt.Errorf("archive: export: %w", err)
	}
	entries, err := dst.List("")
	if err != nil {
		return res, fmt.Errorf("archive: export: %w", err)
	}
	existing := make(map[string]string, len(entries))
	for _, e := range entries {
		existing[e.Path] = e.Checksum
	}

	keep := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := FileName(n.ID)
		keep[name] = struct{}{}

		data, err := parser.Encode(parser.Meta{
			ID:       n.ID,
			Title:    n.Title,
			Created:  n.DateCreated.UTC(),
			Modified: n.DateModified.UTC(),
		}, n.Content)
		if err != nil {
			return res, fmt.Errorf("archive: export %s: %w", name, err)
		}
		if existing[name] == checksum.Sum(data) {
			res.Unchanged++
			continue
		}
		if err := dst.Write(name, data); err != nil {
			return res, fmt.Errorf("archive: export: %w", err)
		}
		res.Written++
	}

	for p := range existing {
		if _, ok := keep[p]; ok || !fileRe.MatchString(p) {
			continue
		}
		if err := dst.Delete(p); err != nil {
			return res, fmt.Errorf("archive: export: %w", err)
		}
		res.Removed++
	}

	slog.Info("archive: exported",
		slog.Int("written", res.Written),
		slog.Int("unchanged", res.Unchanged),
		slog.Int("removed", res.Removed),
	)
	return res, nil
}

// ImportResult counts what Import did.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import reads every .md file in src and stores it. Files with an id in
// their frontmatter replace that note, keeping its timestamps; other files
// become new notes titled after their first heading and dated by the file's
// modification time. Blank files are skipped.
func Import(ctx context.Context, repo repository.Repository, src storage.Provider) (ImportResult, error) {
	var res ImportResult

	entries, err := src.List("")
	if err != nil {
		return res, fmt.Errorf("archive: import: %w", err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		data, err := src.Read(e.Path)
		if err != nil {
			return res, fmt.Errorf("archive: import: %w", err)
		}

		n := toNote(parser.Parse(data), e.ModTime)
		if n.IsBlank() {
			slog.Warn("archive: skipping blank file", slog.String("path", e.Path))
			res.Skipped++
			continue
		}
		if _, err := repo.Insert(ctx, n); err != nil {
			return res, fmt.Errorf("archive: import %s: %w", path.Base(e.Path), err)
		}
		res.Imported++
	}

	slog.Info("archive: imported",
		slog.Int("imported", res.Imported),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

func toNote(doc *parser.Document, modTime time.Time) models.Note {
	n := models.Note{
		Title:        doc.Title,
		Content:      doc.Body,
		DateCreated:  modTime,
		DateModified: modTime,
	}
	if doc.Meta == nil {
		return n
	}

	// Exported files carry the stored title, empty or not; the heading
	// fallback is only for plain Markdown.
	n.Title = doc.Meta.Title
	if doc.Meta.ID > 0 {
		n.ID = doc.Meta.ID
	}
	if !doc.Meta.Created.IsZero() {
		n.DateCreated = doc.Meta.Created
	}
	if !doc.Meta.Modified.IsZero() {
		n.DateModified = doc.Meta.Modified
	}
	if n.DateModified.Before(n.DateCreated) {
		n.DateModified = n.DateCreated
	}
	return n
}
