package api

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Princelohia9910/NotesApp/internal/models"
)

const (
	maxTitleLen   = 500
	maxContentLen = 1 << 20
)

// NoteRequest is the body for creating or replacing a note.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks field sizes and rejects blank notes, which the edit
// session would otherwise silently skip.
func (r *NoteRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.RuneLength(0, maxTitleLen)),
		validation.Field(&r.Content, validation.Length(0, maxContentLen)),
	); err != nil {
		return err
	}
	if models.IsBlank(r.Title, r.Content) {
		return errors.New("title or content is required")
	}
	return nil
}

// NoteResponse is a note plus the relative modification label the list shows.
type NoteResponse struct {
	models.Note
	ModifiedLabel string `json:"modified_label"`
}

func toResponse(n models.Note, now time.Time) NoteResponse {
	return NoteResponse{Note: n, ModifiedLabel: models.RelativeLabel(n.DateModified, now)}
}

// NoteListResponse mirrors the list view-model state.
type NoteListResponse struct {
	Notes     []NoteResponse `json:"notes"`
	Total     int            `json:"total"`
	IsLoading bool           `json:"is_loading"`
	Error     string         `json:"error,omitempty"`
}
