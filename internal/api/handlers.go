package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Princelohia9910/NotesApp/internal/apperr"
	"github.com/Princelohia9910/NotesApp/internal/repository"
	"github.com/Princelohia9910/NotesApp/internal/viewmodel"
)

// Handler holds API route handlers. Reads of the list come from the shared
// list view-model; every create or update runs its own edit session.
type Handler struct {
	repo repository.Repository
	list *viewmodel.List
	opts []viewmodel.Option
	now  func() time.Time
}

// NewHandler creates a new Handler. opts are passed to each edit session.
func NewHandler(repo repository.Repository, list *viewmodel.List, opts ...viewmodel.Option) *Handler {
	return &Handler{repo: repo, list: list, opts: opts, now: time.Now}
}

// noteID parses the {id} URL parameter.
func noteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes, newest first, optionally filtered
//	@Tags			notes
//	@Produce		json
//	@Param			q	query		string	false	"Case-insensitive substring of title or content"
//	@Success		200	{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	state := h.list.State()
	notes := state.Filter(r.URL.Query().Get("q"))

	now := h.now()
	items := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		items = append(items, toResponse(n, now))
	}
	writeJSON(w, http.StatusOK, NoteListResponse{
		Notes:     items,
		Total:     len(items),
		IsLoading: state.IsLoading,
		Error:     state.Error,
	})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		int	true	"Note ID"
//	@Success		200	{object}	NoteResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	n, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(n, h.now()))
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NoteRequest	true	"Note"
//	@Success		201		{object}	NoteResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, "decode note", err)
		return
	}

	edit := viewmodel.NewEdit(r.Context(), h.repo, h.opts...)
	defer edit.Close()

	edit.SetTitle(req.Title)
	edit.SetContent(req.Content)
	h.finishSave(w, r, edit, http.StatusCreated)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Replace the title and content of a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int			true	"Note ID"
//	@Param			body	body		NoteRequest	true	"Note"
//	@Success		200		{object}	NoteResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	var req NoteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, "decode note", err)
		return
	}

	edit := viewmodel.NewEdit(r.Context(), h.repo, h.opts...)
	defer edit.Close()

	if err := <-edit.Load(id); err != nil {
		writeError(w, "load note", err)
		return
	}
	if edit.State().NoteID != id {
		writeError(w, "load note", apperr.ErrNotFound)
		return
	}

	edit.SetTitle(req.Title)
	edit.SetContent(req.Content)
	h.finishSave(w, r, edit, http.StatusOK)
}

func (h *Handler) finishSave(w http.ResponseWriter, r *http.Request, edit *viewmodel.Edit, status int) {
	if err := <-edit.Save(); err != nil {
		writeError(w, "save note", err)
		return
	}
	state := edit.State()
	if !state.IsSaved {
		// The target was deleted between load and save.
		writeError(w, "save note", apperr.ErrNotFound)
		return
	}

	n, err := h.repo.GetByID(r.Context(), state.NoteID)
	if err != nil {
		writeError(w, "reload note", err)
		return
	}
	writeJSON(w, status, toResponse(n, h.now()))
}

// DeleteNote handles DELETE /api/notes/{id}. Deleting a missing note succeeds.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	int	true	"Note ID"
//	@Success		204
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	if err := <-h.list.DeleteByID(id); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
