// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes note tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Princelohia9910/NotesApp/internal/apperr"
	"github.com/Princelohia9910/NotesApp/internal/models"
	"github.com/Princelohia9910/NotesApp/internal/repository"
	"github.com/Princelohia9910/NotesApp/internal/viewmodel"
)

const formatURI = "notes://note-format"

// Server wraps the MCP server with note tools.
type Server struct {
	mcp    *server.MCPServer
	repo   repository.Repository
	opts   []viewmodel.Option
	logger *slog.Logger
}

// New creates a new MCP server with all note tools registered. opts are
// passed to the edit sessions that run create and update.
func New(repo repository.Repository, logger *slog.Logger, opts ...viewmodel.Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{repo: repo, opts: append([]viewmodel.Option{viewmodel.WithLogger(logger)}, opts...), logger: logger}

	s.mcp = server.NewMCPServer(
		"Notes",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes, most recently modified first."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Case-insensitive substring search over note titles and contents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a single note by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note. Title or content must be non-blank."),
		mcp.WithString("title", mcp.Description("Note title")),
		mcp.WithString("content", mcp.Description("Note body")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Replace the title and content of an existing note."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New body")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by id. Deleting a missing note succeeds."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Note Format",
			mcp.WithResourceDescription("How notes are shaped and how archives store them."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// Listen serves MCP over the given streams until ctx is done or in closes.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func requireID(req mcp.CallToolRequest) (int64, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: id must be positive, got %d", apperr.ErrInvalid, id)
	}
	return int64(id), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := repository.Snapshot(ctx, s.repo)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(notes), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := repository.Snapshot(ctx, s.repo)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matches := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if n.Matches(query) {
			matches = append(matches, n)
		}
	}
	return jsonResult(matches), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %d", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(n), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	content := req.GetString("content", "")
	if models.IsBlank(title, content) {
		return mcp.NewToolResultError("title or content is required"), nil
	}

	edit := viewmodel.NewEdit(ctx, s.repo, s.opts...)
	defer edit.Close()

	edit.SetTitle(title)
	edit.SetContent(content)
	if err := <-edit.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id := edit.State().NoteID
	s.logger.Info("mcp: note created", slog.Int64("id", id))
	return mcp.NewToolResultText(fmt.Sprintf("created: %d", id)), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := req.GetString("title", "")
	content := req.GetString("content", "")
	if models.IsBlank(title, content) {
		return mcp.NewToolResultError("title or content is required"), nil
	}

	edit := viewmodel.NewEdit(ctx, s.repo, s.opts...)
	defer edit.Close()

	if err := <-edit.Load(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if edit.State().NoteID != id {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %d", id)), nil
	}
	edit.SetTitle(title)
	edit.SetContent(content)
	if err := <-edit.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !edit.State().IsSaved {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %d", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %d", id)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %d", id)), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
