package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Princelohia9910/NotesApp/internal/models"
	"github.com/Princelohia9910/NotesApp/internal/repository"
	"github.com/Princelohia9910/NotesApp/internal/store"
	"github.com/Princelohia9910/NotesApp/internal/testutil"
)

func testServer(t *testing.T) (*Server, *store.DB) {
	t.Helper()
	db := testutil.TestDB(t)
	return New(repository.New(db), testutil.Logger()), db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handlers are
	// invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "update_note":
		result, err = srv.updateNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func resultNotes(t *testing.T, r *mcp.CallToolResult) []models.Note {
	t.Helper()
	if r.IsError {
		t.Fatalf("tool error: %s", resultText(r))
	}
	var notes []models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &notes); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return notes
}

func TestCreateAndReadNote(t *testing.T) {
	srv, db := testServer(t)

	r := callTool(t, srv, "create_note", map[string]any{
		"title":   "Test",
		"content": "Hello",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}

	all, err := db.All(context.Background())
	if err != nil || len(all) != 1 {
		t.Fatalf("All = %v, %v", all, err)
	}

	r = callTool(t, srv, "read_note", map[string]any{"id": float64(all[0].ID)})
	var got models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Test" || got.Content != "Hello" {
		t.Errorf("read = %+v", got)
	}
}

func TestCreateBlankNote(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"title": " ", "content": ""})
	if !r.IsError {
		t.Error("expected error for blank note")
	}
}

func TestListAndSearchNotes(t *testing.T) {
	srv, db := testServer(t)
	now := time.Now()
	testutil.Seed(t, db, "Groceries", "milk", now.Add(-time.Minute))
	testutil.Seed(t, db, "Ideas", "Milkshake bar", now)
	testutil.Seed(t, db, "Journal", "rain", now.Add(-time.Hour))

	notes := resultNotes(t, callTool(t, srv, "list_notes", map[string]any{}))
	if len(notes) != 3 || notes[0].Title != "Ideas" || notes[2].Title != "Journal" {
		t.Errorf("list = %+v", notes)
	}

	notes = resultNotes(t, callTool(t, srv, "search_notes", map[string]any{"query": "MILK"}))
	if len(notes) != 2 || notes[0].Title != "Ideas" || notes[1].Title != "Groceries" {
		t.Errorf("search = %+v", notes)
	}

	notes = resultNotes(t, callTool(t, srv, "search_notes", map[string]any{"query": "  "}))
	if len(notes) != 3 {
		t.Errorf("blank search returned %d notes, want 3", len(notes))
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]any{"id": float64(99)})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestUpdateNote(t *testing.T) {
	srv, db := testServer(t)
	past := time.Now().Add(-time.Hour)
	n := testutil.Seed(t, db, "Old", "body", past)

	r := callTool(t, srv, "update_note", map[string]any{"id": float64(n.ID), "title": "New", "content": "changed"})
	if r.IsError {
		t.Fatalf("update error: %s", resultText(r))
	}

	got, err := db.GetByID(context.Background(), n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "New" || got.Content != "changed" {
		t.Errorf("got %+v", got)
	}
	if !got.DateModified.After(past) || !got.DateCreated.Equal(past) {
		t.Errorf("timestamps: created %v modified %v", got.DateCreated, got.DateModified)
	}
}

func TestUpdateNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "update_note", map[string]any{"id": float64(7), "title": "x"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestDeleteNote(t *testing.T) {
	srv, db := testServer(t)
	n := testutil.Seed(t, db, "Doomed", "", time.Now())

	for i := 0; i < 2; i++ {
		r := callTool(t, srv, "delete_note", map[string]any{"id": float64(n.ID)})
		if r.IsError {
			t.Fatalf("delete %d error: %s", i, resultText(r))
		}
	}
	notes := resultNotes(t, callTool(t, srv, "list_notes", map[string]any{}))
	if len(notes) != 0 {
		t.Errorf("notes left: %+v", notes)
	}
}

func TestInvalidID(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]any{"id": float64(0)})
	if !r.IsError {
		t.Error("expected error for non-positive id")
	}
}
