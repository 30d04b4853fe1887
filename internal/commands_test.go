package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Princelohia9910/NotesApp/internal/apperr"
)

func testOptions(t *testing.T, out io.Writer) []Option {
	t.Helper()
	cfg := NewDefaultConfig()
	dir := t.TempDir()
	cfg.SQLite.Path = filepath.Join(dir, "data", "notes.db")
	cfg.Archive.Path = filepath.Join(dir, "archive")
	return []Option{
		WithConfig(cfg),
		WithOutput(out),
		WithLogOutput(io.Discard),
	}
}

func TestCommands_AddListRemove(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	ctx := context.Background()

	if err := AddNote(ctx, "Groceries", "milk", opts...); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(out.String()), 10, 64)
	if err != nil || id <= 0 {
		t.Fatalf("AddNote printed %q", out.String())
	}
	if err := AddNote(ctx, "", "untitled body", opts...); err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	out.Reset()
	if err := ListNotes(ctx, "MILK", opts...); err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "Groceries") || !strings.Contains(lines[1], "Just now") {
		t.Errorf("filtered list = %q", out.String())
	}

	out.Reset()
	if err := RemoveNotes(ctx, []int64{id, id, 999}, opts...); err != nil {
		t.Fatalf("RemoveNotes: %v", err)
	}
	if err := ListNotes(ctx, "", opts...); err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if strings.Contains(out.String(), "Groceries") || !strings.Contains(out.String(), "(untitled)") {
		t.Errorf("list after remove = %q", out.String())
	}
}

func TestCommands_AddBlank(t *testing.T) {
	err := AddNote(context.Background(), " ", "", testOptions(t, io.Discard)...)
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestCommands_ExportImport(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	ctx := context.Background()

	if err := AddNote(ctx, "Kept", "body", opts...); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := ExportNotes(ctx, "", opts...); err != nil {
		t.Fatalf("ExportNotes: %v", err)
	}
	if !strings.Contains(out.String(), "written 1") {
		t.Errorf("export output = %q", out.String())
	}

	cfg := NewDefaultConfig()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "other.db")
	cfg.Archive.Path = optsConfig(opts).Archive.Path
	other := []Option{WithConfig(cfg), WithOutput(&out), WithLogOutput(io.Discard)}

	out.Reset()
	if err := ImportNotes(ctx, "", other...); err != nil {
		t.Fatalf("ImportNotes: %v", err)
	}
	if !strings.Contains(out.String(), "imported 1") {
		t.Errorf("import output = %q", out.String())
	}
	out.Reset()
	if err := ListNotes(ctx, "kept", other...); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Kept") {
		t.Errorf("imported list = %q", out.String())
	}
}

func TestCommands_ClockLabels(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	ctx := context.Background()
	past := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

	if err := AddNote(ctx, "Old", "", append(opts, WithClock(func() time.Time { return past }))...); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := ListNotes(ctx, "", append(opts, WithClock(func() time.Time { return past.Add(30 * time.Hour) }))...); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Yesterday") {
		t.Errorf("list = %q", out.String())
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Error("Run without config should fail")
	}
}

func optsConfig(opts []Option) *Config {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	return app.config
}
