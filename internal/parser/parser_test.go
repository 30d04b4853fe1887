package parser

import (
	"testing"
	"time"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\nid: 7\ntitle: Hello\ncreated: 2025-01-15T09:30:00Z\nmodified: 2025-01-16T18:02:11.5Z\n---\n# Hello\nBody text.\n")
	d := Parse(input)
	if d.Meta == nil {
		t.Fatal("expected frontmatter")
	}
	if d.Meta.ID != 7 {
		t.Errorf("id = %d, want 7", d.Meta.ID)
	}
	if d.Title != "Hello" {
		t.Errorf("title = %q, want %q", d.Title, "Hello")
	}
	want := time.Date(2025, 1, 16, 18, 2, 11, 500_000_000, time.UTC)
	if !d.Meta.Modified.Equal(want) {
		t.Errorf("modified = %v, want %v", d.Meta.Modified, want)
	}
	if d.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", d.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	d := Parse(input)
	if d.Meta != nil {
		t.Errorf("expected nil frontmatter, got %+v", d.Meta)
	}
	if d.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", d.Title, "Just a heading")
	}
	if d.Body != string(input) {
		t.Errorf("body = %q", d.Body)
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	d := Parse(input)
	if d.Meta != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if d.Body != string(input) {
		t.Errorf("body = %q", d.Body)
	}
}

func TestParse_UnclosedFrontmatter(t *testing.T) {
	input := []byte("---\ntitle: x\nno closing line\n")
	if d := Parse(input); d.Meta != nil {
		t.Errorf("expected nil frontmatter, got %+v", d.Meta)
	}
}

func TestDeriveTitle_FrontmatterOverH1(t *testing.T) {
	d := Parse([]byte("---\ntitle: FM Title\n---\n# H1 Title\n"))
	if d.Title != "FM Title" {
		t.Errorf("title = %q, want FM Title", d.Title)
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	d := Parse([]byte("---\nid: 3\n---\nintro\n# From Heading\n"))
	if d.Title != "From Heading" {
		t.Errorf("title = %q, want From Heading", d.Title)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	created := time.Date(2024, 12, 31, 23, 59, 0, 123, time.UTC)
	meta := Meta{ID: 42, Title: "Line one: with colon", Created: created, Modified: created.Add(time.Hour)}
	body := "\nleading blank line\n---\nnot a delimiter for us\nno trailing newline"

	data, err := Encode(meta, body)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	d := Parse(data)
	if d.Meta == nil {
		t.Fatalf("no frontmatter in %q", data)
	}
	if d.Meta.ID != 42 || d.Meta.Title != meta.Title {
		t.Errorf("meta = %+v", d.Meta)
	}
	if !d.Meta.Created.Equal(meta.Created) || !d.Meta.Modified.Equal(meta.Modified) {
		t.Errorf("times = %v / %v", d.Meta.Created, d.Meta.Modified)
	}
	if d.Body != body {
		t.Errorf("body = %q, want %q", d.Body, body)
	}
}
