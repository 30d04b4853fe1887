// Package parser reads and writes the Markdown files of a note archive.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delim = "---"

// Meta is the YAML frontmatter of an archived note.
type Meta struct {
	ID       int64     `yaml:"id"`
	Title    string    `yaml:"title"`
	Created  time.Time `yaml:"created"`
	Modified time.Time `yaml:"modified"`
}

// Document holds the output of parsing a Markdown file.
type Document struct {
	// Meta is nil when the file has no valid frontmatter.
	Meta  *Meta
	Body  string
	Title string
}

// Parse splits raw Markdown bytes into frontmatter and body. Files without
// frontmatter, or with frontmatter that is not valid YAML, are all body.
func Parse(data []byte) *Document {
	meta, body := splitFrontmatter(data)
	return &Document{
		Meta:  meta,
		Body:  body,
		Title: deriveTitle(meta, body),
	}
}

// Encode renders meta as frontmatter followed by body verbatim, so that
// Parse(Encode(m, b)) yields b unchanged.
func Encode(meta Meta, body string) ([]byte, error) {
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(delim + "\n")
	buf.Write(fm)
	buf.WriteString(delim + "\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body.
func splitFrontmatter(data []byte) (*Meta, string) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim+"\n")) && !bytes.HasPrefix(trimmed, []byte(delim+"\r\n")) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter.
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	after := rest[idx+1+len(delim):]
	// Drop only the line break that ends the closing delimiter.
	switch {
	case bytes.HasPrefix(after, []byte("\r\n")):
		after = after[2:]
	case bytes.HasPrefix(after, []byte("\n")):
		after = after[1:]
	}

	var meta Meta
	if err := yaml.Unmarshal(yamlBlock, &meta); err != nil {
		return nil, string(data)
	}
	return &meta, string(after)
}

// deriveTitle returns the frontmatter title if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(meta *Meta, body string) string {
	if meta != nil && strings.TrimSpace(meta.Title) != "" {
		return meta.Title
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
