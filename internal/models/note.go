// Package models defines the domain types for the notes app.
package models

import (
	"strings"
	"time"
)

// Note is the single persisted entity. ID 0 marks a draft that has not been
// stored yet.
type Note struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`
}

// IsDraft reports whether the note has not been assigned a persisted id.
func (n Note) IsDraft() bool {
	return n.ID == 0
}

// IsBlank reports whether both title and content are empty after trimming.
// Blank notes are never persisted.
func (n Note) IsBlank() bool {
	return IsBlank(n.Title, n.Content)
}

// IsBlank reports whether title and content are both whitespace-only.
func IsBlank(title, content string) bool {
	return strings.TrimSpace(title) == "" && strings.TrimSpace(content) == ""
}

// Matches reports whether query is a case-insensitive substring of the title
// or the content. A blank query matches every note.
func (n Note) Matches(query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q)
}
