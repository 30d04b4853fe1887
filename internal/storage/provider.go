// Package storage defines the archive directory abstraction.
package storage

import "time"

// Entry describes one Markdown file in the archive directory.
type Entry struct {
	Path     string
	Checksum string
	ModTime  time.Time
}

// Provider is the interface for archive file operations.
type Provider interface {
	// List returns every .md file under dir (relative to the root).
	List(dir string) ([]Entry, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the root).
	Delete(path string) error
}
