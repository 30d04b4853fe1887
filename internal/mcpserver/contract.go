package mcpserver

// NoteFormatContract describes how notes look to tool callers and how the
// archive command stores them on disk.
const NoteFormatContract = `# Note Format

A note has a numeric id, a title and a plain-text body. Either the title or
the body must contain something other than whitespace; blank notes are never
stored.

## Tools

- ` + "`list_notes`" + ` returns every note, most recently modified first.
- ` + "`search_notes`" + ` matches a case-insensitive substring of title or body.
- ` + "`create_note`" + ` returns the id the new note was stored under.
- ` + "`update_note`" + ` replaces title and body of an existing note; the
  modification time always moves forward.
- ` + "`delete_note`" + ` succeeds even when the note is already gone.

## Archive files

Exported notes are written as ` + "`note-<id>.md`" + `:

` + "```" + `markdown
---
id: 12
title: Groceries
created: 2025-01-15T09:30:00Z
modified: 2025-01-16T18:02:11Z
---
milk, eggs
` + "```" + `

Files without frontmatter are imported as new notes titled after their first
` + "`# heading`" + `.
`
