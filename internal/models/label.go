package models

import (
	"fmt"
	"time"
)

// RelativeLabel renders t relative to now the way the note list shows it.
func RelativeLabel(t, now time.Time) string {
	hours := int64(now.Sub(t) / time.Hour)
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case hours < 48:
		return "Yesterday"
	default:
		return t.Format("Jan 02")
	}
}
