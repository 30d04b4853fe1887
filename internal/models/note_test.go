package models

import (
	"testing"
	"time"
)

func TestNote_IsBlank(t *testing.T) {
	cases := []struct {
		title, content string
		want           bool
	}{
		{"", "", true},
		{"  ", "\n\t", true},
		{"A", "", false},
		{"", "x", false},
	}
	for _, c := range cases {
		n := Note{Title: c.title, Content: c.content}
		if got := n.IsBlank(); got != c.want {
			t.Errorf("IsBlank(%q, %q) = %v, want %v", c.title, c.content, got, c.want)
		}
	}
}

func TestNote_IsDraft(t *testing.T) {
	if !(Note{}).IsDraft() {
		t.Error("zero note should be a draft")
	}
	if (Note{ID: 3}).IsDraft() {
		t.Error("note with id should not be a draft")
	}
}

func TestNote_Matches(t *testing.T) {
	n := Note{Title: "Shopping List", Content: "Milk and EGGS"}
	for _, q := range []string{"", "   ", "\t\n", "shop", "LIST", "eggs", "milk and"} {
		if !n.Matches(q) {
			t.Errorf("expected match for %q", q)
		}
	}
	for _, q := range []string{"bread", " milk  and"} {
		if n.Matches(q) {
			t.Errorf("unexpected match for %q", q)
		}
	}
}

func TestRelativeLabel(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-10 * time.Minute), "Just now"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-30 * time.Hour), "Yesterday"},
		{time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC), "Jan 02"},
	}
	for _, c := range cases {
		if got := RelativeLabel(c.t, now); got != c.want {
			t.Errorf("RelativeLabel(%v) = %q, want %q", c.t, got, c.want)
		}
	}
}
