package domain

import (
	"strings"
	"time"
)

// Visibility controls who can see a bookmark.
type Visibility string

// Visibility values. Anything else is normalized to VisibilityPublic at
// create/update time rather than rejected.
const (
	VisibilityPublic        Visibility = "public"
	VisibilityAuthenticated Visibility = "authenticated"
	VisibilityPrivate       Visibility = "private"
)

// IsValid reports whether v is one of the three known visibility values.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityAuthenticated, VisibilityPrivate:
		return true
	}
	return false
}

// NormalizeVisibility maps unknown values to public.
func NormalizeVisibility(v Visibility) Visibility {
	if !v.IsValid() {
		return VisibilityPublic
	}
	return v
}

// Bookmark is a saved URL owned by a single user.
// Tags is a whitespace-separated string and the source of truth for tag
// membership; the normalized tag relation is a derived index resynchronized
// on every write.
type Bookmark struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Username    string     `json:"username,omitempty"` // Denormalized owner name for display
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        string     `json:"tags"`
	Visibility  Visibility `json:"visibility"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TagList splits the denormalized tag string into individual tags.
func (b *Bookmark) TagList() []string {
	return ParseTags(b.Tags)
}

// IsPrivate reports whether the bookmark is visible to its owner only.
func (b *Bookmark) IsPrivate() bool {
	return b.Visibility == VisibilityPrivate
}

// ParseTags splits a whitespace-separated tag string into tokens.
// Returns nil for an empty string.
func ParseTags(tags string) []string {
	return strings.Fields(tags)
}
