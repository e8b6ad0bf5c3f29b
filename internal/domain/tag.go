package domain

import "time"

// Tag is a pure lookup entity created lazily the first time any bookmark
// references it. Tags are never deleted, even when no bookmark references
// them anymore.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TagCount pairs a tag name with the number of visible bookmarks carrying it.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PopularBookmark is a URL ranked by how many distinct users saved it.
// The canonical display bookmark is the earliest-created one for that URL.
type PopularBookmark struct {
	Bookmark  *Bookmark `json:"bookmark"`
	SaveCount int       `json:"save_count"`
}
