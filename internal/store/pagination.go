package store

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/linkloftapp/linkloft-server/internal/domain"
)

// Pagination limits. The limit is clamped to [1, MaxPageSize] with
// DefaultPageSize used when the caller passes nothing.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Cursor marks a position in the canonical (created_at DESC, id DESC)
// bookmark ordering. created_at alone is not unique, so the id tie-break is
// required to avoid skipping or repeating rows with identical timestamps.
// Cursors are ephemeral: built per request, encoded, and discarded.
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// cursorWire is the transport representation of a cursor.
type cursorWire struct {
	TS string `json:"ts"`
	ID int64  `json:"id"`
}

// Encode serializes the cursor to an opaque base64url string.
func (c Cursor) Encode() string {
	data, err := json.Marshal(cursorWire{
		TS: c.CreatedAt.UTC().Format(time.RFC3339Nano),
		ID: c.ID,
	})
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor parses an opaque cursor string. Decoding is total: malformed
// input, missing fields, or a bad timestamp all yield (zero, false) so
// callers degrade to first-page behavior instead of erroring.
func DecodeCursor(encoded string) (Cursor, bool) {
	if encoded == "" {
		return Cursor{}, false
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		// Tolerate unpadded input from clients that strip padding.
		raw, err = base64.RawURLEncoding.DecodeString(encoded)
		if err != nil {
			return Cursor{}, false
		}
	}

	var wire cursorWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Cursor{}, false
	}
	if wire.TS == "" || wire.ID == 0 {
		return Cursor{}, false
	}

	ts, err := time.Parse(time.RFC3339Nano, wire.TS)
	if err != nil {
		return Cursor{}, false
	}

	return Cursor{CreatedAt: ts, ID: wire.ID}, true
}

// BookmarkCursor builds a cursor pointing at a bookmark.
func BookmarkCursor(b *domain.Bookmark) Cursor {
	return Cursor{CreatedAt: b.CreatedAt, ID: b.ID}
}

// PaginationParams contains pagination request parameters.
type PaginationParams struct {
	Limit  int    // Items per page, clamped to [1, MaxPageSize]
	Cursor string // Opaque cursor for the next page (empty for first page)
}

// DefaultPaginationParams returns sensible defaults.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Limit:  DefaultPageSize,
		Cursor: "",
	}
}

// Validate checks and corrects pagination parameters.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// PaginatedResult contains one page of data plus continuation metadata.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"` // Empty if no more pages
	HasMore    bool   `json:"has_more"`
}

// NewPage assembles a page from a limit+1 fetch. If more than limit rows came
// back, the extra row is dropped, HasMore is set, and NextCursor points at the
// last returned row. This avoids a separate count query.
func NewPage[T any](items []T, limit int, cursorOf func(T) Cursor) PaginatedResult[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var next string
	if hasMore && len(items) > 0 {
		next = cursorOf(items[len(items)-1]).Encode()
	}

	if items == nil {
		items = []T{}
	}

	return PaginatedResult[T]{
		Items:      items,
		NextCursor: next,
		HasMore:    hasMore,
	}
}
