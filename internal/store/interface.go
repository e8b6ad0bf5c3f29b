// Package store defines the persistence interface and the value types shared
// by its implementations: pagination cursors, visibility filters, and
// storage-level errors.
package store

import (
	"context"

	"github.com/linkloftapp/linkloft-server/internal/domain"
)

// Store is the persistence interface consumed by the service layer.
// The canonical implementation is internal/store/sqlite.
type Store interface {
	BookmarkStore
	UserStore
	TagStore
	InviteStore

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// BookmarkStore persists bookmarks and answers visibility-scoped queries.
type BookmarkStore interface {
	// CreateBookmark inserts a bookmark and resynchronizes its tag index in
	// one transaction. Returns ErrAlreadyExists when the (owner, url) pair is
	// taken; the UNIQUE constraint is the authoritative race arbiter.
	CreateBookmark(ctx context.Context, b *domain.Bookmark) error

	// UpdateBookmark rewrites a bookmark row and resynchronizes its tag index
	// in one transaction. Returns ErrNotFound if the row is gone and
	// ErrAlreadyExists when the new URL collides with another bookmark of the
	// same owner.
	UpdateBookmark(ctx context.Context, b *domain.Bookmark) error

	// DeleteBookmark removes a bookmark; tag associations cascade, tag rows
	// are left untouched.
	DeleteBookmark(ctx context.Context, id int64) error

	// GetBookmark fetches a bookmark by id. A non-zero ownerID scopes the
	// lookup to that owner; zero returns any bookmark regardless of owner and
	// leaves the visibility check to the caller.
	GetBookmark(ctx context.Context, id, ownerID int64) (*domain.Bookmark, error)

	// ListBookmarks returns all bookmarks matching the filter and optional
	// tag, ordered by (created_at DESC, id DESC).
	ListBookmarks(ctx context.Context, filter VisibilityFilter, tag string) ([]*domain.Bookmark, error)

	// ListBookmarksPage returns one page of the same ordering, seeking past
	// the params cursor when present.
	ListBookmarksPage(ctx context.Context, filter VisibilityFilter, tag string, params PaginationParams) (PaginatedResult[*domain.Bookmark], error)

	// SearchBookmarks runs a full-text query and returns visible matches in
	// rank order. Matches that fail the filter or no longer exist are
	// silently dropped.
	SearchBookmarks(ctx context.Context, filter VisibilityFilter, query string) ([]*domain.Bookmark, error)
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrAlreadyExists on duplicate
	// username or email.
	CreateUser(ctx context.Context, u *domain.User) error

	// CreateUserWithInvite creates the user and marks the invite code used in
	// a single transaction; either both commit or neither does. Returns
	// ErrNotFound for an unknown code and ErrAlreadyExists for a spent code
	// or duplicate username/email.
	CreateUserWithInvite(ctx context.Context, u *domain.User, code string) error

	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TagStore answers tag aggregation queries derived from the bookmark table.
type TagStore interface {
	// TagCounts returns per-tag bookmark counts under a visibility scope,
	// sorted by count descending then name ascending.
	TagCounts(ctx context.Context, filter VisibilityFilter) ([]domain.TagCount, error)

	// TopTags returns the first n entries of TagCounts.
	TopTags(ctx context.Context, filter VisibilityFilter, n int) ([]domain.TagCount, error)

	// PopularBookmarksForTag ranks a tag's URLs by distinct saving users,
	// earliest-created bookmark as the canonical row.
	PopularBookmarksForTag(ctx context.Context, filter VisibilityFilter, tag string, n int) ([]domain.PopularBookmark, error)

	// GetTagsForBookmark returns the normalized tag rows currently associated
	// with a bookmark.
	GetTagsForBookmark(ctx context.Context, bookmarkID int64) ([]*domain.Tag, error)
}

// InviteStore persists invite codes.
type InviteStore interface {
	// CreateInvite inserts a new code. Returns ErrAlreadyExists on duplicate.
	CreateInvite(ctx context.Context, inv *domain.InviteCode) error

	// GetInviteByCode fetches a code. Returns ErrNotFound if unknown.
	GetInviteByCode(ctx context.Context, code string) (*domain.InviteCode, error)

	// ListInvites returns all codes, newest first.
	ListInvites(ctx context.Context) ([]*domain.InviteCode, error)
}
