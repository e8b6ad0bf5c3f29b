package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	domainerrors "github.com/linkloftapp/linkloft-server/internal/errors"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

// BookmarkService orchestrates bookmark CRUD, feeds, profiles, tags, and
// search on top of the store.
type BookmarkService struct {
	store  store.Store
	logger *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(store store.Store, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		store:  store,
		logger: logger,
	}
}

// CreateBookmarkRequest contains the data needed to save a bookmark.
type CreateBookmarkRequest struct {
	URL         string `json:"url" validate:"required,url,max=2048"`
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description" validate:"max=5000"`
	Tags        string `json:"tags" validate:"max=500"`
	// Visibility is normalized on write: unknown values downgrade to public.
	Visibility string `json:"visibility"`
}

// UpdateBookmarkRequest contains the data for rewriting a bookmark.
type UpdateBookmarkRequest struct {
	URL         string `json:"url" validate:"required,url,max=2048"`
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description" validate:"max=5000"`
	Tags        string `json:"tags" validate:"max=500"`
	Visibility  string `json:"visibility"`
}

// Create saves a new bookmark for the user.
func (s *BookmarkService) Create(ctx context.Context, userID int64, req CreateBookmarkRequest) (*domain.Bookmark, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	b := &domain.Bookmark{
		UserID:      userID,
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Visibility:  domain.NormalizeVisibility(domain.Visibility(req.Visibility)),
	}

	if err := s.store.CreateBookmark(ctx, b); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("you already have a bookmark for this site")
		}
		return nil, fmt.Errorf("create bookmark: %w", err)
	}

	s.logger.Info("bookmark created",
		"bookmark_id", b.ID,
		"user_id", userID,
		"visibility", b.Visibility,
	)

	return b, nil
}

// Update rewrites a bookmark the user owns.
func (s *BookmarkService) Update(ctx context.Context, userID, bookmarkID int64, req UpdateBookmarkRequest) (*domain.Bookmark, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	// Scope the fetch to the owner so foreign bookmarks read as absent.
	b, err := s.store.GetBookmark(ctx, bookmarkID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("bookmark not found")
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}

	b.URL = req.URL
	b.Title = req.Title
	b.Description = req.Description
	b.Tags = req.Tags
	b.Visibility = domain.NormalizeVisibility(domain.Visibility(req.Visibility))

	if err := s.store.UpdateBookmark(ctx, b); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("you already have a bookmark for this site")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("bookmark not found")
		}
		return nil, fmt.Errorf("update bookmark: %w", err)
	}

	s.logger.Info("bookmark updated", "bookmark_id", b.ID, "user_id", userID)

	return b, nil
}

// Delete removes a bookmark the user owns.
func (s *BookmarkService) Delete(ctx context.Context, userID, bookmarkID int64) error {
	if _, err := s.store.GetBookmark(ctx, bookmarkID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("bookmark not found")
		}
		return fmt.Errorf("get bookmark: %w", err)
	}

	if err := s.store.DeleteBookmark(ctx, bookmarkID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("bookmark not found")
		}
		return fmt.Errorf("delete bookmark: %w", err)
	}

	s.logger.Info("bookmark deleted", "bookmark_id", bookmarkID, "user_id", userID)

	return nil
}

// Get fetches a single bookmark if the viewer may see it. Invisible and
// missing bookmarks are indistinguishable to the caller.
func (s *BookmarkService) Get(ctx context.Context, bookmarkID, viewerID int64) (*domain.Bookmark, error) {
	b, err := s.store.GetBookmark(ctx, bookmarkID, 0)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("bookmark not found")
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}

	if b.UserID != viewerID && !store.ForUser(viewerID).Matches(b) {
		return nil, domainerrors.NotFound("bookmark not found")
	}

	return b, nil
}

// Feed returns one page of the shared stream visible to the viewer, optionally
// narrowed to a tag.
func (s *BookmarkService) Feed(ctx context.Context, viewerID int64, tag string, params store.PaginationParams) (store.PaginatedResult[*domain.Bookmark], error) {
	return s.store.ListBookmarksPage(ctx, store.ForUser(viewerID), tag, params)
}

// Mine returns one page of the viewer's own bookmarks, all visibilities.
func (s *BookmarkService) Mine(ctx context.Context, userID int64, tag string, params store.PaginationParams) (store.PaginatedResult[*domain.Bookmark], error) {
	var zero store.PaginatedResult[*domain.Bookmark]
	if userID == 0 {
		return zero, domainerrors.Unauthorized("authentication required")
	}
	return s.store.ListBookmarksPage(ctx, store.ForOwner(userID), tag, params)
}

// Profile returns one page of a user's bookmarks as seen by the viewer.
func (s *BookmarkService) Profile(ctx context.Context, username string, viewerID int64, tag string, params store.PaginationParams) (store.PaginatedResult[*domain.Bookmark], error) {
	var zero store.PaginatedResult[*domain.Bookmark]

	owner, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return zero, domainerrors.NotFound("user not found")
		}
		return zero, fmt.Errorf("get user: %w", err)
	}

	return s.store.ListBookmarksPage(ctx, store.ForProfile(owner.ID, viewerID), tag, params)
}

// Search returns bookmarks matching a free-text query, in relevance order,
// restricted to what the viewer may see.
func (s *BookmarkService) Search(ctx context.Context, viewerID int64, query string) ([]*domain.Bookmark, error) {
	return s.store.SearchBookmarks(ctx, store.ForUser(viewerID), query)
}

// TagCounts returns tag usage over the bookmarks visible to the viewer.
func (s *BookmarkService) TagCounts(ctx context.Context, viewerID int64) ([]domain.TagCount, error) {
	return s.store.TagCounts(ctx, store.ForUser(viewerID))
}

// TopTags returns the n most used tags visible to the viewer.
func (s *BookmarkService) TopTags(ctx context.Context, viewerID int64, n int) ([]domain.TagCount, error) {
	return s.store.TopTags(ctx, store.ForUser(viewerID), n)
}

// PopularForTag ranks a tag's URLs by how many distinct users saved them.
func (s *BookmarkService) PopularForTag(ctx context.Context, viewerID int64, tag string, n int) ([]domain.PopularBookmark, error) {
	if tag == "" {
		return nil, domainerrors.Validation("tag is required")
	}
	return s.store.PopularBookmarksForTag(ctx, store.ForUser(viewerID), tag, n)
}
