package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	"github.com/linkloftapp/linkloft-server/internal/service"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

func (s *Server) registerBookmarkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns one page of the shared bookmark stream visible to the viewer. Anonymous viewers see public bookmarks only.",
		Tags:        []string{"Bookmarks"},
	}, s.handleListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/mine",
		Summary:     "List own bookmarks",
		Description: "Returns one page of the authenticated user's bookmarks, all visibilities included",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/search",
		Summary:     "Search bookmarks",
		Description: "Full-text search over title, description, and tags, in relevance order",
		Tags:        []string{"Bookmarks"},
	}, s.handleSearchBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookmark",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Get bookmark",
		Description: "Returns a bookmark by ID if the viewer may see it",
		Tags:        []string{"Bookmarks"},
	}, s.handleGetBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks",
		Summary:     "Create bookmark",
		Description: "Saves a new bookmark for the authenticated user",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookmark",
		Method:      http.MethodPut,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Update bookmark",
		Description: "Rewrites a bookmark the authenticated user owns",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBookmark",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookmarks/{id}",
		Summary:     "Delete bookmark",
		Description: "Deletes a bookmark the authenticated user owns",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUserBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/bookmarks",
		Summary:     "List a user's bookmarks",
		Description: "Returns one page of a user's bookmarks as visible to the viewer",
		Tags:        []string{"Bookmarks"},
	}, s.handleListUserBookmarks)
}

// === DTOs ===

// BookmarkResponse contains bookmark data in API responses.
type BookmarkResponse struct {
	ID          int64     `json:"id" doc:"Bookmark ID"`
	UserID      int64     `json:"user_id" doc:"Owner user ID"`
	Username    string    `json:"username,omitempty" doc:"Owner username"`
	URL         string    `json:"url" doc:"Bookmarked URL"`
	Title       string    `json:"title" doc:"Bookmark title"`
	Description string    `json:"description,omitempty" doc:"Free-form description"`
	Tags        string    `json:"tags,omitempty" doc:"Whitespace-separated tags"`
	Visibility  string    `json:"visibility" doc:"Visibility: public, authenticated, or private"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// BookmarkOutput wraps a single bookmark response for Huma.
type BookmarkOutput struct {
	Body BookmarkResponse
}

// BookmarkPageResponse contains one page of bookmarks plus continuation state.
type BookmarkPageResponse struct {
	Bookmarks  []BookmarkResponse `json:"bookmarks" doc:"Page of bookmarks"`
	NextCursor string             `json:"next_cursor,omitempty" doc:"Opaque cursor for the next page"`
	HasMore    bool               `json:"has_more" doc:"Whether more pages exist"`
}

// BookmarkPageOutput wraps a bookmark page for Huma.
type BookmarkPageOutput struct {
	Body BookmarkPageResponse
}

// ListBookmarksInput contains parameters for listing the shared stream.
type ListBookmarksInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Page size, clamped to [1, 100]"`
	Cursor        string `query:"cursor" doc:"Opaque continuation cursor"`
	Tag           string `query:"tag" doc:"Restrict to bookmarks carrying this tag"`
}

// GetBookmarkInput contains parameters for fetching a single bookmark.
type GetBookmarkInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Bookmark ID"`
}

// CreateBookmarkRequest is the request body for creating a bookmark.
type CreateBookmarkRequest struct {
	URL         string `json:"url" validate:"required,url,max=2048" doc:"URL to bookmark"`
	Title       string `json:"title" validate:"required,max=500" doc:"Bookmark title"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000" doc:"Free-form description"`
	Tags        string `json:"tags,omitempty" validate:"omitempty,max=500" doc:"Whitespace-separated tags"`
	Visibility  string `json:"visibility,omitempty" doc:"Visibility: public, authenticated, or private. Unknown values fall back to public"`
}

// CreateBookmarkInput wraps the create bookmark request for Huma.
type CreateBookmarkInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookmarkRequest
}

// UpdateBookmarkInput wraps the update bookmark request for Huma.
type UpdateBookmarkInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Bookmark ID"`
	Body          CreateBookmarkRequest
}

// DeleteBookmarkInput contains parameters for deleting a bookmark.
type DeleteBookmarkInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Bookmark ID"`
}

// SearchBookmarksInput contains full-text search parameters.
type SearchBookmarksInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Free-text query"`
}

// SearchBookmarksResponse contains ranked search results.
type SearchBookmarksResponse struct {
	Bookmarks []BookmarkResponse `json:"bookmarks" doc:"Matches in relevance order"`
}

// SearchBookmarksOutput wraps the search response for Huma.
type SearchBookmarksOutput struct {
	Body SearchBookmarksResponse
}

// ListUserBookmarksInput contains parameters for a profile listing.
type ListUserBookmarksInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Profile owner's username"`
	Limit         int    `query:"limit" doc:"Page size, clamped to [1, 100]"`
	Cursor        string `query:"cursor" doc:"Opaque continuation cursor"`
	Tag           string `query:"tag" doc:"Restrict to bookmarks carrying this tag"`
}

func toBookmarkResponse(b *domain.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		Username:    b.Username,
		URL:         b.URL,
		Title:       b.Title,
		Description: b.Description,
		Tags:        b.Tags,
		Visibility:  string(b.Visibility),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookmarkPage(page store.PaginatedResult[*domain.Bookmark]) BookmarkPageResponse {
	items := make([]BookmarkResponse, len(page.Items))
	for i, b := range page.Items {
		items[i] = toBookmarkResponse(b)
	}
	return BookmarkPageResponse{
		Bookmarks:  items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
}

// === Handlers ===

func (s *Server) handleListBookmarks(ctx context.Context, input *ListBookmarksInput) (*BookmarkPageOutput, error) {
	viewerID, err := s.identifyRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Bookmarks.Feed(ctx, viewerID, input.Tag, parsePagination(input.Limit, input.Cursor))
	if err != nil {
		return nil, err
	}

	return &BookmarkPageOutput{Body: toBookmarkPage(page)}, nil
}

func (s *Server) handleListMyBookmarks(ctx context.Context, input *ListBookmarksInput) (*BookmarkPageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Bookmarks.Mine(ctx, userID, input.Tag, parsePagination(input.Limit, input.Cursor))
	if err != nil {
		return nil, err
	}

	return &BookmarkPageOutput{Body: toBookmarkPage(page)}, nil
}

func (s *Server) handleGetBookmark(ctx context.Context, input *GetBookmarkInput) (*BookmarkOutput, error) {
	viewerID, err := s.identifyRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Bookmarks.Get(ctx, input.ID, viewerID)
	if err != nil {
		return nil, err
	}

	return &BookmarkOutput{Body: toBookmarkResponse(b)}, nil
}

func (s *Server) handleCreateBookmark(ctx context.Context, input *CreateBookmarkInput) (*BookmarkOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Bookmarks.Create(ctx, userID, service.CreateBookmarkRequest{
		URL:         input.Body.URL,
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Tags:        input.Body.Tags,
		Visibility:  input.Body.Visibility,
	})
	if err != nil {
		return nil, err
	}

	return &BookmarkOutput{Body: toBookmarkResponse(b)}, nil
}

func (s *Server) handleUpdateBookmark(ctx context.Context, input *UpdateBookmarkInput) (*BookmarkOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	b, err := s.services.Bookmarks.Update(ctx, userID, input.ID, service.UpdateBookmarkRequest{
		URL:         input.Body.URL,
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Tags:        input.Body.Tags,
		Visibility:  input.Body.Visibility,
	})
	if err != nil {
		return nil, err
	}

	return &BookmarkOutput{Body: toBookmarkResponse(b)}, nil
}

func (s *Server) handleDeleteBookmark(ctx context.Context, input *DeleteBookmarkInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Bookmarks.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Bookmark deleted"}}, nil
}

func (s *Server) handleSearchBookmarks(ctx context.Context, input *SearchBookmarksInput) (*SearchBookmarksOutput, error) {
	viewerID, err := s.identifyRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	results, err := s.services.Bookmarks.Search(ctx, viewerID, input.Query)
	if err != nil {
		return nil, err
	}

	resp := make([]BookmarkResponse, len(results))
	for i, b := range results {
		resp[i] = toBookmarkResponse(b)
	}

	return &SearchBookmarksOutput{Body: SearchBookmarksResponse{Bookmarks: resp}}, nil
}

func (s *Server) handleListUserBookmarks(ctx context.Context, input *ListUserBookmarksInput) (*BookmarkPageOutput, error) {
	viewerID, err := s.identifyRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Bookmarks.Profile(ctx, input.Username, viewerID, input.Tag, parsePagination(input.Limit, input.Cursor))
	if err != nil {
		return nil, err
	}

	return &BookmarkPageOutput{Body: toBookmarkPage(page)}, nil
}
