package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/linkloftapp/linkloft-server/internal/domain"
)

// defaultTopTags bounds the top-tags listing when no limit is given.
const defaultTopTags = 10

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns per-tag bookmark counts over the bookmarks visible to the viewer, most used first",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "topTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/top",
		Summary:     "Top tags",
		Description: "Returns the most used tags visible to the viewer",
		Tags:        []string{"Tags"},
	}, s.handleTopTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "popularBookmarksForTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{tag}/popular",
		Summary:     "Popular bookmarks for tag",
		Description: "Ranks a tag's URLs by how many distinct users saved them",
		Tags:        []string{"Tags"},
	}, s.handlePopularBookmarksForTag)
}

// === DTOs ===

// ListTagsInput contains parameters for listing tag counts.
type ListTagsInput struct {
	Authorization string `header:"Authorization"`
}

// TagCountResponse pairs a tag name with its visible bookmark count.
type TagCountResponse struct {
	Name  string `json:"name" doc:"Tag name"`
	Count int    `json:"count" doc:"Number of visible bookmarks carrying the tag"`
}

// ListTagsResponse contains tag counts.
type ListTagsResponse struct {
	Tags []TagCountResponse `json:"tags" doc:"Tag counts, most used first"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// TopTagsInput contains parameters for the top-tags listing.
type TopTagsInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Number of tags to return, defaults to 10"`
}

// PopularBookmarksInput contains parameters for the per-tag popularity ranking.
type PopularBookmarksInput struct {
	Authorization string `header:"Authorization"`
	Tag           string `path:"tag" doc:"Tag name"`
	Limit         int    `query:"limit" doc:"Number of URLs to return, defaults to 10"`
}

// PopularBookmarkResponse is a URL ranked by distinct saving users.
type PopularBookmarkResponse struct {
	Bookmark  BookmarkResponse `json:"bookmark" doc:"Earliest-created bookmark for the URL"`
	SaveCount int              `json:"save_count" doc:"Distinct users who saved the URL"`
}

// PopularBookmarksResponse contains the popularity ranking for a tag.
type PopularBookmarksResponse struct {
	Bookmarks []PopularBookmarkResponse `json:"bookmarks" doc:"Ranking, most saved first"`
}

// PopularBookmarksOutput wraps the popularity response for Huma.
type PopularBookmarksOutput struct {
	Body PopularBookmarksResponse
}

func toTagCounts(counts []domain.TagCount) []TagCountResponse {
	resp := make([]TagCountResponse, len(counts))
	for i, c := range counts {
		resp[i] = TagCountResponse{Name: c.Name, Count: c.Count}
	}
	return resp
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*ListTagsOutput, error) {
	viewerID, err := s.identifyRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	counts, err := s.services.Bookmarks.TagCounts(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: toTagCounts(counts)}}, nil
}

func (s *Server) handleTopTags(ctx context.Context, input *TopTagsInput) (*ListTagsOutput, error) {
	viewerID, err := s.identifyRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultTopTags
	}

	counts, err := s.services.Bookmarks.TopTags(ctx, viewerID, limit)
	if err != nil {
		return nil, err
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: toTagCounts(counts)}}, nil
}

func (s *Server) handlePopularBookmarksForTag(ctx context.Context, input *PopularBookmarksInput) (*PopularBookmarksOutput, error) {
	viewerID, err := s.identifyRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultTopTags
	}

	popular, err := s.services.Bookmarks.PopularForTag(ctx, viewerID, input.Tag, limit)
	if err != nil {
		return nil, err
	}

	resp := make([]PopularBookmarkResponse, len(popular))
	for i, p := range popular {
		resp[i] = PopularBookmarkResponse{
			Bookmark:  toBookmarkResponse(p.Bookmark),
			SaveCount: p.SaveCount,
		}
	}

	return &PopularBookmarksOutput{Body: PopularBookmarksResponse{Bookmarks: resp}}, nil
}
