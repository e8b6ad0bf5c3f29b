package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/linkloftapp/linkloft-server/internal/store"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(authHeader string) (int64, error) {
	if authHeader == "" {
		return 0, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.services.Auth.VerifyAccessToken(parts[1])
	if err != nil {
		return 0, huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.UserID, nil
}

// identifyRequest resolves the viewer behind an optional Authorization header.
// A missing header means an anonymous viewer (id 0); a header that is present
// but invalid is rejected rather than silently downgraded to anonymous.
func (s *Server) identifyRequest(authHeader string) (int64, error) {
	if authHeader == "" {
		return 0, nil
	}
	return s.authenticateRequest(authHeader)
}

// parsePagination builds validated pagination parameters from query values.
func parsePagination(limit int, cursor string) store.PaginationParams {
	params := store.PaginationParams{
		Limit:  limit,
		Cursor: cursor,
	}
	params.Validate()
	return params
}
