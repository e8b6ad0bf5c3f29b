package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkloftapp/linkloft-server/internal/auth"
	"github.com/linkloftapp/linkloft-server/internal/service"
	"github.com/linkloftapp/linkloft-server/internal/store/sqlite"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a fully wired server over a temporary database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute)
	require.NoError(t, err)

	services := &Services{
		Auth:      service.NewAuthService(st, tokens, logger),
		Bookmarks: service.NewBookmarkService(st, logger),
		Invites:   service.NewInviteService(st, logger),
	}

	srv := NewServer(st, services, logger)

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.api),
	}
}

// createTestUser registers a user through the real invite flow and returns
// the access token and user id.
func (ts *testServer) createTestUser(t *testing.T, username string) (token string, userID int64) {
	t.Helper()

	inv, err := ts.services.Invites.Generate(context.Background())
	require.NoError(t, err)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username":    username,
		"email":       username + "@example.com",
		"password":    "a sufficiently long password",
		"invite_code": inv.Code,
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	return body.AccessToken, body.User.ID
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Components["database"].Status)
}
