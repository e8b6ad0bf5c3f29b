package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkloftapp/linkloft-server/internal/auth"
	"github.com/linkloftapp/linkloft-server/internal/store"
	"github.com/linkloftapp/linkloft-server/internal/store/sqlite"
)

// testEnv bundles the services under test with their shared store.
type testEnv struct {
	store     store.Store
	auth      *AuthService
	bookmarks *BookmarkService
	invites   *InviteService
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute)
	require.NoError(t, err)

	return &testEnv{
		store:     s,
		auth:      NewAuthService(s, tokens, logger),
		bookmarks: NewBookmarkService(s, logger),
		invites:   NewInviteService(s, logger),
	}
}

// registerUser creates an invite and registers a user through the real flow.
func registerUser(t *testing.T, env *testEnv, username string) *AuthResponse {
	t.Helper()
	ctx := context.Background()

	inv, err := env.invites.Generate(ctx)
	require.NoError(t, err)

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "a sufficiently long password",
		InviteCode: inv.Code,
	})
	require.NoError(t, err)
	return resp
}
