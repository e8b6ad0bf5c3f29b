package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/linkloftapp/linkloft-server/internal/errors"
)

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)

	token, userID := ts.createTestUser(t, "alice")
	assert.NotEmpty(t, token)
	assert.NotZero(t, userID)
}

func TestRegister_UnknownInviteCode(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username":    "alice",
		"email":       "alice@example.com",
		"password":    "a sufficiently long password",
		"invite_code": "NO-SUCH-CODE",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, string(domainerrors.CodeNotFound), apiErr.Code)
}

func TestRegister_SpentInviteCode(t *testing.T) {
	ts := setupTestServer(t)

	inv, err := ts.services.Invites.Generate(t.Context())
	require.NoError(t, err)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username":    "alice",
		"email":       "alice@example.com",
		"password":    "a sufficiently long password",
		"invite_code": inv.Code,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/register", map[string]any{
		"username":    "bob",
		"email":       "bob@example.com",
		"password":    "a sufficiently long password",
		"invite_code": inv.Code,
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	ts := setupTestServer(t)

	// Schema-level rejection, before the service is reached.
	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": "alice",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestRegister_ShortUsername(t *testing.T) {
	ts := setupTestServer(t)

	inv, err := ts.services.Invites.Generate(t.Context())
	require.NoError(t, err)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username":    "al",
		"email":       "al@example.com",
		"password":    "a sufficiently long password",
		"invite_code": inv.Code,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, string(domainerrors.CodeValidation), apiErr.Code)
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)

	_, userID := ts.createTestUser(t, "alice")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "a sufficiently long password",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Equal(t, userID, body.User.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := setupTestServer(t)

	ts.createTestUser(t, "alice")

	wrongPass := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "alice",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)

	noUser := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "ghost",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, noUser.Code)
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)

	token, userID := ts.createTestUser(t, "alice")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var body UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	assert.Equal(t, userID, body.ID)
	assert.Equal(t, "alice", body.Username)
	assert.Equal(t, "alice@example.com", body.Email)
}

func TestGetCurrentUser_Unauthorized(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/users/me", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/users/me", "Authorization: garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
