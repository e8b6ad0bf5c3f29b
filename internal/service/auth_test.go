package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/linkloftapp/linkloft-server/internal/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	resp := registerUser(t, env, "alice")
	assert.NotZero(t, resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)

	// The issued token carries the user's identity.
	claims, err := env.auth.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	// Login with the same credentials.
	login, err := env.auth.Login(ctx, LoginRequest{
		Username: "alice",
		Password: "a sufficiently long password",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegister_InvalidInviteCode(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "a sufficiently long password",
		InviteCode: "NO-SUCH-CODE",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestRegister_SpentInviteCode(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	inv, err := env.invites.Generate(ctx)
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, RegisterRequest{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "a sufficiently long password",
		InviteCode: inv.Code,
	})
	require.NoError(t, err)

	// Second use of the same code is rejected.
	_, err = env.auth.Register(ctx, RegisterRequest{
		Username:   "bob",
		Email:      "bob@example.com",
		Password:   "a sufficiently long password",
		InviteCode: inv.Code,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	registerUser(t, env, "alice")

	inv, err := env.invites.Generate(ctx)
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, RegisterRequest{
		Username:   "alice",
		Email:      "different@example.com",
		Password:   "a sufficiently long password",
		InviteCode: inv.Code,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))

	// The invite survives the failed registration.
	got, err := env.invites.Check(ctx, inv.Code)
	require.NoError(t, err)
	assert.False(t, got.IsUsed())
}

func TestRegister_Validation(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	cases := []RegisterRequest{
		{Username: "al", Email: "a@example.com", Password: "long enough password", InviteCode: "X"},
		{Username: "alice", Email: "not-an-email", Password: "long enough password", InviteCode: "X"},
		{Username: "alice", Email: "a@example.com", Password: "short", InviteCode: "X"},
		{Username: "alice", Email: "a@example.com", Password: "long enough password"},
	}
	for i, req := range cases {
		_, err := env.auth.Register(ctx, req)
		require.Error(t, err, "case %d", i)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "case %d: %v", i, err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	registerUser(t, env, "alice")

	// Wrong password and unknown user produce the same error.
	_, errWrongPass := env.auth.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	_, errNoUser := env.auth.Login(ctx, LoginRequest{Username: "ghost", Password: "wrong"})

	require.Error(t, errWrongPass)
	require.Error(t, errNoUser)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestVerifyAccessToken_Invalid(t *testing.T) {
	env := setupTest(t)

	_, err := env.auth.VerifyAccessToken("v4.local.garbage")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}
