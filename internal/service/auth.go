package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkloftapp/linkloft-server/internal/auth"
	"github.com/linkloftapp/linkloft-server/internal/domain"
	domainerrors "github.com/linkloftapp/linkloft-server/internal/errors"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

// AuthService handles registration, login, and token verification.
type AuthService struct {
	store  store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterRequest contains the data needed to create an account.
// Registration is invite-only.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=1024"`
	InviteCode string `json:"invite_code" validate:"required"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after a successful registration or login.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Register creates a new account, consuming the invite code atomically with
// the user row.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := s.store.CreateUserWithInvite(ctx, user, req.InviteCode); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("invite code not found")
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			var storeErr *store.Error
			if errors.As(err, &storeErr) && storeErr.Message != store.ErrAlreadyExists.Message {
				return nil, domainerrors.Conflict(storeErr.Message)
			}
			return nil, domainerrors.Conflict("username or email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	return s.issueToken(user)
}

// Login verifies credentials and issues an access token. All credential
// failures look identical to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials()
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)

	return s.issueToken(user)
}

// VerifyAccessToken validates a token and returns its claims.
func (s *AuthService) VerifyAccessToken(token string) (*auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}
	return claims, nil
}

// GetUser fetches a user by id.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokens.AccessTokenDuration()),
	}, nil
}
