package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	"github.com/linkloftapp/linkloft-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new user account. Registration is invite-only; the invite code is consumed atomically with account creation.",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns an access token",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's account",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=30,alphanum" doc:"Unique username"`
	Email      string `json:"email" validate:"required,email" doc:"User email address"`
	Password   string `json:"password" validate:"required,min=8,max=1024" doc:"User password"`
	InviteCode string `json:"invite_code" validate:"required" doc:"Single-use invite code"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required" doc:"Username"`
	Password string `json:"password" validate:"required" doc:"User password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// UserResponse contains user information in API responses.
type UserResponse struct {
	ID        int64     `json:"id" doc:"User ID"`
	Username  string    `json:"username" doc:"Username"`
	Email     string    `json:"email" doc:"User email"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// AuthResponse contains the access token and user info.
type AuthResponse struct {
	AccessToken string       `json:"access_token" doc:"PASETO access token"`
	TokenType   string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresAt   time.Time    `json:"expires_at" doc:"Token expiry time"`
	User        UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// GetCurrentUserInput contains parameters for fetching the current user.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   resp.ExpiresAt,
		User:        toUserResponse(resp.User),
	}
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Username:   input.Body.Username,
		Email:      input.Body.Email,
		Password:   input.Body.Password,
		InviteCode: input.Body.InviteCode,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: toAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: toAuthResponse(resp)}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: toUserResponse(user)}, nil
}
