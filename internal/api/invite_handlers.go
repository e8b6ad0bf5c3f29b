package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/linkloftapp/linkloft-server/internal/domain"
)

func (s *Server) registerInviteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createInvite",
		Method:      http.MethodPost,
		Path:        "/api/v1/invites",
		Summary:     "Create invite code",
		Description: "Generates a new single-use invite code",
		Tags:        []string{"Invites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateInvite)

	huma.Register(s.api, huma.Operation{
		OperationID: "listInvites",
		Method:      http.MethodGet,
		Path:        "/api/v1/invites",
		Summary:     "List invite codes",
		Description: "Returns all invite codes, newest first",
		Tags:        []string{"Invites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListInvites)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkInvite",
		Method:      http.MethodGet,
		Path:        "/api/v1/invites/{code}",
		Summary:     "Check invite code",
		Description: "Reports whether an invite code exists and is still claimable",
		Tags:        []string{"Invites"},
	}, s.handleCheckInvite)
}

// === DTOs ===

// CreateInviteInput contains parameters for creating an invite code.
type CreateInviteInput struct {
	Authorization string `header:"Authorization"`
}

// ListInvitesInput contains parameters for listing invite codes.
type ListInvitesInput struct {
	Authorization string `header:"Authorization"`
}

// CheckInviteInput contains parameters for checking an invite code.
type CheckInviteInput struct {
	Code string `path:"code" doc:"Invite code"`
}

// InviteResponse contains invite code data in API responses.
type InviteResponse struct {
	Code      string    `json:"code" doc:"Invite code"`
	Used      bool      `json:"used" doc:"Whether the code has been claimed"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// InviteOutput wraps a single invite response for Huma.
type InviteOutput struct {
	Body InviteResponse
}

// ListInvitesResponse contains a list of invite codes.
type ListInvitesResponse struct {
	Invites []InviteResponse `json:"invites" doc:"Invite codes, newest first"`
}

// ListInvitesOutput wraps the list invites response for Huma.
type ListInvitesOutput struct {
	Body ListInvitesResponse
}

func toInviteResponse(inv *domain.InviteCode) InviteResponse {
	return InviteResponse{
		Code:      inv.Code,
		Used:      inv.IsUsed(),
		CreatedAt: inv.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleCreateInvite(ctx context.Context, input *CreateInviteInput) (*InviteOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	inv, err := s.services.Invites.Generate(ctx)
	if err != nil {
		return nil, err
	}

	return &InviteOutput{Body: toInviteResponse(inv)}, nil
}

func (s *Server) handleListInvites(ctx context.Context, input *ListInvitesInput) (*ListInvitesOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	invites, err := s.services.Invites.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]InviteResponse, len(invites))
	for i, inv := range invites {
		resp[i] = toInviteResponse(inv)
	}

	return &ListInvitesOutput{Body: ListInvitesResponse{Invites: resp}}, nil
}

func (s *Server) handleCheckInvite(ctx context.Context, input *CheckInviteInput) (*InviteOutput, error) {
	inv, err := s.services.Invites.Check(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	return &InviteOutput{Body: toInviteResponse(inv)}, nil
}
