package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	domainerrors "github.com/linkloftapp/linkloft-server/internal/errors"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

const (
	// inviteCodeAlphabet avoids ambiguous characters for codes shared by hand.
	inviteCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	inviteCodeLength   = 12
)

// InviteService manages invite code generation and inspection.
type InviteService struct {
	store  store.Store
	logger *slog.Logger
}

// NewInviteService creates a new invite service.
func NewInviteService(store store.Store, logger *slog.Logger) *InviteService {
	return &InviteService{
		store:  store,
		logger: logger,
	}
}

// InviteStatus describes an invite code for admin listings.
type InviteStatus struct {
	Code      string `json:"code"`
	Used      bool   `json:"used"`
	CreatedAt string `json:"created_at"`
}

// Generate creates a new single-use invite code.
func (s *InviteService) Generate(ctx context.Context) (*domain.InviteCode, error) {
	code, err := gonanoid.Generate(inviteCodeAlphabet, inviteCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate invite code: %w", err)
	}

	inv := &domain.InviteCode{Code: code}
	if err := s.store.CreateInvite(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Vanishingly unlikely with this alphabet and length.
			return nil, domainerrors.Conflict("invite code collision, please try again")
		}
		return nil, fmt.Errorf("create invite: %w", err)
	}

	s.logger.Info("invite code created", "invite_id", inv.ID)

	return inv, nil
}

// Check reports whether a code exists and is still claimable.
func (s *InviteService) Check(ctx context.Context, code string) (*domain.InviteCode, error) {
	inv, err := s.store.GetInviteByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("invite code not found")
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

// List returns all invite codes, newest first.
func (s *InviteService) List(ctx context.Context) ([]*domain.InviteCode, error) {
	invites, err := s.store.ListInvites(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	return invites, nil
}
