package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linkloftapp/linkloft-server/internal/domain"
	"github.com/linkloftapp/linkloft-server/internal/store"
)

func TestCreateAndGetInvite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inv := &domain.InviteCode{Code: "ABC123"}
	if err := s.CreateInvite(ctx, inv); err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}
	if inv.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := s.GetInviteByCode(ctx, "ABC123")
	if err != nil {
		t.Fatalf("GetInviteByCode: %v", err)
	}
	if got.Code != "ABC123" {
		t.Errorf("Code: got %q", got.Code)
	}
	if got.IsUsed() {
		t.Error("new invite should be unused")
	}
	if got.UsedAt != nil {
		t.Errorf("UsedAt: expected nil, got %v", got.UsedAt)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestGetInvite_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetInviteByCode(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	if storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected status %d, got %d", store.ErrNotFound.Code, storeErr.Code)
	}
}

func TestCreateInvite_DuplicateCode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateInvite(ctx, &domain.InviteCode{Code: "SAME-CODE"}); err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}

	err := s.CreateInvite(ctx, &domain.InviteCode{Code: "SAME-CODE"})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListInvites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	inv1 := &domain.InviteCode{Code: "LIST-1", CreatedAt: base}
	inv2 := &domain.InviteCode{Code: "LIST-2", CreatedAt: base.Add(time.Second)}
	for _, inv := range []*domain.InviteCode{inv1, inv2} {
		if err := s.CreateInvite(ctx, inv); err != nil {
			t.Fatalf("CreateInvite(%s): %v", inv.Code, err)
		}
	}

	invites, err := s.ListInvites(ctx)
	if err != nil {
		t.Fatalf("ListInvites: %v", err)
	}
	if len(invites) != 2 {
		t.Fatalf("got %d invites, want 2", len(invites))
	}

	// Newest first.
	if invites[0].Code != "LIST-2" {
		t.Errorf("first invite: got %q, want LIST-2", invites[0].Code)
	}
	if invites[1].Code != "LIST-1" {
		t.Errorf("second invite: got %q, want LIST-1", invites[1].Code)
	}
}
