// Package main provides a tool to bootstrap a Linkloft instance.
//
// Registration is invite-only, so a fresh database has no way to accept its
// first user. This generates invite codes, and can optionally create a user
// directly.
//
// Usage:
//
//	DATA_DIR=~/Linkloft go run ./cmd/seed
//	DATA_DIR=~/Linkloft go run ./cmd/seed --invites 5
//	DATA_DIR=~/Linkloft go run ./cmd/seed --username admin --email admin@example.com --password secret-password
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/linkloftapp/linkloft-server/internal/auth"
	"github.com/linkloftapp/linkloft-server/internal/domain"
	"github.com/linkloftapp/linkloft-server/internal/service"
	"github.com/linkloftapp/linkloft-server/internal/store/sqlite"
)

var (
	invites  = flag.Int("invites", 1, "Number of invite codes to generate")
	username = flag.String("username", "", "Create a user with this username (requires --email and --password)")
	email    = flag.String("email", "", "Email for the created user")
	password = flag.String("password", "", "Password for the created user")
)

func main() {
	flag.Parse()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = os.ExpandEnv("$HOME/Linkloft")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "linkloft.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *username != "" {
		createUser(ctx, s)
	}

	inviteService := service.NewInviteService(s, logger)
	for range *invites {
		inv, err := inviteService.Generate(ctx)
		if err != nil {
			log.Fatalf("Failed to generate invite code: %v", err)
		}
		fmt.Printf("Invite code: %s\n", inv.Code)
	}
}

// createUser creates an account directly, bypassing the invite flow.
func createUser(ctx context.Context, s *sqlite.Store) {
	if *email == "" || *password == "" {
		log.Fatal("--username requires --email and --password")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.User{
		Username:     *username,
		Email:        *email,
		PasswordHash: hash,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
}
