package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/linkloftapp/linkloft-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}

	// Malformed hashes verify false without erroring.
	ok, err = VerifyPassword("not-a-hash", "anything")
	if err != nil || ok {
		t.Errorf("malformed hash: ok=%v err=%v", ok, err)
	}
}

func TestHashPassword_Limits(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password should error")
	}
	if _, err := HashPassword(strings.Repeat("x", maxPasswordLength+1)); err == nil {
		t.Error("oversized password should error")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	key := strings.Repeat("ab", 32)
	svc, err := NewTokenService(key, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	user := &domain.User{ID: 42, Username: "alice"}
	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID: got %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username: got %q, want alice", claims.Username)
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	key := strings.Repeat("cd", 32)
	svc, err := NewTokenService(key, -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := svc.GenerateAccessToken(&domain.User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("expired token should not verify")
	}
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc1, err := NewTokenService(strings.Repeat("aa", 32), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	svc2, err := NewTokenService(strings.Repeat("bb", 32), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := svc1.GenerateAccessToken(&domain.User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc2.VerifyAccessToken(token); err == nil {
		t.Error("token from another key should not verify")
	}
}

func TestNewTokenService_BadKey(t *testing.T) {
	if _, err := NewTokenService("short", time.Hour); err == nil {
		t.Error("short key should error")
	}
	if _, err := NewTokenService(strings.Repeat("zz", 32), time.Hour); err == nil {
		t.Error("non-hex key should error")
	}
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}
	if len(key1) != keyHexSize {
		t.Fatalf("key length: got %d, want %d", len(key1), keyHexSize)
	}

	// Second call loads the same key.
	key2, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey (reload): %v", err)
	}
	if key1 != key2 {
		t.Error("reload should return the persisted key")
	}
}
