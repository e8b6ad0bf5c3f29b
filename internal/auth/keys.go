// Package auth provides password hashing and access token handling.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrGenerateKey loads or generates the PASETO v4 symmetric key for access
// tokens. The key is stored in <dataDir>/auth.key as a hex-encoded string.
// If the file doesn't exist, a new key is generated and saved.
// Returns the key as a hex string ready for NewTokenService.
func LoadOrGenerateKey(dataDir string) (string, error) {
	keyPath := filepath.Join(dataDir, "auth.key")

	if keyBytes, err := os.ReadFile(keyPath); err == nil {
		keyHex := strings.TrimSpace(string(keyBytes))

		if len(keyHex) != keyHexSize {
			return "", fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyHexSize, len(keyHex))
		}
		if _, err := hex.DecodeString(keyHex); err != nil {
			return "", fmt.Errorf("invalid auth key format: not valid hex: %w", err)
		}

		return keyHex, nil
	}

	key := make([]byte, keyBytesSize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate auth key: %w", err)
	}
	keyHex := hex.EncodeToString(key)

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(keyHex), 0o600); err != nil {
		return "", fmt.Errorf("save auth key: %w", err)
	}

	return keyHex, nil
}
