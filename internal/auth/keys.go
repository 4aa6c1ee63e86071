// Package auth hashes passwords and issues the PASETO access tokens that
// identify callers.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the PASETO v4 symmetric key size.
	KeySize    = 32
	keyHexSize = KeySize * 2
	keyFile    = "auth.key"
	keyInfo    = "diary-server access token key"
)

// ResolveKey turns the configured secret into a 32 byte key:
//   - empty: LoadOrGenerateKey(dataDir)
//   - 64 hex characters: decoded as is
//   - anything else: stretched with HKDF-SHA256, so a legacy JWT_SECRET
//     passphrase keeps working as a stable key
func ResolveKey(secret, dataDir string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return LoadOrGenerateKey(dataDir)
	}
	if len(secret) == keyHexSize {
		if key, err := hex.DecodeString(secret); err == nil {
			return key, nil
		}
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive auth key: %w", err)
	}
	return key, nil
}

// LoadOrGenerateKey reads dataDir/auth.key (hex) or creates it with a fresh
// random key and 0600 permissions.
func LoadOrGenerateKey(dataDir string) ([]byte, error) {
	path := filepath.Join(dataDir, keyFile)

	raw, err := os.ReadFile(path) //#nosec G304 -- path is built from the configured data dir
	if err == nil {
		keyHex := strings.TrimSpace(string(raw))
		if len(keyHex) != keyHexSize {
			return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyHexSize, len(keyHex))
		}
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid auth key format: %w", err)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save auth key: %w", err)
	}
	return key, nil
}
