// Package auth issues and verifies the PASETO tokens that guard the admin API.
package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aidanwoods.dev/go-paseto"
)

const (
	// keyLength is the v4.local symmetric key size.
	keyLength   = 32
	keyFileName = "auth.key"
)

// LoadOrGenerateKey returns the v4.local key kept hex-encoded in
// <dataPath>/auth.key. The first run writes a new random key there with
// owner-only permissions.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	path := filepath.Join(dataPath, keyFileName)

	//#nosec G304 -- path is derived from the configured data directory
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		key, err := paseto.V4SymmetricKeyFromHex(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("auth key %s is corrupt: %w", path, err)
		}
		return key.ExportBytes(), nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := paseto.NewV4SymmetricKey()
	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(key.ExportHex()), 0o600); err != nil {
		return nil, fmt.Errorf("write auth key: %w", err)
	}
	return key.ExportBytes(), nil
}
