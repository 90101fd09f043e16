package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the session token between runs
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// TokenFile stores the token in a single file readable only by the owner
type TokenFile struct {
	path string
}

// NewTokenFile returns a store backed by path
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// DefaultTokenPath is the token location under the user config directory
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir() // No home directory
	}
	return filepath.Join(dir, "employee-console", "token")
}

// Load returns the stored token, or "" when none was saved
func (f *TokenFile) Load() (string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (f *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token), 0o600) // Owner read/write only
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (f *TokenFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
