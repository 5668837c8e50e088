// Package credstore persists the single bearer token used to authenticate
// against the stockwatch backend. The token survives process restarts until
// it is explicitly cleared; its contents are opaque to this package.
package credstore

import (
	"os"
	"path/filepath"
	"strings"
)

const tokenFile = "token"

// Store is a file-backed credential store holding at most one token.
type Store struct {
	path string
}

// New creates a Store rooted at stateDir. The directory is created lazily on
// the first Set.
func New(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, tokenFile)}
}

// Get returns the stored token, or "" when no token is stored.
func (s *Store) Get() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Set stores the token, replacing any previous one. The file is private to
// the current user.
func (s *Store) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0600)
}

// Clear removes the stored token. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
