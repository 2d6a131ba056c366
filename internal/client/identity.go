package client

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// IdentityStore persists the local participant id between runs. It is the
// process-wide identity state: read exactly once at controller startup and
// written exactly once, when a user is created.
type IdentityStore struct {
	path string
}

// NewIdentityStore returns a store backed by the file at path.
func NewIdentityStore(path string) *IdentityStore {
	return &IdentityStore{path: path}
}

// Load reads the persisted id. An absent file yields ("", nil).
func (s *IdentityStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Save writes the id, replacing any previous value. Parent directories are
// created as needed.
func (s *IdentityStore) Save(id string) error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, []byte(id+"\n"), 0o600)
}
