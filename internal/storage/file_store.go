// Package storage persists the client's credential and identity between
// runs as a small JSON key-value file under the user's home directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/taskbuddy/taskbuddy-go/internal/core/ports"
)

const (
	storeDir  = ".taskbuddy"
	storeFile = "credentials.json"
)

// FileStore implements ports.CredentialStore on top of a single JSON file.
// Values are read back from disk on every Get so that the session service
// and the HTTP transport always observe the same state.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ ports.CredentialStore = (*FileStore)(nil)

// NewFileStore creates the backing directory (0700) if needed. dir
// overrides the default ~/.taskbuddy location; pass "" for the default.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: resolve home directory: %w", err)
		}
		dir = filepath.Join(home, storeDir)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}
	return &FileStore{path: filepath.Join(dir, storeFile)}, nil
}

// Get returns the value stored under key, or "" when the key or the whole
// file is absent. Read errors are treated as absence: a client that cannot
// read its credential is simply signed out.
func (s *FileStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()[key]
}

// Set writes key=value, preserving all other keys.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv := s.load()
	kv[key] = value
	return s.save(kv)
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv := s.load()
	if _, ok := kv[key]; !ok {
		return nil
	}
	delete(kv, key)
	return s.save(kv)
}

// ClearAuth removes the token and the identity in one write so the two
// can never go out of step.
func (s *FileStore) ClearAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv := s.load()
	delete(kv, ports.KeyToken)
	delete(kv, ports.KeyIdentity)
	return s.save(kv)
}

func (s *FileStore) load() map[string]string {
	kv := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return kv
	}
	if err := json.Unmarshal(data, &kv); err != nil {
		return make(map[string]string)
	}
	return kv
}

func (s *FileStore) save(kv map[string]string) error {
	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("storage: write %s: %w", s.path, err)
	}
	return nil
}
