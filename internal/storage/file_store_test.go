package storage

import (
	"testing"

	"github.com/taskbuddy/taskbuddy-go/internal/core/ports"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestFileStore_SetGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if got := s.Get(ports.KeyToken); got != "" {
		t.Fatalf("expected empty value for fresh store, got %q", got)
	}
	if err := s.Set(ports.KeyToken, "tok-123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Get(ports.KeyToken); got != "tok-123" {
		t.Fatalf("expected tok-123, got %q", got)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s1.Set(ports.KeyIdentity, `{"id":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s2, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if got := s2.Get(ports.KeyIdentity); got != `{"id":1}` {
		t.Fatalf("expected persisted identity, got %q", got)
	}
}

func TestFileStore_ClearAuthRemovesBothKeys(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set(ports.KeyToken, "tok"); err != nil {
		t.Fatalf("Set token: %v", err)
	}
	if err := s.Set(ports.KeyIdentity, "{}"); err != nil {
		t.Fatalf("Set identity: %v", err)
	}
	if err := s.Set("unrelated", "keep"); err != nil {
		t.Fatalf("Set unrelated: %v", err)
	}

	if err := s.ClearAuth(); err != nil {
		t.Fatalf("ClearAuth: %v", err)
	}
	if s.Get(ports.KeyToken) != "" || s.Get(ports.KeyIdentity) != "" {
		t.Fatalf("expected both auth keys cleared")
	}
	if got := s.Get("unrelated"); got != "keep" {
		t.Fatalf("unrelated key lost: %q", got)
	}
}

func TestFileStore_DeleteAbsentKeyIsNoop(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete("missing"); err != nil {
		t.Fatalf("Delete absent key: %v", err)
	}
}
