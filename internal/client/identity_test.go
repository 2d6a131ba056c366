package client

import (
	"path/filepath"
	"testing"
)

func TestIdentityStore_AbsentFile(t *testing.T) {
	s := NewIdentityStore(filepath.Join(t.TempDir(), "identity"))

	id, err := s.Load()
	if err != nil {
		t.Fatalf("Load on absent file: %v", err)
	}
	if id != "" {
		t.Fatalf("id = %q, want empty", id)
	}
}

func TestIdentityStore_RoundTrip(t *testing.T) {
	s := NewIdentityStore(filepath.Join(t.TempDir(), "identity"))

	if err := s.Save("u-123"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	id, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if id != "u-123" {
		t.Fatalf("id = %q, want u-123", id)
	}
}
