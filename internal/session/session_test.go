package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"zovida/internal/logging"
	"zovida/internal/session"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewStore(path, logging.NewNop())

	if _, ok := store.UserID(); ok {
		t.Fatal("expected anonymous session initially")
	}

	if err := store.SetUserID("42"); err != nil {
		t.Fatalf("SetUserID: %v", err)
	}

	reloaded := session.NewStore(path, logging.NewNop())
	id, ok := reloaded.UserID()
	if !ok || id != "42" {
		t.Fatalf("expected persisted user id 42, got %q ok=%v", id, ok)
	}
}

func TestSessionClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewStore(path, logging.NewNop())
	if err := store.SetUserID("7"); err != nil {
		t.Fatalf("SetUserID: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := store.UserID(); ok {
		t.Fatal("expected anonymous session after clear")
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestSetUserIDRejectsEmpty(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), logging.NewNop())
	if err := store.SetUserID("  "); err == nil {
		t.Fatal("expected empty user id to be rejected")
	}
}

func TestCorruptSessionStartsAnonymous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	store := session.NewStore(path, logging.NewNop())
	if _, ok := store.UserID(); ok {
		t.Fatal("expected anonymous session for corrupt file")
	}
}
