// Package session persists the logged-in user id between invocations. The
// session is a small JSON file; absence of the file (or an empty user id)
// means an anonymous session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"zovida/internal/logging"
)

type sessionData struct {
	UserID string `json:"user_id"`
}

// Store provides thread-safe access to the persisted session.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
	data   sessionData
}

// NewStore creates a session store backed by the given file path. An existing
// session file is loaded eagerly; load failures leave the session anonymous.
func NewStore(path string, logger *slog.Logger) *Store {
	logger = logging.NewComponentLogger(logger, "session")
	s := &Store{path: path, logger: logger}
	if path == "" {
		return s
	}
	if err := s.load(); err != nil {
		logger.Warn("failed to load session",
			logging.String(logging.FieldEventType, "session_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "session will start anonymous"))
	}
	return s
}

// UserID returns the logged-in user id and whether a session exists.
func (s *Store) UserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := strings.TrimSpace(s.data.UserID)
	return id, id != ""
}

// SetUserID records a logged-in user id and persists the session.
func (s *Store) SetUserID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("user id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.UserID = id
	return s.save()
}

// Clear removes the persisted session, returning to anonymous.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = sessionData{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}
	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode session file: %w", err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
