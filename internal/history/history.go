// Package history is the local scan-history cache. It keeps the most recent
// analysis results on disk so past scans stay available offline; older
// entries are pruned once the cache exceeds its cap.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"zovida/internal/logging"
	"zovida/internal/medsafety"
)

// Cap is the maximum number of cached results. Saving beyond the cap evicts
// the oldest entries.
const Cap = 20

// ErrNotFound is returned when a result id is not in the cache.
var ErrNotFound = errors.New("history entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS scan_history (
    id TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,
    payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scan_history_created_at ON scan_history(created_at DESC);
`

// Store persists analysis results in the shared local database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore prepares the history table on the shared database handle.
func NewStore(db *sql.DB, logger *slog.Logger) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{
		db:     db,
		logger: logging.NewComponentLogger(logger, "history"),
	}, nil
}

// Save caches a result, replacing any entry with the same id, and prunes the
// cache back to its cap.
func (s *Store) Save(result medsafety.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin history save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO scan_history (id, created_at, payload) VALUES (?, ?, ?)`,
		result.ID, result.Timestamp.UTC().Unix(), string(payload),
	); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM scan_history WHERE id NOT IN (
            SELECT id FROM scan_history ORDER BY created_at DESC, id DESC LIMIT ?
        )`, Cap,
	); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history save: %w", err)
	}

	s.logger.Debug("cached analysis result",
		logging.String(logging.FieldEventType, "history_saved"),
		logging.String("result_id", result.ID))
	return nil
}

// List returns all cached results, newest first.
func (s *Store) List() ([]medsafety.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT payload FROM scan_history ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var results []medsafety.AnalysisResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		var result medsafety.AnalysisResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			s.logger.Warn("skipping undecodable history entry",
				logging.String(logging.FieldEventType, "history_decode_failed"),
				logging.Error(err))
			continue
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Get returns one cached result by id.
func (s *Store) Get(id string) (medsafety.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.db.QueryRow(`SELECT payload FROM scan_history WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return medsafety.AnalysisResult{}, ErrNotFound
	}
	if err != nil {
		return medsafety.AnalysisResult{}, fmt.Errorf("query history entry: %w", err)
	}
	var result medsafety.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return medsafety.AnalysisResult{}, fmt.Errorf("decode history entry: %w", err)
	}
	return result, nil
}

// Clear drops all cached results.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM scan_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
