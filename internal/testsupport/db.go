package testsupport

import (
	"database/sql"
	"testing"

	"zovida/internal/config"
	"zovida/internal/localdb"
)

// MustOpenDB opens the test config's local database and closes it when the
// test finishes.
func MustOpenDB(t testing.TB, cfg *config.Config) *sql.DB {
	t.Helper()

	db, err := localdb.Open(cfg)
	if err != nil {
		t.Fatalf("open local database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close local database: %v", err)
		}
	})
	return db
}
