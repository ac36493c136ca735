package testutil

import (
	"path/filepath"
	"testing"

	"github.com/chedoparti/clubsched/internal/configstore"
)

// NewTestStore creates a temporary SQLite-backed configuration store with
// migrations applied.
func NewTestStore(t *testing.T) *configstore.SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.db")
	store, err := configstore.NewSQLite(path)
	if err != nil {
		t.Fatalf("create test store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
