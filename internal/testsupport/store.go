package testsupport

import (
	"testing"

	"fulfill/internal/config"
	"fulfill/internal/queue"
)

// MustOpenStore opens the order journal for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
