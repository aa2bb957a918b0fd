package testsupport

import (
	"testing"

	"exifdeck/internal/config"
	"exifdeck/internal/jobstore"
)

// MustOpenJobStore opens the job history database for tests and registers
// cleanup.
func MustOpenJobStore(t testing.TB, cfg *config.Config) *jobstore.Store {
	t.Helper()

	store, err := jobstore.Open(cfg.JobsDBPath())
	if err != nil {
		t.Fatalf("jobstore.Open failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
