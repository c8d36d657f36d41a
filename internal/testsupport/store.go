package testsupport

import (
	"testing"

	"cuekit/internal/config"
	"cuekit/internal/trackstore"
)

// MustOpenStore opens the track store configured by cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *trackstore.Store {
	t.Helper()

	store, err := trackstore.Open(cfg.TrackStorePath())
	if err != nil {
		t.Fatalf("open track store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
