// Package testutil provides shared test helpers for setting up stores and providers.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coachtools/tacticalhub/internal/store"
)

// TestStore creates a file-backed store in a temporary directory with a
// deterministic id generator and clock.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	_, s := TestFileStore(t)
	return s
}

// TestFileStore creates a file-backed store and also returns its
// provider, for tests that exercise the persistence path directly.
func TestFileStore(t *testing.T) (*store.FileProvider, *store.Store) {
	t.Helper()
	p, err := store.NewFileProvider(t.TempDir() + "/document.json")
	if err != nil {
		t.Fatal(err)
	}
	s, err := store.New(p,
		store.WithIDGenerator(SequentialIDs()),
		store.WithClock(FixedClock()),
	)
	if err != nil {
		t.Fatal(err)
	}
	return p, s
}

// SequentialIDs returns an id generator producing id-1, id-2, ...
func SequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("id-%d", n.Add(1))
	}
}

// FixedClock returns a clock advancing one second per call, starting
// from a fixed instant so timestamps are stable across runs.
func FixedClock() func() time.Time {
	base := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	var n atomic.Int64
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Second)
	}
}
