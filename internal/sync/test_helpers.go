// ABOUTME: Shared test helpers for sync package tests.
// ABOUTME: Provides a scriptable fake remote and syncer setup over SQLite.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	gosync "sync"
	"testing"
	"time"

	"github.com/harperreed/repquest/internal/remote"
	"github.com/harperreed/repquest/internal/storage"
	"github.com/stretchr/testify/require"
)

// fakeRemote records writes and fails while offline or for scripted payloads.
type fakeRemote struct {
	mu      gosync.Mutex
	offline bool
	failOn  map[string]bool
	saved   []json.RawMessage
	stored  json.RawMessage
	pings   int
}

func (f *fakeRemote) SaveWorkoutData(_ context.Context, _ int, data json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return fmt.Errorf("%w: connection refused", remote.ErrOffline)
	}
	if f.failOn[string(data)] {
		return &remote.StatusError{Code: 500, Body: "boom"}
	}
	f.saved = append(f.saved, data)
	f.stored = data
	return nil
}

func (f *fakeRemote) GetWorkoutData(context.Context, int) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return nil, fmt.Errorf("%w: connection refused", remote.ErrOffline)
	}
	return f.stored, nil
}

func (f *fakeRemote) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	if f.offline {
		return fmt.Errorf("%w: connection refused", remote.ErrOffline)
	}
	return nil
}

func (f *fakeRemote) setOffline(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = v
}

func (f *fakeRemote) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

// testClock is a settable clock.
type testClock struct {
	mu gosync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// setupTestSyncer creates a linked syncer over a fresh SQLite repository.
func setupTestSyncer(t *testing.T) (*Syncer, *fakeRemote, storage.Repository, *testClock) {
	t.Helper()

	repo := setupTestDB(t)
	rem := &fakeRemote{failOn: make(map[string]bool)}
	clock := &testClock{t: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)}

	cfg := &Config{
		Server:   "https://test.example.com",
		UserID:   1,
		DeviceID: "test-device",
	}
	syncer, err := NewSyncer(cfg, repo, rem, Options{MaxAttempts: 3, Now: clock.Now})
	require.NoError(t, err)
	return syncer, rem, repo, clock
}

// setupTestDB creates a SQLite repository in a temp dir.
func setupTestDB(t *testing.T) storage.Repository {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
