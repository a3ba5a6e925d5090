// ABOUTME: Unit tests for Charm-backed repquest storage.
// ABOUTME: Uses an in-memory kvStore so no Charm account is needed.
package charm

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/repquest/internal/storage"
)

type memKV struct {
	data     map[string][]byte
	readOnly bool
	syncs    int
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, badger.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Set(key, value []byte) error {
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memKV) Keys() ([][]byte, error) {
	var keys [][]byte
	for k := range m.data {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

func (m *memKV) Sync() error      { m.syncs++; return nil }
func (m *memKV) IsReadOnly() bool { return m.readOnly }
func (m *memKV) Close() error     { return nil }

func TestPendingKeyFormat(t *testing.T) {
	key := pendingKey(42)
	if key != "pending:00000000000000000042" {
		t.Errorf("pendingKey(42) = %q", key)
	}
	// zero padding keeps lexical order equal to numeric order
	if !(pendingKey(9) < pendingKey(10)) {
		t.Error("expected pendingKey(9) < pendingKey(10)")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := newClient(newMemKV(), false)

	data, err := c.GetSnapshot()
	if err != nil || data != nil {
		t.Fatalf("GetSnapshot on empty = (%v, %v), want (nil, nil)", data, err)
	}
	if err := c.PutSnapshot([]byte(`{"x":1}`)); err != nil {
		t.Fatalf("PutSnapshot failed: %v", err)
	}
	data, _ = c.GetSnapshot()
	if string(data) != `{"x":1}` {
		t.Errorf("snapshot = %s", data)
	}
}

func TestPendingQueue(t *testing.T) {
	c := newClient(newMemKV(), false)

	var ids []int64
	for i := 0; i < 12; i++ {
		id, err := c.EnqueuePending(storage.PendingItem{Data: json.RawMessage(`{}`)})
		if err != nil {
			t.Fatalf("EnqueuePending failed: %v", err)
		}
		ids = append(ids, id)
	}
	if ids[0] != 1 || ids[11] != 12 {
		t.Fatalf("unexpected ids: %v", ids)
	}

	if err := c.RemovePending(1); err != nil {
		t.Fatalf("RemovePending failed: %v", err)
	}
	items, err := c.ListPending()
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(items) != 11 {
		t.Fatalf("len(items) = %d, want 11", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].ID >= items[i].ID {
			t.Fatalf("items out of order at %d: %d >= %d", i, items[i-1].ID, items[i].ID)
		}
	}
	if items[0].Type != storage.PendingTypeWorkout {
		t.Errorf("Type = %q, want workout", items[0].Type)
	}
}

func TestRecordAttemptAndReset(t *testing.T) {
	c := newClient(newMemKV(), false)
	id, _ := c.EnqueuePending(storage.PendingItem{Data: json.RawMessage(`{}`)})

	if err := c.RecordAttempt(id, "offline", time.Now()); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	items, _ := c.ListPending()
	if items[0].Attempts != 1 || items[0].LastError != "offline" {
		t.Errorf("unexpected item after attempt: %+v", items[0])
	}

	if err := c.ResetAttempts(); err != nil {
		t.Fatalf("ResetAttempts failed: %v", err)
	}
	items, _ = c.ListPending()
	if items[0].Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", items[0].Attempts)
	}
}

func TestLatestArchive(t *testing.T) {
	c := newClient(newMemKV(), false)

	for _, payload := range []string{`"a"`, `"b"`} {
		if _, err := c.StoreArchive(storage.Archive{UserID: 1, Data: json.RawMessage(payload)}); err != nil {
			t.Fatalf("StoreArchive failed: %v", err)
		}
	}
	a, err := c.LatestArchive(1)
	if err != nil {
		t.Fatalf("LatestArchive failed: %v", err)
	}
	if a == nil || string(a.Data) != `"b"` {
		t.Errorf("LatestArchive = %+v, want b", a)
	}
	if a, _ := c.LatestArchive(2); a != nil {
		t.Errorf("LatestArchive(2) = %+v, want nil", a)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	store := newMemKV()
	store.readOnly = true
	c := newClient(store, true)

	err := c.PutSnapshot([]byte(`{}`))
	if !errors.Is(err, storage.ErrReadOnly) {
		t.Errorf("PutSnapshot error = %v, want ErrReadOnly", err)
	}
	if store.syncs != 0 {
		t.Errorf("syncs = %d, want 0", store.syncs)
	}
}

func TestAutoSyncAfterWrite(t *testing.T) {
	store := newMemKV()
	c := newClient(store, true)

	if err := c.PutSnapshot([]byte(`{}`)); err != nil {
		t.Fatalf("PutSnapshot failed: %v", err)
	}
	if store.syncs != 1 {
		t.Errorf("syncs = %d, want 1", store.syncs)
	}

	c.SetAutoSync(false)
	_ = c.PutSnapshot([]byte(`{}`))
	if store.syncs != 1 {
		t.Errorf("syncs = %d after disabling auto sync, want 1", store.syncs)
	}
}

func TestConcurrentEnqueueDistinctIDs(t *testing.T) {
	c := newClient(newMemKV(), false)

	const n = 20
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := c.EnqueuePending(storage.PendingItem{Data: json.RawMessage(`{}`)})
			if err != nil {
				t.Errorf("EnqueuePending failed: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %d", id)
		}
		seen[id] = true
	}
	items, err := c.ListPending()
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(items) != n {
		t.Errorf("len(items) = %d, want %d", len(items), n)
	}
}

func TestCloseTwice(t *testing.T) {
	c := newClient(newMemKV(), false)
	if err := c.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}
