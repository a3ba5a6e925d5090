// ABOUTME: Repository operations for Charm KV storage.
// ABOUTME: Zero-padded decimal ids keep prefix scans in queue order.
package charm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/repquest/internal/storage"
)

const (
	SnapshotPrefix = "snapshot:"
	PendingPrefix  = "pending:"
	ArchivePrefix  = "archive:"
	CounterPrefix  = "counter:"
)

func pendingKey(id int64) string {
	return fmt.Sprintf("%s%020d", PendingPrefix, id)
}

func archiveUserPrefix(userID int) string {
	return ArchivePrefix + strconv.Itoa(userID) + ":"
}

func archiveKey(userID int, id int64) string {
	return fmt.Sprintf("%s%020d", archiveUserPrefix(userID), id)
}

// GetSnapshot returns the stored snapshot, or nil if none exists.
func (c *Client) GetSnapshot() ([]byte, error) {
	data, err := c.get(SnapshotPrefix + storage.SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return data, nil
}

// PutSnapshot overwrites the stored snapshot.
func (c *Client) PutSnapshot(data []byte) error {
	if err := c.set(SnapshotPrefix+storage.SnapshotKey, data); err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// EnqueuePending appends an item to the queue and returns its id.
func (c *Client) EnqueuePending(item storage.PendingItem) (int64, error) {
	id, err := c.nextID("pending")
	if err != nil {
		return 0, fmt.Errorf("enqueue pending: %w", err)
	}
	item.ID = id
	item.Attempts = 0
	item.LastAttempt = nil
	item.LastError = ""
	if item.Type == "" {
		item.Type = storage.PendingTypeWorkout
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}

	data, err := json.Marshal(item)
	if err != nil {
		return 0, fmt.Errorf("marshal pending: %w", err)
	}
	if err := c.set(pendingKey(id), data); err != nil {
		return 0, fmt.Errorf("enqueue pending: %w", err)
	}
	return id, nil
}

// ListPending returns all queued items in ascending id order.
func (c *Client) ListPending() ([]storage.PendingItem, error) {
	keys, err := c.keysWithPrefix(PendingPrefix)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	items := make([]storage.PendingItem, 0, len(keys))
	for _, key := range keys {
		data, err := c.get(key)
		if err != nil {
			return nil, fmt.Errorf("list pending: %w", err)
		}
		if data == nil {
			continue
		}
		item, err := decode[storage.PendingItem](data)
		if err != nil {
			return nil, fmt.Errorf("unmarshal pending %s: %w", key, err)
		}
		items = append(items, *item)
	}
	return items, nil
}

// RemovePending deletes a delivered item.
func (c *Client) RemovePending(id int64) error {
	if err := c.delete(pendingKey(id)); err != nil {
		return fmt.Errorf("remove pending %d: %w", id, err)
	}
	return nil
}

// RecordAttempt notes a failed delivery attempt.
func (c *Client) RecordAttempt(id int64, errMsg string, at time.Time) error {
	data, err := c.get(pendingKey(id))
	if err != nil {
		return fmt.Errorf("record attempt %d: %w", id, err)
	}
	if data == nil {
		return nil
	}
	item, err := decode[storage.PendingItem](data)
	if err != nil {
		return fmt.Errorf("unmarshal pending %d: %w", id, err)
	}
	item.Attempts++
	item.LastAttempt = &at
	item.LastError = errMsg
	return c.putPending(*item)
}

// ResetAttempts clears attempt counters so parked items are retried.
func (c *Client) ResetAttempts() error {
	items, err := c.ListPending()
	if err != nil {
		return err
	}
	for _, item := range items {
		item.Attempts = 0
		item.LastAttempt = nil
		item.LastError = ""
		if err := c.putPending(item); err != nil {
			return fmt.Errorf("reset attempts: %w", err)
		}
	}
	return nil
}

func (c *Client) putPending(item storage.PendingItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal pending: %w", err)
	}
	return c.set(pendingKey(item.ID), data)
}

// StoreArchive keeps a local copy of a workout-data write.
func (c *Client) StoreArchive(a storage.Archive) (int64, error) {
	id, err := c.nextID("archive")
	if err != nil {
		return 0, fmt.Errorf("store archive: %w", err)
	}
	a.ID = id
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	data, err := json.Marshal(a)
	if err != nil {
		return 0, fmt.Errorf("marshal archive: %w", err)
	}
	if err := c.set(archiveKey(a.UserID, id), data); err != nil {
		return 0, fmt.Errorf("store archive: %w", err)
	}
	return id, nil
}

// LatestArchive returns the newest archive for userID, or nil if none exists.
func (c *Client) LatestArchive(userID int) (*storage.Archive, error) {
	keys, err := c.keysWithPrefix(archiveUserPrefix(userID))
	if err != nil {
		return nil, fmt.Errorf("latest archive: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	data, err := c.get(keys[len(keys)-1])
	if err != nil {
		return nil, fmt.Errorf("latest archive: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	a, err := decode[storage.Archive](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal archive: %w", err)
	}
	return a, nil
}
