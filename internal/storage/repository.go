// ABOUTME: Repository interface for repquest durable local storage.
// ABOUTME: Defines the snapshot blob, pending-sync queue, and local archive contract.
package storage

import (
	"encoding/json"
	"errors"
	"time"
)

// SnapshotKey is the fixed key the user data snapshot is stored under.
const SnapshotKey = "repquest_data"

// PendingTypeWorkout is the only pending item type currently produced.
const PendingTypeWorkout = "workout"

// ErrReadOnly is returned when a backend cannot accept writes.
var ErrReadOnly = errors.New("storage is read-only")

// PendingItem is a queued archival write awaiting delivery.
type PendingItem struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Data        json.RawMessage `json:"data"`
	Timestamp   time.Time       `json:"timestamp"`
	Attempts    int             `json:"attempts"`
	LastAttempt *time.Time      `json:"lastAttempt,omitempty"`
	LastError   string          `json:"lastError,omitempty"`
}

// Archive is a local copy of a workout-data write, kept for offline reads.
type Archive struct {
	ID        int64           `json:"id"`
	UserID    int             `json:"userId"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Repository defines the storage interface for repquest data.
// Implementations: DB (SQLite), BadgerStore, and charm.Client.
type Repository interface {
	// Snapshot operations
	GetSnapshot() ([]byte, error)
	PutSnapshot(data []byte) error

	// Pending-sync queue, listed in ascending id order
	EnqueuePending(item PendingItem) (int64, error)
	ListPending() ([]PendingItem, error)
	RemovePending(id int64) error
	RecordAttempt(id int64, errMsg string, at time.Time) error
	ResetAttempts() error

	// Local archive
	StoreArchive(a Archive) (int64, error)
	LatestArchive(userID int) (*Archive, error)

	// Lifecycle
	Close() error
}

var (
	_ Repository = (*DB)(nil)
	_ Repository = (*BadgerStore)(nil)
)
