// ABOUTME: Embedded Badger KV backend for repquest storage.
// ABOUTME: Prefix keys with big-endian ids so prefix iteration yields queue order.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

const (
	badgerSnapshotPrefix = "snapshot:"
	badgerPendingPrefix  = "pending:"
	badgerArchivePrefix  = "archive:"
	badgerPendingSeq     = "seq:pending"
	badgerArchiveSeq     = "seq:archive"
)

// BadgerStore is a Repository backed by an embedded Badger database.
type BadgerStore struct {
	db         *badger.DB
	pendingSeq *badger.Sequence
	archiveSeq *badger.Sequence
}

// OpenBadger opens or creates a Badger database in dir.
func OpenBadger(dir string, logger *log.Logger) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	pendingSeq, err := db.GetSequence([]byte(badgerPendingSeq), 16)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pending sequence: %w", err)
	}
	archiveSeq, err := db.GetSequence([]byte(badgerArchiveSeq), 16)
	if err != nil {
		_ = pendingSeq.Release()
		_ = db.Close()
		return nil, fmt.Errorf("archive sequence: %w", err)
	}

	return &BadgerStore{db: db, pendingSeq: pendingSeq, archiveSeq: archiveSeq}, nil
}

// Close releases sequences and closes the database.
func (b *BadgerStore) Close() error {
	if b.db == nil {
		return nil
	}
	_ = b.pendingSeq.Release()
	_ = b.archiveSeq.Release()
	err := b.db.Close()
	b.db = nil
	return err
}

// GetSnapshot returns the stored snapshot, or nil if none exists.
func (b *BadgerStore) GetSnapshot() ([]byte, error) {
	data, err := b.get([]byte(badgerSnapshotPrefix + SnapshotKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return data, nil
}

// PutSnapshot overwrites the stored snapshot.
func (b *BadgerStore) PutSnapshot(data []byte) error {
	if err := b.set([]byte(badgerSnapshotPrefix+SnapshotKey), data); err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// EnqueuePending appends an item to the queue and returns its id.
func (b *BadgerStore) EnqueuePending(item PendingItem) (int64, error) {
	next, err := b.pendingSeq.Next()
	if err != nil {
		return 0, fmt.Errorf("enqueue pending: %w", err)
	}
	item.ID = int64(next) + 1
	item.Attempts = 0
	item.LastAttempt = nil
	item.LastError = ""
	if item.Type == "" {
		item.Type = PendingTypeWorkout
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}

	if err := b.putJSON(pendingKey(item.ID), item); err != nil {
		return 0, fmt.Errorf("enqueue pending: %w", err)
	}
	return item.ID, nil
}

// ListPending returns all queued items in ascending id order.
func (b *BadgerStore) ListPending() ([]PendingItem, error) {
	var items []PendingItem
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(badgerPendingPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item PendingItem
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &item)
			}); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return items, nil
}

// RemovePending deletes a delivered item.
func (b *BadgerStore) RemovePending(id int64) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(pendingKey(id))
	})
	if err != nil {
		return fmt.Errorf("remove pending %d: %w", id, err)
	}
	return nil
}

// RecordAttempt notes a failed delivery attempt.
func (b *BadgerStore) RecordAttempt(id int64, errMsg string, at time.Time) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(pendingKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var p PendingItem
		if err := item.Value(func(v []byte) error { return json.Unmarshal(v, &p) }); err != nil {
			return err
		}
		p.Attempts++
		p.LastAttempt = &at
		p.LastError = errMsg
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return txn.Set(pendingKey(id), data)
	})
	if err != nil {
		return fmt.Errorf("record attempt %d: %w", id, err)
	}
	return nil
}

// ResetAttempts clears attempt counters so parked items are retried.
func (b *BadgerStore) ResetAttempts() error {
	items, err := b.ListPending()
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		for _, p := range items {
			p.Attempts = 0
			p.LastAttempt = nil
			p.LastError = ""
			data, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := txn.Set(pendingKey(p.ID), data); err != nil {
				return fmt.Errorf("reset attempts: %w", err)
			}
		}
		return nil
	})
}

// StoreArchive keeps a local copy of a workout-data write.
func (b *BadgerStore) StoreArchive(a Archive) (int64, error) {
	next, err := b.archiveSeq.Next()
	if err != nil {
		return 0, fmt.Errorf("store archive: %w", err)
	}
	a.ID = int64(next) + 1
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	if err := b.putJSON(archiveKey(a.UserID, a.ID), a); err != nil {
		return 0, fmt.Errorf("store archive: %w", err)
	}
	return a.ID, nil
}

// LatestArchive returns the newest archive for userID, or nil if none exists.
func (b *BadgerStore) LatestArchive(userID int) (*Archive, error) {
	var found *Archive
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := archivePrefix(userID)
		seek := append(append([]byte{}, prefix...), 0xFF)
		it.Seek(seek)
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		var a Archive
		if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &a) }); err != nil {
			return err
		}
		found = &a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("latest archive: %w", err)
	}
	return found, nil
}

func (b *BadgerStore) get(key []byte) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

func (b *BadgerStore) set(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (b *BadgerStore) putJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.set(key, data)
}

func pendingKey(id int64) []byte {
	key := make([]byte, len(badgerPendingPrefix)+8)
	copy(key, badgerPendingPrefix)
	binary.BigEndian.PutUint64(key[len(badgerPendingPrefix):], uint64(id))
	return key
}

func archivePrefix(userID int) []byte {
	return []byte(badgerArchivePrefix + strconv.Itoa(userID) + ":")
}

func archiveKey(userID int, id int64) []byte {
	prefix := archivePrefix(userID)
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(id))
	return key
}

// badgerLogger routes Badger's internal logging through the app logger at debug level.
type badgerLogger struct {
	l *log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	if b.l != nil {
		b.l.Errorf(format, args...)
	}
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	if b.l != nil {
		b.l.Warnf(format, args...)
	}
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	if b.l != nil {
		b.l.Debugf(format, args...)
	}
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	if b.l != nil {
		b.l.Debugf(format, args...)
	}
}
