// ABOUTME: Snapshot and archive operations for SQLite storage.
// ABOUTME: The snapshot is one JSON blob overwritten in full on every save.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetSnapshot returns the stored snapshot, or nil if none exists.
func (d *DB) GetSnapshot() ([]byte, error) {
	var data []byte
	err := d.db.QueryRow("SELECT data FROM snapshots WHERE key = ?", SnapshotKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return data, nil
}

// PutSnapshot overwrites the stored snapshot.
func (d *DB) PutSnapshot(data []byte) error {
	query := `
		INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`
	if _, err := d.db.Exec(query, SnapshotKey, data, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// StoreArchive keeps a local copy of a workout-data write.
func (d *DB) StoreArchive(a Archive) (int64, error) {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	result, err := d.db.Exec(
		"INSERT INTO archives (user_id, data, timestamp) VALUES (?, ?, ?)",
		a.UserID, []byte(a.Data), a.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("store archive: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store archive: %w", err)
	}
	return id, nil
}

// LatestArchive returns the newest archive for userID, or nil if none exists.
func (d *DB) LatestArchive(userID int) (*Archive, error) {
	query := `
		SELECT id, user_id, data, timestamp
		FROM archives
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT 1
	`
	var (
		a  Archive
		ts string
	)
	var data []byte
	err := d.db.QueryRow(query, userID).Scan(&a.ID, &a.UserID, &data, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest archive: %w", err)
	}
	a.Data = data
	a.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("parse archive timestamp: %w", err)
	}
	return &a, nil
}
