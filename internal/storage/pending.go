// ABOUTME: Pending-sync queue operations for SQLite storage.
// ABOUTME: Items keep auto-increment ids and are drained in ascending order.
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// EnqueuePending appends an item to the queue and returns its id.
func (d *DB) EnqueuePending(item PendingItem) (int64, error) {
	if item.Type == "" {
		item.Type = PendingTypeWorkout
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}
	result, err := d.db.Exec(
		"INSERT INTO pending_sync (type, data, timestamp, attempts) VALUES (?, ?, ?, 0)",
		item.Type, []byte(item.Data), item.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("enqueue pending: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("enqueue pending: %w", err)
	}
	return id, nil
}

// ListPending returns all queued items in ascending id order.
func (d *DB) ListPending() ([]PendingItem, error) {
	rows, err := d.db.Query(`
		SELECT id, type, data, timestamp, attempts, last_attempt, last_error
		FROM pending_sync
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var items []PendingItem
	for rows.Next() {
		item, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return items, nil
}

// RemovePending deletes a delivered item. Removing a missing id is not an error.
func (d *DB) RemovePending(id int64) error {
	if _, err := d.db.Exec("DELETE FROM pending_sync WHERE id = ?", id); err != nil {
		return fmt.Errorf("remove pending %d: %w", id, err)
	}
	return nil
}

// RecordAttempt notes a failed delivery attempt.
func (d *DB) RecordAttempt(id int64, errMsg string, at time.Time) error {
	_, err := d.db.Exec(
		"UPDATE pending_sync SET attempts = attempts + 1, last_attempt = ?, last_error = ? WHERE id = ?",
		at.UTC().Format(time.RFC3339Nano), errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("record attempt %d: %w", id, err)
	}
	return nil
}

// ResetAttempts clears attempt counters so parked items are retried.
func (d *DB) ResetAttempts() error {
	if _, err := d.db.Exec("UPDATE pending_sync SET attempts = 0, last_attempt = NULL, last_error = NULL"); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}

func scanPending(rows *sql.Rows) (PendingItem, error) {
	var (
		item        PendingItem
		data        []byte
		ts          string
		lastAttempt sql.NullString
		lastError   sql.NullString
	)
	if err := rows.Scan(&item.ID, &item.Type, &data, &ts, &item.Attempts, &lastAttempt, &lastError); err != nil {
		return PendingItem{}, fmt.Errorf("scan pending: %w", err)
	}
	item.Data = data

	var err error
	item.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return PendingItem{}, fmt.Errorf("parse pending timestamp: %w", err)
	}
	if lastAttempt.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastAttempt.String)
		if err == nil {
			item.LastAttempt = &t
		}
	}
	item.LastError = lastError.String
	return item, nil
}
