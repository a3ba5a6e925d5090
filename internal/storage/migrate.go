// ABOUTME: Data migration between repquest storage backends.
// ABOUTME: Copies the snapshot, pending-sync queue, and latest archive from source to destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Snapshot bool
	Pending  int
	Archives int
}

// MigrateData copies all data from src to dst storage.
// Pending items are re-enqueued in order and receive new ids in dst.
// Only the newest archive for userID is carried over.
func MigrateData(src, dst Repository, userID int) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	snapshot, err := src.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("read source snapshot: %w", err)
	}
	if snapshot != nil {
		if err := dst.PutSnapshot(snapshot); err != nil {
			return nil, fmt.Errorf("write snapshot: %w", err)
		}
		summary.Snapshot = true
	}

	pending, err := src.ListPending()
	if err != nil {
		return nil, fmt.Errorf("list source pending: %w", err)
	}
	for _, item := range pending {
		if _, err := dst.EnqueuePending(item); err != nil {
			return nil, fmt.Errorf("enqueue pending %d: %w", item.ID, err)
		}
		summary.Pending++
	}

	archive, err := src.LatestArchive(userID)
	if err != nil {
		return nil, fmt.Errorf("read source archive: %w", err)
	}
	if archive != nil {
		if _, err := dst.StoreArchive(*archive); err != nil {
			return nil, fmt.Errorf("store archive: %w", err)
		}
		summary.Archives++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return len(entries) > 0, nil
}
