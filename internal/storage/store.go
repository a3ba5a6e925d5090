// ABOUTME: Store wraps a Repository with the user data snapshot contract.
// ABOUTME: Load fails soft to nil so callers fall back to first-run defaults.
package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/repquest/internal/models"
)

// Store persists whole UserData snapshots through a Repository.
type Store struct {
	repo   Repository
	logger *log.Logger
}

// NewStore creates a Store. A nil logger discards log output.
func NewStore(repo Repository, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{repo: repo, logger: logger}
}

// Repository returns the underlying backend.
func (s *Store) Repository() Repository {
	return s.repo
}

// Load reads the snapshot. Missing, unreadable, or malformed snapshots return nil.
func (s *Store) Load() *models.UserData {
	raw, err := s.repo.GetSnapshot()
	if err != nil {
		s.logger.Warn("snapshot unreadable, using defaults", "err", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var data models.UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("snapshot malformed, using defaults", "err", err)
		return nil
	}
	data.Normalize()
	return &data
}

// Save overwrites the snapshot with data.
func (s *Store) Save(data *models.UserData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.repo.PutSnapshot(raw); err != nil {
		return err
	}
	s.logger.Debug("snapshot saved", "bytes", len(raw))
	return nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.repo.Close()
}
