// ABOUTME: Syncer archives user data to the server through a durable pending queue.
// ABOUTME: Failed writes are queued and drained sequentially with capped backoff.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/repquest/internal/models"
	"github.com/harperreed/repquest/internal/remote"
	"github.com/harperreed/repquest/internal/storage"
)

const (
	// DefaultMaxAttempts parks a queued item after this many failed deliveries.
	DefaultMaxAttempts = 8
	baseBackoff        = time.Second
	maxBackoff         = 10 * time.Minute
)

// Remote is the archive endpoint.
type Remote interface {
	SaveWorkoutData(ctx context.Context, userID int, data json.RawMessage) error
	GetWorkoutData(ctx context.Context, userID int) (json.RawMessage, error)
	Ping(ctx context.Context) error
}

var _ Remote = (*remote.Client)(nil)

// ErrInvalidInterval is returned by Watch for a non-positive poll interval.
var ErrInvalidInterval = errors.New("watch interval must be positive")

// Options tunes a Syncer. Zero values pick defaults.
type Options struct {
	Logger      *log.Logger
	MaxAttempts int
	Now         func() time.Time
}

// Syncer manages archival of user data. It is safe for concurrent use.
type Syncer struct {
	// mu guards config and serializes queue passes.
	mu          gosync.Mutex
	config      *Config
	repo        storage.Repository
	remote      Remote
	logger      *log.Logger
	maxAttempts int
	now         func() time.Time
	online      atomic.Bool
}

// DrainResult counts what one drain pass did.
type DrainResult struct {
	Sent    int
	Failed  int
	Waiting int
	Parked  int
}

// Status summarizes the queue and link state.
type Status struct {
	Server    string
	UserID    int
	DeviceID  string
	Online    bool
	Pending   int
	Parked    int
	LastPush  string
	LastPull  string
	LastError string
}

// NewSyncer creates a Syncer over the local repository and the remote endpoint.
func NewSyncer(cfg *Config, repo storage.Repository, rem Remote, opts Options) (*Syncer, error) {
	if cfg == nil {
		return nil, errors.New("sync config is required")
	}
	if repo == nil {
		return nil, errors.New("storage repository is required")
	}
	s := &Syncer{
		config:      cfg,
		repo:        repo,
		remote:      rem,
		logger:      opts.Logger,
		maxAttempts: opts.MaxAttempts,
		now:         opts.Now,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = DefaultMaxAttempts
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Config returns the sync config in use.
func (s *Syncer) Config() *Config {
	return s.config
}

// Online reports the last observed connectivity.
func (s *Syncer) Online() bool {
	return s.online.Load()
}

func (s *Syncer) linked() bool {
	return s.remote != nil && s.config.IsConfigured()
}

// Archive keeps a local copy of data and posts it to the server. When the
// write fails or no server is linked the payload is queued; queued reports that.
func (s *Syncer) Archive(ctx context.Context, data *models.UserData) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("marshal archive: %w", err)
	}
	now := s.now()
	if _, err := s.repo.StoreArchive(storage.Archive{UserID: s.config.UserID, Data: raw, Timestamp: now}); err != nil {
		return false, fmt.Errorf("store local archive: %w", err)
	}

	if s.linked() {
		err = s.remote.SaveWorkoutData(ctx, s.config.UserID, raw)
		if err == nil {
			s.online.Store(true)
			s.config.LastPush = now.Format(time.RFC3339)
			s.config.LastError = ""
			s.logger.Info("archived to server", "user", s.config.UserID, "bytes", len(raw))
			return false, nil
		}
		s.noteFailure(err)
	}

	if _, err := s.repo.EnqueuePending(storage.PendingItem{
		Type:      storage.PendingTypeWorkout,
		Data:      raw,
		Timestamp: now,
	}); err != nil {
		return false, fmt.Errorf("enqueue archive: %w", err)
	}
	s.logger.Info("archive queued for later sync")
	return true, nil
}

// Drain sends queued items in order. Each item is independent: a failure
// records the attempt and moves on. Items inside their backoff window or past
// the attempt cap are left alone.
func (s *Syncer) Drain(ctx context.Context) (DrainResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res DrainResult
	if !s.linked() {
		return res, remote.ErrNoServer
	}
	items, err := s.repo.ListPending()
	if err != nil {
		return res, err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if item.Attempts >= s.maxAttempts {
			res.Parked++
			continue
		}
		now := s.now()
		if item.LastAttempt != nil && now.Before(item.LastAttempt.Add(Backoff(item.Attempts))) {
			res.Waiting++
			continue
		}

		if err := s.remote.SaveWorkoutData(ctx, s.config.UserID, item.Data); err != nil {
			s.noteFailure(err)
			res.Failed++
			if rerr := s.repo.RecordAttempt(item.ID, err.Error(), now); rerr != nil {
				return res, rerr
			}
			continue
		}
		if err := s.repo.RemovePending(item.ID); err != nil {
			return res, err
		}
		s.online.Store(true)
		s.config.LastPush = now.Format(time.RFC3339)
		s.config.LastError = ""
		res.Sent++
	}

	s.logger.Info("drain finished", "sent", res.Sent, "failed", res.Failed, "waiting", res.Waiting, "parked", res.Parked)
	return res, nil
}

// Retry clears attempt counters so parked items are tried again.
func (s *Syncer) Retry() error {
	return s.repo.ResetAttempts()
}

// Pull returns the server's archive, falling back to the newest local archive
// when the server is unreachable or has nothing. fromRemote reports the source;
// data is nil when neither has an archive.
func (s *Syncer) Pull(ctx context.Context) (data *models.UserData, fromRemote bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.linked() {
		raw, rerr := s.remote.GetWorkoutData(ctx, s.config.UserID)
		switch {
		case rerr != nil:
			s.noteFailure(rerr)
		case raw != nil:
			s.online.Store(true)
			var d models.UserData
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, false, fmt.Errorf("decode remote archive: %w", err)
			}
			d.Normalize()
			s.config.LastPull = s.now().Format(time.RFC3339)
			return &d, true, nil
		default:
			s.online.Store(true)
		}
	}

	archive, err := s.repo.LatestArchive(s.config.UserID)
	if err != nil {
		return nil, false, err
	}
	if archive == nil {
		return nil, false, nil
	}
	var d models.UserData
	if err := json.Unmarshal(archive.Data, &d); err != nil {
		return nil, false, fmt.Errorf("decode local archive: %w", err)
	}
	d.Normalize()
	return &d, false, nil
}

// Status reports queue depth and link state.
func (s *Syncer) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.ListPending()
	if err != nil {
		return Status{}, err
	}
	st := Status{
		Server:    s.config.Server,
		UserID:    s.config.UserID,
		DeviceID:  s.config.DeviceID,
		Online:    s.Online(),
		Pending:   len(items),
		LastPush:  s.config.LastPush,
		LastPull:  s.config.LastPull,
		LastError: s.config.LastError,
	}
	for _, item := range items {
		if item.Attempts >= s.maxAttempts {
			st.Parked++
		}
	}
	return st, nil
}

// CheckConnectivity pings the server and drains the queue on an
// offline to online transition. It returns the new connectivity state.
func (s *Syncer) CheckConnectivity(ctx context.Context) bool {
	if !s.linked() {
		return false
	}
	was := s.online.Load()
	err := s.remote.Ping(ctx)
	now := err == nil
	s.online.Store(now)

	switch {
	case now && !was:
		s.logger.Info("connection restored")
		if _, err := s.Drain(ctx); err != nil {
			s.logger.Warn("drain failed", "err", err)
		}
	case !now && was:
		s.logger.Warn("connection lost", "err", err)
	}
	return now
}

// Watch polls connectivity every interval until ctx is done. onChange, when
// set, is called on every transition.
func (s *Syncer) Watch(ctx context.Context, interval time.Duration, onChange func(online bool)) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	if !s.linked() {
		return remote.ErrNoServer
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	state := s.CheckConnectivity(ctx)
	if onChange != nil {
		onChange(state)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			next := s.CheckConnectivity(ctx)
			if next != state && onChange != nil {
				onChange(next)
			}
			state = next
		}
	}
}

// Backoff is the wait after n failed attempts: 1s doubling, capped at 10 minutes.
func Backoff(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	if n > 20 {
		return maxBackoff
	}
	d := baseBackoff << uint(n-1)
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func (s *Syncer) noteFailure(err error) {
	if errors.Is(err, remote.ErrOffline) {
		s.online.Store(false)
	}
	s.config.LastError = err.Error()
	s.logger.Warn("server write failed", "err", err)
}
