// ABOUTME: Tracker is the state container for the workout state machine.
// ABOUTME: Commands mutate a clone, persist it, then notify subscribers.
package tracker

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/repquest/internal/models"
	"github.com/harperreed/repquest/internal/storage"
)

// UndoPolicy controls what UndoCompleteWorkout rolls back.
type UndoPolicy string

const (
	// UndoKeep leaves history, last weight, and workout day in place.
	UndoKeep UndoPolicy = "keep"
	// UndoRetract removes the history record and restores last weight and workout day.
	UndoRetract UndoPolicy = "retract"
)

// ParseUndoPolicy maps a config string to a policy. Empty means UndoKeep.
func ParseUndoPolicy(s string) (UndoPolicy, error) {
	switch UndoPolicy(s) {
	case "", UndoKeep:
		return UndoKeep, nil
	case UndoRetract:
		return UndoRetract, nil
	default:
		return "", fmt.Errorf("unknown undo policy: %q", s)
	}
}

// Snapshotter persists whole snapshots.
type Snapshotter interface {
	Load() *models.UserData
	Save(*models.UserData) error
}

var _ Snapshotter = (*storage.Store)(nil)

// Options configures a Tracker. Zero values pick defaults.
type Options struct {
	Now        func() time.Time
	Logger     *log.Logger
	UndoPolicy UndoPolicy
}

// Tracker holds the current UserData and serializes commands against it.
type Tracker struct {
	mu     sync.Mutex
	data   *models.UserData
	store  Snapshotter
	now    func() time.Time
	logger *log.Logger
	undo   UndoPolicy

	// extraSets is advisory per-slot target bookkeeping; never persisted.
	extraSets map[string]int

	subMu  sync.Mutex
	subs   map[int]func(models.UserData)
	nextID int
}

// New hydrates a Tracker from store, falling back to first-run defaults.
func New(store Snapshotter, opts Options) *Tracker {
	t := &Tracker{
		store:     store,
		now:       opts.Now,
		logger:    opts.Logger,
		undo:      opts.UndoPolicy,
		extraSets: make(map[string]int),
		subs:      make(map[int]func(models.UserData)),
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	if t.undo == "" {
		t.undo = UndoKeep
	}

	data := store.Load()
	if data == nil {
		t.logger.Info("no saved data, starting from defaults")
		data = models.NewUserData()
	}
	normalizeState(data)
	t.data = data
	return t
}

// UndoPolicy returns the configured undo policy.
func (t *Tracker) UndoPolicy() UndoPolicy {
	return t.undo
}

// Now returns the tracker's clock reading.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// today is the local calendar date from the injected clock.
func (t *Tracker) today() string {
	return models.LocalDate(t.now())
}

// mutate applies fn to a clone of the current data. When fn reports a change
// the clone becomes current, is saved, and subscribers are notified. The
// returned error is only ever a persistence failure; the change stays applied.
func (t *Tracker) mutate(op string, fn func(d *models.UserData) bool) error {
	t.mu.Lock()
	next := t.data.Clone()
	if !fn(next) {
		t.mu.Unlock()
		t.logger.Debug("no-op", "op", op)
		return nil
	}
	normalizeState(next)
	t.data = next
	err := t.store.Save(next)
	t.mu.Unlock()

	t.notify(next)

	if err != nil {
		t.logger.Error("save failed", "op", op, "err", err)
		return fmt.Errorf("%s: save: %w", op, err)
	}
	t.logger.Debug("applied", "op", op)
	return nil
}

// Subscribe registers fn to receive a copy of the data after every change.
// The returned function unregisters it.
func (t *Tracker) Subscribe(fn func(models.UserData)) func() {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	return func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		delete(t.subs, id)
	}
}

func (t *Tracker) notify(data *models.UserData) {
	t.subMu.Lock()
	subs := make([]func(models.UserData), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.subMu.Unlock()

	for _, fn := range subs {
		fn(*data.Clone())
	}
}

// read runs fn against the current data under the lock.
func (t *Tracker) read(fn func(d *models.UserData)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.data)
}

// Snapshot returns a deep copy of the current data.
func (t *Tracker) Snapshot() *models.UserData {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data.Clone()
}

// Replace swaps in new data wholesale, as after an import or remote pull.
func (t *Tracker) Replace(data *models.UserData) error {
	if data == nil {
		return nil
	}
	replacement := data.Clone()
	replacement.Normalize()
	return t.mutate("replace", func(d *models.UserData) bool {
		*d = *replacement
		t.extraSets = make(map[string]int)
		return true
	})
}

// normalizeState keeps the workout state consistent with the splits after
// any change: a known split, an in-range day, and active/completed ids that
// the current day can produce.
func normalizeState(d *models.UserData) {
	d.Normalize()
	ws := &d.WorkoutState

	split := models.FindSplit(d.Splits, ws.CurrentSplitID)
	if split == nil && len(d.Splits) > 0 {
		split = &d.Splits[0]
		ws.CurrentSplitID = split.ID
		ws.CurrentDayIndex = 0
	}
	if split == nil {
		ws.CurrentDayIndex = 0
		ws.ActiveWorkoutID = nil
		ws.CompletedWorkoutIDs = []string{}
		return
	}

	switch {
	case len(split.Days) == 0:
		ws.CurrentDayIndex = 0
	case ws.CurrentDayIndex >= len(split.Days):
		ws.CurrentDayIndex = len(split.Days) - 1
	case ws.CurrentDayIndex < 0:
		ws.CurrentDayIndex = 0
	}

	valid := make(map[string]bool)
	for _, w := range models.GenerateWorkouts(split, ws.CurrentDayIndex, d.Lifts) {
		valid[w.ID] = true
	}
	if ws.ActiveWorkoutID != nil && !valid[*ws.ActiveWorkoutID] {
		ws.ActiveWorkoutID = nil
	}
	ws.CompletedWorkoutIDs = slices.DeleteFunc(ws.CompletedWorkoutIDs, func(id string) bool {
		return !valid[id]
	})
	for id := range ws.Completions {
		if !valid[id] {
			delete(ws.Completions, id)
		}
	}
}

// clearDayState resets the per-day lifecycle fields.
func clearDayState(ws *models.WorkoutState) {
	ws.ActiveWorkoutID = nil
	ws.CompletedWorkoutIDs = []string{}
	ws.Completions = nil
}
