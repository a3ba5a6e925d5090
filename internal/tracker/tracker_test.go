// ABOUTME: Tests for the workout state machine.
// ABOUTME: Uses a fixed clock and an in-memory or SQLite-backed snapshot store.
package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/repquest/internal/models"
	"github.com/harperreed/repquest/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bench    = "push_pull_legs_0_0"
	shoulder = "push_pull_legs_0_1"
)

type memStore struct {
	data  *models.UserData
	saves int
	err   error
}

func (m *memStore) Load() *models.UserData { return m.data.Clone() }

func (m *memStore) Save(d *models.UserData) error {
	m.saves++
	if m.err != nil {
		return m.err
	}
	m.data = d.Clone()
	return nil
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 10, 9, 30, 0, 0, time.Local)
}

func newTestTracker(t *testing.T, policy UndoPolicy) (*Tracker, *memStore) {
	t.Helper()
	store := &memStore{}
	return New(store, Options{Now: fixedClock, UndoPolicy: policy}), store
}

func TestNewStartsFromDefaults(t *testing.T) {
	tr, _ := newTestTracker(t, "")

	assert.Equal(t, models.DefaultSplitID, tr.CurrentSplit().ID)
	assert.Equal(t, 0, tr.CurrentDayIndex())
	assert.Equal(t, "Push", tr.CurrentDay().Name)
	assert.Equal(t, UndoKeep, tr.UndoPolicy())
	assert.Contains(t, tr.Snapshot().LiftHistory, "bench_press")
}

func TestWorkoutsSkipMissingLifts(t *testing.T) {
	tr, _ := newTestTracker(t, "")

	workouts := tr.Workouts()
	require.Len(t, workouts, 2)
	assert.Equal(t, bench, workouts[0].ID)
	assert.Equal(t, shoulder, workouts[1].ID)
}

func TestAdvanceWrapsAround(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.MoveToDay(2))

	assert.Equal(t, "Push", tr.NextWorkoutDay().Name)
	assert.Equal(t, "Pull", tr.PreviousWorkoutDay().Name)

	require.NoError(t, tr.AdvanceToNextDay())
	assert.Equal(t, 0, tr.CurrentDayIndex())
}

func TestMoveToDayOutOfRangeIsNoop(t *testing.T) {
	tr, store := newTestTracker(t, "")

	require.NoError(t, tr.MoveToDay(3))
	require.NoError(t, tr.MoveToDay(-1))
	assert.Equal(t, 0, tr.CurrentDayIndex())
	assert.Equal(t, 0, store.saves)
}

func TestMoveToDayClearsTargetSets(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.CompleteSet(bench, 135, 8))
	require.NoError(t, tr.StartWorkout(bench))

	require.NoError(t, tr.MoveToDay(1))
	_, active := tr.ActiveWorkout()
	assert.False(t, active)
	assert.Empty(t, tr.CompletedWorkouts())

	require.NoError(t, tr.MoveToDay(0))
	assert.Empty(t, tr.SetsForWorkout(bench))
}

func TestSetActiveSplit(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.MoveToDay(1))
	require.NoError(t, tr.CompleteSet("push_pull_legs_1_0", 100, 10))
	require.NoError(t, tr.CompleteWorkout("push_pull_legs_1_0"))

	require.NoError(t, tr.SetActiveSplit("upper_lower"))
	assert.Equal(t, "upper_lower", tr.CurrentSplit().ID)
	assert.Equal(t, 0, tr.CurrentDayIndex())
	assert.Empty(t, tr.CompletedWorkouts())

	require.NoError(t, tr.SetActiveSplit("nope"))
	assert.Equal(t, "upper_lower", tr.CurrentSplit().ID)
}

func TestStartWorkout(t *testing.T) {
	tr, _ := newTestTracker(t, "")

	require.NoError(t, tr.StartWorkout("unknown_0_0"))
	_, ok := tr.ActiveWorkout()
	assert.False(t, ok)

	require.NoError(t, tr.StartWorkout(bench))
	w, ok := tr.ActiveWorkout()
	require.True(t, ok)
	assert.Equal(t, bench, w.ID)
	assert.Equal(t, StatusActive, tr.WorkoutStatus(bench))
	assert.Equal(t, StatusPending, tr.WorkoutStatus(shoulder))

	require.NoError(t, tr.StartWorkout(shoulder))
	w, _ = tr.ActiveWorkout()
	assert.Equal(t, shoulder, w.ID)
}

func TestCompleteSetRejectsNegatives(t *testing.T) {
	tr, store := newTestTracker(t, "")

	require.NoError(t, tr.CompleteSet(bench, -5, 8))
	require.NoError(t, tr.CompleteSet(bench, 135, -1))
	require.NoError(t, tr.CompleteSet("unknown_0_0", 135, 8))
	assert.Empty(t, tr.SetsForWorkout(bench))
	assert.Equal(t, 0, store.saves)
}

func TestEditAndRemoveSet(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.CompleteSet(bench, 135, 8))
	require.NoError(t, tr.CompleteSet(bench, 140, 6))

	require.NoError(t, tr.EditSet(bench, 1, 145, 5))
	require.NoError(t, tr.EditSet(bench, 5, 1, 1))
	assert.Equal(t, []models.Set{
		{Weight: 135, Reps: 8, Completed: true},
		{Weight: 145, Reps: 5, Completed: true},
	}, tr.SetsForWorkout(bench))

	require.NoError(t, tr.RemoveSet(bench, 7))
	assert.Len(t, tr.SetsForWorkout(bench), 2)

	require.NoError(t, tr.RemoveSet(bench, 0))
	require.NoError(t, tr.RemoveSet(bench, 0))
	assert.NotContains(t, tr.Snapshot().WorkoutState.WorkoutSets, bench)
}

func TestAddSetIsAdvisory(t *testing.T) {
	tr, store := newTestTracker(t, "")
	assert.Equal(t, models.DefaultSets, tr.TargetSets(bench))

	tr.AddSet(bench)
	tr.AddSet(bench)
	assert.Equal(t, models.DefaultSets+2, tr.TargetSets(bench))
	assert.Equal(t, 0, store.saves)

	require.NoError(t, tr.AdvanceToNextDay())
	require.NoError(t, tr.MoveToDay(0))
	assert.Equal(t, models.DefaultSets, tr.TargetSets(bench))
}

func TestCompleteWorkout(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.StartWorkout(bench))
	for range 3 {
		require.NoError(t, tr.CompleteSet(bench, 135, 8))
	}

	require.NoError(t, tr.CompleteWorkout(bench))

	history := tr.LiftHistory("bench_press")
	require.Len(t, history, 1)
	assert.Equal(t, "2024-05-10", history[0].Date)
	assert.Len(t, history[0].Sets, 3)
	assert.Equal(t, 135.0, tr.LastWeight("bench_press"))
	assert.Equal(t, []string{"2024-05-10"}, tr.WorkoutDays())
	assert.Equal(t, []string{bench}, tr.CompletedWorkouts())
	_, active := tr.ActiveWorkout()
	assert.False(t, active)
	assert.Len(t, tr.SetsForWorkout(bench), 3)
	assert.Equal(t, StatusCompleted, tr.WorkoutStatus(bench))

	require.NoError(t, tr.CompleteWorkout(bench))
	assert.Len(t, tr.LiftHistory("bench_press"), 2, "every completion appends a record")
	assert.Equal(t, []string{bench}, tr.CompletedWorkouts(), "completed ids stay unique")
}

func TestCompleteAfterUndoAppendsHistory(t *testing.T) {
	tr, _ := newTestTracker(t, UndoKeep)
	require.NoError(t, tr.CompleteSet(bench, 135, 8))
	require.NoError(t, tr.CompleteWorkout(bench))
	require.NoError(t, tr.UndoCompleteWorkout(bench))
	require.NoError(t, tr.CompleteSet(bench, 140, 6))
	require.NoError(t, tr.CompleteWorkout(bench))

	history := tr.LiftHistory("bench_press")
	require.Len(t, history, 2)
	assert.Len(t, history[0].Sets, 1)
	assert.Len(t, history[1].Sets, 2)
	assert.Equal(t, 140.0, tr.LastWeight("bench_press"))
	assert.Equal(t, []string{bench}, tr.CompletedWorkouts())
	assert.Equal(t, []string{"2024-05-10"}, tr.WorkoutDays())
}

func TestMoveToDayCleanSlateEverySplitDay(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	for _, split := range tr.Splits() {
		require.NoError(t, tr.SetActiveSplit(split.ID))
		for day := range split.Days {
			require.NoError(t, tr.MoveToDay(day))
			for _, w := range tr.Workouts() {
				require.NoError(t, tr.CompleteSet(w.ID, 50, 10))
			}
			workouts := tr.Workouts()
			if len(workouts) > 0 {
				require.NoError(t, tr.StartWorkout(workouts[0].ID))
			}
			if len(workouts) > 1 {
				require.NoError(t, tr.CompleteWorkout(workouts[1].ID))
			}

			require.NoError(t, tr.MoveToDay(day))
			_, active := tr.ActiveWorkout()
			assert.False(t, active, "%s day %d: active workout", split.ID, day)
			assert.Empty(t, tr.CompletedWorkouts(), "%s day %d: completed", split.ID, day)
			for _, w := range tr.Workouts() {
				assert.Empty(t, tr.SetsForWorkout(w.ID), "%s day %d: sets for %s", split.ID, day, w.ID)
			}
		}
	}
}

func TestCompleteWorkoutWithoutSetsUsesDefault(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	lift, ok := tr.Lift("shoulder_press")
	require.True(t, ok)

	require.NoError(t, tr.CompleteWorkout(shoulder))
	assert.Equal(t, lift.DefaultWeight, tr.LastWeight("shoulder_press"))

	history := tr.LiftHistory("shoulder_press")
	require.Len(t, history, 1)
	assert.Empty(t, history[0].Sets)
}

func TestCompleteWorkoutKeepsOtherActive(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.StartWorkout(shoulder))
	require.NoError(t, tr.CompleteWorkout(bench))

	w, ok := tr.ActiveWorkout()
	require.True(t, ok)
	assert.Equal(t, shoulder, w.ID)
}

func TestStartCompletedWorkoutIsNoop(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.CompleteWorkout(bench))
	require.NoError(t, tr.StartWorkout(bench))

	_, ok := tr.ActiveWorkout()
	assert.False(t, ok)
}

func TestUndoCompleteWorkoutKeep(t *testing.T) {
	tr, _ := newTestTracker(t, UndoKeep)
	require.NoError(t, tr.CompleteSet(bench, 145, 5))
	require.NoError(t, tr.CompleteWorkout(bench))

	require.NoError(t, tr.UndoCompleteWorkout(bench))
	assert.Empty(t, tr.CompletedWorkouts())
	w, ok := tr.ActiveWorkout()
	require.True(t, ok)
	assert.Equal(t, bench, w.ID)
	assert.Len(t, tr.LiftHistory("bench_press"), 1)
	assert.Equal(t, 145.0, tr.LastWeight("bench_press"))
	assert.Equal(t, []string{"2024-05-10"}, tr.WorkoutDays())

	require.NoError(t, tr.UndoCompleteWorkout(bench))
	assert.Equal(t, StatusActive, tr.WorkoutStatus(bench))
}

func TestUndoCompleteWorkoutRetract(t *testing.T) {
	tr, _ := newTestTracker(t, UndoRetract)
	require.NoError(t, tr.CompleteSet(bench, 145, 5))
	require.NoError(t, tr.CompleteWorkout(bench))

	require.NoError(t, tr.UndoCompleteWorkout(bench))
	assert.Equal(t, StatusActive, tr.WorkoutStatus(bench))
	assert.Empty(t, tr.LiftHistory("bench_press"))
	assert.Empty(t, tr.WorkoutDays())
	lift, _ := tr.Lift("bench_press")
	assert.Equal(t, lift.DefaultWeight, tr.LastWeight("bench_press"))
	assert.Len(t, tr.SetsForWorkout(bench), 1)
}

func TestUndoRetractKeepsSharedWorkoutDay(t *testing.T) {
	tr, _ := newTestTracker(t, UndoRetract)
	require.NoError(t, tr.CompleteWorkout(bench))
	require.NoError(t, tr.CompleteWorkout(shoulder))

	require.NoError(t, tr.UndoCompleteWorkout(bench))
	assert.Equal(t, []string{"2024-05-10"}, tr.WorkoutDays())
	assert.Len(t, tr.LiftHistory("shoulder_press"), 1)
}

func TestUndoRetractRestoresPreviousWeight(t *testing.T) {
	tr, _ := newTestTracker(t, UndoRetract)
	require.NoError(t, tr.CompleteSet(bench, 135, 8))
	require.NoError(t, tr.CompleteWorkout(bench))
	require.NoError(t, tr.CompleteCurrentDay())
	require.NoError(t, tr.MoveToDay(0))

	require.NoError(t, tr.CompleteSet(bench, 150, 3))
	require.NoError(t, tr.CompleteWorkout(bench))
	assert.Equal(t, 150.0, tr.LastWeight("bench_press"))

	require.NoError(t, tr.UndoCompleteWorkout(bench))
	assert.Equal(t, 135.0, tr.LastWeight("bench_press"))
	history := tr.LiftHistory("bench_press")
	require.Len(t, history, 1)
	assert.Equal(t, 135.0, history[0].Sets[0].Weight)
}

func TestCompleteCurrentDay(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.CompleteWorkout(bench))

	require.NoError(t, tr.CompleteCurrentDay())
	assert.Equal(t, 1, tr.CurrentDayIndex())
	assert.Empty(t, tr.CompletedWorkouts())
	assert.Equal(t, []string{"2024-05-10"}, tr.WorkoutDays())
	assert.Equal(t, DayCompleted, tr.DayStatus(models.DefaultSplitID, 0))
	assert.Equal(t, DayActive, tr.DayStatus(models.DefaultSplitID, 1))
	assert.Equal(t, DayPending, tr.DayStatus(models.DefaultSplitID, 2))
	assert.Equal(t, DayPending, tr.DayStatus("upper_lower", 0))
}

func TestUndoCompleteCurrentDay(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.CompleteSet(bench, 135, 8))
	require.NoError(t, tr.CompleteWorkout(bench))
	require.NoError(t, tr.StartWorkout(shoulder))

	require.NoError(t, tr.UndoCompleteCurrentDay())
	assert.Equal(t, 0, tr.CurrentDayIndex())
	assert.Empty(t, tr.CompletedWorkouts())
	_, active := tr.ActiveWorkout()
	assert.False(t, active)
	assert.Empty(t, tr.SetsForWorkout(bench))
	assert.Len(t, tr.LiftHistory("bench_press"), 1)
}

func TestSaveFailureKeepsStateAndReportsError(t *testing.T) {
	tr, store := newTestTracker(t, "")
	store.err = errors.New("disk full")

	err := tr.CompleteSet(bench, 135, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.err)
	assert.Len(t, tr.SetsForWorkout(bench), 1)
}

func TestSubscribe(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	var seen []int
	cancel := tr.Subscribe(func(d models.UserData) {
		seen = append(seen, d.WorkoutState.CurrentDayIndex)
	})

	require.NoError(t, tr.AdvanceToNextDay())
	require.NoError(t, tr.MoveToDay(9))
	cancel()
	require.NoError(t, tr.AdvanceToNextDay())

	assert.Equal(t, []int{1}, seen)
}

func TestSuggestedWeight(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	lift, _ := tr.Lift("bench_press")
	assert.Equal(t, lift.DefaultWeight, tr.SuggestedWeight(bench))

	require.NoError(t, tr.CompleteSet(bench, 155, 5))
	assert.Equal(t, 155.0, tr.SuggestedWeight(bench))
}

func TestReplaceNormalizesState(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	data := models.NewUserData()
	data.WorkoutState.CurrentDayIndex = 40
	active := "push_pull_legs_9_9"
	data.WorkoutState.ActiveWorkoutID = &active

	require.NoError(t, tr.Replace(data))
	assert.Equal(t, 2, tr.CurrentDayIndex())
	_, ok := tr.ActiveWorkout()
	assert.False(t, ok)
}

func TestPersistsThroughSQLite(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "repquest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := storage.NewStore(db, nil)

	tr := New(store, Options{Now: fixedClock})
	require.NoError(t, tr.CompleteSet(bench, 135, 8))
	require.NoError(t, tr.CompleteWorkout(bench))
	require.NoError(t, tr.CompleteCurrentDay())

	reloaded := New(store, Options{Now: fixedClock})
	assert.Equal(t, 1, reloaded.CurrentDayIndex())
	assert.Len(t, reloaded.LiftHistory("bench_press"), 1)
	assert.Equal(t, 135.0, reloaded.LastWeight("bench_press"))
}

type fakeFetcher struct {
	lifts []models.RemoteLift
	err   error
}

func (f fakeFetcher) FetchLifts(context.Context) ([]models.RemoteLift, error) {
	return f.lifts, f.err
}

func TestRefreshCatalogOnline(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	weight := 20.0
	online, err := tr.RefreshCatalog(context.Background(), fakeFetcher{lifts: []models.RemoteLift{
		{ID: []byte("7"), Name: "Farmer Carry", DefaultWeight: &weight},
		{ID: []byte("8"), Name: "bench PRESS"},
	}})
	require.NoError(t, err)
	assert.True(t, online)

	lift, ok := tr.Lift("api_lift_7")
	require.True(t, ok)
	assert.Equal(t, 20.0, lift.DefaultWeight)
	assert.Contains(t, tr.Snapshot().LiftHistory, "api_lift_7")
	assert.Len(t, tr.Lifts(), len(models.DefaultLifts())+1)
}

func TestRefreshCatalogOfflineSelfHeals(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	data := tr.Snapshot()
	data.Lifts = data.Lifts[:3]
	require.NoError(t, tr.Replace(data))

	online, err := tr.RefreshCatalog(context.Background(), fakeFetcher{err: errors.New("offline")})
	require.NoError(t, err)
	assert.False(t, online)
	assert.Len(t, tr.Lifts(), len(models.DefaultLifts()))

	online, err = tr.RefreshCatalog(context.Background(), fakeFetcher{})
	require.NoError(t, err)
	assert.False(t, online)
}

func TestParseUndoPolicy(t *testing.T) {
	p, err := ParseUndoPolicy("")
	require.NoError(t, err)
	assert.Equal(t, UndoKeep, p)

	p, err = ParseUndoPolicy("retract")
	require.NoError(t, err)
	assert.Equal(t, UndoRetract, p)

	_, err = ParseUndoPolicy("rewind")
	assert.Error(t, err)
}
