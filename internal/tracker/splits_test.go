// ABOUTME: Tests for split, day, and lift catalog editing.
// ABOUTME: Checks splicing, id synthesis, and day index clamping.
package tracker

import (
	"testing"

	"github.com/harperreed/repquest/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSplitSynthesizesUniqueID(t *testing.T) {
	tr, _ := newTestTracker(t, "")

	id, err := tr.CreateSplit(models.Split{Name: "Push Pull Legs"})
	require.NoError(t, err)
	assert.Equal(t, "push_pull_legs_2", id)

	id, err = tr.CreateSplit(models.Split{Name: "  Bro Split!  ", Days: []models.Day{{Name: "Chest", Lifts: []string{"bench_press"}}}})
	require.NoError(t, err)
	assert.Equal(t, "bro_split", id)

	id, err = tr.CreateSplit(models.Split{Name: "   "})
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Len(t, tr.Splits(), len(models.DefaultSplits())+2)
}

func TestUpdateAndDeleteSplit(t *testing.T) {
	tr, _ := newTestTracker(t, "")

	require.NoError(t, tr.UpdateSplit("upper_lower", "Upper/Lower"))
	require.NoError(t, tr.DeleteSplit(models.DefaultSplitID))
	require.NoError(t, tr.DeleteSplit("full_body"))

	splits := tr.Splits()
	require.Len(t, splits, 2)
	assert.Equal(t, "Upper/Lower", splits[1].Name)
}

func TestDayEditsClampCurrentDay(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.MoveToDay(2))

	require.NoError(t, tr.DeleteDay(models.DefaultSplitID, 2))
	assert.Equal(t, 1, tr.CurrentDayIndex())

	require.NoError(t, tr.AddDayToSplit(models.DefaultSplitID, models.Day{Name: "Arms", Lifts: []string{"bench_press"}}))
	require.NoError(t, tr.UpdateDay(models.DefaultSplitID, 2, models.Day{Name: "Arms+", Lifts: []string{"squat"}}))
	require.NoError(t, tr.UpdateDay(models.DefaultSplitID, 5, models.Day{Name: "nope"}))

	split := tr.CurrentSplit()
	require.Len(t, split.Days, 3)
	assert.Equal(t, "Arms+", split.Days[2].Name)
	assert.Equal(t, []string{"squat"}, split.Days[2].Lifts)
}

func TestAddAndRemoveLiftFromDay(t *testing.T) {
	tr, _ := newTestTracker(t, "")

	require.NoError(t, tr.AddLiftToDay(models.DefaultSplitID, 0, "squat"))
	require.NoError(t, tr.AddLiftToDay(models.DefaultSplitID, 0, "squat"))
	require.NoError(t, tr.AddLiftToDay(models.DefaultSplitID, 0, "not_a_lift"))
	assert.Len(t, tr.Workouts(), 4)

	require.NoError(t, tr.RemoveLiftFromDay(models.DefaultSplitID, 0, "squat"))
	assert.Len(t, tr.Workouts(), 2)
}

func TestRemovingLiftDropsActiveWorkout(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	require.NoError(t, tr.StartWorkout(shoulder))

	require.NoError(t, tr.RemoveLiftFromDay(models.DefaultSplitID, 0, "shoulder_press"))
	_, ok := tr.ActiveWorkout()
	assert.False(t, ok)
}

func TestUpdateLiftSettings(t *testing.T) {
	tr, _ := newTestTracker(t, "")
	weight := 95.0
	reps := 12

	lift, found, err := tr.UpdateLiftSettings("bench_press", models.LiftSettings{DefaultWeight: &weight, DefaultReps: &reps})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 95.0, lift.DefaultWeight)
	assert.Equal(t, 12, tr.Workouts()[0].DefaultReps)

	_, found, err = tr.UpdateLiftSettings("nope", models.LiftSettings{DefaultWeight: &weight})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateLift(t *testing.T) {
	tr, _ := newTestTracker(t, "")

	lift, err := tr.CreateLift("Zercher Squat", models.LiftSettings{})
	require.NoError(t, err)
	assert.Equal(t, "custom_zercher_squat", lift.ID)
	assert.Equal(t, models.DefaultWeightIncrement, lift.WeightIncrement)
	assert.Contains(t, tr.Snapshot().LiftHistory, lift.ID)

	again, err := tr.CreateLift("zercher squat", models.LiftSettings{})
	require.NoError(t, err)
	assert.Equal(t, lift.ID, again.ID)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "push_pull_legs", slug("Push Pull Legs"))
	assert.Equal(t, "a_b", slug("--a--b--"))
	assert.Equal(t, "", slug("!!!"))
}
