// ABOUTME: Split and day navigation commands.
// ABOUTME: Changing days resets the per-day lifecycle and clears the target day's sets.
package tracker

import (
	"github.com/harperreed/repquest/internal/models"
)

// SetActiveSplit switches to splitID at day 0. Unknown ids are ignored.
// Logged sets are left in place.
func (t *Tracker) SetActiveSplit(splitID string) error {
	return t.mutate("set active split", func(d *models.UserData) bool {
		if models.FindSplit(d.Splits, splitID) == nil {
			t.logger.Warn("unknown split", "split", splitID)
			return false
		}
		ws := &d.WorkoutState
		ws.CurrentSplitID = splitID
		ws.CurrentDayIndex = 0
		clearDayState(ws)
		t.resetExtraSets()
		return true
	})
}

// MoveToDay jumps to dayIndex in the current split. Out-of-range indexes are ignored.
func (t *Tracker) MoveToDay(dayIndex int) error {
	return t.mutate("move to day", func(d *models.UserData) bool {
		n := dayCount(d)
		if dayIndex < 0 || dayIndex >= n {
			t.logger.Warn("day out of range", "day", dayIndex, "days", n)
			return false
		}
		t.enterDay(d, dayIndex)
		return true
	})
}

// AdvanceToNextDay moves to the next day, wrapping to the first.
func (t *Tracker) AdvanceToNextDay() error {
	return t.mutate("advance day", func(d *models.UserData) bool {
		n := dayCount(d)
		if n == 0 {
			return false
		}
		t.enterDay(d, (d.WorkoutState.CurrentDayIndex+1)%n)
		return true
	})
}

// enterDay makes dayIndex current with a clean slate.
func (t *Tracker) enterDay(d *models.UserData, dayIndex int) {
	ws := &d.WorkoutState
	ws.CurrentDayIndex = dayIndex
	clearDaySets(d, dayIndex)
	clearDayState(ws)
	t.resetExtraSets()
}

// clearDaySets drops logged sets for every position of a day in the current split.
func clearDaySets(d *models.UserData, dayIndex int) {
	day := dayAt(d, dayIndex)
	if day == nil {
		return
	}
	for i := range day.Lifts {
		delete(d.WorkoutState.WorkoutSets, models.WorkoutID(d.WorkoutState.CurrentSplitID, dayIndex, i))
	}
}

func (t *Tracker) resetExtraSets() {
	t.extraSets = make(map[string]int)
}
