// ABOUTME: Workout session commands: start, log sets, complete, and undo.
// ABOUTME: Completing a workout appends to lift history and records an undo receipt.
package tracker

import (
	"slices"

	"github.com/harperreed/repquest/internal/models"
)

// StartWorkout marks a pending slot of the current day as active.
func (t *Tracker) StartWorkout(id string) error {
	return t.mutate("start workout", func(d *models.UserData) bool {
		ws := &d.WorkoutState
		if _, ok := findWorkout(d, id); !ok {
			t.logger.Warn("unknown workout", "workout", id)
			return false
		}
		if ws.IsCompleted(id) || ws.IsActive(id) {
			return false
		}
		ws.ActiveWorkoutID = &id
		return true
	})
}

// CompleteSet appends a completed set to a slot of the current day.
// Negative weight or reps are ignored.
func (t *Tracker) CompleteSet(id string, weight float64, reps int) error {
	if weight < 0 || reps < 0 {
		t.logger.Warn("invalid set", "workout", id, "weight", weight, "reps", reps)
		return nil
	}
	return t.mutate("complete set", func(d *models.UserData) bool {
		if _, ok := findWorkout(d, id); !ok {
			t.logger.Warn("unknown workout", "workout", id)
			return false
		}
		ws := &d.WorkoutState
		ws.WorkoutSets[id] = append(ws.WorkoutSets[id], models.Set{Weight: weight, Reps: reps, Completed: true})
		return true
	})
}

// EditSet replaces the set at index. Out-of-range indexes and negative
// values are ignored.
func (t *Tracker) EditSet(id string, index int, weight float64, reps int) error {
	if weight < 0 || reps < 0 {
		t.logger.Warn("invalid set", "workout", id, "weight", weight, "reps", reps)
		return nil
	}
	return t.mutate("edit set", func(d *models.UserData) bool {
		sets := d.WorkoutState.WorkoutSets[id]
		if index < 0 || index >= len(sets) {
			return false
		}
		sets[index] = models.Set{Weight: weight, Reps: reps, Completed: true}
		return true
	})
}

// RemoveSet deletes the set at index. Out-of-range indexes are ignored.
func (t *Tracker) RemoveSet(id string, index int) error {
	return t.mutate("remove set", func(d *models.UserData) bool {
		ws := &d.WorkoutState
		sets := ws.WorkoutSets[id]
		if index < 0 || index >= len(sets) {
			return false
		}
		sets = slices.Delete(sets, index, index+1)
		if len(sets) == 0 {
			delete(ws.WorkoutSets, id)
		} else {
			ws.WorkoutSets[id] = sets
		}
		return true
	})
}

// AddSet raises a slot's target set count by one. It changes nothing that
// is persisted, so subscribers are not notified.
func (t *Tracker) AddSet(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := findWorkout(t.data, id); !ok {
		return
	}
	t.extraSets[id]++
}

// CompleteWorkout moves a slot to completed. Its logged sets become a history
// record dated today, today joins the workout days, and the lift's last
// weight becomes the final set's weight (or the slot default with no sets).
// Every call appends a record, even for a slot that is already completed;
// callers that want one record per slot check WorkoutStatus first.
func (t *Tracker) CompleteWorkout(id string) error {
	return t.mutate("complete workout", func(d *models.UserData) bool {
		w, ok := findWorkout(d, id)
		if !ok {
			t.logger.Warn("unknown workout", "workout", id)
			return false
		}
		ws := &d.WorkoutState

		today := t.today()
		sets := slices.Clone(ws.WorkoutSets[id])
		d.LiftHistory[w.LiftID] = append(d.LiftHistory[w.LiftID], models.LiftHistoryRecord{Date: today, Sets: sets})

		receipt := models.Completion{
			LiftID:       w.LiftID,
			Date:         today,
			HistoryIndex: len(d.LiftHistory[w.LiftID]) - 1,
		}
		if prev, ok := ws.LastWeights[w.LiftID]; ok {
			receipt.PrevLastWeight = &prev
		}
		if !slices.Contains(ws.WorkoutDays, today) {
			ws.WorkoutDays = append(ws.WorkoutDays, today)
			receipt.AddedDay = true
		}

		weight := w.DefaultWeight
		if len(sets) > 0 {
			weight = sets[len(sets)-1].Weight
		}
		ws.LastWeights[w.LiftID] = weight

		if ws.IsActive(id) {
			ws.ActiveWorkoutID = nil
		}
		if !ws.IsCompleted(id) {
			ws.CompletedWorkoutIDs = append(ws.CompletedWorkoutIDs, id)
		}
		if ws.Completions == nil {
			ws.Completions = make(map[string]models.Completion)
		}
		ws.Completions[id] = receipt

		t.logger.Info("workout completed", "workout", id, "lift", w.LiftID, "sets", len(sets), "weight", weight)
		return true
	})
}

// UndoCompleteWorkout moves a completed slot back to active. Under UndoRetract
// the history record, last weight, and workout day it added are rolled back too.
func (t *Tracker) UndoCompleteWorkout(id string) error {
	return t.mutate("undo complete workout", func(d *models.UserData) bool {
		ws := &d.WorkoutState
		if !ws.IsCompleted(id) {
			return false
		}
		ws.CompletedWorkoutIDs = slices.DeleteFunc(ws.CompletedWorkoutIDs, func(c string) bool { return c == id })
		ws.ActiveWorkoutID = &id

		receipt, ok := ws.Completions[id]
		delete(ws.Completions, id)
		if ok && t.undo == UndoRetract {
			retract(d, id, receipt)
		}
		return true
	})
}

// retract rolls back what CompleteWorkout recorded in receipt.
func retract(d *models.UserData, id string, receipt models.Completion) {
	ws := &d.WorkoutState
	records := d.LiftHistory[receipt.LiftID]
	i := receipt.HistoryIndex
	if i >= 0 && i < len(records) && records[i].Date == receipt.Date {
		d.LiftHistory[receipt.LiftID] = slices.Delete(records, i, i+1)
		for otherID, c := range ws.Completions {
			if otherID != id && c.LiftID == receipt.LiftID && c.HistoryIndex > i {
				c.HistoryIndex--
				ws.Completions[otherID] = c
			}
		}
	}

	if receipt.PrevLastWeight != nil {
		ws.LastWeights[receipt.LiftID] = *receipt.PrevLastWeight
	} else {
		delete(ws.LastWeights, receipt.LiftID)
	}

	if receipt.AddedDay && !hasHistoryOn(d, receipt.Date) {
		ws.WorkoutDays = slices.DeleteFunc(ws.WorkoutDays, func(day string) bool { return day == receipt.Date })
	}
}

func hasHistoryOn(d *models.UserData, date string) bool {
	for _, records := range d.LiftHistory {
		for _, r := range records {
			if r.Date == date {
				return true
			}
		}
	}
	return false
}

// CompleteCurrentDay records today as a workout day and advances to the next day.
func (t *Tracker) CompleteCurrentDay() error {
	return t.mutate("complete day", func(d *models.UserData) bool {
		ws := &d.WorkoutState
		today := t.today()
		if !slices.Contains(ws.WorkoutDays, today) {
			ws.WorkoutDays = append(ws.WorkoutDays, today)
		}
		n := dayCount(d)
		if n == 0 {
			clearDayState(ws)
			return true
		}
		t.enterDay(d, (ws.CurrentDayIndex+1)%n)
		t.logger.Info("day completed", "next", ws.CurrentDayIndex)
		return true
	})
}

// UndoCompleteCurrentDay resets the current day: nothing active, nothing
// completed, and no logged sets. Lift history is left alone.
func (t *Tracker) UndoCompleteCurrentDay() error {
	return t.mutate("undo complete day", func(d *models.UserData) bool {
		if dayAt(d, d.WorkoutState.CurrentDayIndex) == nil {
			return false
		}
		clearDaySets(d, d.WorkoutState.CurrentDayIndex)
		clearDayState(&d.WorkoutState)
		t.resetExtraSets()
		return true
	})
}
