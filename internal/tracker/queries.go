// ABOUTME: Read-only views over the tracker state.
// ABOUTME: Every getter returns copies so callers cannot mutate live state.
package tracker

import (
	"slices"

	"github.com/harperreed/repquest/internal/models"
)

// WorkoutStatus is the lifecycle state of one workout slot.
type WorkoutStatus string

const (
	StatusPending   WorkoutStatus = "pending"
	StatusActive    WorkoutStatus = "active"
	StatusCompleted WorkoutStatus = "completed"
)

// DayStatus is the display status of a day within a split.
type DayStatus string

const (
	DayPending   DayStatus = "pending"
	DayActive    DayStatus = "active"
	DayCompleted DayStatus = "completed"
)

// CurrentSplit returns the split being followed, or nil if there are none.
func (t *Tracker) CurrentSplit() *models.Split {
	var out *models.Split
	t.read(func(d *models.UserData) {
		if s := models.FindSplit(d.Splits, d.WorkoutState.CurrentSplitID); s != nil {
			cp := cloneSplit(*s)
			out = &cp
		}
	})
	return out
}

// CurrentDayIndex returns the position within the current split.
func (t *Tracker) CurrentDayIndex() int {
	var idx int
	t.read(func(d *models.UserData) { idx = d.WorkoutState.CurrentDayIndex })
	return idx
}

// CurrentDay returns the current day, or nil if the split has no days.
func (t *Tracker) CurrentDay() *models.Day {
	var out *models.Day
	t.read(func(d *models.UserData) {
		out = dayAt(d, d.WorkoutState.CurrentDayIndex)
	})
	return out
}

// NextWorkoutDay returns the day after the current one, wrapping to the first.
func (t *Tracker) NextWorkoutDay() *models.Day {
	var out *models.Day
	t.read(func(d *models.UserData) {
		n := dayCount(d)
		if n == 0 {
			return
		}
		out = dayAt(d, (d.WorkoutState.CurrentDayIndex+1)%n)
	})
	return out
}

// PreviousWorkoutDay returns the day before the current one, wrapping to the last.
func (t *Tracker) PreviousWorkoutDay() *models.Day {
	var out *models.Day
	t.read(func(d *models.UserData) {
		n := dayCount(d)
		if n == 0 {
			return
		}
		out = dayAt(d, (d.WorkoutState.CurrentDayIndex-1+n)%n)
	})
	return out
}

// Workouts derives the current day's workout slots.
func (t *Tracker) Workouts() []models.Workout {
	var out []models.Workout
	t.read(func(d *models.UserData) { out = currentWorkouts(d) })
	return out
}

// Workout looks up a slot of the current day by id.
func (t *Tracker) Workout(id string) (models.Workout, bool) {
	var (
		w  models.Workout
		ok bool
	)
	t.read(func(d *models.UserData) { w, ok = findWorkout(d, id) })
	return w, ok
}

// ActiveWorkout returns the in-progress slot, if any.
func (t *Tracker) ActiveWorkout() (models.Workout, bool) {
	var (
		w  models.Workout
		ok bool
	)
	t.read(func(d *models.UserData) {
		if id := d.WorkoutState.ActiveWorkoutID; id != nil {
			w, ok = findWorkout(d, *id)
		}
	})
	return w, ok
}

// CompletedWorkouts returns completed slot ids in completion order.
func (t *Tracker) CompletedWorkouts() []string {
	var out []string
	t.read(func(d *models.UserData) { out = slices.Clone(d.WorkoutState.CompletedWorkoutIDs) })
	return out
}

// WorkoutStatus reports pending, active, or completed for a slot id.
func (t *Tracker) WorkoutStatus(id string) WorkoutStatus {
	var st WorkoutStatus
	t.read(func(d *models.UserData) { st = workoutStatus(&d.WorkoutState, id) })
	return st
}

// SetsForWorkout returns the sets logged against a slot.
func (t *Tracker) SetsForWorkout(id string) []models.Set {
	var out []models.Set
	t.read(func(d *models.UserData) { out = slices.Clone(d.WorkoutState.WorkoutSets[id]) })
	return out
}

// TargetSets is the slot's default set count plus sets added with AddSet.
func (t *Tracker) TargetSets(id string) int {
	var n int
	t.read(func(d *models.UserData) {
		if w, ok := findWorkout(d, id); ok {
			n = w.DefaultSets + t.extraSets[id]
		}
	})
	return n
}

// LastWeight is the last completed weight for a lift, else its default, else 0.
func (t *Tracker) LastWeight(liftID string) float64 {
	var w float64
	t.read(func(d *models.UserData) { w = lastWeight(d, liftID) })
	return w
}

// SuggestedWeight is the weight to prefill for the next set of a slot:
// the slot's latest logged weight, else the lift's last weight.
func (t *Tracker) SuggestedWeight(id string) float64 {
	var w float64
	t.read(func(d *models.UserData) {
		if sets := d.WorkoutState.WorkoutSets[id]; len(sets) > 0 {
			w = sets[len(sets)-1].Weight
			return
		}
		if wk, ok := findWorkout(d, id); ok {
			w = lastWeight(d, wk.LiftID)
		}
	})
	return w
}

// LiftHistory returns the completion log for a lift.
func (t *Tracker) LiftHistory(liftID string) []models.LiftHistoryRecord {
	var out []models.LiftHistoryRecord
	t.read(func(d *models.UserData) {
		for _, r := range d.LiftHistory[liftID] {
			out = append(out, models.LiftHistoryRecord{Date: r.Date, Sets: slices.Clone(r.Sets)})
		}
	})
	return out
}

// WorkoutDays returns the dates with at least one completion.
func (t *Tracker) WorkoutDays() []string {
	var out []string
	t.read(func(d *models.UserData) { out = slices.Clone(d.WorkoutState.WorkoutDays) })
	return out
}

// Lifts returns the lift catalog.
func (t *Tracker) Lifts() []models.Lift {
	return t.Snapshot().Lifts
}

// Lift looks up a catalog lift.
func (t *Tracker) Lift(id string) (models.Lift, bool) {
	var (
		l  models.Lift
		ok bool
	)
	t.read(func(d *models.UserData) { l, ok = models.FindLift(d.Lifts, id) })
	return l, ok
}

// Splits returns all splits.
func (t *Tracker) Splits() []models.Split {
	return t.Snapshot().Splits
}

// DayStatus reports a day's status. Only the current split has an active
// day; days before it in that split count as completed.
func (t *Tracker) DayStatus(splitID string, dayIndex int) DayStatus {
	var st DayStatus
	t.read(func(d *models.UserData) {
		ws := d.WorkoutState
		switch {
		case splitID != ws.CurrentSplitID:
			st = DayPending
		case dayIndex == ws.CurrentDayIndex:
			st = DayActive
		case dayIndex >= 0 && dayIndex < ws.CurrentDayIndex:
			st = DayCompleted
		default:
			st = DayPending
		}
	})
	return st
}

func cloneSplit(s models.Split) models.Split {
	days := make([]models.Day, len(s.Days))
	for i, day := range s.Days {
		days[i] = models.Day{Name: day.Name, Lifts: slices.Clone(day.Lifts)}
	}
	return models.Split{ID: s.ID, Name: s.Name, Days: days}
}

func dayCount(d *models.UserData) int {
	if s := models.FindSplit(d.Splits, d.WorkoutState.CurrentSplitID); s != nil {
		return len(s.Days)
	}
	return 0
}

func dayAt(d *models.UserData, idx int) *models.Day {
	s := models.FindSplit(d.Splits, d.WorkoutState.CurrentSplitID)
	if s == nil || idx < 0 || idx >= len(s.Days) {
		return nil
	}
	day := s.Days[idx]
	return &models.Day{Name: day.Name, Lifts: slices.Clone(day.Lifts)}
}

func workoutsForDay(d *models.UserData, idx int) []models.Workout {
	return models.GenerateWorkouts(models.FindSplit(d.Splits, d.WorkoutState.CurrentSplitID), idx, d.Lifts)
}

func currentWorkouts(d *models.UserData) []models.Workout {
	return workoutsForDay(d, d.WorkoutState.CurrentDayIndex)
}

func findWorkout(d *models.UserData, id string) (models.Workout, bool) {
	for _, w := range currentWorkouts(d) {
		if w.ID == id {
			return w, true
		}
	}
	return models.Workout{}, false
}

func workoutStatus(ws *models.WorkoutState, id string) WorkoutStatus {
	switch {
	case ws.IsCompleted(id):
		return StatusCompleted
	case ws.IsActive(id):
		return StatusActive
	default:
		return StatusPending
	}
}

func lastWeight(d *models.UserData, liftID string) float64 {
	if w, ok := d.WorkoutState.LastWeights[liftID]; ok {
		return w
	}
	if l, ok := models.FindLift(d.Lifts, liftID); ok {
		return l.DefaultWeight
	}
	return 0
}
