// ABOUTME: Composite read models for the CLI and MCP surfaces.
// ABOUTME: TodayView bundles the current day; Progress summarizes lift history.
package tracker

import (
	"slices"
	"strconv"
	"strings"

	"github.com/harperreed/repquest/internal/models"
	"github.com/harperreed/repquest/internal/progress"
)

// SlotView is one workout slot with its derived status and logged sets.
type SlotView struct {
	Workout         models.Workout `json:"workout"`
	Status          WorkoutStatus  `json:"status"`
	Sets            []models.Set   `json:"sets"`
	TargetSets      int            `json:"targetSets"`
	SuggestedWeight float64        `json:"suggestedWeight"`
}

// TodayView is the current position in the split and its slots.
type TodayView struct {
	Date      string     `json:"date"`
	SplitID   string     `json:"splitId"`
	SplitName string     `json:"splitName"`
	DayIndex  int        `json:"dayIndex"`
	DayCount  int        `json:"dayCount"`
	DayName   string     `json:"dayName"`
	NextDay   string     `json:"nextDay,omitempty"`
	Slots     []SlotView `json:"slots"`
}

// Today builds the view of the current day.
func (t *Tracker) Today() TodayView {
	t.mu.Lock()
	defer t.mu.Unlock()
	d := t.data
	ws := &d.WorkoutState

	v := TodayView{
		Date:     t.today(),
		SplitID:  ws.CurrentSplitID,
		DayIndex: ws.CurrentDayIndex,
		Slots:    []SlotView{},
	}
	if s := models.FindSplit(d.Splits, ws.CurrentSplitID); s != nil {
		v.SplitName = s.Name
		v.DayCount = len(s.Days)
	}
	if day := dayAt(d, ws.CurrentDayIndex); day != nil {
		v.DayName = day.Name
	}
	if v.DayCount > 0 {
		if next := dayAt(d, (ws.CurrentDayIndex+1)%v.DayCount); next != nil {
			v.NextDay = next.Name
		}
	}

	for _, w := range currentWorkouts(d) {
		sets := slices.Clone(ws.WorkoutSets[w.ID])
		if sets == nil {
			sets = []models.Set{}
		}
		suggested := lastWeight(d, w.LiftID)
		if len(sets) > 0 {
			suggested = sets[len(sets)-1].Weight
		}
		v.Slots = append(v.Slots, SlotView{
			Workout:         w,
			Status:          workoutStatus(ws, w.ID),
			Sets:            sets,
			TargetSets:      w.DefaultSets + t.extraSets[w.ID],
			SuggestedWeight: suggested,
		})
	}
	return v
}

// ResolveWorkout finds a current-day slot by workout id, lift id, lift name,
// or 1-based position.
func (t *Tracker) ResolveWorkout(ref string) (models.Workout, bool) {
	ref = strings.TrimSpace(ref)
	workouts := t.Workouts()
	for _, w := range workouts {
		if w.ID == ref {
			return w, true
		}
	}
	for _, w := range workouts {
		if w.LiftID == ref || strings.EqualFold(w.Name, ref) {
			return w, true
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(workouts) {
		return workouts[n-1], true
	}
	return models.Workout{}, false
}

// Progress summarizes a lift's history as of the tracker's clock.
func (t *Tracker) Progress(liftID string) progress.Summary {
	return progress.Summarize(liftID, t.LiftHistory(liftID), t.now())
}

// Consistency returns the trained/untrained calendar for the last n days.
func (t *Tracker) Consistency(days int) []progress.CalendarDay {
	return progress.Consistency(t.WorkoutDays(), days, t.now())
}
