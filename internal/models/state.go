// ABOUTME: Persisted user data: catalog, splits, lift history, and workout state.
// ABOUTME: UserData.Clone gives commands an isolated copy to mutate before commit.
package models

import (
	"slices"
	"time"
)

// DateLayout is the calendar-day format used for history and workout days.
const DateLayout = "2006-01-02"

// LocalDate formats t as a local calendar day.
func LocalDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// Set is one logged set.
type Set struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// LiftHistoryRecord is one completed session of a lift.
type LiftHistoryRecord struct {
	Date string `json:"date"`
	Sets []Set  `json:"sets"`
}

// Completion remembers what CompleteWorkout changed so it can be retracted.
type Completion struct {
	LiftID         string   `json:"liftId"`
	Date           string   `json:"date"`
	HistoryIndex   int      `json:"historyIndex"`
	PrevLastWeight *float64 `json:"prevLastWeight,omitempty"`
	AddedDay       bool     `json:"addedDay"`
}

// WorkoutState is the in-progress position and per-slot set log.
type WorkoutState struct {
	CurrentSplitID      string                `json:"currentSplitId"`
	CurrentDayIndex     int                   `json:"currentDayIndex"`
	ActiveWorkoutID     *string               `json:"activeWorkoutId"`
	CompletedWorkoutIDs []string              `json:"completedWorkoutIds"`
	WorkoutSets         map[string][]Set      `json:"workoutSets"`
	LastWeights         map[string]float64    `json:"lastWeights"`
	WorkoutDays         []string              `json:"workoutDays"`
	Completions         map[string]Completion `json:"completions,omitempty"`
}

// IsCompleted reports whether the workout id is in the completed list.
func (s *WorkoutState) IsCompleted(id string) bool {
	return slices.Contains(s.CompletedWorkoutIDs, id)
}

// IsActive reports whether the workout id is the active one.
func (s *WorkoutState) IsActive(id string) bool {
	return s.ActiveWorkoutID != nil && *s.ActiveWorkoutID == id
}

// UserData is the whole persisted snapshot.
type UserData struct {
	Lifts        []Lift                         `json:"lifts"`
	Splits       []Split                        `json:"splits"`
	LiftHistory  map[string][]LiftHistoryRecord `json:"liftHistory"`
	WorkoutState WorkoutState                   `json:"workoutState"`
}

// NewUserData returns the first-run defaults.
func NewUserData() *UserData {
	d := &UserData{
		Lifts:       DefaultLifts(),
		Splits:      DefaultSplits(),
		LiftHistory: make(map[string][]LiftHistoryRecord),
		WorkoutState: WorkoutState{
			CurrentSplitID:      DefaultSplitID,
			CurrentDayIndex:     0,
			CompletedWorkoutIDs: []string{},
			WorkoutSets:         make(map[string][]Set),
			LastWeights:         make(map[string]float64),
			WorkoutDays:         []string{},
		},
	}
	d.EnsureHistory()
	return d
}

// Normalize fills nil collections left by older or hand-edited snapshots.
func (d *UserData) Normalize() {
	if d.LiftHistory == nil {
		d.LiftHistory = make(map[string][]LiftHistoryRecord)
	}
	ws := &d.WorkoutState
	if ws.CompletedWorkoutIDs == nil {
		ws.CompletedWorkoutIDs = []string{}
	}
	if ws.WorkoutSets == nil {
		ws.WorkoutSets = make(map[string][]Set)
	}
	if ws.LastWeights == nil {
		ws.LastWeights = make(map[string]float64)
	}
	if ws.WorkoutDays == nil {
		ws.WorkoutDays = []string{}
	}
	d.EnsureHistory()
}

// EnsureHistory gives every catalog lift a (possibly empty) history entry.
func (d *UserData) EnsureHistory() {
	if d.LiftHistory == nil {
		d.LiftHistory = make(map[string][]LiftHistoryRecord)
	}
	for _, l := range d.Lifts {
		if _, ok := d.LiftHistory[l.ID]; !ok {
			d.LiftHistory[l.ID] = []LiftHistoryRecord{}
		}
	}
}

// Clone returns a deep copy.
func (d *UserData) Clone() *UserData {
	if d == nil {
		return nil
	}
	out := &UserData{
		Lifts:  make([]Lift, len(d.Lifts)),
		Splits: make([]Split, len(d.Splits)),
	}
	for i, l := range d.Lifts {
		if l.DefaultReps != nil {
			reps := *l.DefaultReps
			l.DefaultReps = &reps
		}
		out.Lifts[i] = l
	}
	for i, s := range d.Splits {
		days := make([]Day, len(s.Days))
		for j, day := range s.Days {
			days[j] = Day{Name: day.Name, Lifts: slices.Clone(day.Lifts)}
		}
		out.Splits[i] = Split{ID: s.ID, Name: s.Name, Days: days}
	}
	if d.LiftHistory != nil {
		out.LiftHistory = make(map[string][]LiftHistoryRecord, len(d.LiftHistory))
		for id, records := range d.LiftHistory {
			cp := make([]LiftHistoryRecord, len(records))
			for i, r := range records {
				cp[i] = LiftHistoryRecord{Date: r.Date, Sets: slices.Clone(r.Sets)}
			}
			out.LiftHistory[id] = cp
		}
	}

	ws := d.WorkoutState
	out.WorkoutState = WorkoutState{
		CurrentSplitID:      ws.CurrentSplitID,
		CurrentDayIndex:     ws.CurrentDayIndex,
		CompletedWorkoutIDs: slices.Clone(ws.CompletedWorkoutIDs),
		WorkoutDays:         slices.Clone(ws.WorkoutDays),
	}
	if ws.ActiveWorkoutID != nil {
		id := *ws.ActiveWorkoutID
		out.WorkoutState.ActiveWorkoutID = &id
	}
	if ws.WorkoutSets != nil {
		out.WorkoutState.WorkoutSets = make(map[string][]Set, len(ws.WorkoutSets))
		for id, sets := range ws.WorkoutSets {
			out.WorkoutState.WorkoutSets[id] = slices.Clone(sets)
		}
	}
	if ws.LastWeights != nil {
		out.WorkoutState.LastWeights = make(map[string]float64, len(ws.LastWeights))
		for id, w := range ws.LastWeights {
			out.WorkoutState.LastWeights[id] = w
		}
	}
	if ws.Completions != nil {
		out.WorkoutState.Completions = make(map[string]Completion, len(ws.Completions))
		for id, c := range ws.Completions {
			if c.PrevLastWeight != nil {
				w := *c.PrevLastWeight
				c.PrevLastWeight = &w
			}
			out.WorkoutState.Completions[id] = c
		}
	}
	return out
}
