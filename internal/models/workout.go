// ABOUTME: Splits, days, and the per-day Workout slots derived from them.
// ABOUTME: Workouts are recomputed from (split, day, catalog) and never stored.
package models

import "fmt"

const (
	// DefaultSets is the prescribed number of sets per workout slot.
	DefaultSets = 3
	// DefaultRepRange is the display rep range for every workout slot.
	DefaultRepRange = "8-12 reps"
)

// Split is a named rotation of training days.
type Split struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Days []Day  `json:"days"`
}

// Day is one training day in a split, listing lift ids in order.
type Day struct {
	Name  string   `json:"name"`
	Lifts []string `json:"lifts"`
}

// Workout is one prescribed lift slot within the current day.
type Workout struct {
	ID              string  `json:"id"`
	LiftID          string  `json:"liftId"`
	Name            string  `json:"name"`
	DefaultWeight   float64 `json:"defaultWeight"`
	DefaultSets     int     `json:"defaultSets"`
	DefaultReps     int     `json:"defaultReps"`
	RepRange        string  `json:"repRange"`
	WeightIncrement float64 `json:"weightIncrement"`
	Order           int     `json:"order"`
	Icon            string  `json:"icon,omitempty"`
}

// WorkoutID builds the slot id for a lift position within a split day.
func WorkoutID(splitID string, dayIndex, position int) string {
	return fmt.Sprintf("%s_%d_%d", splitID, dayIndex, position)
}

// GenerateWorkouts derives the workout slots for a split day.
// Lift ids missing from the catalog are skipped but still consume their position.
func GenerateWorkouts(split *Split, dayIndex int, lifts []Lift) []Workout {
	if split == nil || dayIndex < 0 || dayIndex >= len(split.Days) {
		return nil
	}

	byID := make(map[string]Lift, len(lifts))
	for _, l := range lifts {
		byID[l.ID] = l
	}

	day := split.Days[dayIndex]
	workouts := make([]Workout, 0, len(day.Lifts))
	for i, liftID := range day.Lifts {
		lift, ok := byID[liftID]
		if !ok {
			continue
		}
		workouts = append(workouts, Workout{
			ID:              WorkoutID(split.ID, dayIndex, i),
			LiftID:          lift.ID,
			Name:            lift.Name,
			DefaultWeight:   lift.DefaultWeight,
			DefaultSets:     DefaultSets,
			DefaultReps:     lift.Reps(),
			RepRange:        DefaultRepRange,
			WeightIncrement: lift.WeightIncrement,
			Order:           i,
			Icon:            lift.Icon,
		})
	}
	return workouts
}

// FindSplit returns a pointer into splits for the given id, or nil.
func FindSplit(splits []Split, id string) *Split {
	for i := range splits {
		if splits[i].ID == id {
			return &splits[i]
		}
	}
	return nil
}

// DefaultSplitID is the split selected on first run.
const DefaultSplitID = "push_pull_legs"

// DefaultSplits returns a fresh copy of the built-in splits.
func DefaultSplits() []Split {
	return []Split{
		{
			ID:   "push_pull_legs",
			Name: "Push Pull Legs",
			Days: []Day{
				{Name: "Push", Lifts: []string{"bench_press", "shoulder_press", "tricep_pushdown"}},
				{Name: "Pull", Lifts: []string{"lat_pulldown", "cable_row", "bicep_curl"}},
				{Name: "Legs", Lifts: []string{"squat", "hamstring_curl", "calf_raise_standing"}},
			},
		},
		{
			ID:   "upper_lower",
			Name: "Upper Lower",
			Days: []Day{
				{Name: "Upper", Lifts: []string{"bench_press", "lat_pulldown", "shoulder_press", "cable_row", "tricep_pushdown", "bicep_curl"}},
				{Name: "Lower", Lifts: []string{"squat", "rdl", "leg_extension", "hamstring_curl", "calf_raise_standing", "calf_raise_seated"}},
			},
		},
		{
			ID:   "full_body",
			Name: "Full Body",
			Days: []Day{
				{Name: "Full Body", Lifts: []string{"bench_press", "squat", "lat_pulldown", "leg_press", "shoulder_press", "bicep_curl", "tricep_pushdown", "calf_raise_standing"}},
			},
		},
	}
}
