// ABOUTME: Lift catalog entries, their editable settings, and the built-in defaults.
// ABOUTME: RemoteLift mirrors the server's /api/lifts payload before reconciliation.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultRepCount is the rep target used when a lift does not carry its own.
const DefaultRepCount = 8

// DefaultWeightIncrement is applied to remote lifts that omit an increment.
const DefaultWeightIncrement = 5.0

// Lift is a named exercise in the catalog.
type Lift struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DefaultWeight   float64 `json:"defaultWeight"`
	WeightIncrement float64 `json:"weightIncrement"`
	Icon            string  `json:"icon,omitempty"`
	DefaultReps     *int    `json:"defaultReps,omitempty"`
}

// Reps returns the lift's rep target, falling back to DefaultRepCount.
func (l Lift) Reps() int {
	if l.DefaultReps != nil && *l.DefaultReps > 0 {
		return *l.DefaultReps
	}
	return DefaultRepCount
}

// LiftSettings holds the user-editable fields of a lift. Nil fields are left unchanged.
type LiftSettings struct {
	DefaultWeight   *float64 `json:"defaultWeight,omitempty"`
	WeightIncrement *float64 `json:"weightIncrement,omitempty"`
	DefaultReps     *int     `json:"defaultReps,omitempty"`
}

// Apply returns a copy of l with the non-nil settings applied.
// Negative weights and non-positive increments or reps are ignored.
func (s LiftSettings) Apply(l Lift) Lift {
	if s.DefaultWeight != nil && *s.DefaultWeight >= 0 {
		l.DefaultWeight = *s.DefaultWeight
	}
	if s.WeightIncrement != nil && *s.WeightIncrement > 0 {
		l.WeightIncrement = *s.WeightIncrement
	}
	if s.DefaultReps != nil && *s.DefaultReps > 0 {
		reps := *s.DefaultReps
		l.DefaultReps = &reps
	}
	return l
}

// RemoteLift is a lift as returned by GET /api/lifts.
type RemoteLift struct {
	ID              json.RawMessage `json:"id,omitempty"`
	Name            string          `json:"name"`
	DefaultWeight   *float64        `json:"defaultWeight,omitempty"`
	WeightIncrement *float64        `json:"weightIncrement,omitempty"`
}

// NumericID returns the remote id as a positive integer string.
// Missing, zero, negative, fractional and non-numeric ids report ok=false.
func (r RemoteLift) NumericID() (string, bool) {
	raw := strings.TrimSpace(string(r.ID))
	if raw == "" || raw == "null" {
		return "", false
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return "", false
	}
	return strconv.FormatInt(n, 10), true
}

// DefaultLifts returns a fresh copy of the built-in lift catalog.
func DefaultLifts() []Lift {
	out := make([]Lift, len(defaultLifts))
	copy(out, defaultLifts)
	return out
}

// FindLift returns the lift with the given id.
func FindLift(lifts []Lift, id string) (Lift, bool) {
	for _, l := range lifts {
		if l.ID == id {
			return l, true
		}
	}
	return Lift{}, false
}

var defaultLifts = []Lift{
	{ID: "shoulder_press", Name: "Shoulder press", DefaultWeight: 45, WeightIncrement: 5, Icon: "ri-basketball-line"},
	{ID: "chest_press", Name: "Chest press", DefaultWeight: 95, WeightIncrement: 5, Icon: "ri-boxing-line"},
	{ID: "bench_press", Name: "Bench press", DefaultWeight: 135, WeightIncrement: 5, Icon: "ri-boxing-line"},
	{ID: "incline_bench_press", Name: "Incline bench press", DefaultWeight: 95, WeightIncrement: 5, Icon: "ri-boxing-line"},
	{ID: "db_lateral_raises", Name: "DB lateral raises", DefaultWeight: 15, WeightIncrement: 2.5, Icon: "ri-arrow-left-right-line"},
	{ID: "cable_lateral_raises", Name: "Cable lateral raises", DefaultWeight: 10, WeightIncrement: 2.5, Icon: "ri-arrow-left-right-line"},
	{ID: "rear_delt_cable_flies", Name: "Rear delt cable flies", DefaultWeight: 15, WeightIncrement: 2.5, Icon: "ri-refresh-line"},
	{ID: "rear_delt_machine_flies", Name: "Rear delt machine flies", DefaultWeight: 70, WeightIncrement: 5, Icon: "ri-refresh-line"},
	{ID: "tricep_extension_lean_out", Name: "Tricep extension lean out", DefaultWeight: 15, WeightIncrement: 2.5, Icon: "ri-hand-coin-line"},
	{ID: "tricep_extension_overhead", Name: "Tricep extension overhead", DefaultWeight: 15, WeightIncrement: 2.5, Icon: "ri-hand-coin-line"},
	{ID: "tricep_bar_pushdown", Name: "Tricep bar pushdown", DefaultWeight: 40, WeightIncrement: 5, Icon: "ri-arrow-down-line"},
	{ID: "tricep_rope_pushdown", Name: "Tricep rope pushdown", DefaultWeight: 35, WeightIncrement: 5, Icon: "ri-arrow-down-line"},
	{ID: "tricep_triangle_pushdown", Name: "Tricep triangle pushdown", DefaultWeight: 35, WeightIncrement: 5, Icon: "ri-arrow-down-line"},
	{ID: "preacher_curl", Name: "Preacher curl", DefaultWeight: 45, WeightIncrement: 5, Icon: "ri-contrast-2-line"},
	{ID: "standing_curl", Name: "Standing curl", DefaultWeight: 20, WeightIncrement: 2.5, Icon: "ri-contrast-2-line"},
	{ID: "incline_bench_curl", Name: "Incline bench curl", DefaultWeight: 20, WeightIncrement: 2.5, Icon: "ri-contrast-2-line"},
	{ID: "hammer_curl", Name: "Hammer curl", DefaultWeight: 20, WeightIncrement: 2.5, Icon: "ri-contrast-2-line"},
	{ID: "leg_extension", Name: "Leg extension", DefaultWeight: 90, WeightIncrement: 10, Icon: "ri-walk-line"},
	{ID: "squat", Name: "Squat", DefaultWeight: 135, WeightIncrement: 10, Icon: "ri-walk-line"},
	{ID: "leg_press", Name: "Leg press", DefaultWeight: 180, WeightIncrement: 10, Icon: "ri-walk-line"},
	{ID: "hamstring_curl", Name: "Hamstring curl", DefaultWeight: 70, WeightIncrement: 5, Icon: "ri-walk-line"},
	{ID: "rdl", Name: "RDL", DefaultWeight: 135, WeightIncrement: 10, Icon: "ri-walk-line"},
	{ID: "deadlift", Name: "Deadlift", DefaultWeight: 185, WeightIncrement: 10, Icon: "ri-walk-line"},
	{ID: "calf_raise_dbs", Name: "Calf raise with DBs", DefaultWeight: 40, WeightIncrement: 5, Icon: "ri-footprint-line"},
	{ID: "calf_raise_outstretched", Name: "Calf raise (outstretched legs)", DefaultWeight: 90, WeightIncrement: 5, Icon: "ri-footprint-line"},
	{ID: "calf_raise_seated", Name: "Calf raise (seated)", DefaultWeight: 80, WeightIncrement: 5, Icon: "ri-footprint-line"},
	{ID: "calf_raise_standing", Name: "Calf raise (standing)", DefaultWeight: 100, WeightIncrement: 5, Icon: "ri-footprint-line"},
	{ID: "lat_pulldown", Name: "Lat pulldown", DefaultWeight: 100, WeightIncrement: 10, Icon: "ri-arrow-down-line"},
	{ID: "cable_row", Name: "Cable row", DefaultWeight: 90, WeightIncrement: 10, Icon: "ri-arrow-right-line"},
	{ID: "machine_row", Name: "Machine row", DefaultWeight: 90, WeightIncrement: 10, Icon: "ri-arrow-right-line"},
	{ID: "machine_lat_pulldown", Name: "Machine lat pulldown", DefaultWeight: 90, WeightIncrement: 10, Icon: "ri-arrow-down-line"},
	{ID: "trap_shrugs", Name: "Trap shrugs", DefaultWeight: 50, WeightIncrement: 5, Icon: "ri-arrow-up-line"},
}
