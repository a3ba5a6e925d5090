// ABOUTME: Split, day, and lift catalog editing commands.
// ABOUTME: Edits splice arrays in place and never touch lift history.
package tracker

import (
	"slices"
	"strconv"
	"strings"

	"github.com/harperreed/repquest/internal/catalog"
	"github.com/harperreed/repquest/internal/models"
)

// CustomLiftPrefix prefixes ids of lifts created locally.
const CustomLiftPrefix = "custom_"

// CreateSplit adds a split and returns its id. A blank id is derived from the
// name; a taken id gets a numeric suffix. Blank names are ignored.
func (t *Tracker) CreateSplit(split models.Split) (string, error) {
	name := strings.TrimSpace(split.Name)
	if name == "" {
		return "", nil
	}
	var id string
	err := t.mutate("create split", func(d *models.UserData) bool {
		base := slug(split.ID)
		if base == "" {
			base = slug(name)
		}
		if base == "" {
			base = "split"
		}
		id = uniqueID(base, func(c string) bool { return models.FindSplit(d.Splits, c) != nil })
		created := cloneSplit(split)
		created.ID = id
		created.Name = name
		d.Splits = append(d.Splits, created)
		return true
	})
	return id, err
}

// UpdateSplit renames a split.
func (t *Tracker) UpdateSplit(splitID, name string) error {
	name = strings.TrimSpace(name)
	return t.mutate("update split", func(d *models.UserData) bool {
		s := models.FindSplit(d.Splits, splitID)
		if s == nil || name == "" || s.Name == name {
			return false
		}
		s.Name = name
		return true
	})
}

// DeleteSplit removes a split. The split being followed cannot be deleted.
func (t *Tracker) DeleteSplit(splitID string) error {
	return t.mutate("delete split", func(d *models.UserData) bool {
		if splitID == d.WorkoutState.CurrentSplitID {
			t.logger.Warn("refusing to delete active split", "split", splitID)
			return false
		}
		before := len(d.Splits)
		d.Splits = slices.DeleteFunc(d.Splits, func(s models.Split) bool { return s.ID == splitID })
		return len(d.Splits) != before
	})
}

// AddDayToSplit appends a day.
func (t *Tracker) AddDayToSplit(splitID string, day models.Day) error {
	return t.mutate("add day", func(d *models.UserData) bool {
		s := models.FindSplit(d.Splits, splitID)
		if s == nil {
			return false
		}
		s.Days = append(s.Days, models.Day{Name: strings.TrimSpace(day.Name), Lifts: slices.Clone(day.Lifts)})
		return true
	})
}

// UpdateDay replaces the day at dayIndex.
func (t *Tracker) UpdateDay(splitID string, dayIndex int, day models.Day) error {
	return t.mutate("update day", func(d *models.UserData) bool {
		s := models.FindSplit(d.Splits, splitID)
		if s == nil || dayIndex < 0 || dayIndex >= len(s.Days) {
			return false
		}
		s.Days[dayIndex] = models.Day{Name: strings.TrimSpace(day.Name), Lifts: slices.Clone(day.Lifts)}
		return true
	})
}

// DeleteDay removes the day at dayIndex; later days shift down.
func (t *Tracker) DeleteDay(splitID string, dayIndex int) error {
	return t.mutate("delete day", func(d *models.UserData) bool {
		s := models.FindSplit(d.Splits, splitID)
		if s == nil || dayIndex < 0 || dayIndex >= len(s.Days) {
			return false
		}
		s.Days = slices.Delete(s.Days, dayIndex, dayIndex+1)
		return true
	})
}

// AddLiftToDay appends a catalog lift to a day.
func (t *Tracker) AddLiftToDay(splitID string, dayIndex int, liftID string) error {
	return t.mutate("add lift to day", func(d *models.UserData) bool {
		s := models.FindSplit(d.Splits, splitID)
		if s == nil || dayIndex < 0 || dayIndex >= len(s.Days) {
			return false
		}
		if _, ok := models.FindLift(d.Lifts, liftID); !ok {
			t.logger.Warn("unknown lift", "lift", liftID)
			return false
		}
		s.Days[dayIndex].Lifts = append(s.Days[dayIndex].Lifts, liftID)
		return true
	})
}

// RemoveLiftFromDay removes every occurrence of liftID from a day.
func (t *Tracker) RemoveLiftFromDay(splitID string, dayIndex int, liftID string) error {
	return t.mutate("remove lift from day", func(d *models.UserData) bool {
		s := models.FindSplit(d.Splits, splitID)
		if s == nil || dayIndex < 0 || dayIndex >= len(s.Days) {
			return false
		}
		day := &s.Days[dayIndex]
		before := len(day.Lifts)
		day.Lifts = slices.DeleteFunc(day.Lifts, func(id string) bool { return id == liftID })
		return len(day.Lifts) != before
	})
}

// UpdateLiftSettings applies settings to a catalog lift and returns the result.
func (t *Tracker) UpdateLiftSettings(liftID string, settings models.LiftSettings) (models.Lift, bool, error) {
	var (
		updated models.Lift
		found   bool
	)
	err := t.mutate("update lift", func(d *models.UserData) bool {
		for i, l := range d.Lifts {
			if l.ID != liftID {
				continue
			}
			found = true
			updated = settings.Apply(l)
			d.Lifts[i] = updated
			return true
		}
		return false
	})
	return updated, found, err
}

// CreateLift adds a user-defined lift to the catalog. Names already in the
// catalog (case-insensitive) return the existing lift.
func (t *Tracker) CreateLift(name string, settings models.LiftSettings) (models.Lift, error) {
	name = strings.TrimSpace(name)
	var lift models.Lift
	if name == "" {
		return lift, nil
	}
	err := t.mutate("create lift", func(d *models.UserData) bool {
		for _, l := range d.Lifts {
			if strings.EqualFold(strings.TrimSpace(l.Name), name) {
				lift = l
				return false
			}
		}
		base := CustomLiftPrefix + slug(name)
		id := uniqueID(base, func(c string) bool {
			_, ok := models.FindLift(d.Lifts, c)
			return ok
		})
		lift = settings.Apply(models.Lift{
			ID:              id,
			Name:            name,
			WeightIncrement: models.DefaultWeightIncrement,
			Icon:            catalog.IconFor(name),
		})
		d.Lifts = append(d.Lifts, lift)
		d.EnsureHistory()
		return true
	})
	return lift, err
}

// slug lowercases s and joins its alphanumeric runs with underscores.
func slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

func uniqueID(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		if c := base + "_" + strconv.Itoa(n); !taken(c) {
			return c
		}
	}
}
