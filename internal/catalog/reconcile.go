// ABOUTME: Merges the remote lift catalog with built-in defaults and local edits.
// ABOUTME: Reconcile and SelfHeal are pure and idempotent.
package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/repquest/internal/models"
)

// RemoteIDPrefix prefixes ids synthesized for remote-only lifts.
const RemoteIDPrefix = "api_lift_"

// Reconcile builds the catalog from the defaults plus any remote lifts whose
// names are new. Defaults come first, then remote additions in response order,
// then local-only lifts. Settings edited locally survive for every id kept.
func Reconcile(remote []models.RemoteLift, local []models.Lift) []models.Lift {
	result := models.DefaultLifts()

	names := make(map[string]bool, len(result)+len(remote))
	ids := make(map[string]bool, len(result)+len(remote))
	for _, l := range result {
		names[nameKey(l.Name)] = true
		ids[l.ID] = true
	}

	localByName := make(map[string]models.Lift, len(local))
	for _, l := range local {
		key := nameKey(l.Name)
		if _, ok := localByName[key]; !ok {
			localByName[key] = l
		}
	}

	for _, r := range remote {
		key := nameKey(r.Name)
		if key == "" || names[key] {
			continue
		}

		lift := models.Lift{
			ID:              remoteLiftID(r, localByName[key], ids),
			Name:            strings.TrimSpace(r.Name),
			WeightIncrement: models.DefaultWeightIncrement,
			Icon:            IconFor(r.Name),
		}
		if r.DefaultWeight != nil && *r.DefaultWeight > 0 {
			lift.DefaultWeight = *r.DefaultWeight
		}
		if r.WeightIncrement != nil && *r.WeightIncrement > 0 {
			lift.WeightIncrement = *r.WeightIncrement
		}

		result = append(result, lift)
		names[key] = true
		ids[lift.ID] = true
	}

	localByID := make(map[string]models.Lift, len(local))
	for _, l := range local {
		localByID[l.ID] = l
	}
	for i, l := range result {
		if prev, ok := localByID[l.ID]; ok {
			result[i] = carrySettings(l, prev)
		}
	}

	for _, l := range local {
		key := nameKey(l.Name)
		if ids[l.ID] || names[key] {
			continue
		}
		result = append(result, l)
		ids[l.ID] = true
		names[key] = true
	}

	return result
}

// SelfHeal is the offline fallback: local lifts plus any missing defaults.
func SelfHeal(local []models.Lift) []models.Lift {
	out := make([]models.Lift, 0, len(local)+len(models.DefaultLifts()))
	seen := make(map[string]bool, len(local))
	for _, l := range local {
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		out = append(out, l)
	}
	for _, d := range models.DefaultLifts() {
		if !seen[d.ID] {
			out = append(out, d)
			seen[d.ID] = true
		}
	}
	return out
}

// remoteLiftID picks a stable id for a remote-only lift. A local lift with the
// same name keeps its id so its history stays attached.
func remoteLiftID(r models.RemoteLift, local models.Lift, taken map[string]bool) string {
	if local.ID != "" && !taken[local.ID] {
		return local.ID
	}
	if n, ok := r.NumericID(); ok && !taken[RemoteIDPrefix+n] {
		return RemoteIDPrefix + n
	}
	for {
		id := RemoteIDPrefix + uuid.NewString()[:8]
		if !taken[id] {
			return id
		}
	}
}

func carrySettings(l, prev models.Lift) models.Lift {
	l.DefaultWeight = prev.DefaultWeight
	if prev.WeightIncrement > 0 {
		l.WeightIncrement = prev.WeightIncrement
	}
	if prev.DefaultReps != nil {
		reps := *prev.DefaultReps
		l.DefaultReps = &reps
	}
	if prev.Icon != "" {
		l.Icon = prev.Icon
	}
	return l
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
