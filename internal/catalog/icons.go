// ABOUTME: Icon inference for lifts that arrive without one.
// ABOUTME: First matching keyword rule wins; unmatched names get a dumbbell.
package catalog

import "strings"

// FallbackIcon is used when no keyword matches.
const FallbackIcon = "ri-dumbbell-line"

var iconRules = []struct {
	keywords []string
	icon     string
}{
	{[]string{"bench", "chest", "push"}, "ri-boxing-line"},
	{[]string{"shoulder", "press"}, "ri-basketball-line"},
	{[]string{"tricep"}, "ri-hand-coin-line"},
	{[]string{"lateral"}, "ri-arrow-left-right-line"},
	{[]string{"delt", "rear"}, "ri-refresh-line"},
	{[]string{"curl", "bicep"}, "ri-contrast-2-line"},
	{[]string{"pull"}, "ri-arrow-up-line"},
	{[]string{"row"}, "ri-arrow-right-line"},
	{[]string{"down"}, "ri-arrow-down-line"},
	{[]string{"leg", "squat", "deadlift"}, "ri-walk-line"},
	{[]string{"calf"}, "ri-footprint-line"},
	{[]string{"trap", "shrug"}, "ri-arrow-up-line"},
}

// IconFor guesses an icon from a lift name.
func IconFor(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range iconRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.icon
			}
		}
	}
	return FallbackIcon
}
