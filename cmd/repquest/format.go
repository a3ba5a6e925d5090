// ABOUTME: Output and argument helpers shared by CLI commands.
// ABOUTME: Parses "135x8" set notation and 1-based positions; formats slots and sets.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/repquest/internal/models"
	"github.com/harperreed/repquest/internal/tracker"
)

var faint = color.New(color.Faint)

func warnf(format string, args ...any) {
	color.Yellow("⚠ "+format, args...)
}

func faintf(format string, args ...any) {
	fmt.Println(faint.Sprintf(format, args...))
}

// parseSet parses "weight x reps" notation: 135x8, 135X8, 22.5x12.
func parseSet(s string) (float64, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid set %q (use WEIGHTxREPS, e.g. 135x8)", s)
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || weight < 0 {
		return 0, 0, fmt.Errorf("invalid weight in %q", s)
	}
	reps, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || reps < 0 {
		return 0, 0, fmt.Errorf("invalid reps in %q", s)
	}
	return weight, reps, nil
}

// parsePosition parses a 1-based position and returns the 0-based index.
func parsePosition(s string, n int, what string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", what, s)
	}
	if p < 1 || p > n {
		return 0, fmt.Errorf("%s %d out of range (1-%d)", what, p, n)
	}
	return p - 1, nil
}

func formatSets(sets []models.Set) string {
	if len(sets) == 0 {
		return "-"
	}
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = fmt.Sprintf("%gx%d", s.Weight, s.Reps)
	}
	return strings.Join(parts, ", ")
}

func statusMark(s tracker.WorkoutStatus) string {
	switch s {
	case tracker.StatusCompleted:
		return color.GreenString("✓")
	case tracker.StatusActive:
		return color.YellowString("▶")
	default:
		return faint.Sprint("·")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
