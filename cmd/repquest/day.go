// ABOUTME: CLI commands for moving through the current split's days.
// ABOUTME: Supports list, next, prev, and goto; moving clears the target day's sets.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/repquest/internal/tracker"
	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Navigate the current split's days",
	Long: `Navigate the days of the current split.

Moving to a day (including the current one) starts it fresh: its logged
sets and completed slots are cleared. Lift history is never changed.

COMMANDS:

  list        Show every day with its status
  next        Advance to the next day (wraps around)
  prev        Go back one day (wraps around)
  goto <n>    Jump to day n (1-based)`,
}

var dayListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List days of the current split",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		split := tr.CurrentSplit()
		if split == nil {
			return fmt.Errorf("no current split")
		}
		color.New(color.Bold).Println(split.Name)
		if len(split.Days) == 0 {
			fmt.Println("No days.")
			return nil
		}
		for i, d := range split.Days {
			var mark string
			switch tr.DayStatus(split.ID, i) {
			case tracker.DayActive:
				mark = color.YellowString("▶")
			case tracker.DayCompleted:
				mark = color.GreenString("✓")
			default:
				mark = faint.Sprint("·")
			}
			fmt.Printf("%2d %s %s %s\n", i+1, mark, padRight(d.Name, 16), faint.Sprint(strings.Join(liftNames(d.Lifts), ", ")))
		}
		return nil
	},
}

var dayNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Advance to the next day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tr.AdvanceToNextDay(); err != nil {
			return fmt.Errorf("failed to advance: %w", err)
		}
		return printCurrentDay()
	},
}

var dayPrevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go back one day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		split := tr.CurrentSplit()
		if split == nil || len(split.Days) == 0 {
			return fmt.Errorf("current split has no days")
		}
		n := len(split.Days)
		if err := tr.MoveToDay((tr.CurrentDayIndex() - 1 + n) % n); err != nil {
			return fmt.Errorf("failed to move: %w", err)
		}
		return printCurrentDay()
	},
}

var dayGotoCmd = &cobra.Command{
	Use:   "goto <n>",
	Short: "Jump to day n",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		split := tr.CurrentSplit()
		if split == nil {
			return fmt.Errorf("no current split")
		}
		idx, err := parsePosition(args[0], len(split.Days), "day")
		if err != nil {
			return err
		}
		if err := tr.MoveToDay(idx); err != nil {
			return fmt.Errorf("failed to move: %w", err)
		}
		return printCurrentDay()
	},
}

func init() {
	dayCmd.AddCommand(dayListCmd)
	dayCmd.AddCommand(dayNextCmd)
	dayCmd.AddCommand(dayPrevCmd)
	dayCmd.AddCommand(dayGotoCmd)
	rootCmd.AddCommand(dayCmd)
}

func printCurrentDay() error {
	day := tr.CurrentDay()
	if day == nil {
		return fmt.Errorf("current split has no days")
	}
	color.Green("✓ Day %d: %s", tr.CurrentDayIndex()+1, day.Name)
	return nil
}

// liftNames maps lift ids to display names, keeping unknown ids as-is.
func liftNames(ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id
		if l, ok := tr.Lift(id); ok {
			names[i] = l.Name
		}
	}
	return names
}
