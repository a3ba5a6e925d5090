// ABOUTME: CLI commands for the workout session: today, start, log, edit, done, finish.
// ABOUTME: Slots are addressed by lift name, lift id, workout id, or 1-based position.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/repquest/internal/models"
	"github.com/harperreed/repquest/internal/tracker"
	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"t"},
	Short:   "Show today's workout slots",
	Long: `Show the current split day and the status of each workout slot.

OUTPUT FORMAT:

  Each line shows: POSITION  STATUS  LIFT  LOGGED SETS  (TARGET · SUGGESTED)

  Status marks: ✓ completed, ▶ active, · pending.
  The position number can be used in place of the lift name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printToday(tr.Today())
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start <workout>",
	Short: "Start a workout slot",
	Long: `Mark a slot on today's day as active.

Starting a second slot does not stop the first; only one slot is shown as
active at a time. Completed slots cannot be started again (use 'undo').

EXAMPLES:

  repquest start bench_press
  repquest start "Bench press"
  repquest start 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := resolveWorkout(args[0])
		if err != nil {
			return err
		}
		if tr.WorkoutStatus(w.ID) == tracker.StatusCompleted {
			warnf("%s is already completed (use 'repquest undo %s' to reopen)", w.Name, args[0])
			return nil
		}
		if err := tr.StartWorkout(w.ID); err != nil {
			return fmt.Errorf("failed to start workout: %w", err)
		}
		color.Green("✓ Started %s", w.Name)
		faintf("  suggested %g for %d sets of %s", tr.SuggestedWeight(w.ID), tr.TargetSets(w.ID), w.RepRange)
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log <workout> <weight>x<reps>...",
	Short: "Log completed sets",
	Long: `Record one or more completed sets for a slot.

Sets use WEIGHTxREPS notation. Several sets may be given at once.

EXAMPLES:

  repquest log bench 135x8
  repquest log 2 95x10 95x9 95x8`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := resolveWorkout(args[0])
		if err != nil {
			return err
		}
		for _, raw := range args[1:] {
			weight, reps, err := parseSet(raw)
			if err != nil {
				return err
			}
			if err := tr.CompleteSet(w.ID, weight, reps); err != nil {
				return fmt.Errorf("failed to log set: %w", err)
			}
		}
		sets := tr.SetsForWorkout(w.ID)
		color.Green("✓ %s: %s", w.Name, formatSets(sets))
		if len(sets) >= tr.TargetSets(w.ID) {
			faintf("  target reached; run 'repquest done %s' to complete", args[0])
		}
		return nil
	},
}

var editSetCmd = &cobra.Command{
	Use:   "edit <workout> <set> <weight>x<reps>",
	Short: "Edit a logged set",
	Long: `Replace a logged set. Sets are numbered from 1 in the order logged.

EXAMPLES:

  repquest edit bench 2 140x6`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := resolveWorkout(args[0])
		if err != nil {
			return err
		}
		idx, err := parsePosition(args[1], len(tr.SetsForWorkout(w.ID)), "set")
		if err != nil {
			return err
		}
		weight, reps, err := parseSet(args[2])
		if err != nil {
			return err
		}
		if err := tr.EditSet(w.ID, idx, weight, reps); err != nil {
			return fmt.Errorf("failed to edit set: %w", err)
		}
		color.Green("✓ %s: %s", w.Name, formatSets(tr.SetsForWorkout(w.ID)))
		return nil
	},
}

var removeSetCmd = &cobra.Command{
	Use:     "rm-set <workout> <set>",
	Aliases: []string{"unlog"},
	Short:   "Remove a logged set",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := resolveWorkout(args[0])
		if err != nil {
			return err
		}
		idx, err := parsePosition(args[1], len(tr.SetsForWorkout(w.ID)), "set")
		if err != nil {
			return err
		}
		if err := tr.RemoveSet(w.ID, idx); err != nil {
			return fmt.Errorf("failed to remove set: %w", err)
		}
		color.Green("✓ %s: %s", w.Name, formatSets(tr.SetsForWorkout(w.ID)))
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <workout>",
	Short: "Complete a workout slot",
	Long: `Complete a slot: its logged sets are added to the lift's history, the
last set's weight becomes the lift's last weight, and today is marked as
a workout day. With no logged sets the lift's default weight is kept.

The new state is archived to the sync server, or queued when offline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := resolveWorkout(args[0])
		if err != nil {
			return err
		}
		if tr.WorkoutStatus(w.ID) == tracker.StatusCompleted {
			warnf("%s is already completed", w.Name)
			return nil
		}
		sets := tr.SetsForWorkout(w.ID)
		if err := tr.CompleteWorkout(w.ID); err != nil {
			return fmt.Errorf("failed to complete workout: %w", err)
		}
		color.Green("✓ Completed %s (%s)", w.Name, formatSets(sets))
		faintf("  next time: %g", tr.LastWeight(w.LiftID))
		archive(cmd.Context())
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <workout>",
	Short: "Reopen a completed workout slot",
	Long: `Move a completed slot back to active so more sets can be logged.

With undo_policy "keep" (default) the history record stays. With "retract"
the record, last weight, and workout day added by the completion are rolled
back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := resolveWorkout(args[0])
		if err != nil {
			return err
		}
		if tr.WorkoutStatus(w.ID) != tracker.StatusCompleted {
			warnf("%s is not completed", w.Name)
			return nil
		}
		if err := tr.UndoCompleteWorkout(w.ID); err != nil {
			return fmt.Errorf("failed to undo workout: %w", err)
		}
		color.Green("✓ Reopened %s", w.Name)
		if tr.UndoPolicy() == tracker.UndoRetract {
			faintf("  history record retracted")
		}
		return nil
	},
}

var finishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Finish today and advance to the next day",
	Long: `Mark today as a workout day and advance the split to the next day,
wrapping to the first day after the last. The next day starts empty.

The new state is archived to the sync server, or queued when offline.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := tr.CurrentDay()
		if err := tr.CompleteCurrentDay(); err != nil {
			return fmt.Errorf("failed to finish day: %w", err)
		}
		if day != nil {
			color.Green("✓ Finished %s", day.Name)
		} else {
			color.Green("✓ Finished day")
		}
		if next := tr.CurrentDay(); next != nil {
			fmt.Printf("Next: Day %d: %s\n", tr.CurrentDayIndex()+1, next.Name)
		}
		archive(cmd.Context())
		return nil
	},
}

var unfinishCmd = &cobra.Command{
	Use:   "unfinish",
	Short: "Clear progress on the current day",
	Long: `Reset the current day's slots to pending and drop their logged sets.
The split position and lift history are not changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tr.UndoCompleteCurrentDay(); err != nil {
			return fmt.Errorf("failed to reset day: %w", err)
		}
		color.Green("✓ Day reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(editSetCmd)
	rootCmd.AddCommand(removeSetCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(finishCmd)
	rootCmd.AddCommand(unfinishCmd)
}

func resolveWorkout(ref string) (models.Workout, error) {
	w, ok := tr.ResolveWorkout(ref)
	if !ok {
		return models.Workout{}, fmt.Errorf("no workout %q on today's day (see 'repquest today')", ref)
	}
	return w, nil
}

func printToday(v tracker.TodayView) {
	if v.DayCount == 0 {
		fmt.Printf("%s has no days. Add one with 'repquest split add-day %s <name>'.\n", v.SplitName, v.SplitID)
		return
	}
	color.New(color.Bold).Printf("%s · Day %d/%d: %s", v.SplitName, v.DayIndex+1, v.DayCount, v.DayName)
	fmt.Println(faint.Sprintf("  (%s)", v.Date))
	if len(v.Slots) == 0 {
		fmt.Println("No lifts on this day.")
		return
	}
	for i, s := range v.Slots {
		fmt.Printf("%2d %s %s %s  %s\n",
			i+1,
			statusMark(s.Status),
			padRight(truncate(s.Workout.Name, 28), 28),
			padRight(formatSets(s.Sets), 24),
			faint.Sprintf("%d sets · %g", s.TargetSets, s.SuggestedWeight))
	}
	if v.NextDay != "" {
		faintf("Next: %s", v.NextDay)
	}
}
