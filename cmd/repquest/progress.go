// ABOUTME: CLI command for lift progress: personal record, volume, and recent sessions.
// ABOUTME: Without a lift argument, summarizes every lift with history plus a 14-day calendar.
package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/harperreed/repquest/internal/progress"
	"github.com/spf13/cobra"
)

var progressDays int

var progressCmd = &cobra.Command{
	Use:     "progress [lift]",
	Aliases: []string{"p"},
	Short:   "Show lift progress",
	Long: `Show progress for one lift, or an overview of all trained lifts.

For a single lift: personal record, 30-day volume (weight × reps), session
count, and the top set of recent sessions with PRs marked.

EXAMPLES:

  repquest progress              # Overview and training calendar
  repquest progress squat        # Detail for one lift`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if progressDays < 1 {
			return fmt.Errorf("--days must be at least 1")
		}
		if len(args) == 1 {
			l, err := findLift(args[0])
			if err != nil {
				return err
			}
			printLiftProgress(l.Name, tr.Progress(l.ID))
			return nil
		}

		type row struct {
			name string
			sum  progress.Summary
		}
		var rows []row
		for _, l := range tr.Lifts() {
			sum := tr.Progress(l.ID)
			if sum.Sessions > 0 {
				rows = append(rows, row{l.Name, sum})
			}
		}
		if len(rows) == 0 {
			fmt.Println("No completed workouts yet.")
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].sum.LastSession > rows[j].sum.LastSession })
		for _, r := range rows {
			pr := "-"
			if r.sum.PersonalRecord != nil {
				pr = fmt.Sprintf("%g×%d", r.sum.PersonalRecord.MaxWeight, r.sum.PersonalRecord.Reps)
			}
			fmt.Printf("%s PR %s  %s\n",
				padRight(truncate(r.name, 28), 28),
				padRight(pr, 10),
				faint.Sprintf("%d sessions · last %s · 30d %g", r.sum.Sessions, r.sum.LastSession, r.sum.Volume30d))
		}

		fmt.Println()
		fmt.Printf("Last %d days: ", progressDays)
		for _, d := range tr.Consistency(progressDays) {
			if d.Trained {
				fmt.Print(color.GreenString("■"))
			} else {
				fmt.Print(faint.Sprint("□"))
			}
		}
		fmt.Printf("  (%d workout days total)\n", len(tr.WorkoutDays()))
		return nil
	},
}

func init() {
	progressCmd.Flags().IntVarP(&progressDays, "days", "d", 14, "calendar length in days")
	rootCmd.AddCommand(progressCmd)
}

func printLiftProgress(name string, sum progress.Summary) {
	color.New(color.Bold).Println(name)
	if sum.Sessions == 0 {
		fmt.Println("No sessions yet.")
		return
	}
	if sum.PersonalRecord != nil {
		fmt.Printf("PR:         %g × %d (%s)\n", sum.PersonalRecord.MaxWeight, sum.PersonalRecord.Reps, sum.PersonalRecord.Date)
	}
	fmt.Printf("30d volume: %g\n", sum.Volume30d)
	fmt.Printf("Sessions:   %d (last %s)\n", sum.Sessions, sum.LastSession)
	fmt.Println()
	for _, r := range sum.Chart {
		mark := ""
		if r.IsPR {
			mark = color.YellowString(" PR")
		}
		fmt.Printf("  %s  %g × %d%s\n", faint.Sprint(r.Date), r.MaxWeight, r.Reps, mark)
	}
}
