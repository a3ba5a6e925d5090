// ABOUTME: CLI commands for managing training splits and their days.
// ABOUTME: Supports list, use, create, rename, delete, and per-day lift edits.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/repquest/internal/models"
	"github.com/spf13/cobra"
)

var splitCreateID string

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Manage training splits",
	Long: `Manage training splits. A split is a rotation of named days, each day
listing lifts in order.

COMMANDS:

  list                          Show all splits
  use <split>                   Follow a split from its first day
  create <name>                 Create an empty split
  rename <split> <name>         Rename a split
  delete <split>                Delete a split (not the current one)
  add-day <split> <name>        Append a day
  rename-day <split> <n> <name> Rename day n
  delete-day <split> <n>        Delete day n
  add-lift <split> <n> <lift>   Append a lift to day n
  rm-lift <split> <n> <lift>    Remove a lift from day n

Splits may be given by id or name. Days are numbered from 1.

EXAMPLES:

  repquest split create "Full Body"
  repquest split add-day full_body "A"
  repquest split add-lift full_body 1 squat
  repquest split use full_body`,
}

var splitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List splits",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current := tr.CurrentSplit()
		for _, s := range tr.Splits() {
			mark := " "
			if current != nil && current.ID == s.ID {
				mark = color.GreenString("*")
			}
			days := make([]string, len(s.Days))
			for i, d := range s.Days {
				days[i] = d.Name
			}
			fmt.Printf("%s %s %s %s\n", mark, padRight(s.ID, 20), padRight(s.Name, 20), faint.Sprint(strings.Join(days, " → ")))
		}
		return nil
	},
}

var splitUseCmd = &cobra.Command{
	Use:   "use <split>",
	Short: "Switch to a split",
	Long: `Follow a different split, starting from its first day.
Logged sets are kept; completed and active slots are cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := findSplit(args[0])
		if err != nil {
			return err
		}
		if err := tr.SetActiveSplit(s.ID); err != nil {
			return fmt.Errorf("failed to switch split: %w", err)
		}
		color.Green("✓ Now following %s", s.Name)
		return nil
	},
}

var splitCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a split",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(args[0]) == "" {
			return fmt.Errorf("split name cannot be empty")
		}
		id, err := tr.CreateSplit(models.Split{ID: splitCreateID, Name: args[0]})
		if err != nil {
			return fmt.Errorf("failed to create split: %w", err)
		}
		color.Green("✓ Created split %s", id)
		return nil
	},
}

var splitRenameCmd = &cobra.Command{
	Use:   "rename <split> <name>",
	Short: "Rename a split",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := findSplit(args[0])
		if err != nil {
			return err
		}
		if err := tr.UpdateSplit(s.ID, args[1]); err != nil {
			return fmt.Errorf("failed to rename split: %w", err)
		}
		color.Green("✓ Renamed %s", s.ID)
		return nil
	},
}

var splitDeleteCmd = &cobra.Command{
	Use:     "delete <split>",
	Aliases: []string{"rm"},
	Short:   "Delete a split",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := findSplit(args[0])
		if err != nil {
			return err
		}
		if current := tr.CurrentSplit(); current != nil && current.ID == s.ID {
			return fmt.Errorf("cannot delete the current split; switch with 'repquest split use' first")
		}
		if err := tr.DeleteSplit(s.ID); err != nil {
			return fmt.Errorf("failed to delete split: %w", err)
		}
		color.Green("✓ Deleted split %s", s.Name)
		return nil
	},
}

var splitAddDayCmd = &cobra.Command{
	Use:   "add-day <split> <name> [lift...]",
	Short: "Append a day to a split",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := findSplit(args[0])
		if err != nil {
			return err
		}
		var lifts []string
		for _, ref := range args[2:] {
			l, err := findLift(ref)
			if err != nil {
				return err
			}
			lifts = append(lifts, l.ID)
		}
		if err := tr.AddDayToSplit(s.ID, models.Day{Name: args[1], Lifts: lifts}); err != nil {
			return fmt.Errorf("failed to add day: %w", err)
		}
		color.Green("✓ Added day %d: %s", len(s.Days)+1, args[1])
		return nil
	},
}

var splitRenameDayCmd = &cobra.Command{
	Use:   "rename-day <split> <n> <name>",
	Short: "Rename a day",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, idx, err := findSplitDay(args[0], args[1])
		if err != nil {
			return err
		}
		day := s.Days[idx]
		day.Name = args[2]
		if err := tr.UpdateDay(s.ID, idx, day); err != nil {
			return fmt.Errorf("failed to rename day: %w", err)
		}
		color.Green("✓ Day %d renamed to %s", idx+1, args[2])
		return nil
	},
}

var splitDeleteDayCmd = &cobra.Command{
	Use:   "delete-day <split> <n>",
	Short: "Delete a day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, idx, err := findSplitDay(args[0], args[1])
		if err != nil {
			return err
		}
		if err := tr.DeleteDay(s.ID, idx); err != nil {
			return fmt.Errorf("failed to delete day: %w", err)
		}
		color.Green("✓ Deleted day %d: %s", idx+1, s.Days[idx].Name)
		return nil
	},
}

var splitAddLiftCmd = &cobra.Command{
	Use:   "add-lift <split> <n> <lift>",
	Short: "Append a lift to a day",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, idx, err := findSplitDay(args[0], args[1])
		if err != nil {
			return err
		}
		l, err := findLift(args[2])
		if err != nil {
			return err
		}
		if err := tr.AddLiftToDay(s.ID, idx, l.ID); err != nil {
			return fmt.Errorf("failed to add lift: %w", err)
		}
		color.Green("✓ Added %s to %s", l.Name, s.Days[idx].Name)
		return nil
	},
}

var splitRemoveLiftCmd = &cobra.Command{
	Use:   "rm-lift <split> <n> <lift>",
	Short: "Remove a lift from a day",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, idx, err := findSplitDay(args[0], args[1])
		if err != nil {
			return err
		}
		l, err := findLift(args[2])
		if err != nil {
			return err
		}
		if err := tr.RemoveLiftFromDay(s.ID, idx, l.ID); err != nil {
			return fmt.Errorf("failed to remove lift: %w", err)
		}
		color.Green("✓ Removed %s from %s", l.Name, s.Days[idx].Name)
		return nil
	},
}

func init() {
	splitCreateCmd.Flags().StringVar(&splitCreateID, "id", "", "split id (default: derived from name)")

	splitCmd.AddCommand(splitListCmd)
	splitCmd.AddCommand(splitUseCmd)
	splitCmd.AddCommand(splitCreateCmd)
	splitCmd.AddCommand(splitRenameCmd)
	splitCmd.AddCommand(splitDeleteCmd)
	splitCmd.AddCommand(splitAddDayCmd)
	splitCmd.AddCommand(splitRenameDayCmd)
	splitCmd.AddCommand(splitDeleteDayCmd)
	splitCmd.AddCommand(splitAddLiftCmd)
	splitCmd.AddCommand(splitRemoveLiftCmd)
	rootCmd.AddCommand(splitCmd)
}

// findSplit matches a split by id, then by case-insensitive name.
func findSplit(ref string) (models.Split, error) {
	splits := tr.Splits()
	for _, s := range splits {
		if s.ID == ref {
			return s, nil
		}
	}
	for _, s := range splits {
		if strings.EqualFold(s.Name, strings.TrimSpace(ref)) {
			return s, nil
		}
	}
	return models.Split{}, fmt.Errorf("unknown split %q (see 'repquest split list')", ref)
}

func findSplitDay(splitRef, dayRef string) (models.Split, int, error) {
	s, err := findSplit(splitRef)
	if err != nil {
		return s, 0, err
	}
	idx, err := parsePosition(dayRef, len(s.Days), "day")
	if err != nil {
		return s, 0, err
	}
	return s, idx, nil
}
