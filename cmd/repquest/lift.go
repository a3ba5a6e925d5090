// ABOUTME: CLI commands for the lift catalog: list, per-lift settings, custom lifts.
// ABOUTME: Also hosts 'catalog refresh', which reconciles against the server's lift list.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/repquest/internal/models"
	"github.com/spf13/cobra"
)

var (
	liftWeight    float64
	liftIncrement float64
	liftReps      int
)

var liftCmd = &cobra.Command{
	Use:   "lift",
	Short: "Manage the lift catalog",
	Long: `Manage the lift catalog.

COMMANDS:

  list                  Show all lifts with defaults and last weight
  set <lift> [flags]    Change a lift's default weight, increment, or reps
  add <name> [flags]    Add a custom lift

EXAMPLES:

  repquest lift set squat --weight 185 --increment 10
  repquest lift add "Goblet squat" --weight 50`,
}

var liftListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List lifts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lifts := tr.Lifts()
		if len(lifts) == 0 {
			fmt.Println("No lifts.")
			return nil
		}
		for _, l := range lifts {
			fmt.Printf("%s %s %s\n",
				padRight(truncate(l.Name, 30), 30),
				faint.Sprint(padRight(l.ID, 28)),
				fmt.Sprintf("default %g (+%g) · %d reps · last %g", l.DefaultWeight, l.WeightIncrement, l.Reps(), tr.LastWeight(l.ID)))
		}
		return nil
	},
}

var liftSetCmd = &cobra.Command{
	Use:   "set <lift>",
	Short: "Change a lift's settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := findLift(args[0])
		if err != nil {
			return err
		}
		settings := liftSettingsFromFlags(cmd)
		if settings == (models.LiftSettings{}) {
			return fmt.Errorf("nothing to change (use --weight, --increment, or --reps)")
		}
		updated, _, err := tr.UpdateLiftSettings(l.ID, settings)
		if err != nil {
			return fmt.Errorf("failed to update lift: %w", err)
		}
		color.Green("✓ %s: default %g (+%g) · %d reps", updated.Name, updated.DefaultWeight, updated.WeightIncrement, updated.Reps())
		return nil
	},
}

var liftAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom lift",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(args[0]) == "" {
			return fmt.Errorf("lift name cannot be empty")
		}
		l, err := tr.CreateLift(args[0], liftSettingsFromFlags(cmd))
		if err != nil {
			return fmt.Errorf("failed to add lift: %w", err)
		}
		color.Green("✓ %s (%s)", l.Name, l.ID)
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Sync the lift catalog with the server",
}

var catalogRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reconcile lifts with the server's catalog",
	Long: `Fetch the server's lift list and merge it into the local catalog.

Remote lifts are matched by name. Local settings and custom lifts are kept.
When the server is unreachable, missing default lifts are restored instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		before := len(tr.Lifts())
		online, err := tr.RefreshCatalog(cmd.Context(), fetcher())
		if err != nil {
			return fmt.Errorf("failed to refresh catalog: %w", err)
		}
		after := len(tr.Lifts())
		if online {
			color.Green("✓ Catalog reconciled with %s (%d lifts, %+d)", syncCfg.Server, after, after-before)
		} else {
			warnf("Server unavailable; using local catalog (%d lifts)", after)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{liftSetCmd, liftAddCmd} {
		c.Flags().Float64Var(&liftWeight, "weight", 0, "default weight")
		c.Flags().Float64Var(&liftIncrement, "increment", 0, "weight increment")
		c.Flags().IntVar(&liftReps, "reps", 0, "default reps")
	}

	liftCmd.AddCommand(liftListCmd)
	liftCmd.AddCommand(liftSetCmd)
	liftCmd.AddCommand(liftAddCmd)
	catalogCmd.AddCommand(catalogRefreshCmd)
	rootCmd.AddCommand(liftCmd)
	rootCmd.AddCommand(catalogCmd)
}

func liftSettingsFromFlags(cmd *cobra.Command) models.LiftSettings {
	var s models.LiftSettings
	if cmd.Flags().Changed("weight") {
		w := liftWeight
		s.DefaultWeight = &w
	}
	if cmd.Flags().Changed("increment") {
		inc := liftIncrement
		s.WeightIncrement = &inc
	}
	if cmd.Flags().Changed("reps") {
		reps := liftReps
		s.DefaultReps = &reps
	}
	return s
}

// findLift matches a lift by id, then by case-insensitive name.
func findLift(ref string) (models.Lift, error) {
	if l, ok := tr.Lift(ref); ok {
		return l, nil
	}
	for _, l := range tr.Lifts() {
		if strings.EqualFold(l.Name, strings.TrimSpace(ref)) {
			return l, nil
		}
	}
	return models.Lift{}, fmt.Errorf("unknown lift %q (see 'repquest lift list')", ref)
}
