// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies the snapshot, pending queue, and newest archive; optionally switches the config.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/repquest/internal/config"
	"github.com/harperreed/repquest/internal/storage"
	"github.com/harperreed/repquest/internal/sync"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateForce  bool
	migrateSwitch bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move data between storage backends",
	Long: `Copy workout data from one storage backend to another.

BACKENDS:

  sqlite   ~/.local/share/repquest/repquest.db (default)
  badger   ~/.local/share/repquest/badger
  charm    Charm KV, synced through Charm Cloud

The snapshot, pending-sync queue, and newest local archive are copied.
The destination must be empty unless --force is given.

EXAMPLES:

  repquest migrate --from sqlite --to badger
  repquest migrate --from sqlite --to charm --switch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if migrateFrom == "" {
			migrateFrom = base.GetBackend()
		}
		if migrateTo == "" {
			return fmt.Errorf("--to is required")
		}
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %s", migrateFrom)
		}
		logger = newLogger(base.GetLogLevel())

		src := *base
		src.Backend = migrateFrom
		dst := *base
		dst.Backend = migrateTo
		for _, c := range []*config.Config{&src, &dst} {
			if err := c.Validate(); err != nil {
				return err
			}
		}

		if !migrateForce {
			nonEmpty, err := destinationHasData(&dst)
			if err != nil {
				return err
			}
			if nonEmpty {
				return fmt.Errorf("%s storage already has data (use --force to merge into it)", migrateTo)
			}
		}

		syncConf, err := sync.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load sync config: %w", err)
		}

		srcRepo, err := src.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateFrom, err)
		}
		defer srcRepo.Close()
		dstRepo, err := dst.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateTo, err)
		}
		defer dstRepo.Close()

		summary, err := storage.MigrateData(srcRepo, dstRepo, syncConf.UserID)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s → %s", migrateFrom, migrateTo)
		fmt.Printf("  Snapshot: %v\n", summary.Snapshot)
		fmt.Printf("  Pending:  %d\n", summary.Pending)
		fmt.Printf("  Archives: %d\n", summary.Archives)

		if migrateSwitch {
			base.Backend = migrateTo
			if err := base.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.Green("✓ Now using %s storage", migrateTo)
		} else {
			faintf("Set \"backend\": %q in %s to use it.", migrateTo, config.GetConfigPath())
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (default: configured backend)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "migrate into a non-empty destination")
	migrateCmd.Flags().BoolVar(&migrateSwitch, "switch", false, "use the destination backend from now on")
	rootCmd.AddCommand(migrateCmd)
}

// destinationHasData reports whether the local files for a backend exist.
// Charm storage is remote-backed and always reported empty.
func destinationHasData(c *config.Config) (bool, error) {
	switch c.GetBackend() {
	case config.BackendSQLite:
		_, err := os.Stat(filepath.Join(c.GetDataDir(), storage.DBFile))
		if os.IsNotExist(err) {
			return false, nil
		}
		return err == nil, err
	case config.BackendBadger:
		return storage.IsDirNonEmpty(filepath.Join(c.GetDataDir(), "badger"))
	default:
		return false, nil
	}
}
