// ABOUTME: Root Cobra command for repquest CLI.
// ABOUTME: Opens storage, tracker, and syncer in PersistentPreRunE; closes them in PersistentPostRunE.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/repquest/internal/config"
	"github.com/harperreed/repquest/internal/remote"
	"github.com/harperreed/repquest/internal/storage"
	"github.com/harperreed/repquest/internal/sync"
	"github.com/harperreed/repquest/internal/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var (
	cfg          *config.Config
	syncCfg      *sync.Config
	logger       *log.Logger
	store        *storage.Store
	tr           *tracker.Tracker
	remoteClient *remote.Client
	syncer       *sync.Syncer

	verbose bool
)

// commands that manage storage themselves or need none
var skipInit = map[string]bool{
	"help":          true,
	"version":       true,
	"completion":    true,
	"migrate":       true,
	"install-skill": true,
}

var rootCmd = &cobra.Command{
	Use:   "repquest",
	Short: "Strength training tracker",
	Long: `RepQuest tracks strength workouts through a rotating training split.

HOW IT WORKS:

  A split is a rotation of training days (Push, Pull, Legs). Each day lists
  lifts; each lift on the current day is a workout slot you start, log sets
  against, and complete. Finishing the day moves you to the next one.

QUICK START:

  $ repquest today                 # Show today's slots
  $ repquest start bench           # Start a slot by lift name, id, or number
  $ repquest log bench 135x8       # Log a set (weight x reps)
  $ repquest done bench            # Complete the slot, record history
  $ repquest finish                # Finish the day, advance the split

PLANNING:

  $ repquest day list              # Days of the current split
  $ repquest day goto 3            # Jump to a day
  $ repquest split use upper_lower # Switch splits
  $ repquest lift set squat --weight 185

PROGRESS:

  $ repquest progress squat        # PR, 30-day volume, recent sessions

SYNC:

  Completed workouts and finished days are archived to a workout-data server.
  Writes made offline are queued and sent when the server is reachable.

  $ repquest sync link https://lifts.example.com
  $ repquest sync status
  $ repquest sync push

MCP INTEGRATION:

  Run 'repquest mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "repquest": { "command": "repquest", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data lives in ~/.local/share/repquest (SQLite by default). Set "backend"
  in ~/.config/repquest/config.json to "badger" or "charm" to switch.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipInit[cmd.Name()] {
			return nil
		}
		return initApp()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(level log.Level) *log.Logger {
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "repquest",
		Level:           level,
		ReportTimestamp: true,
	})
}

func initApp() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger = newLogger(cfg.GetLogLevel())

	syncCfg, err = sync.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load sync config: %w", err)
	}
	syncCfg.ApplyEnv()

	repo, err := cfg.OpenStorage(logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	store = storage.NewStore(repo, logger)

	tr = tracker.New(store, tracker.Options{
		Logger:     logger.WithPrefix("tracker"),
		UndoPolicy: cfg.GetUndoPolicy(),
	})

	var rem sync.Remote
	if syncCfg.Server != "" {
		remoteClient = remote.NewClient(syncCfg.Server, cfg.GetTimeout(), logger.WithPrefix("remote"))
		rem = remoteClient
	}
	syncer, err = sync.NewSyncer(syncCfg, repo, rem, sync.Options{
		Logger:      logger.WithPrefix("sync"),
		MaxAttempts: cfg.GetMaxSyncAttempts(),
	})
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to initialize sync: %w", err)
	}
	return nil
}

func closeApp() error {
	var err error
	if syncCfg != nil && syncCfg.IsConfigured() {
		if serr := sync.SaveConfig(syncCfg); serr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to save sync config: %w", serr))
		}
	}
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close storage: %w", cerr))
		}
		store = nil
	}
	return err
}

// fetcher returns the lift catalog source, or nil when no server is linked.
func fetcher() tracker.LiftFetcher {
	if remoteClient == nil {
		return nil
	}
	return remoteClient
}

// archive sends the current snapshot to the server or queues it, and reports
// the outcome. Local state is already saved, so failures only warn.
func archive(ctx context.Context) {
	queued, err := syncer.Archive(ctx, tr.Snapshot())
	switch {
	case err != nil:
		warnf("Archive failed: %v", err)
	case queued && syncCfg.IsConfigured():
		faintf("  archive queued; run 'repquest sync push' when online")
	case queued:
		faintf("  archive kept locally; run 'repquest sync link <server>' to sync")
	default:
		faintf("  archived to %s", syncCfg.Server)
	}
}
