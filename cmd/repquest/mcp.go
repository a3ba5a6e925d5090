// ABOUTME: mcp command: serves the tracker to assistants over stdio.
// ABOUTME: Refreshes the catalog first and watches sync connectivity while serving.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/repquest/internal/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var mcpWatchInterval time.Duration

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Serve repquest over the Model Context Protocol on stdin/stdout.

On start the lift catalog is reconciled with the sync server. While the
server runs, queued archives are pushed whenever the sync server becomes
reachable (see --sync-interval).

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "repquest": {
        "command": "repquest",
        "args": ["mcp"]
      }
    }
  }

TOOLS:

  get_today               current split day with slot status
  start_workout           start a slot
  log_set                 log a completed set
  remove_set              remove a logged set
  add_set                 raise a slot's target set count for this session
  complete_workout        complete a slot and record history
  undo_complete_workout   reopen a completed slot
  finish_day              finish the day and advance
  move_to_day             jump to a day of the split
  get_progress            PR, volume, and recent sessions for a lift

RESOURCES:

  repquest://today        today's slots
  repquest://progress     progress overview and training calendar`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mcpWatchInterval <= 0 {
			return fmt.Errorf("--sync-interval must be positive, got %s", mcpWatchInterval)
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if _, err := tr.RefreshCatalog(ctx, fetcher()); err != nil {
			logger.Warn("catalog refresh failed", "err", err)
		}

		server, err := mcp.NewServer(tr, mcp.Options{
			Syncer:  syncer,
			Logger:  logger.WithPrefix("mcp"),
			Version: version,
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			// stdin closing ends the session; stop the watcher with it.
			defer cancel()
			return server.Serve(gctx)
		})
		if syncCfg.IsConfigured() {
			g.Go(func() error {
				if err := syncer.Watch(gctx, mcpWatchInterval, nil); err != nil && gctx.Err() == nil {
					logger.Warn("sync watch stopped", "err", err)
				}
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	mcpCmd.Flags().DurationVar(&mcpWatchInterval, "sync-interval", time.Minute, "sync connectivity poll interval")
	rootCmd.AddCommand(mcpCmd)
}
