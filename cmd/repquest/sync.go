// ABOUTME: CLI commands for server sync: link, status, push, pull, retry, and watch.
// ABOUTME: Archives go to the workout-data server; offline writes wait in the pending queue.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/repquest/internal/charm"
	"github.com/harperreed/repquest/internal/remote"
	"github.com/harperreed/repquest/internal/sync"
	"github.com/spf13/cobra"
)

var (
	linkUserID    int
	pullYes       bool
	watchInterval time.Duration
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync workout data with a server",
	Long: `Archive workout data to a RepQuest server.

Completing a workout or finishing a day archives the full state locally and
posts it to the server. When the server is unreachable the write is queued
and retried with backoff: 1s, doubling per failed attempt, capped at 10m.
Items that fail too many times are parked until 'sync retry'.

GETTING STARTED:

  1. Link this device to a server:
     repquest sync link https://lifts.example.com

  2. Check sync status:
     repquest sync status

COMMANDS:

  link <url>  Link this device to a server
  unlink      Forget the server (local data and queue are kept)
  status      Show link state and queue depth
  push        Send queued archives now
  pull        Restore state from the server (or the newest local archive)
  retry       Un-park failed items and push again
  watch       Poll connectivity and push whenever the server comes back`,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link <server-url>",
	Short: "Link this device to a server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user := 0
		if cmd.Flags().Changed("user") {
			if linkUserID <= 0 {
				return fmt.Errorf("--user must be a positive id, got %d", linkUserID)
			}
			user = linkUserID
		}
		if err := syncCfg.Link(args[0], user); err != nil {
			return err
		}
		if err := sync.SaveConfig(syncCfg); err != nil {
			return fmt.Errorf("failed to save sync config: %w", err)
		}
		if err := relink(); err != nil {
			return err
		}

		color.Green("✓ Linked to %s as user %d", syncCfg.Server, syncCfg.UserID)
		if err := remoteClient.Ping(cmd.Context()); err != nil {
			warnf("Server not reachable yet: %v", err)
			fmt.Println("Queued archives will be sent once it is.")
			return nil
		}
		return push(cmd)
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Forget the sync server",
	Long: `Forget the sync server.

This does not delete local data, archives, or queued writes.
You can link again later with 'repquest sync link'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sync.ClearConfig(); err != nil {
			return fmt.Errorf("failed to clear sync config: %w", err)
		}
		syncCfg.Server = ""
		color.Green("✓ Unlinked")
		fmt.Println("Your local workout data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := syncer.Status()
		if err != nil {
			return fmt.Errorf("failed to read sync status: %w", err)
		}

		if st.Server == "" {
			color.Yellow("Not linked to a server")
			fmt.Println("\nRun 'repquest sync link <server-url>' to connect.")
		} else {
			fmt.Println("Server:   ", st.Server)
			fmt.Println("User ID:  ", st.UserID)
			if st.DeviceID != "" {
				fmt.Println("Device ID:", st.DeviceID)
			}
			if err := remoteClient.Ping(cmd.Context()); err != nil {
				color.Yellow("⚠ Offline: %v", err)
			} else {
				color.Green("✓ Online")
			}
		}
		fmt.Println()
		fmt.Printf("  Pending: %d", st.Pending)
		if st.Parked > 0 {
			fmt.Print(color.RedString(" (%d parked, run 'repquest sync retry')", st.Parked))
		}
		fmt.Println()
		if st.LastPush != "" {
			fmt.Println("  Last push:", st.LastPush)
		}
		if st.LastPull != "" {
			fmt.Println("  Last pull:", st.LastPull)
		}
		if st.LastError != "" {
			fmt.Println("  Last error:", faint.Sprint(st.LastError))
		}

		if c, ok := store.Repository().(*charm.Client); ok {
			fmt.Println()
			if id, err := c.ID(); err == nil {
				fmt.Println("Charm ID:", id)
			} else {
				color.Yellow("Charm backend not linked (run 'charm link')")
			}
		}
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send queued archives now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return push(cmd)
	},
}

var syncRetryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Retry parked archives",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := syncer.Retry(); err != nil {
			return fmt.Errorf("failed to reset attempts: %w", err)
		}
		return push(cmd)
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Restore state from the server",
	Long: `Replace local state with the server's archive for this user.

When the server is unreachable or has nothing stored, the newest local
archive is used instead. This is a destructive operation: the current
local state (including logged but uncompleted sets) is overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, fromRemote, err := syncer.Pull(cmd.Context())
		if err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}
		if data == nil {
			warnf("Nothing to restore: no archive on the server or locally")
			return nil
		}
		source := "local archive"
		if fromRemote {
			source = syncCfg.Server
		}

		if !pullYes {
			fmt.Printf("This will REPLACE local workout data with the %s.\n", source)
			fmt.Print("Continue? [y/N]: ")
			var confirm string
			fmt.Scanln(&confirm)
			if confirm != "y" && confirm != "Y" {
				fmt.Println("Canceled.")
				return nil
			}
		}

		if err := tr.Replace(data); err != nil {
			return fmt.Errorf("failed to restore: %w", err)
		}
		color.Green("✓ Restored from %s", source)
		return nil
	},
}

var syncWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Push queued archives whenever the server is reachable",
	Long: `Poll the server and push the queue each time the connection comes back.
Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchInterval <= 0 {
			return fmt.Errorf("--interval must be positive, got %s", watchInterval)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s every %s (Ctrl-C to stop)\n", syncCfg.Server, watchInterval)
		err := syncer.Watch(ctx, watchInterval, func(online bool) {
			if online {
				color.Green("✓ %s online", time.Now().Format("15:04:05"))
			} else {
				color.Yellow("⚠ %s offline", time.Now().Format("15:04:05"))
			}
		})
		if errors.Is(err, remote.ErrNoServer) {
			return fmt.Errorf("not linked; run 'repquest sync link <server-url>' first")
		}
		return err
	},
}

func init() {
	syncLinkCmd.Flags().IntVar(&linkUserID, "user", sync.DefaultUserID, "server user id")
	syncPullCmd.Flags().BoolVarP(&pullYes, "yes", "y", false, "skip confirmation")
	syncWatchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "connectivity poll interval")

	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncRetryCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncWatchCmd)

	rootCmd.AddCommand(syncCmd)
}

// relink rebuilds the remote client and syncer after the server changes.
func relink() error {
	remoteClient = remote.NewClient(syncCfg.Server, cfg.GetTimeout(), logger.WithPrefix("remote"))
	var err error
	syncer, err = sync.NewSyncer(syncCfg, store.Repository(), remoteClient, sync.Options{
		Logger:      logger.WithPrefix("sync"),
		MaxAttempts: cfg.GetMaxSyncAttempts(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sync: %w", err)
	}
	return nil
}

func push(cmd *cobra.Command) error {
	if c, ok := store.Repository().(*charm.Client); ok {
		if err := c.Sync(); err != nil {
			warnf("Charm sync failed: %v", err)
		}
	}

	res, err := syncer.Drain(cmd.Context())
	if errors.Is(err, remote.ErrNoServer) {
		return fmt.Errorf("not linked; run 'repquest sync link <server-url>' first")
	}
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	switch {
	case res.Sent == 0 && res.Failed == 0 && res.Waiting == 0 && res.Parked == 0:
		color.Green("✓ Nothing to push")
	case res.Failed == 0:
		color.Green("✓ Pushed %d archive(s)", res.Sent)
	default:
		warnf("Pushed %d, %d failed", res.Sent, res.Failed)
	}
	if res.Waiting > 0 {
		faintf("  %d waiting for backoff", res.Waiting)
	}
	if res.Parked > 0 {
		faintf("  %d parked; run 'repquest sync retry'", res.Parked)
	}
	return nil
}
