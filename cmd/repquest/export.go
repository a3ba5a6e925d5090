// ABOUTME: export and import commands for repquest backups.
// ABOUTME: JSON round-trips through import; YAML and Markdown are for reading.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/repquest/internal/models"
	"github.com/harperreed/repquest/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
	exportLift   string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export workout data",
	Long: `Write lifts, splits, history and workout state in one of three formats.

FORMATS:

  json       full backup, restorable with 'repquest import'
  yaml       readable dump with history grouped by lift
  markdown   one table per lift (alias: md)

--since and --lift narrow Markdown output only.

EXAMPLES:

  repquest export json -o backup.json
  repquest export yaml
  repquest export md --lift squat --since 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := render(args[0])
		if err != nil {
			return err
		}

		if exportOutput == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(exportOutput, data, 0600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		color.Green("✓ Exported %s to %s", args[0], exportOutput)
		return nil
	},
}

func render(format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = store.ExportJSON()
	case "yaml":
		data, err = store.ExportYAML()
	case "markdown", "md":
		filter, ferr := markdownFilter()
		if ferr != nil {
			return nil, ferr
		}
		var md string
		md, err = store.ExportMarkdown(filter)
		data = []byte(md)
	default:
		return nil, fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
	}
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	return data, nil
}

func markdownFilter() (storage.MarkdownFilter, error) {
	f := storage.MarkdownFilter{Since: exportSince}
	if exportSince != "" {
		if _, err := time.Parse(models.DateLayout, exportSince); err != nil {
			return f, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
		}
	}
	if exportLift != "" {
		lift, err := findLift(exportLift)
		if err != nil {
			return f, err
		}
		f.LiftID = lift.ID
	}
	return f, nil
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore workout data from a JSON export",
	Long: `Replace local workout data with a backup made by 'repquest export json'.

The pending-sync queue and local archives are left alone.

EXAMPLES:

  repquest import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		summary, err := store.ImportJSON(raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %s", args[0])
		faintf("  %d lifts, %d splits, %d logged sessions", summary.Lifts, summary.Splits, summary.Sessions)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include history since date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportLift, "lift", "", "only include one lift (id or name)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
