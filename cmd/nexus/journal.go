// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nexus/internal/journal"
	"github.com/pdiddy/nexus/internal/report"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recorded model calls",
	Long: `Journal lists the calls recorded in the SQLite journal, newest first:
which operation ran, how long it took, and its outcome. Failure causes that
are hidden from the dashboard are shown here. Set --journal or journal.path
when serving or searching to record calls.`,
	RunE: runJournal,
}

func runJournal(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	op, _ := cmd.Flags().GetString("op")
	failed, _ := cmd.Flags().GetBool("failed")
	formatName, _ := cmd.Flags().GetString("format")
	summary, _ := cmd.Flags().GetBool("summary")

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if cfg.Journal.Path == "" {
		return fmt.Errorf("no journal configured: set --journal or journal.path")
	}

	store, err := journal.Open(cfg.Journal.Path, newLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if summary {
		stats, err := store.Summary(ctx)
		if err != nil {
			return err
		}
		for _, s := range stats {
			fmt.Fprintf(os.Stdout, "%-20s  %5d calls  %v\n", s.Op, s.Total, s.Outcomes)
		}
		return nil
	}

	entries, err := store.Recent(ctx, journal.Filter{Op: op, Failed: failed, Limit: limit})
	if err != nil {
		return err
	}
	return report.Journal(os.Stdout, entries, format)
}

func init() {
	journalCmd.Flags().Int("limit", 50, "maximum number of calls to list")
	journalCmd.Flags().String("op", "", "filter by operation: grounded_search, outcome_simulation")
	journalCmd.Flags().Bool("failed", false, "list failed calls only")
	journalCmd.Flags().String("format", "table", "output format: table, yaml, json")
	journalCmd.Flags().Bool("summary", false, "print outcome counts per operation")

	rootCmd.AddCommand(journalCmd)
}
