// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nexus/internal/report"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Run a grounded paper search",
	Long: `Search asks the low-latency model for a markdown summary of research
papers and clinical trials related to the query, grounded by a web search.
Cited sources are listed in the order the grounding tool returned them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	q := strings.Join(args, " ")
	fmt.Fprintf(os.Stderr, "Searching: %s\n", q)
	result, err := a.service.PerformGroundedSearch(ctx, q)
	if err != nil {
		return err
	}
	return report.Search(os.Stdout, result, format)
}

// outputFormat reads the --json and --yaml switches.
func outputFormat(cmd *cobra.Command) (report.Format, error) {
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	switch {
	case asJSON && asYAML:
		return "", fmt.Errorf("--json and --yaml are mutually exclusive")
	case asJSON:
		return report.FormatJSON, nil
	case asYAML:
		return report.FormatYAML, nil
	default:
		return report.FormatTable, nil
	}
}

func init() {
	searchCmd.Flags().Bool("json", false, "output the result as JSON")
	searchCmd.Flags().Bool("yaml", false, "output the result as YAML")

	rootCmd.AddCommand(searchCmd)
}
