// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nexus/internal/report"
	"github.com/pdiddy/nexus/internal/view"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Predict the outcome of a hypothesis",
	Long: `Simulate asks the reasoning model to act as a senior lead researcher and
predict the outcome of the hypothesis under the given parameters. The
result carries a confidence score, risk factors, and a projected timeline.`,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	hypothesis, _ := cmd.Flags().GetString("hypothesis")
	parameters, _ := cmd.Flags().GetString("parameters")
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

	fmt.Fprintln(os.Stderr, "Simulating outcome...")
	result, err := a.service.PerformOutcomeSimulation(ctx, hypothesis, parameters)
	if err != nil {
		return err
	}
	return report.Simulation(os.Stdout, view.Project(result), format)
}

func init() {
	simulateCmd.Flags().String("hypothesis", "", "hypothesis or proposed solution (required)")
	simulateCmd.Flags().String("parameters", "", "experimental parameters and variables (required)")
	simulateCmd.Flags().Bool("json", false, "output the result as JSON")
	simulateCmd.Flags().Bool("yaml", false, "output the result as YAML")
	simulateCmd.MarkFlagRequired("hypothesis")
	simulateCmd.MarkFlagRequired("parameters")

	rootCmd.AddCommand(simulateCmd)
}
