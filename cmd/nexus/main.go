// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nexus CLI: the research assistant
// dashboard server plus terminal access to grounded search, outcome
// simulation, and the call journal.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nexus/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the nexus CLI.
var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Research assistant dashboard with grounded search and outcome simulation",
	Long: `nexus serves a research assistant dashboard backed by the Gemini API.
Paper Discovery runs a grounded web search and returns a summary with cited
sources. The Outcome Simulator asks a reasoning model to predict the outcome,
risks, and timeline of a hypothesis under the given parameters.

Both operations are also available from the terminal through the search and
simulate subcommands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadDotEnv(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./nexus.yaml or ~/.config/nexus/nexus.yaml)")
	pf.String("api-key", "", "Gemini API key (overrides GEMINI_API_KEY, API_KEY, and .secrets/gemini-api-key)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Int("max-retries", 0, "retries on HTTP 429 from the model API")
	pf.String("journal", "", "SQLite file recording every model call (empty disables)")

	viper.BindPFlag("ai.api_key", pf.Lookup("api-key"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("ai.max_retries", pf.Lookup("max-retries"))
	viper.BindPFlag("journal.path", pf.Lookup("journal"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nexus")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nexus"))
		}
	}

	viper.SetEnvPrefix("NEXUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
