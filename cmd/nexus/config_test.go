// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nexus/internal/report"
	"github.com/pdiddy/nexus/internal/secrets"
	"github.com/pdiddy/nexus/pkg/types"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	loadedSecrets = nil
	t.Cleanup(func() {
		viper.Reset()
		loadedSecrets = nil
	})
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)
	loadedSecrets = map[string]string{secrets.GeminiKeyFile: "from-file"}

	cfg, err := loadConfig(true)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.AI.APIKey)
	assert.Equal(t, types.DefaultSearchModel, cfg.Search.Model)
	assert.Equal(t, types.DefaultSimulationModel, cfg.Simulation.Model)
	assert.Equal(t, types.DefaultThinkingBudget, cfg.Simulation.ThinkingBudget)
	assert.Equal(t, types.DefaultServerAddr, cfg.Server.Addr)
	assert.Empty(t, cfg.Journal.Path)
}

func TestLoadConfigOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("GEMINI_API_KEY", "from-env")
	viper.Set("search.timeout", "5s")
	viper.Set("simulation.thinking_budget", 512)
	viper.Set("ai.max_retries", 3)
	viper.Set("journal.path", "state/journal.db")

	cfg, err := loadConfig(true)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AI.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, int32(512), cfg.Simulation.ThinkingBudget)
	assert.Equal(t, 3, cfg.AI.MaxRetries)
	assert.Equal(t, "state/journal.db", cfg.Journal.Path)

	viper.Set("ai.api_key", "explicit")
	cfg, err = loadConfig(true)
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.AI.APIKey)
}

func TestLoadConfigMissingKey(t *testing.T) {
	resetViper(t)

	_, err := loadConfig(true)
	assert.ErrorIs(t, err, secrets.ErrMissingAPIKey)

	cfg, err := loadConfig(false)
	require.NoError(t, err)
	assert.Empty(t, cfg.AI.APIKey)
}

func TestOutputFormat(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("yaml", false, "")

	f, err := outputFormat(cmd)
	require.NoError(t, err)
	assert.Equal(t, report.FormatTable, f)

	require.NoError(t, cmd.Flags().Set("yaml", "true"))
	f, err = outputFormat(cmd)
	require.NoError(t, err)
	assert.Equal(t, report.FormatYAML, f)

	require.NoError(t, cmd.Flags().Set("json", "true"))
	_, err = outputFormat(cmd)
	assert.Error(t, err)
}
