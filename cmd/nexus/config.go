// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/nexus/internal/httputil"
	"github.com/pdiddy/nexus/internal/journal"
	"github.com/pdiddy/nexus/internal/query"
	"github.com/pdiddy/nexus/internal/secrets"
	"github.com/pdiddy/nexus/pkg/types"
)

// loadConfig builds the configuration from viper (flags, env, config file)
// and resolves the API key. Missing keys are an error only when requireKey
// is set.
func loadConfig(requireKey bool) (types.Config, error) {
	cfg := types.Config{
		AI: types.AIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration("ai.timeout"),
				MaxRetries: viper.GetInt("ai.max_retries"),
			},
		},
		Search: types.SearchConfig{
			Model:   viper.GetString("search.model"),
			Timeout: viper.GetDuration("search.timeout"),
		},
		Simulation: types.SimulationConfig{
			Model:          viper.GetString("simulation.model"),
			ThinkingBudget: viper.GetInt32("simulation.thinking_budget"),
			Timeout:        viper.GetDuration("simulation.timeout"),
		},
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Journal: types.JournalConfig{
			Path: viper.GetString("journal.path"),
		},
	}.WithDefaults()

	key, err := secrets.ResolveAPIKey(viper.GetString("ai.api_key"), os.Getenv, loadedSecrets)
	if err != nil && requireKey {
		return cfg, err
	}
	cfg.AI.APIKey = key
	return cfg, nil
}

// newLogger returns a text logger on stderr at the configured level.
func newLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(viper.GetString("log.level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// app bundles what the commands that reach the model share.
type app struct {
	cfg     types.Config
	logger  *slog.Logger
	service *query.Service
	journal *journal.Store
}

func (a *app) Close() error {
	if a.journal != nil {
		return a.journal.Close()
	}
	return nil
}

// newApp wires the Query Service to the Gemini backend, with the
// journal as its observer when one is configured.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(true)
	if err != nil {
		return nil, err
	}
	logger := newLogger()

	a := &app{cfg: cfg, logger: logger}
	var observer query.Observer
	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path, logger)
		if err != nil {
			return nil, err
		}
		a.journal = store
		observer = store
	}

	backend, err := query.NewGeminiBackend(ctx, cfg, httputil.NewClient(cfg.AI.HTTPConfig, logger))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connecting to model API: %w", err)
	}
	logger.Debug("model backend ready", "backend", backend.Name())

	a.service = query.NewService(
		query.NewSearcher(backend, cfg.Search.Timeout, logger, observer),
		query.NewSimulator(backend, cfg.Simulation.Timeout, logger, observer),
	)
	return a, nil
}
