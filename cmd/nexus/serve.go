// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nexus/internal/server"
	"github.com/pdiddy/nexus/internal/shell"
	"github.com/pdiddy/nexus/internal/view"
	"github.com/pdiddy/nexus/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the research assistant dashboard",
	Long: `Serve starts the dashboard HTTP server. The sidebar switches between the
overview, Paper Discovery, the Outcome Simulator, and Saved Research. Each
working surface accepts one request at a time; leaving a surface discards
its result.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	search := view.NewSearchView(a.service)
	simulation := view.NewSimulationView(a.service)
	sh := shell.New(map[types.ViewState]shell.Resetter{
		types.ViewSearch:     search,
		types.ViewSimulation: simulation,
	})

	srv, err := server.New(a.cfg.Server, sh, search, simulation, a.logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	serveCmd.Flags().String("addr", types.DefaultServerAddr, "listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
