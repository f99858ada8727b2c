package solve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shiftsched/adapter/cli"
)

var serveBackend string

// serveCmd loads the registry and keeps a plugin backend warm, per
// SPEC_FULL.md §3.9: a gRPC plugin backend pays its process-launch cost
// once at Get, not per solve, so an operator running one routinely can
// start it here and leave it resident rather than re-launching it from
// every snapshot/diagnose invocation.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the solver registry and keep a backend warm",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}

		id := serveBackend
		if id == "" {
			id = app.Config.SolverBackend
		}

		ctx := cmd.Context()
		if _, err := app.Orchestrator(ctx, id); err != nil {
			return fmt.Errorf("warm backend %q: %w", id, err)
		}
		app.Logger.Info("solver backend warm", "backend", id)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				app.Logger.Info("shutting down solver backend", "backend", id)
				return app.Registry.ShutdownAll(context.Background())
			case <-ticker.C:
				app.Logger.Debug("solver backend alive", "backend", id)
			}
		}
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveBackend, "backend", "b", "", "solver backend ID or short name to keep warm (defaults to config)")

	solveCmd.AddCommand(serveCmd)
}
