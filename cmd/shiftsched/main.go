// Command shiftsched is the CLI driver described in SPEC_FULL.md §3.9: a
// thin external collaborator that loads configuration, wires the scheduling
// infrastructure, and hands control to the solve command group. It never
// contains scheduling logic itself.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/felixgeelhaar/shiftsched/adapter/cli"
	_ "github.com/felixgeelhaar/shiftsched/adapter/cli/solve"
	"github.com/felixgeelhaar/shiftsched/internal/app"
	"github.com/felixgeelhaar/shiftsched/pkg/config"
	"github.com/felixgeelhaar/shiftsched/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	container, err := buildContainer(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cliApp := cli.NewApp(cfg, logger, container.Registry)
	cliApp.SnapshotStore = container.SnapshotStore
	cliApp.ResultCache = container.ResultCache
	cliApp.EventPublisher = container.SolveEvents
	cliApp.CalendarPublisher = container.CalendarPublisher

	cli.SetApp(cliApp)
	cli.SetLogger(logger)
	cli.Execute()
}

// buildContainer picks local (SQLite) or full (Postgres/Redis/RabbitMQ)
// wiring depending on cfg.
func buildContainer(cfg *config.Config, logger *slog.Logger) (*app.Container, error) {
	ctx := context.Background()

	if cfg.IsLocalMode() {
		return app.NewLocalContainer(ctx, cfg, logger)
	}
	return app.NewContainer(ctx, cfg, logger)
}
