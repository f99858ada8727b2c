// Package solve is the "solve" command group of shiftsched's CLI, the
// thin external collaborator SPEC_FULL.md §3.9 describes: it reads a
// snapshot, resolves a solver backend through the registry, and prints a
// result. No scheduling logic lives here; everything it calls into is
// already in internal/scheduling.
package solve

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shiftsched/adapter/cli"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run or inspect a schedule solve",
}

func init() {
	cli.AddCommand(solveCmd)
}
