package solve

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shiftsched/adapter/cli"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/application/solving/relax"
)

var (
	diagnoseFile    string
	diagnoseBackend string
)

// diagnoseCmd forces the relaxation-prober path (internal/scheduling/
// application/solving/relax) regardless of whether the resolved backend
// supports IIS extraction, letting an operator inspect what relaxation
// probing alone would report for a snapshot. The orchestrator's normal
// Solve path prefers IIS over relaxation whenever the backend supports it
// (spec.md §4.6); this command deliberately bypasses that preference.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Force the relaxation-prober path over a snapshot, for inspection",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}

		snap, err := loadSnapshot(diagnoseFile)
		if err != nil {
			return err
		}

		id := diagnoseBackend
		if id == "" {
			id = app.Config.SolverBackend
		}
		orchestrator, err := app.Orchestrator(cmd.Context(), id)
		if err != nil {
			return err
		}

		timeLimit := time.Duration(snap.Config.TimeLimitSeconds * float64(time.Second))
		diagnostics, err := relax.Probe(cmd.Context(), orchestrator.Backend, snap, timeLimit)
		if err != nil {
			return fmt.Errorf("relaxation probe: %w", err)
		}

		if len(diagnostics) == 0 {
			fmt.Println("relaxation probe found no diagnostics")
			return nil
		}
		for _, d := range diagnostics {
			fmt.Printf("[%s] %s: %s\n", d.Severity, d.ConstraintTag, d.Message)
		}
		return nil
	},
}

func init() {
	diagnoseCmd.Flags().StringVarP(&diagnoseFile, "file", "f", "", "path to a JSON snapshot file (required)")
	diagnoseCmd.Flags().StringVarP(&diagnoseBackend, "backend", "b", "", "solver backend ID or short name (defaults to config)")
	_ = diagnoseCmd.MarkFlagRequired("file")

	solveCmd.AddCommand(diagnoseCmd)
}
