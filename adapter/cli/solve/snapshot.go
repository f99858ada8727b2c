package solve

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shiftsched/adapter/cli"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

var (
	snapshotFile    string
	snapshotBackend string
	snapshotOut     string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Run one solve from a JSON snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}

		snap, err := loadSnapshot(snapshotFile)
		if err != nil {
			return err
		}

		orchestrator, err := app.Orchestrator(cmd.Context(), snapshotBackend)
		if err != nil {
			return err
		}

		result, err := orchestrator.Solve(cmd.Context(), snap)
		if err != nil {
			return fmt.Errorf("solve: %w", err)
		}

		printActiveConstraints(snap.Config)
		printResult(result)

		if snapshotOut != "" {
			if err := writeResult(snapshotOut, result); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotFile, "file", "f", "", "path to a JSON snapshot file (required)")
	snapshotCmd.Flags().StringVarP(&snapshotBackend, "backend", "b", "", "solver backend ID or short name (defaults to config)")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "write the solve result as JSON to this path")
	_ = snapshotCmd.MarkFlagRequired("file")

	solveCmd.AddCommand(snapshotCmd)
}

func loadSnapshot(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse snapshot file: %w", err)
	}

	return snap, nil
}

func writeResult(path string, result domain.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}

func printResult(result domain.Result) {
	fmt.Printf("status: %s\n", result.Status)
	if result.Message != "" {
		fmt.Printf("message: %s\n", result.Message)
	}
	fmt.Printf("assignments: %d\n", len(result.Assignments))
	for _, d := range result.Diagnostics {
		fmt.Printf("  [%s] %s: %s\n", d.Severity, d.ConstraintTag, d.Message)
	}
}

// printActiveConstraints prints which optional SolverConfig constraint
// families were active for this solve, per SPEC_FULL.md §4's supplemented
// feature: the snapshot CLI command reports the config that actually
// produced the result, not just a pass/fail outcome.
func printActiveConstraints(cfg domain.SolverConfig) {
	active := make([]string, 0, 7)
	add := func(enabled bool, name string) {
		if enabled {
			active = append(active, name)
		}
	}
	add(cfg.EnablePreferredShift, "preferred_shift")
	add(cfg.EnableFairness, "fairness")
	add(cfg.EnableWeekendFairness, "weekend_fairness")
	add(cfg.EnableSoftStaffing, "soft_staffing")
	add(cfg.EnableShiftInterval, "shift_interval")
	add(cfg.EnableRoleStaffing, "role_staffing")
	add(cfg.EnableWeeklyMinimum, "weekly_minimum")

	if len(active) == 0 {
		fmt.Println("active optional constraints: none")
		return
	}
	fmt.Printf("active optional constraints: %v\n", active)
}
