package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ahxxm/yardplan/internal/orchestrator"
	"github.com/ahxxm/yardplan/internal/telemetry"
	"github.com/ahxxm/yardplan/internal/yardconfig"
)

// benchRow is one line of the bench table: grounded on the teacher's
// BenchOutput/ContestResult shape in main.go.
type benchRow struct {
	Seed         int64
	CostBaseline int
	CostBest     int
	Improvement  float64
	Feasible     bool
}

func newBenchCommand() *cobra.Command {
	var (
		yardConfigPath string
		snapshotPath   string
		commandsPath   string
		seeds          []int64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the optimiser across several seeds and print a comparison table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(seeds) == 0 {
				seeds = []int64{1, 2, 3, 4, 5}
			}

			logger, _ := telemetry.NewLogger(telemetry.LoggingConfig{Level: logLevel, Format: "console", Output: "stderr"})
			metrics, _ := telemetry.NewMetrics(telemetry.DefaultMetricsConfig())

			rows := make([]benchRow, 0, len(seeds))
			for _, seed := range seeds {
				cfg := yardconfig.Default()
				cfg.Seed = seed

				orch := orchestrator.New(cfg, logger, metrics)
				res, err := orch.Run(cmd.Context(), orchestrator.Inputs{
					YardConfigPath: yardConfigPath,
					SnapshotPath:   snapshotPath,
					CommandsPath:   commandsPath,
				})
				if err != nil {
					return err
				}
				rows = append(rows, benchRow{
					Seed:         seed,
					CostBaseline: res.CostBaseline,
					CostBest:     res.CostBest,
					Improvement:  res.ImprovementPct,
					Feasible:     res.Feasible,
				})
			}

			printBenchTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&yardConfigPath, "yard-config", "yard_config.csv", "path to yard_config.csv")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "mock_yard.csv", "path to mock_yard.csv")
	cmd.Flags().StringVar(&commandsPath, "commands", "mock_commands.csv", "path to mock_commands.csv")
	cmd.Flags().Int64SliceVar(&seeds, "seed", nil, "seeds to benchmark (repeatable); defaults to 1..5")
	return cmd
}

func printBenchTable(w io.Writer, rows []benchRow) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tBASELINE\tBEST\tIMPROVEMENT\tFEASIBLE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.1f%%\t%v\n", r.Seed, r.CostBaseline, r.CostBest, r.Improvement, r.Feasible)
	}
	tw.Flush()
}
