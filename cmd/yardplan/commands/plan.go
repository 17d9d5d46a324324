package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ahxxm/yardplan/internal/orchestrator"
	"github.com/ahxxm/yardplan/internal/telemetry"
	"github.com/ahxxm/yardplan/internal/yardconfig"
)

func newPlanCommand() *cobra.Command {
	var (
		yardConfigPath string
		snapshotPath   string
		commandsPath   string
		outPath        string
		seed           int64
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a retrieval sequence and write the mission plan",
		Example: "  yardplan plan --yard-config yard_config.csv --snapshot mock_yard.csv \\\n" +
			"    --commands mock_commands.csv --out output_missions.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := telemetry.NewLogger(telemetry.LoggingConfig{Level: logLevel, Format: "console", Output: "stderr"})
			if err != nil {
				return fmt.Errorf("setting up logger: %w", err)
			}

			metricsCfg := telemetry.DefaultMetricsConfig()
			if metricsAddr != "" {
				metricsCfg.Enabled = true
				metricsCfg.ListenAddress = metricsAddr
			}
			metrics, err := telemetry.NewMetrics(metricsCfg)
			if err != nil {
				return fmt.Errorf("setting up metrics: %w", err)
			}
			if metricsCfg.Enabled {
				mux := http.NewServeMux()
				mux.Handle(metricsCfg.Path, metrics.Handler())
				srv := &http.Server{Addr: metricsCfg.ListenAddress, Handler: mux}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error().Err(err).Str("addr", metricsCfg.ListenAddress).Msg("metrics server stopped")
					}
				}()
				defer srv.Close()
				logger.Info().Str("addr", metricsCfg.ListenAddress).Str("path", metricsCfg.Path).Msg("serving prometheus metrics")
			}

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
			if !res.Feasible {
				return fmt.Errorf("best sequence found is infeasible, no plan emitted")
			}

			if err := orchestrator.WriteResult(outPath, res); err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s: baseline=%d best=%d improvement=%.1f%% elapsed=%s\n",
				res.RunID, res.CostBaseline, res.CostBest, res.ImprovementPct, res.Elapsed)
			return nil
		},
	}

	cmd.Flags().StringVar(&yardConfigPath, "yard-config", "yard_config.csv", "path to yard_config.csv")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "mock_yard.csv", "path to mock_yard.csv")
	cmd.Flags().StringVar(&commandsPath, "commands", "mock_commands.csv", "path to mock_commands.csv")
	cmd.Flags().StringVar(&outPath, "out", "output_missions.csv", "path to write output_missions.csv")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for the evolutionary search (0 derives a seed from wall-clock time)")
	return cmd
}
