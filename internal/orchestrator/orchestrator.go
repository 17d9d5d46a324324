// Package orchestrator wires the yard, evaluator, simulator and
// optimiser together: load inputs, establish a baseline, search for
// a better sequence, and emit the resulting mission plan.
package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ahxxm/yardplan/internal/missionlog"
	"github.com/ahxxm/yardplan/internal/optimize"
	"github.com/ahxxm/yardplan/internal/sim"
	"github.com/ahxxm/yardplan/internal/telemetry"
	"github.com/ahxxm/yardplan/internal/yard"
	"github.com/ahxxm/yardplan/internal/yardconfig"
	"github.com/ahxxm/yardplan/internal/yarddata"
)

// Inputs bundles the file paths a planning run reads from.
type Inputs struct {
	YardConfigPath string
	SnapshotPath   string
	CommandsPath   string
}

// Result is the summary the CLI and the Lambda handler both render.
type Result struct {
	RunID          string
	CostBaseline   int
	CostBest       int
	ImprovementPct float64
	Elapsed        time.Duration
	BestOrder      []int
	Log            []missionlog.Entry
	Feasible       bool
}

// Orchestrator runs the seven-step pipeline: load config, load
// snapshot, load commands, baseline-evaluate, evolve, re-simulate
// with logging, and hand back a Result for the caller to emit.
type Orchestrator struct {
	Config  yardconfig.Config
	Logger  *telemetry.Logger
	Metrics *telemetry.Metrics
}

// New builds an Orchestrator with sane defaults for any fields left
// unset by the caller.
func New(cfg yardconfig.Config, logger *telemetry.Logger, metrics *telemetry.Metrics) *Orchestrator {
	if logger == nil {
		logger, _ = telemetry.NewLogger(telemetry.DefaultLoggingConfig())
	}
	if metrics == nil {
		metrics, _ = telemetry.NewMetrics(telemetry.DefaultMetricsConfig())
	}
	return &Orchestrator{Config: cfg, Logger: logger, Metrics: metrics}
}

// Run executes the full pipeline against the given input files: load
// config, load snapshot, load commands, then delegate to RunLoaded.
func (o *Orchestrator) Run(ctx context.Context, in Inputs) (Result, error) {
	dims, fellBack := yarddata.LoadYardConfig(in.YardConfigPath)
	if fellBack {
		o.Logger.Warn().Str("path", in.YardConfigPath).Msg("yard config missing or invalid, using fallback dimensions")
	}
	o.Config.MaxRow, o.Config.MaxBay, o.Config.MaxLevel = dims.MaxRow, dims.MaxBay, dims.MaxLevel

	boxes, err := yarddata.LoadSnapshot(in.SnapshotPath)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: loading snapshot: %w", err)
	}

	y0, err := yarddata.BuildYard(dims, boxes)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: building yard: %w", err)
	}

	cmds, err := yarddata.LoadCommands(in.CommandsPath)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: loading commands: %w", err)
	}

	targets, batchIDs := yarddata.SelectTargets(cmds, y0)
	if len(targets) == 0 {
		return Result{}, fmt.Errorf("orchestrator: no valid targets among commands")
	}

	return o.RunLoaded(ctx, y0, targets, batchIDs)
}

// RunLoaded runs steps 4-7 of the pipeline (baseline, evolve,
// re-simulate, summarize) against an already-built yard and target
// list. The Lambda entry point, which parses its yard and commands
// from a JSON payload rather than files, calls this directly.
func (o *Orchestrator) RunLoaded(ctx context.Context, y0 *yard.State, targets, batchIDs []int) (Result, error) {
	runID := uuid.NewString()
	log := o.Logger.WithRunID(runID)
	start := time.Now()
	o.Metrics.RecordRunStarted()

	if len(targets) == 0 {
		o.Metrics.RecordRunCompleted("error", time.Since(start))
		return Result{}, fmt.Errorf("orchestrator: no valid targets among commands")
	}
	log.Info().Int("target_count", len(targets)).Msg("loaded yard and commands")

	costBaseline, _ := sim.Simulate(o.Config, y0, targets, batchIDs, false, o.Metrics, "baseline")

	seed := o.Config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	bestOrder, costBest := optimize.Run(ctx, o.Config, y0, targets, rng, o.Metrics)
	o.Metrics.SetBestCost(costBest)

	feasible := costBest != sim.Infeasible
	var planLog []missionlog.Entry
	if feasible {
		bestBatchIDs := reorderBatchIDs(targets, batchIDs, bestOrder)
		_, planLog = sim.Simulate(o.Config, y0, bestOrder, bestBatchIDs, true, o.Metrics, "final")
	} else {
		o.Metrics.RecordInfeasible()
		log.Error().Msg("best sequence found is infeasible; emitting no plan")
	}

	improvement := 0.0
	if feasible && costBaseline != sim.Infeasible && costBaseline > 0 {
		improvement = 100 * float64(costBaseline-costBest) / float64(costBaseline)
	}

	elapsed := time.Since(start)
	status := "ok"
	if !feasible {
		status = "infeasible"
	}
	o.Metrics.RecordRunCompleted(status, elapsed)
	log.Info().
		Int("cost_baseline", costBaseline).
		Int("cost_best", costBest).
		Float64("improvement_pct", improvement).
		Dur("elapsed", elapsed).
		Msg("planning run complete")

	return Result{
		RunID:          runID,
		CostBaseline:   costBaseline,
		CostBest:       costBest,
		ImprovementPct: improvement,
		Elapsed:        elapsed,
		BestOrder:      bestOrder,
		Log:            planLog,
		Feasible:       feasible,
	}, nil
}

// reorderBatchIDs re-derives the batch-ID slice for a permuted target
// order, since optimize.Run only permutes container IDs and does not
// carry batch attribution through the search.
func reorderBatchIDs(originalTargets, originalBatchIDs, order []int) []int {
	batchByID := make(map[int]int, len(originalTargets))
	for i, id := range originalTargets {
		batchByID[id] = originalBatchIDs[i]
	}
	out := make([]int, len(order))
	for i, id := range order {
		out[i] = batchByID[id]
	}
	return out
}

// WriteResult persists Result.Log to output_missions.csv.
func WriteResult(path string, res Result) error {
	return yarddata.WriteMissions(path, res.Log)
}
