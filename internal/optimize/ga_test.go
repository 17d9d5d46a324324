package optimize

import (
	"context"
	"math/rand"
	"testing"

	"github.com/ahxxm/yardplan/internal/yard"
	"github.com/ahxxm/yardplan/internal/yardconfig"
)

func TestRunFindsReversedOrder(t *testing.T) {
	// Two bays: in a single bay, returning 2 would bury 1 again with
	// nowhere to move it, so neither order could complete.
	y := yard.New(1, 2, 2, 2)
	y.Place(1, 0, 0, 0)
	y.Place(2, 0, 0, 1)

	cfg := yardconfig.Default()
	cfg.PopulationSize = 10
	cfg.Generations = 5
	cfg.BeamWidth = 1

	rng := rand.New(rand.NewSource(42))
	best, cost := Run(context.Background(), cfg, y, []int{1, 2}, rng, nil)

	if cost != 0 {
		t.Fatalf("best cost = %d, want 0", cost)
	}
	if len(best) != 2 || best[0] != 2 || best[1] != 1 {
		t.Fatalf("best sequence = %v, want [2 1]", best)
	}
}

func TestRunEmptyTargets(t *testing.T) {
	y := yard.New(1, 1, 1, 1)
	cfg := yardconfig.Default()
	rng := rand.New(rand.NewSource(1))

	best, cost := Run(context.Background(), cfg, y, nil, rng, nil)
	if best != nil || cost != 0 {
		t.Fatalf("Run with no targets = %v, %d, want nil, 0", best, cost)
	}
}

func TestRunIsDeterministicUnderFixedSeed(t *testing.T) {
	targets := []int{1, 2, 3}
	buildYard := func() *yard.State {
		y := yard.New(1, 3, 2, 3)
		y.Place(1, 0, 0, 0)
		y.Place(2, 0, 1, 0)
		y.Place(3, 0, 2, 0)
		return y
	}

	cfg := yardconfig.Default()
	cfg.PopulationSize = 12
	cfg.Generations = 4

	rng1 := rand.New(rand.NewSource(7))
	best1, cost1 := Run(context.Background(), cfg, buildYard(), targets, rng1, nil)

	rng2 := rand.New(rand.NewSource(7))
	best2, cost2 := Run(context.Background(), cfg, buildYard(), targets, rng2, nil)

	if cost1 != cost2 {
		t.Fatalf("costs differ across identical seeds: %d vs %d", cost1, cost2)
	}
	for i := range best1 {
		if best1[i] != best2[i] {
			t.Fatalf("sequences differ across identical seeds: %v vs %v", best1, best2)
		}
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	y := yard.New(1, 1, 2, 2)
	y.Place(1, 0, 0, 0)
	y.Place(2, 0, 0, 1)

	cfg := yardconfig.Default()
	cfg.PopulationSize = 10
	cfg.Generations = 1000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rng := rand.New(rand.NewSource(1))
	best, _ := Run(ctx, cfg, y, []int{1, 2}, rng, nil)
	if best == nil {
		t.Fatalf("Run with an already-cancelled context should still return the initial population's best-so-far")
	}
}
