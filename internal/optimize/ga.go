// Package optimize implements the outer evolutionary search: a
// (mu+lambda) hill-climber with elitism and swap mutation, no
// crossover, that permutes a retrieval order to minimize the beam
// search's reported cost.
package optimize

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/ahxxm/yardplan/internal/sim"
	"github.com/ahxxm/yardplan/internal/telemetry"
	"github.com/ahxxm/yardplan/internal/yard"
	"github.com/ahxxm/yardplan/internal/yardconfig"
)

// individual is one candidate retrieval order. fitness is only
// meaningful when set is true; a freshly mutated child clears set so
// its cost is recomputed lazily on the next generation's evaluation
// pass, mirroring the teacher's dirty-bit caching in search.go.
type individual struct {
	sequence []int
	fitness  int
	set      bool
}

func (ind individual) clone() individual {
	seq := make([]int, len(ind.sequence))
	copy(seq, ind.sequence)
	return individual{sequence: seq, fitness: ind.fitness, set: ind.set}
}

// Run evolves a population of permutations of targets, using the beam
// search cost (package sim) as fitness, and returns the best
// sequence found along with its cost. rng drives both the initial
// shuffle and mutation, so a fixed seed reproduces the same run. If
// ctx is cancelled between generations, Run stops early and returns
// the best individual found so far. metrics, when non-nil, records
// one generation-completed tick per round and tags every fitness
// evaluation as a "candidate" sequence.
func Run(ctx context.Context, cfg yardconfig.Config, y0 *yard.State, targets []int, rng *rand.Rand, metrics *telemetry.Metrics) ([]int, int) {
	if len(targets) == 0 {
		return nil, 0
	}

	pop := initPopulation(cfg, targets, rng)
	evaluate(cfg, y0, pop, metrics)
	sortByFitness(pop)

	eliteCount := cfg.EliteCount()
	if eliteCount > len(pop) {
		eliteCount = len(pop)
	}

	for gen := 0; gen < cfg.Generations; gen++ {
		if ctx.Err() != nil {
			break
		}

		next := make([]individual, 0, len(pop))
		for i := 0; i < eliteCount; i++ {
			next = append(next, pop[i])
		}

		topHalf := len(pop) / 2
		if topHalf < 1 {
			topHalf = 1
		}
		for len(next) < len(pop) {
			parent := pop[rng.Intn(topHalf)].clone()
			if rng.Float64() < cfg.MutationRate {
				mutate(parent.sequence, rng)
				parent.set = false
			}
			next = append(next, parent)
		}

		pop = next
		evaluate(cfg, y0, pop, metrics)
		sortByFitness(pop)
		if metrics != nil {
			metrics.RecordGeneration()
		}
	}

	best := pop[0]
	return best.sequence, best.fitness
}

func initPopulation(cfg yardconfig.Config, targets []int, rng *rand.Rand) []individual {
	pop := make([]individual, cfg.PopulationSize)
	for i := range pop {
		seq := make([]int, len(targets))
		copy(seq, targets)
		rng.Shuffle(len(seq), func(a, b int) { seq[a], seq[b] = seq[b], seq[a] })
		pop[i] = individual{sequence: seq}
	}
	return pop
}

func mutate(seq []int, rng *rand.Rand) {
	if len(seq) < 2 {
		return
	}
	a := rng.Intn(len(seq))
	b := rng.Intn(len(seq))
	seq[a], seq[b] = seq[b], seq[a]
}

func sortByFitness(pop []individual) {
	sort.SliceStable(pop, func(i, j int) bool { return pop[i].fitness < pop[j].fitness })
}

// evaluate computes fitness for every individual whose fitness is
// unset. Work is dispatched across a bounded worker pool (grounded on
// the teacher's Optimize() worker pool in search.go), but results are
// written back by index rather than raced over a channel, so the
// outcome is identical regardless of goroutine scheduling.
func evaluate(cfg yardconfig.Config, y0 *yard.State, pop []individual, metrics *telemetry.Metrics) {
	var pending []int
	for i, ind := range pop {
		if !ind.set {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(pending) {
		workers = len(pending)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				cost, _ := sim.Simulate(cfg, y0, pop[idx].sequence, nil, false, metrics, "candidate")
				pop[idx].fitness = cost
				pop[idx].set = true
			}
		}()
	}
	for _, idx := range pending {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
}
