// Package sim implements the retrieval simulator: a per-step beam
// search that, given a fixed retrieval order, uncovers and retrieves
// each target in turn and returns it to a chosen slot, counting the
// reshuffle ("block") moves this requires.
package sim

import (
	"math"
	"sort"

	"github.com/ahxxm/yardplan/internal/eval"
	"github.com/ahxxm/yardplan/internal/missionlog"
	"github.com/ahxxm/yardplan/internal/telemetry"
	"github.com/ahxxm/yardplan/internal/yard"
	"github.com/ahxxm/yardplan/internal/yardconfig"
)

// Infeasible is the sentinel cost returned when a retrieval sequence
// cannot be completed within the configured depth cap, or when a
// retrieved target has nowhere left to return to.
const Infeasible = math.MaxInt

// node is a single beam candidate. Log is nil when history tracking
// is disabled, so one type serves both the cost-only and
// logging beams without a parallel hierarchy.
type node struct {
	Yard *yard.State
	G, F int
	Log  []missionlog.Entry
}

func (n node) clone(withLog bool) node {
	cp := node{Yard: n.Yard.Clone(), G: n.G, F: n.F}
	if withLog {
		cp.Log = append([]missionlog.Entry(nil), n.Log...)
	}
	return cp
}

// Simulate retrieves every container in targets, in order, from y0
// using the beam search described by the penalty and return-slot
// functions in package eval. It returns the number of reshuffle
// ("block") moves required, or Infeasible if any step cannot
// complete. batchIDs, when non-nil, must be the same length as
// targets and attaches a batch ID to each target's mission-log
// entries; when withLog is false, the returned log is always nil.
// metrics, when non-nil, records the resulting move count under
// phase so callers can distinguish baseline, candidate, and final
// runs in the reshuffle-moves histogram; pass nil to skip recording.
func Simulate(cfg yardconfig.Config, y0 *yard.State, targets []int, batchIDs []int, withLog bool, metrics *telemetry.Metrics, phase string) (int, []missionlog.Entry) {
	priority := make(eval.Priority, len(targets))
	for idx, id := range targets {
		priority[id] = idx
	}

	beam := []node{{Yard: y0.Clone(), G: 0, F: 0}}
	if withLog {
		beam[0].Log = []missionlog.Entry{}
	}

	for k, target := range targets {
		var batchID int
		if batchIDs != nil {
			batchID = batchIDs[k]
		}

		finished, ok := runPhase1(cfg, beam, target, priority, k, withLog, batchID)
		if !ok {
			return Infeasible, nil
		}

		survivors, ok := runPhase2(finished, target, priority, k, withLog, batchID)
		if !ok {
			return Infeasible, nil
		}

		sort.SliceStable(survivors, func(i, j int) bool { return survivors[i].G < survivors[j].G })
		if len(survivors) > cfg.BeamWidth {
			survivors = survivors[:cfg.BeamWidth]
		}
		beam = survivors
	}

	best := beam[0]
	for _, n := range beam[1:] {
		if n.G < best.G {
			best = n
		}
	}
	if metrics != nil {
		metrics.RecordReshuffleMoves(phase, best.G)
	}
	if withLog {
		return best.G, missionlog.Renumber(best.Log, cfg.BaseTime)
	}
	return best.G, nil
}

// runPhase1 repeatedly expands blocked nodes (reshuffle candidates)
// until every surviving node has retrieved target, or the beam dies
// out, or the per-step depth cap is exceeded.
func runPhase1(cfg yardconfig.Config, beam []node, target int, priority eval.Priority, step int, withLog bool, batchID int) ([]node, bool) {
	var finished []node
	depth := 0

	for len(beam) > 0 {
		depth++
		if depth > cfg.DepthCap {
			return nil, false
		}

		var next []node
		for _, n := range beam {
			if n.Yard.IsTop(target) {
				cl := n.clone(withLog)
				src, err := cl.Yard.RemoveTop(target)
				if err != nil {
					// target is not present at all (already retrieved on
					// this branch); treat it as already at the workstation.
					src = yard.WorkStation
				}
				cl.F = cl.G
				if withLog {
					cl.Log = append(cl.Log, missionlog.Entry{
						Type:        missionlog.Target,
						BatchID:     batchID,
						ContainerID: target,
						Src:         src,
						Dst:         yard.WorkStation,
						Status:      missionlog.PlannedStatus,
					})
				}
				finished = append(finished, cl)
				continue
			}

			blockers := n.Yard.BlockersAbove(target)
			blockerID := blockers[len(blockers)-1]
			srcPos, _ := n.Yard.PositionOf(target)

			for r := 0; r < n.Yard.MaxRow; r++ {
				for b := 0; b < n.Yard.MaxBay; b++ {
					if r == srcPos.Row && b == srcPos.Bay {
						continue
					}
					if !n.Yard.CanReceive(r, b) {
						continue
					}
					penalty := eval.Penalty(n.Yard, r, b, priority, step)

					cl := n.clone(withLog)
					if err := cl.Yard.MoveTop(srcPos.Row, srcPos.Bay, r, b); err != nil {
						continue
					}
					cl.G = n.G + 1
					cl.F = cl.G + penalty
					if withLog {
						cl.Log = append(cl.Log, missionlog.Entry{
							Type:        missionlog.Block,
							BatchID:     batchID,
							ContainerID: blockerID,
							Src:         yard.Coordinate{Row: srcPos.Row, Bay: srcPos.Bay, Level: n.Yard.Height(srcPos.Row, srcPos.Bay) - 1},
							Dst:         yard.Coordinate{Row: r, Bay: b, Level: n.Yard.Height(r, b)},
							Status:      missionlog.PlannedStatus,
						})
					}
					next = append(next, cl)
				}
			}
		}

		sort.SliceStable(next, func(i, j int) bool {
			if next[i].F != next[j].F {
				return next[i].F < next[j].F
			}
			return next[i].G < next[j].G
		})
		if len(next) > cfg.BeamWidth {
			next = next[:cfg.BeamWidth]
		}
		beam = next
	}

	if len(finished) == 0 {
		return nil, false
	}
	return finished, true
}

// runPhase2 returns each finished node's target to a chosen slot,
// reporting failure if no finished node can find room.
func runPhase2(finished []node, target int, priority eval.Priority, step int, withLog bool, batchID int) ([]node, bool) {
	var survivors []node
	for _, n := range finished {
		slot, ok := eval.BestReturnSlot(n.Yard, target, priority, step)
		if !ok {
			continue
		}
		level := n.Yard.Height(slot.Row, slot.Bay)
		if err := n.Yard.Place(target, slot.Row, slot.Bay, level); err != nil {
			continue
		}
		n.F = n.G
		if withLog {
			n.Log = append(n.Log, missionlog.Entry{
				Type:        missionlog.Return,
				BatchID:     batchID,
				ContainerID: target,
				Src:         yard.WorkStation,
				Dst:         yard.Coordinate{Row: slot.Row, Bay: slot.Bay, Level: level},
				Status:      missionlog.PlannedStatus,
			})
		}
		survivors = append(survivors, n)
	}
	if len(survivors) == 0 {
		return nil, false
	}
	return survivors, true
}
