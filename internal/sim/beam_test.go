package sim

import (
	"testing"

	"github.com/ahxxm/yardplan/internal/missionlog"
	"github.com/ahxxm/yardplan/internal/yard"
	"github.com/ahxxm/yardplan/internal/yardconfig"
)

func testCfg() yardconfig.Config {
	c := yardconfig.Default()
	c.BeamWidth = 1
	c.DepthCap = 30
	return c
}

func TestSimulateTrivialTopRetrieval(t *testing.T) {
	y := yard.New(1, 1, 2, 2)
	y.Place(1, 0, 0, 0)
	y.Place(2, 0, 0, 1)

	cost, log := Simulate(testCfg(), y, []int{2}, nil, true, nil, "")
	if cost != 0 {
		t.Fatalf("cost = %d, want 0", cost)
	}
	if len(log) != 2 {
		t.Fatalf("log length = %d, want 2 (target + return)", len(log))
	}
	if log[0].Type != missionlog.Target || log[0].Src != (yard.Coordinate{Row: 0, Bay: 0, Level: 1}) || !log[0].Dst.IsWorkStation() {
		t.Fatalf("unexpected target entry: %+v", log[0])
	}
	if log[1].Type != missionlog.Return || !log[1].Src.IsWorkStation() || log[1].Dst != (yard.Coordinate{Row: 0, Bay: 0, Level: 1}) {
		t.Fatalf("unexpected return entry: %+v", log[1])
	}
}

func TestSimulateSingleReshuffleRequired(t *testing.T) {
	y := yard.New(1, 2, 2, 2)
	y.Place(1, 0, 0, 0)
	y.Place(2, 0, 0, 1)

	cost, log := Simulate(testCfg(), y, []int{1}, nil, true, nil, "")
	if cost != 1 {
		t.Fatalf("cost = %d, want 1", cost)
	}
	if log[0].Type != missionlog.Block || log[0].ContainerID != 2 {
		t.Fatalf("expected first entry to be a block of container 2, got %+v", log[0])
	}
	if log[0].Src.Bay != 0 || log[0].Dst.Bay != 1 {
		t.Fatalf("expected block to move from bay 0 to bay 1, got %+v", log[0])
	}
	foundTarget, foundReturn := false, false
	for _, e := range log {
		if e.Type == missionlog.Target && e.ContainerID == 1 {
			foundTarget = true
		}
		if e.Type == missionlog.Return && e.ContainerID == 1 {
			foundReturn = true
		}
	}
	if !foundTarget || !foundReturn {
		t.Fatalf("expected target and return entries for container 1, log=%+v", log)
	}
}

func TestSimulateOrderMatters(t *testing.T) {
	// Two bays, so a blocker has somewhere to go when retrieving the
	// bottom box first; order [2,1] needs no reshuffle at all.
	build := func() *yard.State {
		y := yard.New(1, 2, 2, 2)
		y.Place(1, 0, 0, 0)
		y.Place(2, 0, 0, 1)
		return y
	}

	costForward, _ := Simulate(testCfg(), build(), []int{1, 2}, nil, false, nil, "")
	if costForward < 1 {
		t.Fatalf("order [1,2] cost = %d, want >= 1", costForward)
	}

	costReversed, _ := Simulate(testCfg(), build(), []int{2, 1}, nil, false, nil, "")
	if costReversed != 0 {
		t.Fatalf("order [2,1] cost = %d, want 0", costReversed)
	}
}

func TestSimulateAlreadyOnTop(t *testing.T) {
	y := yard.New(1, 1, 1, 1)
	y.Place(1, 0, 0, 0)

	cost, log := Simulate(testCfg(), y, []int{1}, nil, true, nil, "")
	if cost != 0 {
		t.Fatalf("cost = %d, want 0", cost)
	}
	if len(log) != 2 || log[0].Type != missionlog.Target || log[1].Type != missionlog.Return {
		t.Fatalf("unexpected log: %+v", log)
	}
	if log[1].Dst != (yard.Coordinate{Row: 0, Bay: 0, Level: 0}) {
		t.Fatalf("expected the box to return to its only legal slot, got %+v", log[1].Dst)
	}
}

func TestSimulatePenaltyDrivesChoice(t *testing.T) {
	y := yard.New(1, 3, 2, 3)
	y.Place(5, 0, 0, 0)
	y.Place(1, 0, 0, 1)
	y.Place(9, 0, 1, 0)

	_, log := Simulate(testCfg(), y, []int{5, 9}, nil, true, nil, "")

	var blockEntry *missionlog.Entry
	for i := range log {
		if log[i].Type == missionlog.Block {
			blockEntry = &log[i]
			break
		}
	}
	if blockEntry == nil {
		t.Fatalf("expected a block entry, log=%+v", log)
	}
	if blockEntry.Dst.Bay != 2 {
		t.Fatalf("blocker should land in the safe empty column (bay 2), landed in bay %d", blockEntry.Dst.Bay)
	}
}

func TestSimulateRenumberingAndTiming(t *testing.T) {
	y := yard.New(1, 2, 2, 2)
	y.Place(1, 0, 0, 0)
	y.Place(2, 0, 0, 1)

	_, log := Simulate(testCfg(), y, []int{1}, nil, true, nil, "")
	for i, e := range log {
		wantNo := i + 1
		if e.MissionNo != wantNo {
			t.Fatalf("entry %d has MissionNo %d, want %d", i, e.MissionNo, wantNo)
		}
		wantTime := int64(1705363200) + int64(i)*30
		if e.CreatedTime != wantTime {
			t.Fatalf("entry %d has CreatedTime %d, want %d", i, e.CreatedTime, wantTime)
		}
	}
}
