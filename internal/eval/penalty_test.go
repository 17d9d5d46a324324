package eval

import (
	"testing"

	"github.com/ahxxm/yardplan/internal/yard"
)

func TestPenaltyEmptyColumn(t *testing.T) {
	y := yard.New(2, 2, 3, 10)
	if got := Penalty(y, 0, 0, Priority{}, 0); got != 0 {
		t.Fatalf("Penalty on empty column = %d, want 0", got)
	}
}

func TestPenaltyNoFutureTargets(t *testing.T) {
	y := yard.New(1, 1, 3, 10)
	y.Place(10, 0, 0, 0)
	// 10 is not in the priority map at all: not part of this batch.
	if got := Penalty(y, 0, 0, Priority{}, 0); got != 0 {
		t.Fatalf("Penalty with no tracked boxes = %d, want 0", got)
	}
}

func TestPenaltyScalesWithDistance(t *testing.T) {
	y := yard.New(1, 1, 3, 10)
	y.Place(1, 0, 0, 0)
	// container 1 is the very next retrieval target (priority 0),
	// being evaluated at step i=0: distance is 0, so penalty should
	// be maximal (1000 + 100000/1).
	got := Penalty(y, 0, 0, Priority{1: 0}, 0)
	want := 1000 + 100000/1
	if got != want {
		t.Fatalf("Penalty = %d, want %d", got, want)
	}

	// Same box but the current step is i=5, ahead of its priority:
	// priority (0) < i (5), so it no longer counts as "future".
	got2 := Penalty(y, 0, 0, Priority{1: 0}, 5)
	if got2 != 0 {
		t.Fatalf("Penalty for a past target = %d, want 0", got2)
	}
}

func TestBestReturnSlotPrefersEmptyOverBlocking(t *testing.T) {
	y := yard.New(2, 1, 3, 10)
	// column (0,0) has a future target (1) on top;
	// column (1,0) is empty.
	y.Place(5, 0, 0, 0)
	y.Place(1, 0, 0, 1)

	slot, ok := BestReturnSlot(y, 99, Priority{1: 0}, 0)
	if !ok {
		t.Fatalf("BestReturnSlot found nothing")
	}
	if slot.Row != 1 {
		t.Fatalf("BestReturnSlot = %v, want the empty column (1,0)", slot)
	}
}

func TestBestReturnSlotNoRoom(t *testing.T) {
	y := yard.New(1, 1, 1, 10)
	y.Place(1, 0, 0, 0)
	if _, ok := BestReturnSlot(y, 2, Priority{}, 0); ok {
		t.Fatalf("BestReturnSlot should report no slot when the yard is full")
	}
}
