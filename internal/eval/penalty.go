// Package eval implements the move-penalty and return-slot scoring
// functions the beam search uses to judge a candidate destination
// column. Both are pure functions over a yard.State snapshot.
package eval

import "github.com/ahxxm/yardplan/internal/yard"

// Priority maps a container ID to its position (0-indexed) in the
// retrieval sequence currently being evaluated. Containers not being
// retrieved in this batch are absent from the map.
type Priority map[int]int

// Penalty scores how costly it would be to stack a blocker on top of
// column (r, b), given the retrieval sequence index i currently being
// serviced. It scans the column bottom-to-top for the minimum-priority
// container whose retrieval is still pending (priority >= i); placing
// a new blocker above a box needed soon is penalized heavily. Columns
// with no pending future target return zero. Grounded on
// original_source/main.cpp's calculateMovePenalty.
func Penalty(y *yard.State, r, b int, priority Priority, i int) int {
	minFuture := -1
	height := y.Height(r, b)
	for lvl := 0; lvl < height; lvl++ {
		id := y.ColumnAt(r, b, lvl)
		p, ok := priority[id]
		if !ok || p < i {
			continue
		}
		if minFuture == -1 || p < minFuture {
			minFuture = p
		}
	}
	if minFuture == -1 {
		return 0
	}
	distance := minFuture - i
	return 1000 + 100000/(distance+1)
}

// BestReturnSlot picks the destination column for putting the
// retrieved container targetID back into the yard. It considers every
// column that still has room, scores each with Penalty plus a
// stability heuristic, and returns the minimum-score column. The
// heuristic adds 50 when the column's top container has a lower ID
// than targetID (so a box is preferably stacked on a higher ID),
// otherwise the column height, and for empty columns a flat 20 so
// that a new stack is not started when a partially filled one is just
// as safe. Grounded on
// original_source/main.cpp's findBestReturnSlot.
func BestReturnSlot(y *yard.State, targetID int, priority Priority, i int) (yard.Coordinate, bool) {
	best := yard.Coordinate{}
	bestScore := -1
	found := false

	for r := 0; r < y.MaxRow; r++ {
		for b := 0; b < y.MaxBay; b++ {
			if !y.CanReceive(r, b) {
				continue
			}
			score := Penalty(y, r, b, priority, i)
			height := y.Height(r, b)
			if height > 0 {
				topID := y.Top(r, b)
				if topID < targetID {
					score += 50
				} else {
					score += height
				}
			} else {
				score += 20
			}
			if !found || score < bestScore {
				bestScore = score
				best = yard.Coordinate{Row: r, Bay: b}
				found = true
			}
		}
	}
	return best, found
}
