// Package missionlog defines the mission-log entry type the
// simulator emits and the CSV/JSON codecs consume, plus the final
// renumbering pass applied once a sequence has been committed.
package missionlog

import "github.com/ahxxm/yardplan/internal/yard"

// Type distinguishes the three kinds of mission a beam search can
// record: the retrieval itself, a reshuffle of a blocking container,
// and the retrieved container's return into the yard.
type Type string

const (
	Target Type = "target"
	Block  Type = "block"
	Return Type = "return"
)

// Entry is one row of output_missions.csv before or after
// renumbering.
type Entry struct {
	MissionNo   int
	Type        Type
	BatchID     int
	ContainerID int
	Src         yard.Coordinate
	Dst         yard.Coordinate
	Priority    int
	Status      string
	CreatedTime int64
}

// PlannedStatus is the fixed status every freshly generated mission
// carries; execution status changes happen downstream of this
// planner.
const PlannedStatus = "PLANNED"

// Renumber assigns mission_no and mission_priority sequentially from
// 1, and created_time = baseTime + (i-1)*30 for the i-th entry
// (1-indexed), matching original_source/main.cpp's final renumbering
// loop. It mutates and returns the same slice.
func Renumber(entries []Entry, baseTime int64) []Entry {
	for i := range entries {
		n := i + 1
		entries[i].MissionNo = n
		entries[i].Priority = n
		entries[i].CreatedTime = baseTime + int64(i)*30
	}
	return entries
}
