package missionlog

import "testing"

func TestRenumberSequentialAndTimed(t *testing.T) {
	entries := []Entry{
		{MissionNo: 9, Priority: 9},
		{MissionNo: 3, Priority: 3},
		{MissionNo: 7, Priority: 7},
	}
	Renumber(entries, 1705363200)

	for i, e := range entries {
		wantNo := i + 1
		if e.MissionNo != wantNo || e.Priority != wantNo {
			t.Fatalf("entry %d: MissionNo=%d Priority=%d, want %d", i, e.MissionNo, e.Priority, wantNo)
		}
		wantTime := int64(1705363200) + int64(i)*30
		if e.CreatedTime != wantTime {
			t.Fatalf("entry %d: CreatedTime=%d, want %d", i, e.CreatedTime, wantTime)
		}
	}
}
