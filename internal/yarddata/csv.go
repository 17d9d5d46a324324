// Package yarddata implements the CSV codecs for yard_config.csv,
// mock_yard.csv, mock_commands.csv and output_missions.csv, plus the
// routine that turns a loaded snapshot into an internal/yard.State.
// No third-party CSV library appears anywhere in the retrieved
// example pack (see DESIGN.md), so this sticks to encoding/csv.
package yarddata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ahxxm/yardplan/internal/missionlog"
	"github.com/ahxxm/yardplan/internal/yard"
)

// Dimensions is the parsed content of yard_config.csv.
type Dimensions struct {
	MaxRow, MaxBay, MaxLevel, TotalBoxes int
}

// FallbackDimensions is used whenever yard_config.csv is missing,
// unparseable, or carries a zero value in a required field.
var FallbackDimensions = Dimensions{MaxRow: 6, MaxBay: 11, MaxLevel: 8, TotalBoxes: 400}

// BoxSnapshot is one row of mock_yard.csv.
type BoxSnapshot struct {
	ContainerID, Row, Bay, Level int
}

// Command is one row of mock_commands.csv.
type Command struct {
	CmdNo, BatchID  int
	CmdType         string
	CmdPriority     int
	ParentCarrierID int
	Src             yard.Coordinate
	Dst             yard.Coordinate
	CreateTime      int64
}

// LoadYardConfig reads yard_config.csv. Any failure to open, parse,
// or a required field of zero falls back to FallbackDimensions; the
// caller is responsible for warning about the fallback (see
// internal/telemetry), since this package stays I/O-only.
func LoadYardConfig(path string) (Dimensions, bool) {
	f, err := os.Open(path)
	if err != nil {
		return FallbackDimensions, true
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return FallbackDimensions, true
	}
	row, err := r.Read()
	if err != nil {
		return FallbackDimensions, true
	}
	if len(row) < 4 {
		return FallbackDimensions, true
	}

	maxRow, err1 := strconv.Atoi(row[0])
	maxBay, err2 := strconv.Atoi(row[1])
	maxLevel, err3 := strconv.Atoi(row[2])
	totalBoxes, err4 := strconv.Atoi(row[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return FallbackDimensions, true
	}
	if maxRow == 0 || maxBay == 0 || maxLevel == 0 || totalBoxes == 0 {
		return FallbackDimensions, true
	}
	return Dimensions{MaxRow: maxRow, MaxBay: maxBay, MaxLevel: maxLevel, TotalBoxes: totalBoxes}, false
}

// LoadSnapshot reads mock_yard.csv.
func LoadSnapshot(path string) ([]BoxSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("yarddata: open snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("yarddata: read snapshot header: %w", err)
	}

	var boxes []BoxSnapshot
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("yarddata: read snapshot row: %w", err)
		}
		if len(row) < 4 {
			continue
		}
		id, err1 := strconv.Atoi(row[0])
		r_, err2 := strconv.Atoi(row[1])
		b, err3 := strconv.Atoi(row[2])
		lvl, err4 := strconv.Atoi(row[3])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, fmt.Errorf("yarddata: malformed snapshot row %v", row)
		}
		boxes = append(boxes, BoxSnapshot{ContainerID: id, Row: r_, Bay: b, Level: lvl})
	}
	return boxes, nil
}

// LoadCommands reads mock_commands.csv. A malformed destination field
// falls back to the workstation sentinel, mirroring
// original_source/DataLoader.h's try/catch around dest_position.
func LoadCommands(path string) ([]Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("yarddata: open commands: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("yarddata: read commands header: %w", err)
	}

	var cmds []Command
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("yarddata: read command row: %w", err)
		}
		if len(row) < 12 {
			continue
		}
		cmd, ok := parseCommandRow(row)
		if !ok {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func parseCommandRow(row []string) (Command, bool) {
	atoi := func(s string) (int, bool) {
		v, err := strconv.Atoi(s)
		return v, err == nil
	}

	cmdNo, ok1 := atoi(row[0])
	batchID, ok2 := atoi(row[1])
	cmdType := row[2]
	cmdPriority, ok3 := atoi(row[3])
	parentCarrierID, ok4 := atoi(row[4])
	srcRow, ok5 := atoi(row[5])
	srcBay, ok6 := atoi(row[6])
	srcLevel, ok7 := atoi(row[7])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
		return Command{}, false
	}

	dst := yard.WorkStation
	if destRow, ok := atoi(row[8]); ok {
		if destBay, ok := atoi(row[9]); ok {
			if destLevel, ok := atoi(row[10]); ok {
				dst = yard.Coordinate{Row: destRow, Bay: destBay, Level: destLevel}
			}
		}
	}

	var createTime int64
	if row[11] != "" {
		if v, err := strconv.ParseInt(row[11], 10, 64); err == nil {
			createTime = v
		}
	}

	return Command{
		CmdNo:           cmdNo,
		BatchID:         batchID,
		CmdType:         cmdType,
		CmdPriority:     cmdPriority,
		ParentCarrierID: parentCarrierID,
		Src:             yard.Coordinate{Row: srcRow, Bay: srcBay, Level: srcLevel},
		Dst:             dst,
		CreateTime:      createTime,
	}, true
}

// BuildYard constructs a yard.State from dims and a snapshot, placing
// boxes in file order. Gravity-packing is enforced by yard.Place
// itself, so a snapshot row that skips a level or targets an already
// occupied slot surfaces as a wrapped ErrInvariantViolation here.
func BuildYard(dims Dimensions, boxes []BoxSnapshot) (*yard.State, error) {
	y := yard.New(dims.MaxRow, dims.MaxBay, dims.MaxLevel, dims.TotalBoxes)
	for _, box := range boxes {
		if err := y.Place(box.ContainerID, box.Row, box.Bay, box.Level); err != nil {
			return nil, fmt.Errorf("yarddata: placing container %d: %w", box.ContainerID, err)
		}
	}
	return y, nil
}

// SelectTargets filters commands down to the ordered list of target
// container IDs (and their batch IDs) eligible for optimisation: rows
// with cmd_type == "target" whose container currently exists in y.
func SelectTargets(cmds []Command, y *yard.State) (targets []int, batchIDs []int) {
	for _, c := range cmds {
		if c.CmdType != "target" {
			continue
		}
		if _, present := y.PositionOf(c.ParentCarrierID); !present {
			continue
		}
		targets = append(targets, c.ParentCarrierID)
		batchIDs = append(batchIDs, c.BatchID)
	}
	return targets, batchIDs
}

// WriteMissions writes output_missions.csv for a completed mission
// log.
func WriteMissions(path string, entries []missionlog.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("yarddata: create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"mission_no", "mission_type", "batch_id", "parent_carrier_id",
		"source_position", "dest_position", "mission_priority",
		"mission_status", "created_time",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("yarddata: write header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.MissionNo),
			string(e.Type),
			strconv.Itoa(e.BatchID),
			strconv.Itoa(e.ContainerID),
			renderPosition(e.Src),
			renderPosition(e.Dst),
			strconv.Itoa(e.Priority),
			e.Status,
			strconv.FormatInt(e.CreatedTime, 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("yarddata: write row: %w", err)
		}
	}
	return w.Error()
}

func renderPosition(c yard.Coordinate) string {
	if c.IsWorkStation() {
		return "work station"
	}
	return fmt.Sprintf("(%d;%d;%d)", c.Row, c.Bay, c.Level)
}
