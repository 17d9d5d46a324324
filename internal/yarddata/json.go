package yarddata

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/ahxxm/yardplan/internal/missionlog"
	"github.com/ahxxm/yardplan/internal/yard"
)

// ParseJSONPayload decodes the Lambda entry point's request body:
//
//	{
//	  "yardConfig": {"maxRow":6,"maxBay":11,"maxLevel":8,"totalBoxes":400},
//	  "snapshot":   [{"containerId":1,"row":0,"bay":0,"level":0}, ...],
//	  "commands":   [{"cmdNo":1,"batchId":100,"cmdType":"target", ...}, ...]
//	}
//
// Field-by-field extraction via gjson mirrors the teacher's
// rawparse.go rather than a single json.Unmarshal into nested
// structs, so one malformed row doesn't fail the whole payload.
func ParseJSONPayload(data []byte) (Dimensions, []BoxSnapshot, []Command, error) {
	if !gjson.ValidBytes(data) {
		return Dimensions{}, nil, nil, fmt.Errorf("yarddata: invalid JSON payload")
	}
	root := gjson.ParseBytes(data)

	cfgResult := root.Get("yardConfig")
	dims := Dimensions{
		MaxRow:     int(cfgResult.Get("maxRow").Int()),
		MaxBay:     int(cfgResult.Get("maxBay").Int()),
		MaxLevel:   int(cfgResult.Get("maxLevel").Int()),
		TotalBoxes: int(cfgResult.Get("totalBoxes").Int()),
	}
	if dims.MaxRow == 0 || dims.MaxBay == 0 || dims.MaxLevel == 0 || dims.TotalBoxes == 0 {
		dims = FallbackDimensions
	}

	var boxes []BoxSnapshot
	root.Get("snapshot").ForEach(func(_, box gjson.Result) bool {
		boxes = append(boxes, BoxSnapshot{
			ContainerID: int(box.Get("containerId").Int()),
			Row:         int(box.Get("row").Int()),
			Bay:         int(box.Get("bay").Int()),
			Level:       int(box.Get("level").Int()),
		})
		return true
	})

	var cmds []Command
	root.Get("commands").ForEach(func(_, cmd gjson.Result) bool {
		dst := yard.WorkStation
		if cmd.Get("destRow").Exists() {
			dst = yard.Coordinate{
				Row:   int(cmd.Get("destRow").Int()),
				Bay:   int(cmd.Get("destBay").Int()),
				Level: int(cmd.Get("destLevel").Int()),
			}
		}
		cmds = append(cmds, Command{
			CmdNo:           int(cmd.Get("cmdNo").Int()),
			BatchID:         int(cmd.Get("batchId").Int()),
			CmdType:         cmd.Get("cmdType").String(),
			CmdPriority:     int(cmd.Get("cmdPriority").Int()),
			ParentCarrierID: int(cmd.Get("parentCarrierId").Int()),
			Src: yard.Coordinate{
				Row:   int(cmd.Get("srcRow").Int()),
				Bay:   int(cmd.Get("srcBay").Int()),
				Level: int(cmd.Get("srcLevel").Int()),
			},
			Dst:        dst,
			CreateTime: cmd.Get("createTime").Int(),
		})
		return true
	})

	return dims, boxes, cmds, nil
}

// missionJSON is the wire shape of one output row; coordinates are
// rendered with the same "(r;b;t)" / "work station" convention as the
// CSV writer so both entry points agree on position formatting.
type missionJSON struct {
	MissionNo       int    `json:"missionNo"`
	MissionType     string `json:"missionType"`
	BatchID         int    `json:"batchId"`
	ParentCarrierID int    `json:"parentCarrierId"`
	SourcePosition  string `json:"sourcePosition"`
	DestPosition    string `json:"destPosition"`
	MissionPriority int    `json:"missionPriority"`
	MissionStatus   string `json:"missionStatus"`
	CreatedTime     int64  `json:"createdTime"`
}

// MarshalMissions renders a mission log the same way WriteMissions
// does for CSV, as a JSON array for the Lambda response body.
func MarshalMissions(entries []missionlog.Entry) ([]byte, error) {
	rows := make([]missionJSON, len(entries))
	for i, e := range entries {
		rows[i] = missionJSON{
			MissionNo:       e.MissionNo,
			MissionType:     string(e.Type),
			BatchID:         e.BatchID,
			ParentCarrierID: e.ContainerID,
			SourcePosition:  renderPosition(e.Src),
			DestPosition:    renderPosition(e.Dst),
			MissionPriority: e.Priority,
			MissionStatus:   e.Status,
			CreatedTime:     e.CreatedTime,
		}
	}
	return json.Marshal(rows)
}
