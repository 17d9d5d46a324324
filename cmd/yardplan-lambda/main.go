//go:build lambda

// The lambda build of yardplan accepts a JSON payload (yard config,
// snapshot, commands) over a Lambda Function URL and returns the
// planned mission log as JSON, mirroring the teacher's
// main_lambda.go handler shape.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/ahxxm/yardplan/internal/orchestrator"
	"github.com/ahxxm/yardplan/internal/telemetry"
	"github.com/ahxxm/yardplan/internal/yardconfig"
	"github.com/ahxxm/yardplan/internal/yarddata"
)

type planRequest struct {
	Seed int64 `json:"seed"`
}

type planResponse struct {
	RunID          string          `json:"runId"`
	CostBaseline   int             `json:"costBaseline"`
	CostBest       int             `json:"costBest"`
	ImprovementPct float64         `json:"improvementPct"`
	Feasible       bool            `json:"feasible"`
	Missions       json.RawMessage `json:"missions,omitempty"`
}

func errResp(status int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func handler(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	dims, boxes, cmds, err := yarddata.ParseJSONPayload([]byte(body))
	if err != nil {
		return errResp(400, fmt.Sprintf("parsing payload: %v", err))
	}

	var planReq planRequest
	_ = json.Unmarshal([]byte(body), &planReq)

	y0, err := yarddata.BuildYard(dims, boxes)
	if err != nil {
		return errResp(400, fmt.Sprintf("building yard: %v", err))
	}

	targets, batchIDs := yarddata.SelectTargets(cmds, y0)
	if len(targets) == 0 {
		return errResp(422, "no valid targets among commands")
	}

	cfg := yardconfig.Default()
	cfg.MaxRow, cfg.MaxBay, cfg.MaxLevel = dims.MaxRow, dims.MaxBay, dims.MaxLevel
	cfg.Seed = planReq.Seed

	logger, _ := telemetry.NewLogger(telemetry.DefaultLoggingConfig())
	metrics, _ := telemetry.NewMetrics(telemetry.DefaultMetricsConfig())
	orch := orchestrator.New(cfg, logger, metrics)

	res, err := orch.RunLoaded(ctx, y0, targets, batchIDs)
	if err != nil {
		return errResp(500, fmt.Sprintf("planning: %v", err))
	}

	resp := planResponse{
		RunID:          res.RunID,
		CostBaseline:   res.CostBaseline,
		CostBest:       res.CostBest,
		ImprovementPct: res.ImprovementPct,
		Feasible:       res.Feasible,
	}
	if res.Feasible {
		missions, err := yarddata.MarshalMissions(res.Log)
		if err != nil {
			return errResp(500, fmt.Sprintf("marshaling missions: %v", err))
		}
		resp.Missions = missions
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return errResp(500, fmt.Sprintf("marshaling response: %v", err))
	}
	return events.LambdaFunctionURLResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(out),
	}, nil
}

func main() {
	lambda.Start(handler)
}
