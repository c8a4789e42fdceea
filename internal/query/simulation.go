// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/nexus/pkg/types"
)

// Score bounds shared by confidenceScore and risk values.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// simulationWire mirrors the declared response schema with pointer fields
// so absent properties can be told apart from zero values.
type simulationWire struct {
	Prediction      *string         `json:"prediction"`
	ConfidenceScore *float64        `json:"confidenceScore"`
	RiskFactors     *[]riskWire     `json:"riskFactors"`
	Timeline        *[]timelineWire `json:"timeline"`
}

type riskWire struct {
	Name  *string  `json:"name"`
	Value *float64 `json:"value"`
}

type timelineWire struct {
	Stage   *string `json:"stage"`
	Outcome *string `json:"outcome"`
}

// ShapeError lists every way a decoded simulation deviates from the schema.
type ShapeError struct {
	Problems []string
}

func (e *ShapeError) Error() string {
	return "simulation response does not match schema: " + strings.Join(e.Problems, "; ")
}

var errTrailingData = errors.New("unexpected data after JSON object")

// decodeSimulation parses a model body into a SimulationResult. Every
// declared property is required; scores must lie within [0,100].
func decodeSimulation(body string) (types.SimulationResult, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	var w simulationWire
	if err := dec.Decode(&w); err != nil {
		return types.SimulationResult{}, fmt.Errorf("parsing simulation JSON: %w", err)
	}
	if dec.More() {
		return types.SimulationResult{}, fmt.Errorf("parsing simulation JSON: %w", errTrailingData)
	}

	var problems []string
	missing := func(field string) { problems = append(problems, field+" is missing") }

	if w.Prediction == nil {
		missing("prediction")
	}
	if w.ConfidenceScore == nil {
		missing("confidenceScore")
	} else if !inRange(*w.ConfidenceScore) {
		problems = append(problems, fmt.Sprintf("confidenceScore %g out of range [0,100]", *w.ConfidenceScore))
	}
	if w.RiskFactors == nil {
		missing("riskFactors")
	}
	if w.Timeline == nil {
		missing("timeline")
	}
	if len(problems) > 0 {
		return types.SimulationResult{}, &ShapeError{Problems: problems}
	}

	result := types.SimulationResult{
		Prediction:      *w.Prediction,
		ConfidenceScore: *w.ConfidenceScore,
		RiskFactors:     make([]types.RiskFactor, 0, len(*w.RiskFactors)),
		Timeline:        make([]types.TimelineStage, 0, len(*w.Timeline)),
	}

	for i, r := range *w.RiskFactors {
		if r.Name == nil {
			missing(fmt.Sprintf("riskFactors[%d].name", i))
		}
		if r.Value == nil {
			missing(fmt.Sprintf("riskFactors[%d].value", i))
		} else if !inRange(*r.Value) {
			problems = append(problems, fmt.Sprintf("riskFactors[%d].value %g out of range [0,100]", i, *r.Value))
		}
		if r.Name != nil && r.Value != nil {
			result.RiskFactors = append(result.RiskFactors, types.RiskFactor{Name: *r.Name, Value: *r.Value})
		}
	}
	for i, s := range *w.Timeline {
		if s.Stage == nil {
			missing(fmt.Sprintf("timeline[%d].stage", i))
		}
		if s.Outcome == nil {
			missing(fmt.Sprintf("timeline[%d].outcome", i))
		}
		if s.Stage != nil && s.Outcome != nil {
			result.Timeline = append(result.Timeline, types.TimelineStage{Stage: *s.Stage, Outcome: *s.Outcome})
		}
	}
	if len(problems) > 0 {
		return types.SimulationResult{}, &ShapeError{Problems: problems}
	}
	return result, nil
}

func inRange(v float64) bool {
	return v >= MinScore && v <= MaxScore
}
