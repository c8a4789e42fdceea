// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import "github.com/pdiddy/nexus/pkg/types"

// Chart colors.
const (
	RiskFill       = "#ef4444"
	ConfidenceFill = "#10b981"
)

// NoPrimaryRisk is reported when a result has no risk factors.
const NoPrimaryRisk = "None"

// Bar is one chart datum.
type Bar struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Fill  string  `json:"fill" yaml:"fill"`
}

// Band buckets a confidence score for display.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// RiskSeries returns one bar per risk factor, in result order.
func RiskSeries(r types.SimulationResult) []Bar {
	bars := make([]Bar, 0, len(r.RiskFactors))
	for _, f := range r.RiskFactors {
		bars = append(bars, Bar{Name: f.Name, Value: f.Value, Fill: RiskFill})
	}
	return bars
}

// ConfidenceGauge returns the single gauge value for the confidence score.
func ConfidenceGauge(r types.SimulationResult) Bar {
	return Bar{Name: "Confidence", Value: r.ConfidenceScore, Fill: ConfidenceFill}
}

// PrimaryRisk names the highest-valued risk factor. The first factor wins
// ties. r.RiskFactors is not reordered.
func PrimaryRisk(r types.SimulationResult) string {
	factors := append([]types.RiskFactor(nil), r.RiskFactors...)
	if len(factors) == 0 {
		return NoPrimaryRisk
	}
	top := factors[0]
	for _, f := range factors[1:] {
		if f.Value > top.Value {
			top = f
		}
	}
	return top.Name
}

// ConfidenceBand buckets score: above 70 is high, above 40 medium.
func ConfidenceBand(score float64) Band {
	switch {
	case score > 70:
		return BandHigh
	case score > 40:
		return BandMedium
	default:
		return BandLow
	}
}

// PhaseCount is the number of timeline stages.
func PhaseCount(r types.SimulationResult) int {
	return len(r.Timeline)
}

// Projection bundles a result with everything derived from it for display.
type Projection struct {
	Result      types.SimulationResult `json:"result" yaml:"result"`
	RiskSeries  []Bar                  `json:"riskSeries" yaml:"risk_series"`
	Confidence  Bar                    `json:"confidence" yaml:"confidence"`
	PrimaryRisk string                 `json:"primaryRisk" yaml:"primary_risk"`
	Band        Band                   `json:"band" yaml:"band"`
	Phases      int                    `json:"phases" yaml:"phases"`
}

// Project derives all projections of r.
func Project(r types.SimulationResult) Projection {
	return Projection{
		Result:      r,
		RiskSeries:  RiskSeries(r),
		Confidence:  ConfidenceGauge(r),
		PrimaryRisk: PrimaryRisk(r),
		Band:        ConfidenceBand(r.ConfidenceScore),
		Phases:      PhaseCount(r),
	}
}
