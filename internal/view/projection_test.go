// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/nexus/pkg/types"
)

func sampleResult() types.SimulationResult {
	return types.SimulationResult{
		Prediction:      "ok",
		ConfidenceScore: 82,
		RiskFactors: []types.RiskFactor{
			{Name: "Toxicity", Value: 40},
			{Name: "Off-target", Value: 75},
			{Name: "Immune response", Value: 75},
			{Name: "Cost", Value: 10},
		},
		Timeline: []types.TimelineStage{
			{Stage: "Phase 1", Outcome: "Trial setup"},
			{Stage: "Phase 2", Outcome: "Efficacy"},
		},
	}
}

func TestRiskSeries(t *testing.T) {
	bars := RiskSeries(sampleResult())
	assert.Equal(t, []Bar{
		{Name: "Toxicity", Value: 40, Fill: RiskFill},
		{Name: "Off-target", Value: 75, Fill: RiskFill},
		{Name: "Immune response", Value: 75, Fill: RiskFill},
		{Name: "Cost", Value: 10, Fill: RiskFill},
	}, bars)

	assert.NotNil(t, RiskSeries(types.SimulationResult{}))
	assert.Empty(t, RiskSeries(types.SimulationResult{}))
}

func TestConfidenceGauge(t *testing.T) {
	assert.Equal(t, Bar{Name: "Confidence", Value: 82, Fill: "#10b981"}, ConfidenceGauge(sampleResult()))
}

func TestPrimaryRisk(t *testing.T) {
	r := sampleResult()
	before := append([]types.RiskFactor(nil), r.RiskFactors...)

	assert.Equal(t, "Off-target", PrimaryRisk(r))
	assert.Equal(t, before, r.RiskFactors, "input order must be preserved")

	assert.Equal(t, NoPrimaryRisk, PrimaryRisk(types.SimulationResult{}))
	assert.Equal(t, "Only", PrimaryRisk(types.SimulationResult{RiskFactors: []types.RiskFactor{{Name: "Only", Value: 0}}}))
}

func TestConfidenceBand(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{100, BandHigh},
		{70.5, BandHigh},
		{70, BandMedium},
		{41, BandMedium},
		{40, BandLow},
		{0, BandLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceBand(tt.score), "score %v", tt.score)
	}
}

func TestProject(t *testing.T) {
	r := sampleResult()
	p := Project(r)
	assert.Equal(t, r, p.Result)
	assert.Len(t, p.RiskSeries, 4)
	assert.Equal(t, "Off-target", p.PrimaryRisk)
	assert.Equal(t, BandHigh, p.Band)
	assert.Equal(t, 2, p.Phases)
	assert.Equal(t, 2, PhaseCount(r))
}

func TestDashboardContent(t *testing.T) {
	d := DashboardContent()
	assert.Equal(t, "Welcome, Researcher", d.Heading)
	if assert.Len(t, d.Cards, 2) {
		assert.Equal(t, types.ViewSearch, d.Cards[0].Target)
		assert.Equal(t, types.ViewSimulation, d.Cards[1].Target)
	}
	assert.Equal(t, []Trend{
		{Title: "CRISPR Off-target analysis", Tag: "Genetics", Age: "2h ago"},
		{Title: "mRNA stability in tropical climates", Tag: "Virology", Age: "5h ago"},
		{Title: "AI in Radiology Diagnostics", Tag: "CompBio", Age: "1d ago"},
	}, d.Trends)

	d.Trends[0].Title = "changed"
	assert.Equal(t, "CRISPR Off-target analysis", DashboardContent().Trends[0].Title)
}
