// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperSourceHost(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"full url", "https://www.nature.com/articles/s41586", "www.nature.com"},
		{"placeholder", "#", ""},
		{"empty", "", ""},
		{"unparseable", "http://[::1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaperSource{URI: tt.uri}.Host())
		})
	}
}

func TestSimulationRequestValidate(t *testing.T) {
	assert.NoError(t, SimulationRequest{Hypothesis: "h", Parameters: "p"}.Validate())
	assert.Error(t, SimulationRequest{Hypothesis: "  ", Parameters: "p"}.Validate())
	assert.Error(t, SimulationRequest{Hypothesis: "h", Parameters: "\n"}.Validate())
	assert.Error(t, SimulationRequest{}.Validate())
}

func TestParseViewState(t *testing.T) {
	tests := []struct {
		in   string
		want ViewState
	}{
		{"SEARCH", ViewSearch},
		{"simulation", ViewSimulation},
		{" Saved ", ViewSaved},
		{"DASHBOARD", ViewDashboard},
		{"", ViewDashboard},
		{"settings", ViewDashboard},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseViewState(tt.in))
		})
	}
}

func TestViewStateJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		View ViewState `json:"view"`
	}{ViewSimulation})
	require.NoError(t, err)
	assert.JSONEq(t, `{"view":"SIMULATION"}`, string(data))

	var got struct {
		View ViewState `json:"view"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"view":"nowhere"}`), &got))
	assert.Equal(t, ViewDashboard, got.View)
	assert.False(t, ViewState(42).Valid())
	assert.Equal(t, "DASHBOARD", ViewState(42).String())
}

func TestSimulationResultWireNames(t *testing.T) {
	raw := `{"prediction":"ok","confidenceScore":82,"riskFactors":[{"name":"Toxicity","value":40}],"timeline":[{"stage":"Phase 1","outcome":"Trial setup"}]}`
	var got SimulationResult
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, SimulationResult{
		Prediction:      "ok",
		ConfidenceScore: 82,
		RiskFactors:     []RiskFactor{{Name: "Toxicity", Value: 40}},
		Timeline:        []TimelineStage{{Stage: "Phase 1", Outcome: "Trial setup"}},
	}, got)
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	assert.Equal(t, DefaultSearchModel, cfg.Search.Model)
	assert.Equal(t, DefaultSimulationModel, cfg.Simulation.Model)
	assert.Equal(t, DefaultThinkingBudget, cfg.Simulation.ThinkingBudget)
	assert.Equal(t, DefaultSearchTimeout, cfg.Search.Timeout)
	assert.Equal(t, DefaultSimulationTimeout, cfg.Simulation.Timeout)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)

	custom := Config{Search: SearchConfig{Model: "m", Timeout: time.Second}}.WithDefaults()
	assert.Equal(t, "m", custom.Search.Model)
	assert.Equal(t, time.Second, custom.Search.Timeout)
}
