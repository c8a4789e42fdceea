// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data shapes of the research assistant:
// grounded search results, outcome simulations, and the dashboard view states.
// Types carry no behavior beyond parsing and validation helpers.
package types

import (
	"errors"
	"net/url"
	"strings"
)

// Placeholder values for citations whose grounding metadata omits a field.
const (
	DefaultSourceTitle = "Source"
	DefaultSourceURI   = "#"
)

// PaperSource is one cited web reference attached to a grounded search.
type PaperSource struct {
	// Title is the page title reported by the grounding tool.
	Title string `json:"title" yaml:"title"`

	// URI is the link to the cited page. It is not validated.
	URI string `json:"uri" yaml:"uri"`
}

// Host returns the host name of the source URI, or "" when the URI is the
// placeholder or cannot be parsed.
func (p PaperSource) Host() string {
	if p.URI == "" || p.URI == DefaultSourceURI {
		return ""
	}
	u, err := url.Parse(p.URI)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// SearchResult is the outcome of one grounded search.
type SearchResult struct {
	// Summary is markdown prose produced by the model.
	Summary string `json:"summary" yaml:"summary"`

	// Sources lists citations in the order the grounding tool returned them.
	Sources []PaperSource `json:"sources" yaml:"sources"`
}

// SimulationRequest carries the two free-text inputs of an outcome simulation.
type SimulationRequest struct {
	Hypothesis string `json:"hypothesis" yaml:"hypothesis"`
	Parameters string `json:"parameters" yaml:"parameters"`
}

var (
	errMissingHypothesis = errors.New("hypothesis is required")
	errMissingParameters = errors.New("parameters are required")
)

// Validate reports whether both fields are present after trimming.
func (r SimulationRequest) Validate() error {
	if strings.TrimSpace(r.Hypothesis) == "" {
		return errMissingHypothesis
	}
	if strings.TrimSpace(r.Parameters) == "" {
		return errMissingParameters
	}
	return nil
}

// RiskFactor is a named risk scored on a 0-100 scale.
type RiskFactor struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// TimelineStage is one projected phase of an experiment.
type TimelineStage struct {
	Stage   string `json:"stage" yaml:"stage"`
	Outcome string `json:"outcome" yaml:"outcome"`
}

// SimulationResult is the structured prediction returned by the reasoning model.
// RiskFactors and Timeline keep the order the model emitted.
type SimulationResult struct {
	Prediction      string          `json:"prediction" yaml:"prediction"`
	ConfidenceScore float64         `json:"confidenceScore" yaml:"confidence_score"`
	RiskFactors     []RiskFactor    `json:"riskFactors" yaml:"risk_factors"`
	Timeline        []TimelineStage `json:"timeline" yaml:"timeline"`
}

// ViewState selects which dashboard surface is mounted.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewSearch
	ViewSimulation
	ViewSaved
)

var viewNames = map[ViewState]string{
	ViewDashboard:  "DASHBOARD",
	ViewSearch:     "SEARCH",
	ViewSimulation: "SIMULATION",
	ViewSaved:      "SAVED",
}

// ViewStates lists every view in navigation order.
func ViewStates() []ViewState {
	return []ViewState{ViewDashboard, ViewSearch, ViewSimulation, ViewSaved}
}

// String returns the upper-case wire name of the view.
func (v ViewState) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return viewNames[ViewDashboard]
}

// Valid reports whether v is one of the known views.
func (v ViewState) Valid() bool {
	_, ok := viewNames[v]
	return ok
}

// ParseViewState maps a case-insensitive view name to a ViewState.
// Unknown or empty names fall back to ViewDashboard.
func ParseViewState(s string) ViewState {
	s = strings.ToUpper(strings.TrimSpace(s))
	for v, name := range viewNames {
		if name == s {
			return v
		}
	}
	return ViewDashboard
}

// MarshalText encodes the view as its wire name.
func (v ViewState) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a wire name, falling back to ViewDashboard.
func (v *ViewState) UnmarshalText(b []byte) error {
	*v = ParseViewState(string(b))
	return nil
}
