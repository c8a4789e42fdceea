// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import "github.com/pdiddy/nexus/pkg/types"

// FeatureCard links the overview to a working surface.
type FeatureCard struct {
	Title       string
	Description string
	Action      string
	Target      types.ViewState
}

// Trend is one entry of the static trends list.
type Trend struct {
	Title string
	Tag   string
	Age   string
}

// Dashboard is the static overview content.
type Dashboard struct {
	Heading       string
	Tagline       string
	Cards         []FeatureCard
	TrendsHeading string
	Trends        []Trend
}

// DashboardContent returns the overview. Each call returns fresh slices.
func DashboardContent() Dashboard {
	return Dashboard{
		Heading: "Welcome, Researcher",
		Tagline: "Accelerate your discovery process with grounded AI search and predictive modeling.",
		Cards: []FeatureCard{
			{
				Title:       "Paper Discovery",
				Description: "Find the exact papers you need. AI summarizes content and grounds every claim with a verified source link to reduce hallucination.",
				Action:      "Start Search",
				Target:      types.ViewSearch,
			},
			{
				Title:       "Outcome Simulator",
				Description: "Predict the future. Input your experimental parameters and let the AI reason through potential outcomes, risks, and success rates.",
				Action:      "Start Simulation",
				Target:      types.ViewSimulation,
			},
		},
		TrendsHeading: "Recent Trends in Medical AI",
		Trends: []Trend{
			{Title: "CRISPR Off-target analysis", Tag: "Genetics", Age: "2h ago"},
			{Title: "mRNA stability in tropical climates", Tag: "Virology", Age: "5h ago"},
			{Title: "AI in Radiology Diagnostics", Tag: "CompBio", Age: "1d ago"},
		},
	}
}
