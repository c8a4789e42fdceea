// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/nexus/pkg/types"
)

// searchPromptTmpl asks the fast model for a markdown digest of the
// literature. Grounding citations arrive through response metadata, not text.
var searchPromptTmpl = template.Must(template.New("search").Parse(`Find and summarize key research papers and clinical trials related to: "{{.Query}}".
Focus on recent findings, methodology, and outcomes.
Format the output as a clear Markdown summary with bullet points.
`))

// simulationPromptTmpl casts the reasoning model as a lead researcher. The
// response schema is declared separately by the backend; the structure
// below repeats it so models without schema support still comply.
var simulationPromptTmpl = template.Must(template.New("simulation").Parse(`Act as a senior lead researcher and simulator.
Analyze the following hypothesis and experimental parameters.
Hypothesis: {{.Hypothesis}}
Parameters/Context: {{.Parameters}}

Predict the likely outcome, potential pitfalls, and success probability.

Return the response in JSON format conforming to the following structure:
{
  "prediction": "Detailed markdown explanation of the predicted outcome...",
  "confidenceScore": number (0-100),
  "riskFactors": [{"name": "Risk Name", "value": number (0-100 scale)}],
  "timeline": [{"stage": "Phase 1", "outcome": "description"}]
}
`))

func renderSearchPrompt(query string) (string, error) {
	var buf bytes.Buffer
	if err := searchPromptTmpl.Execute(&buf, struct{ Query string }{Query: query}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderSimulationPrompt(req types.SimulationRequest) (string, error) {
	var buf bytes.Buffer
	if err := simulationPromptTmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
