// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"

	"github.com/pdiddy/nexus/pkg/types"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	text   string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.text = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func testBackend(gen generator) *GeminiBackend {
	return &GeminiBackend{
		models:         gen,
		searchModel:    types.DefaultSearchModel,
		simulateModel:  types.DefaultSimulationModel,
		thinkingBudget: types.DefaultThinkingBudget,
	}
}

func textCandidate(parts ...*genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Role: "model", Parts: parts}}
}

func TestGeminiGroundConvertsChunks(t *testing.T) {
	cand := textCandidate(&genai.Part{Text: "## Summary\n"}, &genai.Part{Text: "- finding"})
	cand.GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{Title: "nature.com", URI: "https://nature.com/x"}},
			{RetrievedContext: &genai.GroundingChunkRetrievedContext{Title: "doc", URI: "gs://b/doc"}},
			{},
			nil,
		},
	}
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{cand}}}

	got, err := testBackend(gen).Ground(context.Background(), "prompt text")
	require.NoError(t, err)

	assert.Equal(t, "## Summary\n- finding", got.Text)
	assert.Equal(t, []GroundingChunk{
		WebChunk{Title: "nature.com", URI: "https://nature.com/x"},
		RetrievedChunk{Title: "doc", URI: "gs://b/doc"},
		OpaqueChunk{},
		OpaqueChunk{},
	}, got.Chunks)

	assert.Equal(t, types.DefaultSearchModel, gen.model)
	assert.Equal(t, "prompt text", gen.text)
	require.Len(t, gen.config.Tools, 1)
	assert.NotNil(t, gen.config.Tools[0].GoogleSearch)
	assert.Empty(t, gen.config.ResponseMIMEType, "MIME type is not allowed with grounding")
}

func TestGeminiGroundWithoutMetadata(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{textCandidate(&genai.Part{Text: "body"})}}}
	got, err := testBackend(gen).Ground(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "body", got.Text)
	assert.Empty(t, got.Chunks)
}

func TestGeminiGroundErrors(t *testing.T) {
	cause := errors.New("quota exceeded")
	_, err := testBackend(&fakeGenerator{err: cause}).Ground(context.Background(), "p")
	assert.ErrorIs(t, err, cause)
}

func TestGeminiGroundNoCandidatesIsEmptyBody(t *testing.T) {
	got, err := testBackend(&fakeGenerator{resp: &genai.GenerateContentResponse{}}).Ground(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, got.Text)
	assert.Empty(t, got.Chunks)

	// Through the searcher this is an empty result, not a transport failure.
	s := NewSearcher(testBackend(&fakeGenerator{resp: &genai.GenerateContentResponse{}}), 0, nil, nil)
	result, err := s.GroundedSearch(context.Background(), "mRNA vaccine efficacy")
	require.NoError(t, err)
	assert.Equal(t, "No results found.", result.Summary)
	assert.NotNil(t, result.Sources)
	assert.Empty(t, result.Sources)
}

func TestGeminiReasonSkipsThoughts(t *testing.T) {
	cand := textCandidate(
		&genai.Part{Text: "considering toxicity...", Thought: true},
		&genai.Part{Text: exampleSimulation},
	)
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{cand}}}

	body, err := testBackend(gen).Reason(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, exampleSimulation, body)

	assert.Equal(t, types.DefaultSimulationModel, gen.model)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.ThinkingConfig)
	require.NotNil(t, gen.config.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, int32(2048), *gen.config.ThinkingConfig.ThinkingBudget)
	assert.Empty(t, gen.config.Tools)
}

func TestGeminiReasonNoCandidatesIsEmptyBody(t *testing.T) {
	body, err := testBackend(&fakeGenerator{resp: &genai.GenerateContentResponse{}}).Reason(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, body)

	// Through the simulator this surfaces as an empty result, not a transport failure.
	s := NewSimulator(testBackend(&fakeGenerator{resp: &genai.GenerateContentResponse{}}), 0, nil, nil)
	_, err = s.StructuredSimulate(context.Background(), types.SimulationRequest{Hypothesis: "h", Parameters: "p"})
	assert.ErrorIs(t, err, ErrEmptySimulation)
}

func TestSimulationSchemaRequiresEveryField(t *testing.T) {
	s := simulationSchema()
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"prediction", "confidenceScore", "riskFactors", "timeline"}, s.Required)

	conf := s.Properties["confidenceScore"]
	require.NotNil(t, conf.Minimum)
	require.NotNil(t, conf.Maximum)
	assert.Equal(t, 0.0, *conf.Minimum)
	assert.Equal(t, 100.0, *conf.Maximum)

	assert.ElementsMatch(t, []string{"name", "value"}, s.Properties["riskFactors"].Items.Required)
	assert.ElementsMatch(t, []string{"stage", "outcome"}, s.Properties["timeline"].Items.Required)
}

func TestNewGeminiBackendRequiresKey(t *testing.T) {
	_, err := NewGeminiBackend(context.Background(), types.Config{}, nil)
	assert.ErrorContains(t, err, "API key")
}
