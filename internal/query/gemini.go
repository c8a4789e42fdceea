// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	genai "google.golang.org/genai"

	"github.com/pdiddy/nexus/pkg/types"
)

// GeminiBackend talks to the Gemini API through the official genai client.
// It implements both SearchBackend and SimulationBackend; the two call
// shapes share only the client and credential.
type GeminiBackend struct {
	models         generator
	searchModel    string
	simulateModel  string
	thinkingBudget int32
}

// generator is the slice of genai.Models the backend needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiBackend creates a genai client authenticated with cfg.AI.APIKey.
// httpClient may be nil to use the library default.
func NewGeminiBackend(ctx context.Context, cfg types.Config, httpClient *http.Client) (*GeminiBackend, error) {
	cfg = cfg.WithDefaults()
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is not configured")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.AI.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiBackend{
		models:         cli.Models,
		searchModel:    cfg.Search.Model,
		simulateModel:  cfg.Simulation.Model,
		thinkingBudget: cfg.Simulation.ThinkingBudget,
	}, nil
}

// Name identifies the backend and its models in logs.
func (g *GeminiBackend) Name() string {
	return "gemini:" + g.searchModel + "," + g.simulateModel
}

// Ground calls the fast model with the Google Search tool enabled.
func (g *GeminiBackend) Ground(ctx context.Context, prompt string) (GroundedResponse, error) {
	resp, err := g.models.GenerateContent(ctx, g.searchModel, genai.Text(prompt), searchConfig())
	if err != nil {
		return GroundedResponse{}, fmt.Errorf("grounded generate (%s): %w", g.searchModel, err)
	}
	return groundedResponse(resp), nil
}

// Reason calls the reasoning model with a thinking budget and a declared
// JSON response schema, returning the raw body.
func (g *GeminiBackend) Reason(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.simulateModel, genai.Text(prompt), simulationConfig(g.thinkingBudget))
	if err != nil {
		return "", fmt.Errorf("structured generate (%s): %w", g.simulateModel, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}
	return candidateText(resp.Candidates[0]), nil
}

// searchConfig enables grounding. A response MIME type is not allowed
// together with the search tool.
func searchConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
}

func simulationConfig(budget int32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   simulationSchema(),
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: &budget},
	}
}

// simulationSchema declares the SimulationResult wire shape. Every property
// is required and scores are bounded to [0,100].
func simulationSchema() *genai.Schema {
	lo, hi := MinScore, MaxScore
	score := func() *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Minimum: &lo, Maximum: &hi}
	}
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"prediction":      str(),
			"confidenceScore": score(),
			"riskFactors": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":  str(),
						"value": score(),
					},
					Required: []string{"name", "value"},
				},
			},
			"timeline": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"stage":   str(),
						"outcome": str(),
					},
					Required: []string{"stage", "outcome"},
				},
			},
		},
		Required:         []string{"prediction", "confidenceScore", "riskFactors", "timeline"},
		PropertyOrdering: []string{"prediction", "confidenceScore", "riskFactors", "timeline"},
	}
}

// groundedResponse converts the first candidate of a grounded call. A reply
// without candidates, such as a blocked prompt, has an empty body.
func groundedResponse(resp *genai.GenerateContentResponse) GroundedResponse {
	if resp == nil || len(resp.Candidates) == 0 {
		return GroundedResponse{}
	}
	cand := resp.Candidates[0]
	out := GroundedResponse{Text: candidateText(cand)}
	if cand.GroundingMetadata != nil {
		out.Chunks = make([]GroundingChunk, 0, len(cand.GroundingMetadata.GroundingChunks))
		for _, c := range cand.GroundingMetadata.GroundingChunks {
			out.Chunks = append(out.Chunks, groundingChunk(c))
		}
	}
	return out
}

func groundingChunk(c *genai.GroundingChunk) GroundingChunk {
	switch {
	case c == nil:
		return OpaqueChunk{}
	case c.Web != nil:
		return WebChunk{Title: c.Web.Title, URI: c.Web.URI}
	case c.RetrievedContext != nil:
		return RetrievedChunk{Title: c.RetrievedContext.Title, URI: c.RetrievedContext.URI}
	default:
		return OpaqueChunk{}
	}
}

// candidateText joins the answer parts of a candidate, skipping thought
// summaries emitted by reasoning models.
func candidateText(c *genai.Candidate) string {
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
