// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import "github.com/pdiddy/nexus/pkg/types"

// GroundedResponse is the raw outcome of a grounded generation call: the
// prose body plus the grounding chunks attached to the first candidate.
type GroundedResponse struct {
	Text   string
	Chunks []GroundingChunk
}

// GroundingChunk is one citation produced by the model's retrieval tool.
// The set of implementations is closed: WebChunk, RetrievedChunk, OpaqueChunk.
type GroundingChunk interface {
	groundingChunk()
}

// WebChunk is a citation of a web page found by the search tool.
type WebChunk struct {
	Title string
	URI   string
}

// RetrievedChunk is a citation of a document from a retrieval store.
type RetrievedChunk struct {
	Title string
	URI   string
}

// OpaqueChunk stands for any chunk shape the backend could not classify.
type OpaqueChunk struct{}

func (WebChunk) groundingChunk()       {}
func (RetrievedChunk) groundingChunk() {}
func (OpaqueChunk) groundingChunk()    {}

// webSources returns one PaperSource per web chunk, in order. Missing
// titles and URIs get placeholders; every other chunk kind is skipped.
func webSources(chunks []GroundingChunk) []types.PaperSource {
	sources := make([]types.PaperSource, 0, len(chunks))
	for _, c := range chunks {
		switch c := c.(type) {
		case WebChunk:
			sources = append(sources, types.PaperSource{
				Title: orDefault(c.Title, types.DefaultSourceTitle),
				URI:   orDefault(c.URI, types.DefaultSourceURI),
			})
		case RetrievedChunk, OpaqueChunk:
		}
	}
	return sources
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
