// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"context"
	"errors"
	"strings"

	"github.com/pdiddy/nexus/internal/query"
	"github.com/pdiddy/nexus/pkg/types"
)

// Surface names used in events and the state endpoint.
const (
	SurfaceSearch     = "search"
	SurfaceSimulation = "simulation"
)

// SimulationFailedMessage is shown for every simulation failure except a
// timeout.
const SimulationFailedMessage = "Simulation failed. Please try again."

const genericFailureMessage = "An error occurred"

// PaperSearcher is the part of the Query Service the search view needs.
type PaperSearcher interface {
	PerformGroundedSearch(ctx context.Context, query string) (types.SearchResult, error)
}

// OutcomeSimulator is the part of the Query Service the simulation view needs.
type OutcomeSimulator interface {
	PerformOutcomeSimulation(ctx context.Context, hypothesis, parameters string) (types.SimulationResult, error)
}

// SearchView is the paper discovery surface.
type SearchView struct {
	*Surface[types.SearchResult]
	svc PaperSearcher
}

// NewSearchView returns an idle search surface backed by svc.
func NewSearchView(svc PaperSearcher) *SearchView {
	return &SearchView{Surface: NewSurface[types.SearchResult](SurfaceSearch), svc: svc}
}

// Submit runs one search. A blank query is rejected without dispatch and
// without changing the surface; a submission while pending returns ErrBusy.
func (v *SearchView) Submit(ctx context.Context, q string) (types.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return types.SearchResult{}, query.Validation(query.OpGroundedSearch, errors.New("query is empty"))
	}

	gen, err := v.begin()
	if err != nil {
		return types.SearchResult{}, err
	}

	result, err := v.svc.PerformGroundedSearch(ctx, q)
	if err != nil {
		v.finish(gen, types.SearchResult{}, searchMessage(err), true)
		return types.SearchResult{}, err
	}
	v.finish(gen, result, "", false)
	return result, nil
}

func searchMessage(err error) string {
	if query.KindOf(err) == query.KindUnknown {
		return genericFailureMessage
	}
	return err.Error()
}

// SimulationView is the outcome simulator surface.
type SimulationView struct {
	*Surface[types.SimulationResult]
	svc OutcomeSimulator
}

// NewSimulationView returns an idle simulation surface backed by svc.
func NewSimulationView(svc OutcomeSimulator) *SimulationView {
	return &SimulationView{Surface: NewSurface[types.SimulationResult](SurfaceSimulation), svc: svc}
}

// Submit runs one simulation. Missing fields are rejected without dispatch;
// a submission while pending returns ErrBusy.
func (v *SimulationView) Submit(ctx context.Context, req types.SimulationRequest) (types.SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return types.SimulationResult{}, query.Validation(query.OpOutcomeSimulation, err)
	}

	gen, err := v.begin()
	if err != nil {
		return types.SimulationResult{}, err
	}

	result, err := v.svc.PerformOutcomeSimulation(ctx, req.Hypothesis, req.Parameters)
	if err != nil {
		v.finish(gen, types.SimulationResult{}, simulationMessage(err), true)
		return types.SimulationResult{}, err
	}
	v.finish(gen, result, "", false)
	return result, nil
}

func simulationMessage(err error) string {
	if query.KindOf(err) == query.KindTimeout {
		return query.KindTimeout.Message()
	}
	return SimulationFailedMessage
}
