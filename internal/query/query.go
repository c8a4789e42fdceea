// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns user intent into exactly one request to a hosted
// generative model and turns the raw response into a validated domain object.
//
// Two independent capabilities live here: grounded search (free text with
// citations) and structured simulation (schema-constrained JSON). Each is
// built from a model-facing backend so either can move to a different
// provider without touching the other. Every failure leaves this package as
// a *Error with a fixed user-facing message.
package query

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/nexus/pkg/types"
)

// Operation names used in logs, errors, and the journal.
const (
	OpGroundedSearch    = "grounded_search"
	OpOutcomeSimulation = "outcome_simulation"
	noResultsSummary    = "No results found."
)

// GroundedSearcher produces a cited summary for a free-text query.
type GroundedSearcher interface {
	GroundedSearch(ctx context.Context, query string) (types.SearchResult, error)
}

// StructuredSimulator predicts the outcome of a hypothesis.
type StructuredSimulator interface {
	StructuredSimulate(ctx context.Context, req types.SimulationRequest) (types.SimulationResult, error)
}

// SearchBackend issues one grounded generation call for a rendered prompt.
type SearchBackend interface {
	Ground(ctx context.Context, prompt string) (GroundedResponse, error)
}

// SimulationBackend issues one schema-constrained generation call and
// returns the raw text body.
type SimulationBackend interface {
	Reason(ctx context.Context, prompt string) (string, error)
}

// Call describes one finished Query Service operation for diagnostics.
type Call struct {
	Op       string
	Started  time.Time
	Duration time.Duration
	// Kind is KindUnknown on success.
	Kind  Kind
	Cause string
}

// OK reports whether the call succeeded.
func (c Call) OK() bool { return c.Kind == KindUnknown }

// Observer receives one Call per operation, on the operation's return path.
// Implementations must not block; slow sinks queue the call and return.
type Observer interface {
	Observe(ctx context.Context, call Call)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, call Call)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, call Call) { f(ctx, call) }

// instrumentation is shared by Searcher and Simulator.
type instrumentation struct {
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

func newInstrumentation(logger *slog.Logger, observer Observer) instrumentation {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return instrumentation{logger: logger, observer: observer, now: time.Now}
}

func (in instrumentation) report(ctx context.Context, op string, started time.Time, kind Kind, cause error) {
	call := Call{Op: op, Started: started, Duration: in.now().Sub(started), Kind: kind}
	if cause != nil {
		call.Cause = cause.Error()
		in.logger.Error("query failed", "op", op, "kind", kind.String(), "duration", call.Duration, "error", cause)
	} else {
		in.logger.Debug("query succeeded", "op", op, "duration", call.Duration)
	}
	if in.observer != nil {
		in.observer.Observe(context.WithoutCancel(ctx), call)
	}
}

// Searcher implements GroundedSearcher over a SearchBackend.
type Searcher struct {
	backend SearchBackend
	timeout time.Duration
	instrumentation
}

// NewSearcher builds a Searcher. A non-positive timeout disables the
// operation deadline; logger and observer may be nil.
func NewSearcher(backend SearchBackend, timeout time.Duration, logger *slog.Logger, observer Observer) *Searcher {
	return &Searcher{backend: backend, timeout: timeout, instrumentation: newInstrumentation(logger, observer)}
}

// GroundedSearch runs one grounded search. It returns a fully populated
// SearchResult or a *Error, never both.
func (s *Searcher) GroundedSearch(ctx context.Context, query string) (types.SearchResult, error) {
	started := s.now()
	query = strings.TrimSpace(query)
	if query == "" {
		err := Validation(OpGroundedSearch, fmt.Errorf("query is empty"))
		s.report(ctx, OpGroundedSearch, started, KindValidation, err.Err)
		return types.SearchResult{}, err
	}

	prompt, err := renderSearchPrompt(query)
	if err != nil {
		s.report(ctx, OpGroundedSearch, started, KindSearchFailure, err)
		return types.SearchResult{}, &Error{Kind: KindSearchFailure, Op: OpGroundedSearch}
	}

	ctx, cancel := withDeadline(ctx, s.timeout)
	defer cancel()

	resp, err := s.backend.Ground(ctx, prompt)
	if err != nil {
		kind := classify(ctx, err, KindSearchFailure)
		s.report(ctx, OpGroundedSearch, started, kind, err)
		return types.SearchResult{}, &Error{Kind: kind, Op: OpGroundedSearch}
	}

	summary := resp.Text
	if strings.TrimSpace(summary) == "" {
		summary = noResultsSummary
	}
	result := types.SearchResult{
		Summary: summary,
		Sources: webSources(resp.Chunks),
	}
	s.report(ctx, OpGroundedSearch, started, KindUnknown, nil)
	return result, nil
}

// Simulator implements StructuredSimulator over a SimulationBackend.
type Simulator struct {
	backend SimulationBackend
	timeout time.Duration
	instrumentation
}

// NewSimulator builds a Simulator. A non-positive timeout disables the
// operation deadline; logger and observer may be nil.
func NewSimulator(backend SimulationBackend, timeout time.Duration, logger *slog.Logger, observer Observer) *Simulator {
	return &Simulator{backend: backend, timeout: timeout, instrumentation: newInstrumentation(logger, observer)}
}

// StructuredSimulate runs one outcome simulation. It returns a fully typed
// SimulationResult or a *Error, never both.
func (s *Simulator) StructuredSimulate(ctx context.Context, req types.SimulationRequest) (types.SimulationResult, error) {
	started := s.now()
	if err := req.Validate(); err != nil {
		s.report(ctx, OpOutcomeSimulation, started, KindValidation, err)
		return types.SimulationResult{}, Validation(OpOutcomeSimulation, err)
	}

	prompt, err := renderSimulationPrompt(req)
	if err != nil {
		s.report(ctx, OpOutcomeSimulation, started, KindSimulationFailure, err)
		return types.SimulationResult{}, &Error{Kind: KindSimulationFailure, Op: OpOutcomeSimulation}
	}

	ctx, cancel := withDeadline(ctx, s.timeout)
	defer cancel()

	body, err := s.backend.Reason(ctx, prompt)
	if err != nil {
		kind := classify(ctx, err, KindSimulationFailure)
		s.report(ctx, OpOutcomeSimulation, started, kind, err)
		return types.SimulationResult{}, &Error{Kind: kind, Op: OpOutcomeSimulation}
	}
	if strings.TrimSpace(body) == "" {
		s.report(ctx, OpOutcomeSimulation, started, KindEmptySimulation, fmt.Errorf("model returned no text body"))
		return types.SimulationResult{}, &Error{Kind: KindEmptySimulation, Op: OpOutcomeSimulation}
	}

	result, err := decodeSimulation(body)
	if err != nil {
		s.report(ctx, OpOutcomeSimulation, started, KindMalformedSimulation, err)
		return types.SimulationResult{}, &Error{Kind: KindMalformedSimulation, Op: OpOutcomeSimulation, Err: err}
	}
	s.report(ctx, OpOutcomeSimulation, started, KindUnknown, nil)
	return result, nil
}

// Service is the Query Service: one grounded searcher and one structured
// simulator behind a single entry point for the views.
type Service struct {
	search   GroundedSearcher
	simulate StructuredSimulator
}

// NewService composes the two capabilities.
func NewService(search GroundedSearcher, simulate StructuredSimulator) *Service {
	return &Service{search: search, simulate: simulate}
}

// PerformGroundedSearch runs a grounded search for query.
func (s *Service) PerformGroundedSearch(ctx context.Context, query string) (types.SearchResult, error) {
	return s.search.GroundedSearch(ctx, query)
}

// PerformOutcomeSimulation predicts the outcome of hypothesis under parameters.
func (s *Service) PerformOutcomeSimulation(ctx context.Context, hypothesis, parameters string) (types.SimulationResult, error) {
	return s.simulate.StructuredSimulate(ctx, types.SimulationRequest{Hypothesis: hypothesis, Parameters: parameters})
}

func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
