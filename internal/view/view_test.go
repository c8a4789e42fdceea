// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nexus/internal/query"
	"github.com/pdiddy/nexus/pkg/types"
)

// gatedService answers once release is closed and counts dispatches.
type gatedService struct {
	release chan struct{}
	calls   atomic.Int32

	search    types.SearchResult
	simulated types.SimulationResult
	err       error
}

func newGated() *gatedService {
	return &gatedService{release: make(chan struct{})}
}

func (g *gatedService) PerformGroundedSearch(ctx context.Context, _ string) (types.SearchResult, error) {
	g.calls.Add(1)
	<-g.release
	return g.search, g.err
}

func (g *gatedService) PerformOutcomeSimulation(ctx context.Context, _, _ string) (types.SimulationResult, error) {
	g.calls.Add(1)
	<-g.release
	return g.simulated, g.err
}

func readyService() *gatedService {
	g := newGated()
	close(g.release)
	return g
}

func waitPending(t *testing.T, pending func() bool) {
	t.Helper()
	require.Eventually(t, pending, time.Second, time.Millisecond)
}

func TestSearchView_Success(t *testing.T) {
	svc := readyService()
	svc.search = types.SearchResult{Summary: "Findings", Sources: []types.PaperSource{{Title: "A", URI: "https://a.org"}}}
	v := NewSearchView(svc)

	got, err := v.Submit(context.Background(), "  mRNA vaccine efficacy ")
	require.NoError(t, err)
	assert.Equal(t, svc.search, got)

	snap := v.Snapshot()
	assert.Equal(t, PhaseSuccess, snap.Phase)
	assert.True(t, snap.HasResult)
	assert.Equal(t, svc.search, snap.Result)
	assert.Empty(t, snap.Message)
}

func TestSearchView_BlankQueryNotDispatched(t *testing.T) {
	svc := readyService()
	v := NewSearchView(svc)

	_, err := v.Submit(context.Background(), " \t ")
	assert.ErrorIs(t, err, query.ErrValidation)
	assert.Equal(t, int32(0), svc.calls.Load())
	assert.Equal(t, PhaseIdle, v.Snapshot().Phase)
}

func TestSearchView_FailureShowsErrorMessage(t *testing.T) {
	svc := readyService()
	svc.err = &query.Error{Kind: query.KindSearchFailure, Op: query.OpGroundedSearch}
	v := NewSearchView(svc)

	_, err := v.Submit(context.Background(), "q")
	assert.ErrorIs(t, err, query.ErrSearchFailed)

	snap := v.Snapshot()
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.False(t, snap.HasResult)
	assert.Equal(t, "Failed to fetch research papers. Please try again.", snap.Message)
}

func TestSearchView_UnknownErrorIsGeneric(t *testing.T) {
	svc := readyService()
	svc.err = errors.New("dial tcp: connection refused")
	v := NewSearchView(svc)

	_, err := v.Submit(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, genericFailureMessage, v.Snapshot().Message)
}

func TestSearchView_PendingGuard(t *testing.T) {
	svc := newGated()
	v := NewSearchView(svc)

	done := make(chan error, 1)
	go func() {
		_, err := v.Submit(context.Background(), "first")
		done <- err
	}()
	waitPending(t, v.Pending)

	_, err := v.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, int32(1), svc.calls.Load())

	close(svc.release)
	require.NoError(t, <-done)
	assert.Equal(t, PhaseSuccess, v.Snapshot().Phase)

	// Retry allowed once settled.
	_, err = v.Submit(context.Background(), "third")
	require.NoError(t, err)
	assert.Equal(t, int32(2), svc.calls.Load())
}

func TestSearchView_ResetDropsInFlightAnswer(t *testing.T) {
	svc := newGated()
	svc.search = types.SearchResult{Summary: "late"}
	v := NewSearchView(svc)

	done := make(chan struct{})
	go func() {
		v.Submit(context.Background(), "q")
		close(done)
	}()
	waitPending(t, v.Pending)

	v.Reset()
	close(svc.release)
	<-done

	snap := v.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.False(t, snap.HasResult)
}

func TestSearchView_NewSubmissionClearsPreviousResult(t *testing.T) {
	svc := readyService()
	svc.search = types.SearchResult{Summary: "first"}
	v := NewSearchView(svc)
	_, err := v.Submit(context.Background(), "q")
	require.NoError(t, err)

	svc.search = types.SearchResult{}
	svc.err = &query.Error{Kind: query.KindTimeout}
	_, err = v.Submit(context.Background(), "q")
	require.Error(t, err)

	snap := v.Snapshot()
	assert.False(t, snap.HasResult)
	assert.Empty(t, snap.Result.Summary)
	assert.Equal(t, query.KindTimeout.Message(), snap.Message)
}

func TestSimulationView_Success(t *testing.T) {
	svc := readyService()
	svc.simulated = types.SimulationResult{Prediction: "ok", ConfidenceScore: 82}
	v := NewSimulationView(svc)

	got, err := v.Submit(context.Background(), types.SimulationRequest{Hypothesis: "h", Parameters: "p"})
	require.NoError(t, err)
	assert.Equal(t, svc.simulated, got)
	assert.Equal(t, PhaseSuccess, v.Snapshot().Phase)
}

func TestSimulationView_MissingFieldNotDispatched(t *testing.T) {
	svc := readyService()
	v := NewSimulationView(svc)

	for _, req := range []types.SimulationRequest{
		{Hypothesis: "h"},
		{Parameters: "p"},
		{Hypothesis: " ", Parameters: "p"},
	} {
		_, err := v.Submit(context.Background(), req)
		assert.ErrorIs(t, err, query.ErrValidation)
	}
	assert.Equal(t, int32(0), svc.calls.Load())
	assert.Equal(t, PhaseIdle, v.Snapshot().Phase)
}

func TestSimulationView_FailureMessages(t *testing.T) {
	tests := []struct {
		kind query.Kind
		want string
	}{
		{query.KindSimulationFailure, SimulationFailedMessage},
		{query.KindEmptySimulation, SimulationFailedMessage},
		{query.KindMalformedSimulation, SimulationFailedMessage},
		{query.KindCanceled, SimulationFailedMessage},
		{query.KindTimeout, query.KindTimeout.Message()},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			svc := readyService()
			svc.err = &query.Error{Kind: tt.kind, Op: query.OpOutcomeSimulation}
			v := NewSimulationView(svc)

			_, err := v.Submit(context.Background(), types.SimulationRequest{Hypothesis: "h", Parameters: "p"})
			require.Error(t, err)
			snap := v.Snapshot()
			assert.Equal(t, PhaseFailed, snap.Phase)
			assert.Equal(t, tt.want, snap.Message)
		})
	}
}

func TestSimulationView_PendingGuard(t *testing.T) {
	svc := newGated()
	v := NewSimulationView(svc)
	req := types.SimulationRequest{Hypothesis: "h", Parameters: "p"}

	done := make(chan struct{})
	go func() {
		v.Submit(context.Background(), req)
		close(done)
	}()
	waitPending(t, v.Pending)

	_, err := v.Submit(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusy)
	close(svc.release)
	<-done
	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestSurface_SubscribeReceivesTransitions(t *testing.T) {
	svc := readyService()
	svc.err = &query.Error{Kind: query.KindSearchFailure}
	v := NewSearchView(svc)

	events, cancel := v.Subscribe()
	defer cancel()

	_, _ = v.Submit(context.Background(), "q")
	v.Reset()

	want := []Event{
		{Surface: SurfaceSearch, Phase: PhasePending},
		{Surface: SurfaceSearch, Phase: PhaseFailed, Error: "Failed to fetch research papers. Please try again."},
		{Surface: SurfaceSearch, Phase: PhaseIdle},
	}
	for _, w := range want {
		select {
		case got := <-events:
			assert.Equal(t, w, got)
		case <-time.After(time.Second):
			t.Fatalf("missing event %+v", w)
		}
	}

	cancel()
	_, open := <-events
	assert.False(t, open)
}

func TestEventJSON(t *testing.T) {
	b, err := json.Marshal(Event{Surface: SurfaceSimulation, Phase: PhasePending})
	require.NoError(t, err)
	assert.JSONEq(t, `{"surface":"simulation","phase":"pending"}`, string(b))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "failed", PhaseFailed.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
