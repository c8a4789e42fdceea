// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"errors"
)

// Kind classifies a Query Service failure. Callers map kinds to visible
// messages; none of them is fatal to the process.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindSearchFailure
	KindSimulationFailure
	KindEmptySimulation
	KindMalformedSimulation
	KindTimeout
	KindCanceled
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindValidation:          "validation",
	KindSearchFailure:       "search_failure",
	KindSimulationFailure:   "simulation_failure",
	KindEmptySimulation:     "empty_simulation_result",
	KindMalformedSimulation: "malformed_simulation_response",
	KindTimeout:             "timeout",
	KindCanceled:            "canceled",
}

var kindMessages = map[Kind]string{
	KindUnknown:             "An unexpected error occurred.",
	KindValidation:          "Please fill in all required fields.",
	KindSearchFailure:       "Failed to fetch research papers. Please try again.",
	KindSimulationFailure:   "Failed to simulate outcome. Please adjust your parameters.",
	KindEmptySimulation:     "No simulation data returned.",
	KindMalformedSimulation: "The simulation response could not be understood.",
	KindTimeout:             "The research assistant did not respond in time. Please try again.",
	KindCanceled:            "The request was canceled.",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Message returns the fixed user-facing text for the kind.
func (k Kind) Message() string {
	if s, ok := kindMessages[k]; ok {
		return s
	}
	return kindMessages[KindUnknown]
}

// Error is the only error type returned by the Query Service. Error()
// yields the fixed user-facing message; transport causes are logged and
// never attached, so only validation and parse failures carry Err.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string { return e.Kind.Message() }

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrSearchFailed        = &Error{Kind: KindSearchFailure}
	ErrSimulationFailed    = &Error{Kind: KindSimulationFailure}
	ErrEmptySimulation     = &Error{Kind: KindEmptySimulation}
	ErrMalformedSimulation = &Error{Kind: KindMalformedSimulation}
	ErrTimeout             = &Error{Kind: KindTimeout}
	ErrCanceled            = &Error{Kind: KindCanceled}
)

// KindOf returns the kind of a Query Service error, or KindUnknown.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindUnknown
}

// Validation builds a KindValidation error for op.
func Validation(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// classify maps a backend failure to its kind. Context expiry wins over the
// operation's generic failure kind.
func classify(ctx context.Context, err error, fallback Kind) Kind {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled), errors.Is(ctx.Err(), context.Canceled):
		return KindCanceled
	default:
		return fallback
	}
}
