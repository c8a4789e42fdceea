// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client used to reach the model API.
package httputil

import (
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/nexus/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-supplied Retry-After hint.
const maxRetryAfter = time.Minute

// RetryTransport retries requests answered with HTTP 429 (Too Many
// Requests). The delay doubles each attempt starting at RetryBaseDelay
// unless the server sends Retry-After in seconds.
//
// With MaxRetries <= 0 the transport is a pass-through. Requests whose body
// cannot be replayed (no GetBody) are never retried. After exhausting
// retries the last 429 response is returned so the caller can inspect it.
type RetryTransport struct {
	Base       http.RoundTripper
	MaxRetries int
	Logger     *slog.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.MaxRetries <= 0 {
		return base.RoundTrip(req)
	}
	replayable := req.Body == nil || req.Body == http.NoBody || req.GetBody != nil

	ctx := req.Context()
	for attempt := 0; ; attempt++ {
		r := req
		if attempt > 0 {
			r = req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				r.Body = body
			}
		}

		resp, err := base.RoundTrip(r)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= t.MaxRetries || !replayable {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := retryDelay(resp, attempt)
		if t.Logger != nil {
			t.Logger.Warn("rate limited, retrying", "url", req.URL.Redacted(), "backoff", backoff, "attempt", attempt+1, "max", t.MaxRetries)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func retryDelay(resp *http.Response, attempt int) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
			return min(time.Duration(secs)*time.Second, maxRetryAfter)
		}
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}

// NewClient builds the HTTP client for model calls from cfg.
func NewClient(cfg types.HTTPConfig, logger *slog.Logger) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &RetryTransport{
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		},
	}
}
