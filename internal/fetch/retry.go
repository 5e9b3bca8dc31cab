package fetch

import (
	"io"
	"net/http"
	"time"
)

// RetryTransport is an opt-in http.RoundTripper that retries rate-limited
// and transient upstream failures with exponential backoff. The engine never
// retries on its own; callers who want retries install this (or their own
// round tripper) on the engine's HTTP client.
type RetryTransport struct {
	// Base is the underlying round tripper. http.DefaultTransport when nil.
	Base http.RoundTripper
	// MaxAttempts is the total attempt budget. Defaults to 3.
	MaxAttempts int
	// BackoffInitial is the first delay. Defaults to 100ms, doubling per
	// attempt up to BackoffMax (default 2s).
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// RoundTrip implements http.RoundTripper. Only bodyless requests are
// retried, since a consumed body cannot be replayed.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	maxAttempts := t.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	if req.Body != nil {
		return base.RoundTrip(req)
	}

	var resp *http.Response
	var err error
	delay := t.BackoffInitial
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	backoffMax := t.BackoffMax
	if backoffMax <= 0 {
		backoffMax = 2 * time.Second
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > backoffMax {
				delay = backoffMax
			}
		}

		resp, err = base.RoundTrip(req)
		if err != nil {
			continue
		}
		if !retryableStatus(resp.StatusCode) || attempt == maxAttempts-1 {
			return resp, nil
		}
		// Drain and close so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	if err != nil {
		return nil, err
	}
	return resp, nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
