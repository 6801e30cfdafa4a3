package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"germseval/pkg/core"
)

// retryPolicy bounds a provider call: per-attempt timeout, bounded retries
// with linear backoff. Context cancellation always wins over a retry.
type retryPolicy struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func (p retryPolicy) withDefaults(timeout time.Duration) retryPolicy {
	if p.Timeout <= 0 {
		p.Timeout = timeout
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Backoff <= 0 {
		p.Backoff = 500 * time.Millisecond
	}
	return p
}

func withRetries(ctx context.Context, label string, policy retryPolicy, call func(ctx context.Context) (core.Response, error)) (core.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
		resp, err := call(attemptCtx)
		cancel()
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return core.Response{}, err
		}
		lastErr = err

		if attempt < policy.MaxRetries {
			select {
			case <-ctx.Done():
				return core.Response{}, ctx.Err()
			case <-time.After(policy.Backoff * time.Duration(attempt+1)):
			}
		}
	}
	return core.Response{}, fmt.Errorf("%s: request failed after retries: %w", label, lastErr)
}
