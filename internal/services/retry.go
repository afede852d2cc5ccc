package services

import (
	"context"
	"log"
	"strings"
	"time"
)

const (
	maxRetries     = 3
	retryBaseDelay = 1000 * time.Millisecond
)

// Failures matching these signals can never succeed on retry, so they
// leave the backoff loop immediately.
var nonRetryablePatterns = []string{
	"api key",
	"authentication",
	"invalid_request",
	"quota",
	"billing",
}

type retrier struct {
	maxRetries int
	baseDelay  time.Duration

	// sleep is swapped out in tests to record backoff durations.
	sleep func(ctx context.Context, d time.Duration) error
}

func newRetrier() *retrier {
	return &retrier{
		maxRetries: maxRetries,
		baseDelay:  retryBaseDelay,
		sleep:      sleepContext,
	}
}

// Do runs fn until it succeeds, retrying transient failures with
// exponential backoff (baseDelay * 2^attempt). Attempts are strictly
// sequential: concurrent retries would double-bill the provider and leave
// "which response wins" ambiguous. The backoff sleep aborts as soon as the
// caller's context is cancelled.
func (r *retrier) Do(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if isNonRetryable(err) {
			return err
		}
		if attempt == r.maxRetries {
			break
		}

		delay := r.baseDelay * (1 << attempt)
		log.Printf("⚠️  Attempt %d/%d failed: %v. Retrying in %s...", attempt+1, r.maxRetries+1, err, delay)
		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}

	return lastErr
}

func isNonRetryable(err error) bool {
	signal := strings.ToLower(errorSignal(err))
	for _, pattern := range nonRetryablePatterns {
		if strings.Contains(signal, pattern) {
			return true
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
