// Package application contains use-case orchestration services: resource
// reconciliation, comment upserts, the sync chain, and history scrubbing.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/spirit-dev/repo-ci/internal/faults"
)

// maxRetries bounds how often a transient remote failure is retried before
// it bubbles up. Auth, configuration, and rejected writes fail immediately.
const maxRetries = 3

func newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)
}

// withRetry runs fn, retrying with exponential backoff as long as the
// failure is categorized as transient. Any other failure is permanent.
func withRetry[T any](ctx context.Context, log *slog.Logger, op string, fn func() (T, error)) (T, error) {
	var result T
	err := backoff.Retry(func() error {
		var err error
		result, err = fn()
		if err == nil {
			return nil
		}
		if !faults.Is(err, faults.TransientRemote) {
			return backoff.Permanent(err)
		}
		log.Warn("transient remote failure, retrying", "op", op, "error", err)
		return err
	}, newBackOff(ctx))
	return result, err
}
