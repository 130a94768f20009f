package backend

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryPolicy is an explicit retry policy wrapped around a single-attempt
// primitive: max attempts and an exponential backoff schedule
// (BaseDelay * 2^(attempt-1)). Keeping the policy separate from the clients
// makes it reusable and testable on its own.
type RetryPolicy struct {
	Attempts  uint
	BaseDelay time.Duration
	Logger    *slog.Logger
}

// Do runs fn up to Attempts times, sleeping between attempts per the backoff
// schedule. Errors wrapped with retry.Unrecoverable stop immediately.
// The returned error is the last underlying cause, not a joined list.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	err := retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		retry.Delay(p.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Warn("backend call failed, retrying",
				"op", op,
				"attempt", attempt+1,
				"elapsed", time.Since(start),
				"error", err,
			)
		}),
	)
	return err
}

// Unrecoverable marks an error so the policy stops retrying it.
// Used for client-side failures (bad request construction) that no number
// of attempts will fix.
func Unrecoverable(err error) error {
	return retry.Unrecoverable(err)
}
