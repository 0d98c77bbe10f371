package retry

import (
	"context"
	"log/slog"
	"time"

	"tour-checkout/internal/pkg/config"

	"github.com/cenkalti/backoff/v4"
)

// Policy is a bounded exponential backoff: BaseDelay, BaseDelay*Factor, ...
// capped at MaxDelay, for at most MaxAttempts calls in total.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
	MaxDelay    time.Duration
}

// Retryable reports whether another attempt may succeed.
type Retryable func(error) bool

func FromConfig(cfg config.RetryConfig) Policy {
	return Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		Factor:      cfg.Factor,
		MaxDelay:    cfg.MaxDelay,
	}
}

// Once never retries.
func Once() Policy {
	return Policy{MaxAttempts: 1}
}

func (p Policy) exponential() *backoff.ExponentialBackOff {
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = factor
	b.MaxInterval = p.MaxDelay
	if b.MaxInterval < b.InitialInterval {
		b.MaxInterval = b.InitialInterval
	}
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (p Policy) newBackOff(ctx context.Context) backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(p.exponential(), uint64(attempts-1)), ctx)
}

// Delay is the wait before retry number n (zero-based), ignoring MaxAttempts.
// Used by schedulers that persist their retry state between runs.
func (p Policy) Delay(n int) time.Duration {
	b := p.exponential()
	d := b.NextBackOff()
	for i := 0; i < n; i++ {
		d = b.NextBackOff()
	}
	return d
}

// Budget is the longest Do can run when every call takes perCall, waits
// between calls included.
func (p Policy) Budget(perCall time.Duration) time.Duration {
	attempts := max(p.MaxAttempts, 1)
	total := time.Duration(attempts) * perCall
	for n := 0; n < attempts-1; n++ {
		total += p.Delay(n)
	}
	return total
}

// Do runs op until it succeeds, returns a non-retryable error, the policy is
// exhausted, or ctx is done. The last error from op is returned.
func Do(ctx context.Context, p Policy, retryable Retryable, op func(ctx context.Context) error) error {
	attempt := 0
	return backoff.RetryNotify(
		func() error {
			attempt++
			err := op(ctx)
			if err == nil {
				return nil
			}
			if retryable == nil || !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		p.newBackOff(ctx),
		func(err error, wait time.Duration) {
			slog.Warn("retrying operation",
				"attempt", attempt,
				"max_attempts", p.MaxAttempts,
				"wait_time", wait,
				"error", err)
		},
	)
}

// DoValue is Do for operations that return a value.
func DoValue[T any](ctx context.Context, p Policy, retryable Retryable, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := Do(ctx, p, retryable, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}
