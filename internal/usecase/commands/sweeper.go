package commands

import (
	"context"
	"log/slog"
	"time"

	"tour-checkout/internal/pkg/config"
)

//go:generate mockgen -source=sweeper.go -destination=../../../tests/mock/commands/sweeper.go -package=commandsmock

type ExpiredKeyPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// IdempotencySweeper removes idempotency keys past their expiry.
type IdempotencySweeper struct {
	purger   ExpiredKeyPurger
	interval time.Duration
}

func NewIdempotencySweeper(purger ExpiredKeyPurger, cfg config.Config) *IdempotencySweeper {
	return &IdempotencySweeper{purger: purger, interval: cfg.Checkout.IdempotencySweepInterval}
}

// Run sweeps once immediately, then on every interval until ctx is done.
func (s *IdempotencySweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("idempotency sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *IdempotencySweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.purger.DeleteExpired(ctx)
	if err != nil {
		return 0, translate(err)
	}
	if n > 0 {
		slog.Info("expired idempotency keys removed", "count", n)
	}
	return n, nil
}
