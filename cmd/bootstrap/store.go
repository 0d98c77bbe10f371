package bootstrap

import (
	"context"
	"log/slog"

	"tour-checkout/internal/infra/memstore"
	"tour-checkout/internal/infra/redisstore"
	"tour-checkout/internal/pkg/clock"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/usecase/bridge"
	"tour-checkout/internal/usecase/commands"

	"go.uber.org/fx"
)

// SessionStore backs everything keyed by checkout session: the pending
// record slot, the attempt and the submission lock.
type SessionStore interface {
	bridge.Slot
	commands.AttemptStore
	commands.SubmissionLock
}

var StoreModule = fx.Module("store",
	fx.Provide(
		fx.Annotate(
			NewSessionStore,
			fx.As(new(bridge.Slot)),
			fx.As(new(commands.AttemptStore)),
			fx.As(new(commands.SubmissionLock)),
		),
	),
)

func NewSessionStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) SessionStore {
	if cfg.Redis.Addr == "" {
		slog.Warn("REDIS_ADDR is not set, session state is kept in memory")
		return memstore.New(clk)
	}

	store := redisstore.New(redisstore.NewClient(cfg.Redis))
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Ping(ctx); err != nil {
				return err
			}
			slog.Info("connected to redis", "addr", cfg.Redis.Addr)
			return nil
		},
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})
	return store
}
