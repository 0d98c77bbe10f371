package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"tour-checkout/cmd/bootstrap"
	"tour-checkout/internal/usecase/commands"

	"go.uber.org/fx"
)

type job interface {
	Run(ctx context.Context) error
}

// startJobs runs the outbox relay and the idempotency sweeper until stop.
func startJobs(lc fx.Lifecycle, relay *commands.OutboxRelay, sweeper *commands.IdempotencySweeper, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	jobs := map[string]job{
		"outbox_relay":        relay,
		"idempotency_sweeper": sweeper,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			for name, j := range jobs {
				logger.Info("starting job", "job", name)
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := j.Run(ctx); err != nil {
						logger.Error("job stopped with error", "job", name, "error", err)
					}
				}()
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			logger.Info("stopping jobs")
			cancel()

			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.WorkerModule,
		fx.Invoke(startJobs),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop worker cleanly", "error", err)
	}

	slog.Info("worker stopped")
}
