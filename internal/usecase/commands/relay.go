package commands

import (
	"context"
	"log/slog"
	"time"

	"tour-checkout/internal/pkg/clock"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/retry"
	"tour-checkout/internal/usecase/shared"
)

// maxPublishAttempts bounds redelivery of one outbox row before it is parked
// as failed.
const maxPublishAttempts = 8

// OutboxRelay publishes queued notification jobs written alongside payment
// outcomes. Rows are claimed with SKIP LOCKED, so several relays may run.
type OutboxRelay struct {
	uow       shared.UnitOfWork
	publisher EventPublisher
	clock     clock.Clock
	cfg       config.KafkaConfig
	policy    retry.Policy
}

func NewOutboxRelay(uow shared.UnitOfWork, publisher EventPublisher, clock clock.Clock, cfg config.Config) *OutboxRelay {
	return &OutboxRelay{
		uow:       uow,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg.Kafka,
		policy:    retry.FromConfig(cfg.Retry),
	}
}

// Run polls until ctx is done.
func (r *OutboxRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("outbox relay pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce publishes one batch and returns how many jobs were sent.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	var sent int
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		jobs, err := tx.Notifications().ClaimQueued(ctx, tx.DB(), r.cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if perr := r.publisher.Publish(ctx, job.Topic, job.Key, job.Payload); perr != nil {
				retryAt := r.nextRun(job.Attempts)
				slog.Warn("failed to publish outbox job",
					"job_id", job.ID.String(),
					"attempts", job.Attempts+1,
					"error", perr)
				if err := tx.Notifications().MarkFailed(ctx, tx.DB(), job.ID, perr.Error(), retryAt); err != nil {
					return err
				}
				continue
			}
			if err := tx.Notifications().MarkSent(ctx, tx.DB(), job.ID); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, translate(err)
	}
	if sent > 0 {
		slog.Info("outbox jobs published", "count", sent)
	}
	return sent, nil
}

// nextRun is nil once the job has used up its attempts.
func (r *OutboxRelay) nextRun(attempts int) *time.Time {
	if attempts+1 >= maxPublishAttempts {
		return nil
	}
	at := r.clock.Now().Add(r.policy.Delay(attempts))
	return &at
}
