package bootstrap

import (
	"context"

	"tour-checkout/internal/infra/kafka"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/usecase/commands"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		fx.Annotate(
			NewProducer,
			fx.As(new(commands.EventPublisher)),
		),
	),
)

func NewProducer(lc fx.Lifecycle, cfg config.Config) *kafka.Producer {
	producer := kafka.NewProducer(cfg.Kafka)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return producer.CheckConnection(ctx)
		},
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})
	return producer
}
