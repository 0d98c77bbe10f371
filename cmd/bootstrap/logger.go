package bootstrap

import (
	"log/slog"

	"tour-checkout/internal/handler/middleware"
	"tour-checkout/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
	fx.Invoke(func(logger *slog.Logger) {
		slog.SetDefault(logger)
	}),
)

func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}
