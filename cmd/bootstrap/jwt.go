package bootstrap

import (
	"tour-checkout/internal/pkg/clock"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/jwt"
	"tour-checkout/internal/usecase/bridge"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
		fx.Annotate(
			NewStateSealer,
			fx.As(new(bridge.Sealer)),
		),
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenDuration)
}

func NewStateSealer(cfg config.Config, clk clock.Clock) *jwt.StateSealer {
	return jwt.NewStateSealer(cfg.JWT.StateSigningSecret(), clk)
}
