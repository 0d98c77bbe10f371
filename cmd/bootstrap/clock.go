package bootstrap

import (
	"tour-checkout/internal/pkg/clock"

	"go.uber.org/fx"
)

var ClockModule = fx.Module("clock",
	fx.Provide(
		clock.NewRealClock,
	),
)
