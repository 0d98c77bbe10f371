package components

import (
	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/infra/rates"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/retry"
	"tour-checkout/internal/usecase"
	"tour-checkout/internal/usecase/bridge"
	"tour-checkout/internal/usecase/commands"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	NewRetryPolicy,
	NewConverter,
	checkout.NewDraftBuilder,
	NewPendingBridge,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReconciler,
		commands.NewCheckoutUseCase,
		commands.NewSavedTourUseCase,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// JobsModule holds the background jobs run by cmd/worker.
var JobsModule = fx.Module("usecase/jobs",
	fx.Provide(
		commands.NewOutboxRelay,
		commands.NewIdempotencySweeper,
	),
)

func NewRetryPolicy(cfg config.Config) retry.Policy {
	return retry.FromConfig(cfg.Retry)
}

func NewConverter(cfg config.Config) (*checkout.Converter, error) {
	return rates.NewConverter(cfg.Checkout)
}

// The slot is kept for AttemptTTL; staleness is judged against
// PendingRecordTTL when the record is read.
func NewPendingBridge(slot bridge.Slot, sealer bridge.Sealer, cfg config.Config) *bridge.Bridge {
	return bridge.New(slot, sealer, cfg.Checkout.AttemptTTL)
}
