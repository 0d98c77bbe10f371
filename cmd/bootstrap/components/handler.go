package components

import (
	"tour-checkout/internal/handler"
	"tour-checkout/internal/handler/api"
	"tour-checkout/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewPaymentHandler,
		api.NewSavedTourHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(checkout *api.CheckoutHandler, payment *api.PaymentHandler, savedTours *api.SavedTourHandler) handler.Handlers {
	return handler.Handlers{
		Checkout:   checkout,
		Payment:    payment,
		SavedTours: savedTours,
	}
}
