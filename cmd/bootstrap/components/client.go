package components

import (
	"net/http"

	"tour-checkout/internal/infra/bookingsvc"
	"tour-checkout/internal/infra/gateway"
	"tour-checkout/internal/infra/httpclient"
	"tour-checkout/internal/infra/paymentsvc"
	"tour-checkout/internal/infra/stripegw"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/usecase/commands"

	"go.uber.org/fx"
)

// ClientModule provides the downstream services: the booking service, the
// payment service and the payment gateway.
var ClientModule = fx.Module("client",
	fx.Provide(
		fx.Annotate(
			NewBookingClient,
			fx.As(new(commands.TourCatalog)),
			fx.As(new(commands.BookingService)),
		),
		fx.Annotate(
			NewPaymentClient,
			fx.As(new(gateway.IntentCreator)),
		),
		fx.Annotate(
			NewGatewayClient,
			fx.As(new(gateway.Confirmer)),
		),
		gateway.New,
	),
)

func NewBookingClient(cfg config.Config) *bookingsvc.Client {
	return bookingsvc.New(httpclient.New(cfg.Services.BookingBaseURL, cfg.Services.RequestTimeout, http.DefaultClient))
}

func NewPaymentClient(cfg config.Config) *paymentsvc.Client {
	return paymentsvc.New(httpclient.New(cfg.Services.PaymentBaseURL, cfg.Services.RequestTimeout, http.DefaultClient))
}

func NewGatewayClient(cfg config.Config) *stripegw.Gateway {
	return stripegw.New(cfg.Gateway, cfg.Services)
}
