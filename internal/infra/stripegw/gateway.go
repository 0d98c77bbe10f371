// Package stripegw confirms and inspects payment intents through the Stripe API.
package stripegw

import (
	"context"
	"errors"
	"net"
	"net/http"

	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/pkg/config"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// BookingMetadataKey is the intent metadata entry the payment service sets.
const BookingMetadataKey = "booking_id"

type Gateway struct {
	api *client.API
}

// New builds a client whose network retries are disabled; callers apply
// their own retry policy.
func New(gw config.GatewayConfig, svc config.ServicesConfig) *Gateway {
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: svc.RequestTimeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if gw.APIURL != "" {
		backendCfg.URL = stripe.String(gw.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	api := &client.API{}
	api.Init(gw.SecretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Gateway{api: api}
}

func (g *Gateway) ConfirmInline(ctx context.Context, clientSecret, paymentMethodID string) (payment.TerminalStatus, error) {
	id, err := payment.IntentIDFromSecret(clientSecret)
	if err != nil {
		return "", infra.NewError(infra.KindRejected, "invalid client secret", err)
	}

	params := &stripe.PaymentIntentConfirmParams{PaymentMethod: stripe.String(paymentMethodID)}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Confirm(id, params)
	if err != nil {
		return "", classify("confirm payment intent", err)
	}
	return mapStatus(pi.Status), nil
}

// ConfirmRedirect returns the hosted challenge URL, or returnURL when the
// intent settled without one.
func (g *Gateway) ConfirmRedirect(ctx context.Context, clientSecret, paymentMethodID, returnURL string) (string, error) {
	id, err := payment.IntentIDFromSecret(clientSecret)
	if err != nil {
		return "", infra.NewError(infra.KindRejected, "invalid client secret", err)
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
		ReturnURL:     stripe.String(returnURL),
	}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Confirm(id, params)
	if err != nil {
		return "", classify("confirm payment intent", err)
	}
	if pi.NextAction != nil && pi.NextAction.RedirectToURL != nil && pi.NextAction.RedirectToURL.URL != "" {
		return pi.NextAction.RedirectToURL.URL, nil
	}
	return returnURL, nil
}

// Status is read-only and safe to repeat.
func (g *Gateway) Status(ctx context.Context, clientSecret string) (payment.IntentStatus, error) {
	id, err := payment.IntentIDFromSecret(clientSecret)
	if err != nil {
		return payment.IntentStatus{}, infra.NewError(infra.KindRejected, "invalid client secret", err)
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return payment.IntentStatus{}, classify("retrieve payment intent", err)
	}
	if pi.ClientSecret != "" && pi.ClientSecret != clientSecret {
		return payment.IntentStatus{}, infra.NewError(infra.KindRejected, "client secret does not match payment intent", nil)
	}

	return payment.IntentStatus{
		IntentID:  pi.ID,
		BookingID: pi.Metadata[BookingMetadataKey],
		Status:    mapStatus(pi.Status),
	}, nil
}

func mapStatus(s stripe.PaymentIntentStatus) payment.TerminalStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return payment.StatusSucceeded
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusProcessing:
		return payment.StatusRequiresAction
	default:
		return payment.StatusFailed
	}
}

func classify(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.Type == stripe.ErrorTypeCard {
			return infra.NewError(infra.KindDeclined, op, &payment.DeclinedError{Code: string(se.Code), Message: se.Msg})
		}
		switch {
		case se.HTTPStatusCode == http.StatusTooManyRequests || se.HTTPStatusCode >= 500:
			return infra.NewError(infra.KindUnavailable, op, err)
		case se.HTTPStatusCode == http.StatusUnauthorized:
			// our key, not the user's session
			return infra.NewError(infra.KindUnavailable, op, err)
		case se.HTTPStatusCode == http.StatusNotFound:
			return infra.NewError(infra.KindNotFound, op, err)
		default:
			return infra.NewError(infra.KindRejected, op, err)
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return infra.NewError(infra.KindTimeout, op, err)
	}
	return infra.NewError(infra.KindUnavailable, op, err)
}
