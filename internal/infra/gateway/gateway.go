// Package gateway composes intent creation (payment service) with
// confirmation and status lookups (Stripe) behind commands.PaymentGateway.
package gateway

import (
	"context"

	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/usecase/commands"
)

type IntentCreator interface {
	CreateIntent(ctx context.Context, req commands.IntentRequest) (payment.Intent, error)
}

type Confirmer interface {
	ConfirmInline(ctx context.Context, clientSecret, paymentMethodID string) (payment.TerminalStatus, error)
	ConfirmRedirect(ctx context.Context, clientSecret, paymentMethodID, returnURL string) (string, error)
	Status(ctx context.Context, clientSecret string) (payment.IntentStatus, error)
}

type Gateway struct {
	creator   IntentCreator
	confirmer Confirmer
}

func New(creator IntentCreator, confirmer Confirmer) commands.PaymentGateway {
	return &Gateway{creator: creator, confirmer: confirmer}
}

func (g *Gateway) CreateIntent(ctx context.Context, req commands.IntentRequest) (payment.Intent, error) {
	return g.creator.CreateIntent(ctx, req)
}

func (g *Gateway) ConfirmInline(ctx context.Context, clientSecret string, card commands.CardInput) (payment.TerminalStatus, error) {
	return g.confirmer.ConfirmInline(ctx, clientSecret, card.PaymentMethodID)
}

func (g *Gateway) ConfirmRedirect(ctx context.Context, clientSecret string, in commands.RedirectInput) (string, error) {
	return g.confirmer.ConfirmRedirect(ctx, clientSecret, in.PaymentMethodID, in.ReturnURL)
}

func (g *Gateway) RetrieveStatus(ctx context.Context, clientSecret string) (payment.IntentStatus, error) {
	return g.confirmer.Status(ctx, clientSecret)
}
