package paymentsvc

import (
	"context"
	"net/http"

	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/infra/httpclient"
	"tour-checkout/internal/usecase/commands"

	"github.com/google/uuid"
)

// Client creates payment intents through the payment service, which holds
// the gateway secret key for intent creation and records the intent against
// the booking.
type Client struct {
	http *httpclient.Client
}

func New(http *httpclient.Client) *Client {
	return &Client{http: http}
}

type createIntentRequest struct {
	BookingID string    `json:"bookingId"`
	UserID    uuid.UUID `json:"userId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Method    string    `json:"method"`
}

type createIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Status          string `json:"status"`
}

// CreateIntent is idempotent by booking id: when the service answers 409 with
// the existing intent's secret, that intent is returned as success.
func (c *Client) CreateIntent(ctx context.Context, req commands.IntentRequest) (payment.Intent, error) {
	var out createIntentResponse
	status, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/payment/create",
		Body: createIntentRequest{
			BookingID: req.BookingID,
			UserID:    req.UserID,
			Amount:    req.Amount,
			Currency:  req.Currency,
			Method:    req.Method.String(),
		},
		Out:      &out,
		DecodeOn: []int{http.StatusConflict},
	})
	if err != nil && !(status == http.StatusConflict && out.ClientSecret != "") {
		return payment.Intent{}, err
	}

	id := out.PaymentIntentID
	if id == "" {
		derived, derr := payment.IntentIDFromSecret(out.ClientSecret)
		if derr != nil {
			return payment.Intent{}, infra.NewError(infra.KindUnavailable, "payment service returned an unusable client secret", derr)
		}
		id = derived
	}

	return payment.Intent{
		ID:           id,
		ClientSecret: out.ClientSecret,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       payment.TerminalStatus(out.Status),
	}, nil
}
