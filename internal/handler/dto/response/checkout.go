package response

import (
	"log/slog"
	"time"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/usecase/commands"

	"github.com/jinzhu/copier"
)

type QuoteResponse struct {
	TourID          string `json:"tourId"`
	PartySize       int    `json:"partySize"`
	UnitPrice       string `json:"unitPrice"`
	TotalLocal      string `json:"totalLocal"`
	TotalSettlement string `json:"totalSettlement"`
	AmountMinor     int64  `json:"amountMinor"`
	Currency        string `json:"currency"`
	RateVersion     string `json:"rateVersion"`
}

func FromQuote(res *commands.QuoteResult, partySize int) QuoteResponse {
	return QuoteResponse{
		TourID:          res.Tour.ID,
		PartySize:       partySize,
		UnitPrice:       res.Tour.Price.String(),
		TotalLocal:      res.Totals.Local.String(),
		TotalSettlement: res.Totals.Settlement.StringFixed(2),
		AmountMinor:     res.Totals.SettlementMinorUnits(),
		Currency:        res.Totals.Currency,
		RateVersion:     res.Totals.RateVersion,
	}
}

type CheckoutResponse struct {
	BookingID       string `json:"bookingId"`
	State           string `json:"state"`
	Mode            string `json:"mode"`
	PaymentMethod   string `json:"paymentMethod"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	PartySize       int    `json:"partySize"`
	TotalLocal      string `json:"totalLocal"`
	TotalSettlement string `json:"totalSettlement"`
	Currency        string `json:"currency"`
	RateVersion     string `json:"rateVersion"`
}

func FromSubmitResult(res *commands.SubmitResult) CheckoutResponse {
	var out CheckoutResponse
	if err := copier.Copy(&out, res); err != nil {
		slog.Warn("failed to map submit result", "error", err)
	}
	out.TotalSettlement = res.TotalSettle
	return out
}

// AttemptResponse never carries the client secret.
type AttemptResponse struct {
	State        string    `json:"state"`
	Mode         string    `json:"mode,omitempty"`
	BookingID    string    `json:"bookingId,omitempty"`
	Result       string    `json:"result,omitempty"`
	ErrorKind    string    `json:"errorKind,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func FromAttempt(a *checkout.Attempt) AttemptResponse {
	var out AttemptResponse
	if a == nil {
		return out
	}
	if err := copier.Copy(&out, a); err != nil {
		slog.Warn("failed to map checkout attempt", "error", err)
	}
	return out
}

type ResolutionResponse struct {
	State        string `json:"state"`
	Result       string `json:"result,omitempty"`
	BookingID    string `json:"bookingId,omitempty"`
	Message      string `json:"message,omitempty"`
	RedirectPath string `json:"redirectPath"`
}

func FromResolution(r *commands.Resolution) *ResolutionResponse {
	if r == nil {
		return nil
	}
	var out ResolutionResponse
	if err := copier.Copy(&out, r); err != nil {
		slog.Warn("failed to map resolution", "error", err)
	}
	return &out
}

type ConfirmResponse struct {
	Attempt     AttemptResponse     `json:"attempt"`
	RedirectURL string              `json:"redirectUrl,omitempty"`
	Resolution  *ResolutionResponse `json:"resolution,omitempty"`
}

func FromConfirmResult(res *commands.ConfirmResult) ConfirmResponse {
	return ConfirmResponse{
		Attempt:     FromAttempt(res.Attempt),
		RedirectURL: res.RedirectURL,
		Resolution:  FromResolution(res.Resolution),
	}
}
