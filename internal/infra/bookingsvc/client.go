package bookingsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/infra/httpclient"
	"tour-checkout/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client talks to the booking service, which owns tours, bookings and the
// user's saved tours.
type Client struct {
	http *httpclient.Client
}

func New(http *httpclient.Client) *Client {
	return &Client{http: http}
}

type tourResponse struct {
	ID             string          `json:"id"`
	LegacyID       string          `json:"_id"`
	Price          decimal.Decimal `json:"price"`
	Duration       int             `json:"duration"`
	MaxPeople      int             `json:"maxPeople"`
	RemainingSeats int             `json:"remainingSeats"`
}

func (c *Client) GetTour(ctx context.Context, tourID string) (checkout.Tour, error) {
	var out struct {
		Tour *tourResponse `json:"tour"`
		tourResponse
	}
	_, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/tour/" + url.PathEscape(tourID),
		Out:    &out,
	})
	if err != nil {
		return checkout.Tour{}, err
	}

	t := out.tourResponse
	if out.Tour != nil {
		t = *out.Tour
	}
	id := t.ID
	if id == "" {
		id = t.LegacyID
	}
	if id == "" {
		return checkout.Tour{}, infra.NewError(infra.KindNotFound, "tour response without id", nil)
	}

	return checkout.Tour{
		ID:             id,
		Price:          t.Price,
		DurationDays:   t.Duration,
		MaxPeople:      t.MaxPeople,
		RemainingSeats: t.RemainingSeats,
	}, nil
}

type scheduleDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type createBookingRequest struct {
	TourID                string      `json:"tourId"`
	Schedule              scheduleDTO `json:"schedule"`
	PartySize             int         `json:"partySize"`
	PaymentMethod         string      `json:"paymentMethod"`
	TotalAmountSettlement json.Number `json:"totalAmountSettlement"`
	UserID                uuid.UUID   `json:"userId"`
	Currency              string      `json:"currency"`
}

type bookingDTO struct {
	ID            string      `json:"id"`
	LegacyID      string      `json:"_id"`
	TourID        string      `json:"tourId"`
	UserID        uuid.UUID   `json:"userId"`
	Schedule      scheduleDTO `json:"schedule"`
	PartySize     int         `json:"partySize"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
}

type createBookingResponse struct {
	Booking bookingDTO `json:"booking"`
	Payment struct {
		ClientSecret string `json:"clientSecret"`
	} `json:"payment"`
}

func (c *Client) CreateBooking(ctx context.Context, req commands.BookingRequest) (commands.BookingCreated, error) {
	body := createBookingRequest{
		TourID: req.TourID,
		Schedule: scheduleDTO{
			StartDate: checkout.FormatDate(req.StartDate),
			EndDate:   checkout.FormatDate(req.EndDate),
		},
		PartySize:             req.PartySize,
		PaymentMethod:         req.PaymentMethod.String(),
		TotalAmountSettlement: json.Number(req.TotalSettlement.StringFixed(2)),
		UserID:                req.UserID,
		Currency:              req.Currency,
	}

	var out createBookingResponse
	_, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/booking",
		Body:   body,
		Out:    &out,
		Header: http.Header{"Idempotency-Key": []string{req.IdempotencyKey.String()}},
	})
	if err != nil {
		return commands.BookingCreated{}, err
	}

	b := out.Booking
	id := b.ID
	if id == "" {
		id = b.LegacyID
	}
	if id == "" {
		return commands.BookingCreated{}, infra.NewError(infra.KindUnavailable, "booking response without id", nil)
	}

	start, _ := checkout.ParseDate(b.Schedule.StartDate)
	end, _ := checkout.ParseDate(b.Schedule.EndDate)
	booking := checkout.Booking{
		ID:            id,
		TourID:        b.TourID,
		UserID:        b.UserID,
		StartDate:     start,
		EndDate:       end,
		PartySize:     b.PartySize,
		Status:        checkout.BookingStatus(b.Status),
		PaymentStatus: checkout.PaymentStatus(b.PaymentStatus),
	}
	if !booking.Status.IsValid() {
		booking.Status = checkout.BookingPending
	}
	if !booking.PaymentStatus.IsValid() {
		booking.PaymentStatus = checkout.PaymentPending
	}

	return commands.BookingCreated{Booking: booking, ClientSecret: out.Payment.ClientSecret}, nil
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, bookingID string, status checkout.PaymentStatus) error {
	_, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   "/booking/" + url.PathEscape(bookingID) + "/payment-status",
		Body:   map[string]string{"paymentStatus": status.String()},
	})
	return err
}

func (c *Client) RemoveSavedTour(ctx context.Context, tourID string) error {
	_, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   "/favorite/" + url.PathEscape(tourID),
	})
	if infra.IsKind(err, infra.KindNotFound) {
		// already removed
		return nil
	}
	return err
}
