//go:build unit

package bookingsvc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/infra/bookingsvc"
	"tour-checkout/internal/infra/httpclient"
	"tour-checkout/internal/pkg/authctx"
	"tour-checkout/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc) *bookingsvc.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return bookingsvc.New(httpclient.New(srv.URL, time.Second, srv.Client()))
}

func TestClient_GetTour(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "wrapped", body: `{"tour":{"_id":"tour_1","price":3000000,"duration":3,"maxPeople":10,"remainingSeats":6}}`},
		{name: "bare", body: `{"id":"tour_1","price":"3000000","duration":3,"maxPeople":10,"remainingSeats":6}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/tour/tour_1", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})

			tour, err := c.GetTour(context.Background(), "tour_1")
			require.NoError(t, err)
			assert.Equal(t, "tour_1", tour.ID)
			assert.True(t, decimal.NewFromInt(3_000_000).Equal(tour.Price))
			assert.Equal(t, 3, tour.DurationDays)
			assert.Equal(t, 6, tour.MaxPartySize())
		})
	}

	t.Run("missing tour", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := c.GetTour(context.Background(), "nope")
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestClient_CreateBooking(t *testing.T) {
	key := uuid.New()
	userID := uuid.New()
	req := commands.BookingRequest{
		IdempotencyKey:  key,
		TourID:          "tour_1",
		UserID:          userID,
		StartDate:       time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
		PartySize:       2,
		PaymentMethod:   checkout.MethodCard,
		TotalSettlement: decimal.RequireFromString("244.9"),
		Currency:        "usd",
	}

	t.Run("sends contract body and idempotency key", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/booking", r.URL.Path)
			assert.Equal(t, key.String(), r.Header.Get("Idempotency-Key"))
			assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

			var body map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.JSONEq(t, `{"startDate":"2026-06-01","endDate":"2026-06-04"}`, string(body["schedule"]))
			assert.Equal(t, "244.90", string(body["totalAmountSettlement"]))
			assert.Equal(t, `"card"`, string(body["paymentMethod"]))

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"booking":{"_id":"bk_1","tourId":"tour_1","userId":"` + userID.String() + `",
				"schedule":{"startDate":"2026-06-01","endDate":"2026-06-04"},"partySize":2,"status":"pending","paymentStatus":"pending"},
				"payment":{"clientSecret":"pi_1_secret_x"}}`))
		})

		ctx := authctx.WithBearer(context.Background(), "user-token")
		created, err := c.CreateBooking(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "bk_1", created.Booking.ID)
		assert.Equal(t, checkout.BookingPending, created.Booking.Status)
		assert.Equal(t, req.EndDate, created.Booking.EndDate)
		assert.Equal(t, "pi_1_secret_x", created.ClientSecret)
	})

	t.Run("expired token", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.CreateBooking(context.Background(), req)
		assert.True(t, infra.IsKind(err, infra.KindUnauthorized))
	})

	t.Run("response without id", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"booking":{}}`))
		})

		_, err := c.CreateBooking(context.Background(), req)
		assert.True(t, infra.IsKind(err, infra.KindUnavailable))
	})
}

func TestClient_UpdatePaymentStatus(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/booking/bk_1/payment-status", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "failed", body["paymentStatus"])
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.UpdatePaymentStatus(context.Background(), "bk_1", checkout.PaymentFailed))
}

func TestClient_RemoveSavedTour(t *testing.T) {
	t.Run("already removed counts as success", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/favorite/tour_1", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		})
		assert.NoError(t, c.RemoveSavedTour(context.Background(), "tour_1"))
	})

	t.Run("outage", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		assert.True(t, infra.IsKind(c.RemoveSavedTour(context.Background(), "tour_1"), infra.KindUnavailable))
	})
}
