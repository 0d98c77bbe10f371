//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/handler/api"
	resdto "tour-checkout/internal/handler/dto/response"
	"tour-checkout/internal/handler/middleware"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/cookie"
	"tour-checkout/internal/pkg/errs"
	"tour-checkout/internal/usecase/commands"
	"tour-checkout/tests/common/builder"
	"tour-checkout/tests/common/httptest"
	"tour-checkout/tests/common/testutil"
	commandsmock "tour-checkout/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const testSessionID = "0d6c1b7e-6a1f-4a55-8d0e-3c9f2a4b5e61"

var testUserID = uuid.MustParse("6f1c2a9e-6b7d-4f53-9a52-0d4b3c2e8f11")

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCheckoutCommands
	handler      *api.CheckoutHandler
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	cfg := config.NewTestConfig()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	s.handler = api.NewCheckoutHandler(s.mockCommands, cfg)

	g := s.router.Group("/api/checkout")
	g.Use(func(c *gin.Context) {
		// stands in for RequireAuth
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", testUserID)
		}
	}, middleware.CheckoutSession(cfg.Cookie))
	g.POST("/quote", s.handler.Quote)
	g.POST("", s.handler.Submit)
	g.GET("", s.handler.Current)
	g.DELETE("", s.handler.Abandon)
	g.POST("/:bookingId/confirm", s.handler.Confirm)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func sessionCookie() []*http.Cookie {
	return []*http.Cookie{{Name: cookie.SessionCookieName, Value: testSessionID}}
}

func submitBody() map[string]any {
	b := builder.NewCheckoutBuilder()
	return map[string]any{
		"tourId":        b.TourID,
		"startDate":     b.StartDate,
		"partySize":     b.PartySize,
		"paymentMethod": b.PaymentMethod,
	}
}

func (s *CheckoutHandlerTestSuite) TestQuote() {
	s.Run("success: returns both totals", func() {
		b := builder.NewCheckoutBuilder()
		s.mockCommands.EXPECT().Quote(gomock.Any(), commands.QuoteInput{TourID: b.TourID, PartySize: 2}).
			Return(&commands.QuoteResult{
				Tour: b.BuildTour(),
				Totals: checkout.Totals{
					Local:       decimal.NewFromInt(6_000_000),
					Settlement:  decimal.RequireFromString("244.90"),
					Currency:    "usd",
					RateVersion: "test",
				},
			}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/checkout/quote",
			map[string]any{"tourId": b.TourID, "partySize": 2}, "token")

		var response resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("6000000", response.TotalLocal)
		s.Equal("244.90", response.TotalSettlement)
		s.Equal(int64(24490), response.AmountMinor)
	})

	s.Run("error: missing tour id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/checkout/quote", map[string]any{"partySize": 2}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *CheckoutHandlerTestSuite) TestSubmit() {
	url := "/api/checkout"
	result := &commands.SubmitResult{
		BookingID:   "bk_1",
		State:       checkout.StateAwaitingPayment,
		Mode:        checkout.ModeInline,
		TotalLocal:  "6000000",
		TotalSettle: "244.90",
		Currency:    "usd",
	}

	s.Run("success: returns 201 with the booking", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.SubmitInput) (*commands.SubmitResult, error) {
				s.Equal(testSessionID, in.SessionID)
				s.Equal(testUserID, in.UserID)
				s.Nil(in.IdempotencyKey)
				return result, nil
			})

		rec := httptest.PerformRequestWithCookies(s.T(), s.router, http.MethodPost, url, submitBody(), sessionCookie(), "token")

		var response resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("bk_1", response.BookingID)
		s.Equal("awaiting_payment", response.State)
		s.Equal("244.90", response.TotalSettlement)
	})

	s.Run("success: issues a session cookie on first use", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(result, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, submitBody(), "token")

		s.Equal(http.StatusCreated, rec.Code)
		sid := httptest.ExtractCookie(rec, cookie.SessionCookieName)
		s.Require().NotNil(sid)
		_, err := uuid.Parse(sid.Value)
		s.NoError(err)
	})

	s.Run("success: replay is flagged", func() {
		replayed := *result
		replayed.IsReplayed = true
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(&replayed, nil)

		req := testutil.DtoMap(s.T(), submitBody())
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, req,
			map[string]string{"Idempotency-Key": uuid.NewString()}, "token")

		s.Equal(http.StatusCreated, rec.Code)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Idempotent-Replayed": "true"})
	})

	s.Run("error: malformed idempotency key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, submitBody(),
			map[string]string{"Idempotency-Key": "not-a-uuid"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid idempotency key format")
	})

	s.Run("error: unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, submitBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: missing required fields", func() {
		for _, field := range []string{"tourId", "startDate", "paymentMethod"} {
			s.Run(field, func() {
				req := testutil.DtoMap(s.T(), submitBody(), testutil.Field(field, nil))
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "invalid date", err: checkout.ErrInvalidDate, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "valid start date"},
			{name: "party size", err: checkout.ErrPartySizeOutOfRange, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "travellers"},
			{name: "gateway ceiling", err: checkout.ErrAmountExceedsGatewayLimit, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "maximum amount"},
			{name: "tour not found", err: commands.ErrTourNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "no longer available"},
			{name: "in progress", err: commands.ErrSubmissionInProgress, expectedStatus: http.StatusConflict, expectedMsg: "already being processed"},
			{name: "idempotency conflict", err: commands.ErrIdempotencyConflict, expectedStatus: http.StatusConflict, expectedMsg: "different parameters"},
			{name: "session expired", err: commands.ErrSessionExpired, expectedStatus: http.StatusUnauthorized, expectedMsg: "sign in again"},
			{name: "timeout", err: commands.ErrNetworkTimeout, expectedStatus: http.StatusGatewayTimeout, expectedMsg: "timed out"},
			{name: "unavailable", err: commands.ErrServiceUnavailable, expectedStatus: http.StatusServiceUnavailable, expectedMsg: "temporarily unavailable"},
			{name: "unexpected", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, submitBody(), "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
				s.NotContains(rec.Body.String(), "boom")
			})
		}
	})
}

func (s *CheckoutHandlerTestSuite) TestCurrentAndAbandon() {
	s.Run("current attempt hides the client secret", func() {
		s.mockCommands.EXPECT().Current(gomock.Any(), testSessionID, testUserID).Return(&checkout.Attempt{
			SessionID:    testSessionID,
			State:        checkout.StateAwaitingPayment,
			Mode:         checkout.ModeRedirect,
			BookingID:    "bk_1",
			ClientSecret: "pi_1_secret_x",
		}, nil)

		rec := httptest.PerformRequestWithCookies(s.T(), s.router, http.MethodGet, "/api/checkout", nil, sessionCookie(), "token")

		var response resdto.AttemptResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("awaiting_payment", response.State)
		s.Equal("redirect", response.Mode)
		s.Equal("bk_1", response.BookingID)
		s.NotContains(rec.Body.String(), "secret")
	})

	s.Run("abandon", func() {
		s.mockCommands.EXPECT().Abandon(gomock.Any(), testSessionID).Return(nil)

		rec := httptest.PerformRequestWithCookies(s.T(), s.router, http.MethodDelete, "/api/checkout", nil, sessionCookie(), "token")

		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *CheckoutHandlerTestSuite) TestConfirm() {
	url := "/api/checkout/bk_1/confirm"

	s.Run("inline: returns the resolution", func() {
		s.mockCommands.EXPECT().ConfirmInline(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.ConfirmInput) (*commands.ConfirmResult, error) {
				s.Equal("bk_1", in.BookingID)
				s.Equal("pm_card_visa", in.PaymentMethodID)
				s.NotNil(in.Carrier)
				return &commands.ConfirmResult{
					Attempt: &checkout.Attempt{State: checkout.StateDone, BookingID: "bk_1", Result: payment.ResultSuccess},
					Resolution: &commands.Resolution{
						State:        commands.ResolutionResolved,
						Result:       payment.ResultSuccess,
						BookingID:    "bk_1",
						RedirectPath: "/booking/success?bookingId=bk_1",
					},
				}, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"mode": "inline", "paymentMethodId": "pm_card_visa"}, "token")

		var response resdto.ConfirmResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("done", response.Attempt.State)
		s.Require().NotNil(response.Resolution)
		s.Equal("resolved", response.Resolution.State)
		s.Equal("/booking/success?bookingId=bk_1", response.Resolution.RedirectPath)
	})

	s.Run("redirect: returns the challenge url", func() {
		s.mockCommands.EXPECT().ConfirmRedirect(gomock.Any(), gomock.Any()).Return(&commands.ConfirmResult{
			Attempt:     &checkout.Attempt{State: checkout.StateAwaitingPayment, BookingID: "bk_1"},
			RedirectURL: "https://hooks.stripe.com/redirect/1",
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"mode": "redirect", "paymentMethodId": "pm_ideal"}, "token")

		var response resdto.ConfirmResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("https://hooks.stripe.com/redirect/1", response.RedirectURL)
		s.Nil(response.Resolution)
	})

	s.Run("error: unknown mode", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"mode": "direct", "paymentMethodId": "pm_1"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: decline carries the gateway message", func() {
		declined := errs.Mark(&payment.DeclinedError{Code: "card_declined", Message: "Your card has insufficient funds."}, commands.ErrGatewayDeclined)
		s.mockCommands.EXPECT().ConfirmInline(gomock.Any(), gomock.Any()).Return(nil, declined)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"mode": "inline", "paymentMethodId": "pm_card_visa"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusPaymentRequired, "insufficient funds")
	})

	s.Run("error: superseded attempt", func() {
		s.mockCommands.EXPECT().ConfirmInline(gomock.Any(), gomock.Any()).Return(nil, commands.ErrAttemptSuperseded)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"mode": "inline", "paymentMethodId": "pm_card_visa"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "no longer the active checkout")
	})
}
