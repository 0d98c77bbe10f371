//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/infra/memstore"
	"tour-checkout/internal/pkg/clock"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/jwt"
	"tour-checkout/internal/pkg/retry"
	"tour-checkout/internal/usecase/bridge"
	"tour-checkout/internal/usecase/commands"
	"tour-checkout/internal/usecase/shared"
	"tour-checkout/tests/common/builder"
	"tour-checkout/tests/common/fakes"
	commandsmock "tour-checkout/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	sessionID    = "sid-1"
	bookingID    = "bk_1"
	intentID     = "pi_1"
	clientSecret = "pi_1_secret_abc"
)

type CheckoutUseCaseTestSuite struct {
	suite.Suite
	ctx         context.Context
	cfg         config.Config
	clock       *clock.MockClock
	store       *memstore.Store
	slot        bridge.Slot
	uow         *fakes.UnitOfWork
	carrier     *fakes.Carrier
	mockCtrl    *gomock.Controller
	tours       *commandsmock.MockTourCatalog
	bookings    *commandsmock.MockBookingService
	gateway     *commandsmock.MockPaymentGateway
	idempotency *commandsmock.MockIdempotencyRepository
	reconciler  commands.Reconciler
	useCase     commands.CheckoutCommands
	checkout    *builder.CheckoutBuilder
}

func (s *CheckoutUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.NewTestConfig()
	s.clock = clock.NewMockClock(builder.Today)
	s.store = memstore.New(s.clock)
	s.uow = fakes.NewUnitOfWork()
	s.carrier = &fakes.Carrier{}
	s.checkout = builder.NewCheckoutBuilder()

	s.mockCtrl = gomock.NewController(s.T())
	s.tours = commandsmock.NewMockTourCatalog(s.mockCtrl)
	s.bookings = commandsmock.NewMockBookingService(s.mockCtrl)
	s.gateway = commandsmock.NewMockPaymentGateway(s.mockCtrl)
	s.idempotency = commandsmock.NewMockIdempotencyRepository(s.mockCtrl)
	s.slot = s.store
	s.build()
}

// build wires the use case from the suite's current cfg and slot.
func (s *CheckoutUseCaseTestSuite) build() {
	policy := retry.FromConfig(s.cfg.Retry)
	pending := bridge.New(s.slot, jwt.NewStateSealer("state-secret", s.clock), s.cfg.Checkout.AttemptTTL)
	s.reconciler = commands.NewReconciler(pending, s.gateway, s.bookings, s.store, s.uow, s.clock, policy, s.cfg)
	s.useCase = commands.NewCheckoutUseCase(
		s.tours,
		s.bookings,
		s.gateway,
		s.store,
		s.store,
		s.idempotency,
		pending,
		s.reconciler,
		checkout.NewDraftBuilder(s.clock, builder.NewConverter()),
		s.clock,
		policy,
		s.cfg,
	)
}

func (s *CheckoutUseCaseTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutUseCaseSuite(t *testing.T) {
	suite.Run(t, new(CheckoutUseCaseTestSuite))
}

func (s *CheckoutUseCaseTestSuite) submitInput() commands.SubmitInput {
	return commands.SubmitInput{
		SessionID:     sessionID,
		UserID:        s.checkout.UserID,
		TourID:        s.checkout.TourID,
		StartDate:     s.checkout.StartDate,
		PartySize:     s.checkout.PartySize,
		PaymentMethod: s.checkout.PaymentMethod,
	}
}

func (s *CheckoutUseCaseTestSuite) expectTour() {
	s.tours.EXPECT().GetTour(gomock.Any(), s.checkout.TourID).Return(s.checkout.BuildTour(), nil)
}

func (s *CheckoutUseCaseTestSuite) expectBooking() {
	s.bookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
		Return(commands.BookingCreated{Booking: checkout.Booking{ID: bookingID, Status: checkout.BookingPending}}, nil)
}

func (s *CheckoutUseCaseTestSuite) expectIntent() {
	s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
		Return(payment.Intent{ID: intentID, ClientSecret: clientSecret, Amount: 24490, Currency: "usd"}, nil)
}

// submitted drives a session to AwaitingPayment with the given method.
func (s *CheckoutUseCaseTestSuite) submitted(method string) {
	s.checkout.WithPaymentMethod(method)
	s.expectTour()
	s.expectBooking()
	s.expectIntent()
	_, err := s.useCase.Submit(s.ctx, s.submitInput())
	s.Require().NoError(err)
}

func (s *CheckoutUseCaseTestSuite) current() *checkout.Attempt {
	a, err := s.useCase.Current(s.ctx, sessionID, s.checkout.UserID)
	s.Require().NoError(err)
	return a
}

func timeoutErr() error {
	return infra.NewError(infra.KindTimeout, "request timed out", context.DeadlineExceeded)
}

// ================================================================================
// Quote
// ================================================================================

func (s *CheckoutUseCaseTestSuite) TestQuote() {
	s.Run("totals in both currencies", func() {
		s.expectTour()

		res, err := s.useCase.Quote(s.ctx, commands.QuoteInput{TourID: s.checkout.TourID, PartySize: 2})

		s.Require().NoError(err)
		s.True(decimal.NewFromInt(6_000_000).Equal(res.Totals.Local))
		s.Equal("244.90", res.Totals.Settlement.StringFixed(2))
	})

	s.Run("missing tour", func() {
		s.tours.EXPECT().GetTour(gomock.Any(), "nope").Return(checkout.Tour{}, infra.NewError(infra.KindNotFound, "status 404", nil))

		_, err := s.useCase.Quote(s.ctx, commands.QuoteInput{TourID: "nope", PartySize: 2})

		s.ErrorIs(err, commands.ErrTourNotFound)
	})
}

// ================================================================================
// Submit
// ================================================================================

func (s *CheckoutUseCaseTestSuite) TestSubmit_Success() {
	s.expectTour()
	s.bookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req commands.BookingRequest) (commands.BookingCreated, error) {
			s.NotEqual(uuid.Nil, req.IdempotencyKey)
			s.Equal("244.90", req.TotalSettlement.StringFixed(2))
			s.Equal("usd", req.Currency)
			s.Equal("2026-06-04", checkout.FormatDate(req.EndDate))
			return commands.BookingCreated{Booking: checkout.Booking{ID: bookingID}}, nil
		})
	s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req commands.IntentRequest) (payment.Intent, error) {
			s.Equal(bookingID, req.BookingID)
			s.Equal(int64(24490), req.Amount)
			s.Equal(checkout.MethodCard, req.Method)
			return payment.Intent{ID: intentID, ClientSecret: clientSecret}, nil
		})

	res, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.Require().NoError(err)
	s.Equal(bookingID, res.BookingID)
	s.Equal(checkout.StateAwaitingPayment, res.State)
	s.Equal(checkout.ModeInline, res.Mode)
	s.Equal("6000000", res.TotalLocal)
	s.Equal("244.90", res.TotalSettle)
	s.False(res.IsReplayed)

	a := s.current()
	s.Equal(checkout.StateAwaitingPayment, a.State)
	s.Equal(intentID, a.IntentID)
	s.Equal(clientSecret, a.ClientSecret)
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_ValidationNeverReachesBookingOrIntent() {
	cases := []struct {
		name   string
		mutate func(b *builder.CheckoutBuilder)
		want   error
		kind   string
	}{
		{
			name:   "amount above gateway ceiling",
			mutate: func(b *builder.CheckoutBuilder) { b.WithPrice(30_000_000_000).WithPartySize(1) },
			want:   checkout.ErrAmountExceedsGatewayLimit,
			kind:   "AmountExceedsGatewayLimit",
		},
		{
			name:   "start date in the past",
			mutate: func(b *builder.CheckoutBuilder) { b.WithStartDate("2026-05-09") },
			want:   checkout.ErrInvalidDate,
			kind:   "InvalidDate",
		},
		{
			name:   "party larger than remaining seats",
			mutate: func(b *builder.CheckoutBuilder) { b.WithPartySize(7) },
			want:   checkout.ErrPartySizeOutOfRange,
			kind:   "PartySizeOutOfRange",
		},
		{
			name:   "unsupported method",
			mutate: func(b *builder.CheckoutBuilder) { b.WithPaymentMethod("direct") },
			want:   checkout.ErrUnsupportedPaymentMethod,
			kind:   "UnsupportedPaymentMethod",
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.mutate(s.checkout)
			s.expectTour()
			// no CreateBooking / CreateIntent expectations: any call fails the test

			_, err := s.useCase.Submit(s.ctx, s.submitInput())

			s.ErrorIs(err, tc.want)
			s.True(commands.IsValidationError(err))
			a := s.current()
			s.Equal(checkout.StateComposing, a.State)
			s.Equal(tc.kind, a.ErrorKind)
			s.NotEmpty(a.ErrorMessage)
		})
	}
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_RetriesTourLookup() {
	gomock.InOrder(
		s.tours.EXPECT().GetTour(gomock.Any(), s.checkout.TourID).Return(checkout.Tour{}, timeoutErr()),
		s.tours.EXPECT().GetTour(gomock.Any(), s.checkout.TourID).Return(s.checkout.BuildTour(), nil),
	)
	s.expectBooking()
	s.expectIntent()

	_, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.NoError(err)
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_TimeoutSurfacesAfterExhaustion() {
	s.tours.EXPECT().GetTour(gomock.Any(), gomock.Any()).Return(checkout.Tour{}, timeoutErr()).Times(s.cfg.Retry.MaxAttempts)

	_, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.ErrorIs(err, commands.ErrNetworkTimeout)
	s.Equal("NetworkTimeout", s.current().ErrorKind)
	s.NotContains(s.current().ErrorMessage, "deadline")
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_IntentFailureReturnsToComposing() {
	s.expectTour()
	s.expectBooking()
	s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
		Return(payment.Intent{}, infra.NewError(infra.KindUnavailable, "status 502", nil)).
		Times(s.cfg.Retry.MaxAttempts)

	_, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.ErrorIs(err, commands.ErrServiceUnavailable)
	a := s.current()
	s.Equal(checkout.StateComposing, a.State)
	s.Empty(a.BookingID)
	s.Empty(a.IntentID)
	s.Empty(a.ClientSecret)
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_ExistingIntentIsSuccess() {
	s.expectTour()
	s.bookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
		Return(commands.BookingCreated{Booking: checkout.Booking{ID: bookingID}, ClientSecret: "pi_7_secret_x"}, nil)
	s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
		Return(payment.Intent{}, infra.NewError(infra.KindConflict, "booking already has an intent", nil))

	_, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.Require().NoError(err)
	a := s.current()
	s.Equal("pi_7", a.IntentID)
	s.Equal("pi_7_secret_x", a.ClientSecret)
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_SessionExpiredDiscardsAttempt() {
	s.expectTour()
	s.bookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
		Return(commands.BookingCreated{}, infra.NewError(infra.KindUnauthorized, "status 401", nil))

	_, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.ErrorIs(err, commands.ErrSessionExpired)
	_, gerr := s.store.GetAttempt(s.ctx, sessionID)
	s.True(infra.IsKind(gerr, infra.KindNotFound))
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_RejectsConcurrentSubmission() {
	_, ok, err := s.store.Acquire(s.ctx, sessionID, time.Minute)
	s.Require().NoError(err)
	s.Require().True(ok)

	_, err = s.useCase.Submit(s.ctx, s.submitInput())

	s.ErrorIs(err, commands.ErrSubmissionInProgress)
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_ReleasesLock() {
	s.submitted("card")

	_, ok, err := s.store.Acquire(s.ctx, sessionID, time.Minute)
	s.NoError(err)
	s.True(ok)
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_SupersedesUnpaidAttempt() {
	s.submitted("card")

	s.expectTour()
	s.bookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
		Return(commands.BookingCreated{Booking: checkout.Booking{ID: "bk_2"}}, nil)
	s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
		Return(payment.Intent{ID: "pi_2", ClientSecret: "pi_2_secret_x"}, nil)

	res, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.Require().NoError(err)
	s.Equal("bk_2", res.BookingID)
	s.Equal("bk_2", s.current().BookingID)
}

// slowServices makes one submission's retry budget outlast SubmitLockTTL.
func (s *CheckoutUseCaseTestSuite) slowServices() time.Duration {
	s.cfg.Services.RequestTimeout = 30 * time.Second
	s.build()
	window := commands.SubmissionWindow(retry.FromConfig(s.cfg.Retry), s.cfg)
	s.Require().Greater(window, s.cfg.Checkout.SubmitLockTTL)
	return window
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_SlowSubmissionKeepsTheSession() {
	s.slowServices()
	s.expectTour()
	s.bookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, commands.BookingRequest) (commands.BookingCreated, error) {
			// the booking service is slow; the user clicks again
			s.clock.Add(s.cfg.Checkout.SubmitLockTTL + time.Second)
			_, err := s.useCase.Submit(s.ctx, s.submitInput())
			s.ErrorIs(err, commands.ErrSubmissionInProgress)
			return commands.BookingCreated{Booking: checkout.Booking{ID: bookingID}}, nil
		}).Times(1)
	s.expectIntent()

	res, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.Require().NoError(err)
	s.Equal(bookingID, res.BookingID)
	a := s.current()
	s.Equal(checkout.StateAwaitingPayment, a.State)
	s.Equal(bookingID, a.BookingID)
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_ExpiredSubmissionCannotOverwriteNewer() {
	window := s.slowServices()
	s.tours.EXPECT().GetTour(gomock.Any(), s.checkout.TourID).Return(s.checkout.BuildTour(), nil).Times(2)

	calls := 0
	s.bookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, commands.BookingRequest) (commands.BookingCreated, error) {
			calls++
			if calls > 1 {
				return commands.BookingCreated{Booking: checkout.Booking{ID: "bk_2"}}, nil
			}
			// the first submission outlives its whole window
			s.clock.Add(window + time.Second)
			res, err := s.useCase.Submit(s.ctx, s.submitInput())
			s.Require().NoError(err)
			s.Equal("bk_2", res.BookingID)
			return commands.BookingCreated{Booking: checkout.Booking{ID: bookingID}}, nil
		}).Times(2)
	s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req commands.IntentRequest) (payment.Intent, error) {
			id := "pi_" + strings.TrimPrefix(req.BookingID, "bk_")
			return payment.Intent{ID: id, ClientSecret: id + "_secret_x"}, nil
		}).Times(2)

	_, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.ErrorIs(err, commands.ErrAttemptSuperseded)
	a := s.current()
	s.Equal(checkout.StateAwaitingPayment, a.State)
	s.Equal("bk_2", a.BookingID)
	s.Equal("pi_2", a.IntentID)
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_ExpiredSubmissionFailureKeepsNewer() {
	window := s.slowServices()
	s.tours.EXPECT().GetTour(gomock.Any(), s.checkout.TourID).Return(s.checkout.BuildTour(), nil).Times(2)

	calls := 0
	s.bookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, commands.BookingRequest) (commands.BookingCreated, error) {
			calls++
			if calls > 1 {
				return commands.BookingCreated{Booking: checkout.Booking{ID: "bk_2"}}, nil
			}
			s.clock.Add(window + time.Second)
			_, err := s.useCase.Submit(s.ctx, s.submitInput())
			s.Require().NoError(err)
			return commands.BookingCreated{}, infra.NewError(infra.KindRejected, "tour sold out", nil)
		}).Times(2)
	s.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).
		Return(payment.Intent{ID: "pi_2", ClientSecret: "pi_2_secret_x"}, nil)

	_, err := s.useCase.Submit(s.ctx, s.submitInput())

	s.Error(err)
	a := s.current()
	s.Equal(checkout.StateAwaitingPayment, a.State)
	s.Equal("bk_2", a.BookingID)
	s.Empty(a.ErrorKind)
}

func (s *CheckoutUseCaseTestSuite) TestSubmit_Idempotency() {
	key := uuid.New()

	s.Run("first use completes the key", func() {
		s.SetupTest()
		in := s.submitInput()
		in.IdempotencyKey = &key
		s.idempotency.EXPECT().TryInsert(gomock.Any(), key, in.UserID, "POST /api/checkout", gomock.Any(), builder.Today.Add(s.cfg.Checkout.IdempotencyTTL)).Return(true, nil)
		s.expectTour()
		s.expectBooking()
		s.expectIntent()
		s.idempotency.EXPECT().Complete(gomock.Any(), key, in.UserID, gomock.Any(), bookingID).Return(nil)

		res, err := s.useCase.Submit(s.ctx, in)

		s.Require().NoError(err)
		s.False(res.IsReplayed)
	})

	s.Run("completed key replays without downstream calls", func() {
		s.SetupTest()
		in := s.submitInput()
		in.IdempotencyKey = &key

		var hash string
		stored, _ := json.Marshal(commands.SubmitResult{BookingID: bookingID, State: checkout.StateAwaitingPayment})
		s.idempotency.EXPECT().TryInsert(gomock.Any(), key, in.UserID, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, _, requestHash string, _ time.Time) (bool, error) {
				hash = requestHash
				return false, nil
			})
		s.idempotency.EXPECT().Get(gomock.Any(), key, in.UserID).
			DoAndReturn(func(context.Context, uuid.UUID, uuid.UUID) (*shared.IdempotencyRecord, error) {
				return &shared.IdempotencyRecord{
					Endpoint:    "POST /api/checkout",
					Status:      shared.IdempotencyCompleted,
					RequestHash: hash,
					Response:    stored,
				}, nil
			})

		res, err := s.useCase.Submit(s.ctx, in)

		s.Require().NoError(err)
		s.True(res.IsReplayed)
		s.Equal(bookingID, res.BookingID)
	})

	s.Run("same key with another request conflicts", func() {
		s.SetupTest()
		in := s.submitInput()
		in.IdempotencyKey = &key
		s.idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		s.idempotency.EXPECT().Get(gomock.Any(), key, in.UserID).Return(&shared.IdempotencyRecord{
			Endpoint:    "POST /api/checkout",
			Status:      shared.IdempotencyCompleted,
			RequestHash: "other",
		}, nil)

		_, err := s.useCase.Submit(s.ctx, in)

		s.ErrorIs(err, commands.ErrIdempotencyConflict)
	})

	s.Run("failed submission releases the key", func() {
		s.SetupTest()
		in := s.submitInput()
		in.IdempotencyKey = &key
		in.StartDate = "yesterday"
		s.idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		s.expectTour()
		s.idempotency.EXPECT().Release(gomock.Any(), key, in.UserID).Return(nil)

		_, err := s.useCase.Submit(s.ctx, in)

		s.ErrorIs(err, checkout.ErrInvalidDate)
	})
}

// ================================================================================
// ConfirmInline
// ================================================================================

func (s *CheckoutUseCaseTestSuite) confirmInput() commands.ConfirmInput {
	return commands.ConfirmInput{
		SessionID:       sessionID,
		BookingID:       bookingID,
		PaymentMethodID: "pm_card_visa",
		Carrier:         s.carrier,
	}
}

func (s *CheckoutUseCaseTestSuite) TestConfirmInline_Success() {
	s.submitted("card")
	s.gateway.EXPECT().ConfirmInline(gomock.Any(), clientSecret, commands.CardInput{PaymentMethodID: "pm_card_visa"}).
		Return(payment.StatusSucceeded, nil)
	s.bookings.EXPECT().UpdatePaymentStatus(gomock.Any(), bookingID, checkout.PaymentPaid).Return(nil)

	res, err := s.useCase.ConfirmInline(s.ctx, s.confirmInput())

	s.Require().NoError(err)
	s.Equal(commands.ResolutionResolved, res.Resolution.State)
	s.Equal(payment.ResultSuccess, res.Resolution.Result)
	s.Equal("/booking/success?bookingId=bk_1", res.Resolution.RedirectPath)
	s.Equal(checkout.StateDone, res.Attempt.State)
	s.Equal(payment.ResultSuccess, res.Attempt.Result)

	outcomes := s.uow.Outcomes()
	s.Require().Len(outcomes, 1)
	s.Equal("booking:bk_1", outcomes[0].Key)
	s.Len(s.uow.Jobs(), 1)

	s.Run("hard refresh afterwards is idle", func() {
		again, err := s.reconciler.Reconcile(s.ctx, commands.ReconcileEntry{SessionID: sessionID, Carrier: s.carrier})
		s.Require().NoError(err)
		s.Equal(commands.ResolutionIdle, again.State)
		s.Len(s.uow.Jobs(), 1)
	})
}

type brokenSlot struct{ bridge.Slot }

func (brokenSlot) Put(context.Context, string, []byte, time.Duration) error {
	return errors.New("slot unavailable")
}

func (s *CheckoutUseCaseTestSuite) TestConfirmInline_ResolvesWithoutPendingRecord() {
	s.slot = brokenSlot{s.store}
	s.build()
	s.submitted("card")
	s.gateway.EXPECT().ConfirmInline(gomock.Any(), clientSecret, gomock.Any()).Return(payment.StatusSucceeded, nil)
	s.bookings.EXPECT().UpdatePaymentStatus(gomock.Any(), bookingID, checkout.PaymentPaid).Return(nil)

	res, err := s.useCase.ConfirmInline(s.ctx, s.confirmInput())

	s.Require().NoError(err)
	s.Equal(payment.ResultSuccess, res.Resolution.Result)
	outcomes := s.uow.Outcomes()
	s.Require().Len(outcomes, 1)
	s.Equal(payment.SourceInlineConfirmation, outcomes[0].Source)
	s.Equal(intentID, outcomes[0].IntentID)
	var event struct {
		Source string `json:"source"`
	}
	s.Require().NoError(json.Unmarshal(s.uow.Jobs()[0].Payload, &event))
	s.Equal("inline_confirmation", event.Source)
}

func (s *CheckoutUseCaseTestSuite) TestConfirmInline_Declined() {
	s.submitted("card")
	declined := infra.NewError(infra.KindDeclined, "confirm payment intent",
		&payment.DeclinedError{Code: "card_declined", Message: "Your card was declined."})
	s.gateway.EXPECT().ConfirmInline(gomock.Any(), clientSecret, gomock.Any()).Return(payment.TerminalStatus(""), declined)
	s.bookings.EXPECT().UpdatePaymentStatus(gomock.Any(), bookingID, checkout.PaymentFailed).Return(nil)

	_, err := s.useCase.ConfirmInline(s.ctx, s.confirmInput())

	s.ErrorIs(err, commands.ErrGatewayDeclined)
	a := s.current()
	s.Equal(checkout.StateComposing, a.State)
	s.Equal("GatewayDeclined", a.ErrorKind)
	s.Equal("Your card was declined.", a.ErrorMessage)
	s.Empty(a.BookingID)

	_, inSlot, _ := s.store.Take(s.ctx, sessionID)
	s.False(inSlot)
	s.False(s.carrier.Present)
	s.Empty(s.uow.Outcomes())
}

func (s *CheckoutUseCaseTestSuite) TestConfirmInline_FailedStatusResolvesFailure() {
	s.submitted("card")
	s.gateway.EXPECT().ConfirmInline(gomock.Any(), clientSecret, gomock.Any()).Return(payment.StatusRequiresAction, nil)
	s.bookings.EXPECT().UpdatePaymentStatus(gomock.Any(), bookingID, checkout.PaymentFailed).Return(nil)

	res, err := s.useCase.ConfirmInline(s.ctx, s.confirmInput())

	s.Require().NoError(err)
	s.Equal(payment.ResultFailure, res.Resolution.Result)
	s.Contains(res.Resolution.RedirectPath, "/booking/failure?message=")
	s.Equal(checkout.StateDone, res.Attempt.State)
}

func (s *CheckoutUseCaseTestSuite) TestConfirmInline_TimeoutKeepsAwaiting() {
	s.submitted("card")
	s.gateway.EXPECT().ConfirmInline(gomock.Any(), clientSecret, gomock.Any()).Return(payment.TerminalStatus(""), timeoutErr())

	_, err := s.useCase.ConfirmInline(s.ctx, s.confirmInput())

	s.ErrorIs(err, commands.ErrNetworkTimeout)
	s.Equal(checkout.StateAwaitingPayment, s.current().State)
}

func (s *CheckoutUseCaseTestSuite) TestConfirmInline_LateResponseIsDropped() {
	s.submitted("card")
	s.gateway.EXPECT().ConfirmInline(gomock.Any(), clientSecret, gomock.Any()).
		DoAndReturn(func(context.Context, string, commands.CardInput) (payment.TerminalStatus, error) {
			s.Require().NoError(s.useCase.Abandon(s.ctx, sessionID))
			return payment.StatusSucceeded, nil
		})

	_, err := s.useCase.ConfirmInline(s.ctx, s.confirmInput())

	s.ErrorIs(err, commands.ErrAttemptSuperseded)
	s.Empty(s.uow.Outcomes())
}

func (s *CheckoutUseCaseTestSuite) TestConfirm_Guards() {
	s.Run("no attempt", func() {
		s.SetupTest()
		_, err := s.useCase.ConfirmInline(s.ctx, s.confirmInput())
		s.ErrorIs(err, commands.ErrNoActiveAttempt)
	})

	s.Run("other booking", func() {
		s.SetupTest()
		s.submitted("card")
		in := s.confirmInput()
		in.BookingID = "bk_old"
		_, err := s.useCase.ConfirmInline(s.ctx, in)
		s.ErrorIs(err, commands.ErrAttemptSuperseded)
	})

	s.Run("mode mismatch", func() {
		s.SetupTest()
		s.submitted("card")
		_, err := s.useCase.ConfirmRedirect(s.ctx, s.confirmInput())
		s.ErrorIs(err, commands.ErrInvalidConfirmation)
	})

	s.Run("confirmation already running", func() {
		s.SetupTest()
		s.submitted("card")
		_, _, err := s.store.Acquire(s.ctx, sessionID, time.Minute)
		s.Require().NoError(err)
		_, err = s.useCase.ConfirmInline(s.ctx, s.confirmInput())
		s.ErrorIs(err, commands.ErrSubmissionInProgress)
	})
}

// ================================================================================
// ConfirmRedirect
// ================================================================================

func (s *CheckoutUseCaseTestSuite) TestConfirmRedirect_StashesPendingRecord() {
	s.submitted("ideal")
	s.gateway.EXPECT().ConfirmRedirect(gomock.Any(), clientSecret, commands.RedirectInput{
		PaymentMethodID: "pm_ideal",
		ReturnURL:       s.cfg.Checkout.ReturnURL,
	}).Return("https://hooks.stripe.com/redirect/1", nil)

	in := s.confirmInput()
	in.PaymentMethodID = "pm_ideal"
	res, err := s.useCase.ConfirmRedirect(s.ctx, in)

	s.Require().NoError(err)
	s.Equal("https://hooks.stripe.com/redirect/1", res.RedirectURL)
	s.Equal(checkout.StateAwaitingPayment, res.Attempt.State)
	s.Equal(checkout.ModeRedirect, res.Attempt.Mode)
	s.True(s.carrier.Present)

	data, ok, err := s.store.Take(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Require().True(ok)
	var rec payment.PendingRecord
	s.Require().NoError(json.Unmarshal(data, &rec))
	s.Equal(payment.RecordPending, rec.Status)
	s.Equal(bookingID, rec.BookingID)
}

func (s *CheckoutUseCaseTestSuite) TestConfirmRedirect_PreflightErrorConsumesRecord() {
	s.submitted("ideal")
	s.gateway.EXPECT().ConfirmRedirect(gomock.Any(), clientSecret, gomock.Any()).
		Return("", infra.NewError(infra.KindRejected, "invalid payment method", nil))

	_, err := s.useCase.ConfirmRedirect(s.ctx, s.confirmInput())

	s.ErrorIs(err, commands.ErrBookingRejected)
	_, ok, _ := s.store.Take(s.ctx, sessionID)
	s.False(ok)
	s.False(s.carrier.Present)
	s.Equal(checkout.StateAwaitingPayment, s.current().State)
}

// ================================================================================
// Current / Abandon
// ================================================================================

func (s *CheckoutUseCaseTestSuite) TestCurrentAndAbandon() {
	s.Equal(checkout.StateComposing, s.current().State)

	s.submitted("card")
	s.Equal(checkout.StateAwaitingPayment, s.current().State)

	s.Require().NoError(s.useCase.Abandon(s.ctx, sessionID))
	a := s.current()
	s.Equal(checkout.StateComposing, a.State)
	s.Empty(a.BookingID)
}
