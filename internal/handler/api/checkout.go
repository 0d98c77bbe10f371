package api

import (
	"errors"
	"net/http"

	reqdto "tour-checkout/internal/handler/dto/request"
	resdto "tour-checkout/internal/handler/dto/response"
	"tour-checkout/internal/handler/httperr"
	"tour-checkout/internal/handler/middleware"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/cookie"
	"tour-checkout/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	idempotencyKeyHeader      = "Idempotency-Key"
	idempotencyReplayedHeader = "Idempotent-Replayed"
)

var errInvalidIdempotencyKey = errors.New("invalid idempotency key format")

type CheckoutHandler struct {
	cmds   commands.CheckoutCommands
	cookie config.CookieConfig
}

func NewCheckoutHandler(cmds commands.CheckoutCommands, cfg config.Config) *CheckoutHandler {
	return &CheckoutHandler{cmds: cmds, cookie: cfg.Cookie}
}

// @Summary Quote checkout totals
// @Description Compute local and settlement totals for a tour and party size
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/checkout/quote [post]
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	res, err := h.cmds.Quote(c.Request.Context(), commands.QuoteInput{TourID: req.TourID, PartySize: req.PartySize})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuote(res, req.PartySize))
}

// @Summary Submit checkout
// @Description Create a pending booking and its payment intent for the current session
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.SubmitCheckoutRequest true "Checkout request"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /api/checkout [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	userID, sid, ok := h.identity(c)
	if !ok {
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.SubmitCheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	res, err := h.cmds.Submit(c.Request.Context(), commands.SubmitInput{
		SessionID:      sid,
		UserID:         userID,
		TourID:         req.TourID,
		StartDate:      req.StartDate,
		PartySize:      req.PartySize,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	if res.IsReplayed {
		c.Header(idempotencyReplayedHeader, "true")
	}
	c.JSON(http.StatusCreated, resdto.FromSubmitResult(res))
}

// @Summary Current checkout attempt
// @Description Get the checkout attempt of the current session
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.AttemptResponse
// @Failure 401 {object} httperr.Response
// @Router /api/checkout [get]
func (h *CheckoutHandler) Current(c *gin.Context) {
	userID, sid, ok := h.identity(c)
	if !ok {
		return
	}

	attempt, err := h.cmds.Current(c.Request.Context(), sid, userID)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAttempt(attempt))
}

// @Summary Abandon checkout
// @Description Forget the session's checkout attempt; an unpaid booking stays pending
// @Tags checkout
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Router /api/checkout [delete]
func (h *CheckoutHandler) Abandon(c *gin.Context) {
	_, sid, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.cmds.Abandon(c.Request.Context(), sid); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Confirm payment
// @Description Confirm the booking's payment inline (card) or start a redirect challenge
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Param request body reqdto.ConfirmPaymentRequest true "Confirmation request"
// @Success 200 {object} resdto.ConfirmResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /api/checkout/{bookingId}/confirm [post]
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	_, sid, ok := h.identity(c)
	if !ok {
		return
	}

	var req reqdto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	in := commands.ConfirmInput{
		SessionID:       sid,
		BookingID:       c.Param("bookingId"),
		PaymentMethodID: req.PaymentMethodID,
		Carrier:         cookie.NewPendingCarrier(c, h.cookie),
	}

	var (
		res *commands.ConfirmResult
		err error
	)
	if req.Mode == "redirect" {
		res, err = h.cmds.ConfirmRedirect(c.Request.Context(), in)
	} else {
		res, err = h.cmds.ConfirmInline(c.Request.Context(), in)
	}
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromConfirmResult(res))
}

func (h *CheckoutHandler) identity(c *gin.Context) (uuid.UUID, string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing user id"), "Unauthorized", nil)
		return uuid.Nil, "", false
	}
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing checkout session"), "Internal server error", nil)
		return uuid.Nil, "", false
	}
	return userID, sid, true
}

// getIdempotencyKey returns nil when the header is absent.
func getIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	keyStr := c.GetHeader(idempotencyKeyHeader)
	if keyStr == "" {
		return nil, nil
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return nil, errInvalidIdempotencyKey
	}
	return &key, nil
}
