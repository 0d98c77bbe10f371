package api

import (
	"errors"
	"net/http"

	"tour-checkout/internal/handler/httperr"
	"tour-checkout/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	message string // empty: the taxonomy's user message
}

var errorMappings = []errorMapping{
	{target: commands.ErrSubmissionInProgress, status: http.StatusConflict, message: "A checkout request for this session is already being processed"},
	{target: commands.ErrIdempotencyInFlight, status: http.StatusConflict, message: "Request is currently being processed"},
	{target: commands.ErrIdempotencyConflict, status: http.StatusConflict, message: "Duplicate request with different parameters"},
	{target: commands.ErrNoActiveAttempt, status: http.StatusConflict, message: "There is no booking awaiting payment"},
	{target: commands.ErrAttemptSuperseded, status: http.StatusConflict, message: "This booking is no longer the active checkout"},
	{target: commands.ErrInvalidConfirmation, status: http.StatusBadRequest, message: "Confirmation mode does not match the payment method"},
	{target: commands.ErrTourNotFound, status: http.StatusNotFound},
	{target: commands.ErrSessionExpired, status: http.StatusUnauthorized},
	{target: commands.ErrGatewayDeclined, status: http.StatusPaymentRequired},
	{target: commands.ErrBookingRejected, status: http.StatusUnprocessableEntity},
	{target: commands.ErrNetworkTimeout, status: http.StatusGatewayTimeout},
	{target: commands.ErrServiceUnavailable, status: http.StatusServiceUnavailable},
}

// abortWithUseCaseError maps the checkout error taxonomy onto a status and a
// fixed user message. The raw error is kept in gin's error list for logging.
func abortWithUseCaseError(c *gin.Context, err error) {
	detail := gin.H{"kind": commands.ErrorKind(err)}

	if commands.IsValidationError(err) {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, commands.UserMessage(err), detail)
		return
	}
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = commands.UserMessage(err)
		} else {
			detail = nil
		}
		httperr.AbortWithError(c, m.status, err, msg, detail)
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
