package api

import (
	"net/http"
	"net/url"

	reqdto "tour-checkout/internal/handler/dto/request"
	resdto "tour-checkout/internal/handler/dto/response"
	"tour-checkout/internal/handler/httperr"
	"tour-checkout/internal/handler/middleware"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/cookie"
	"tour-checkout/internal/pkg/errs"
	"tour-checkout/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	reconciler commands.Reconciler
	cookie     config.CookieConfig
	idlePath   string
}

func NewPaymentHandler(reconciler commands.Reconciler, cfg config.Config) *PaymentHandler {
	return &PaymentHandler{
		reconciler: reconciler,
		cookie:     cfg.Cookie,
		idlePath:   cfg.Checkout.IdlePath,
	}
}

// @Summary Payment return
// @Description Gateway return_url. Reconciles the payment at most once and redirects to the result view without the gateway parameters.
// @Tags payments
// @Param payment_intent query string false "Payment intent ID"
// @Param payment_intent_client_secret query string false "Payment intent client secret"
// @Success 303 "See Other"
// @Router /payments/return [get]
func (h *PaymentHandler) Return(c *gin.Context) {
	var q reqdto.PaymentReturnQuery
	_ = c.ShouldBindQuery(&q)

	res, err := h.reconcile(c, q.PaymentIntent, q.PaymentIntentClientSecret)
	if err != nil {
		// the pending record is kept, so the next entry can still resolve
		_ = c.Error(err)
		c.Redirect(http.StatusSeeOther, h.idlePath+"?"+url.Values{"message": {commands.UserMessage(err)}}.Encode())
		return
	}
	c.Redirect(http.StatusSeeOther, res.RedirectPath)
}

// @Summary Reconcile payment
// @Description Resolve the session's payment outcome at most once. Repeated calls return state "idle".
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReconcileRequest false "Gateway return parameters"
// @Success 200 {object} resdto.ResolutionResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /api/payments/reconcile [post]
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	var req reqdto.ReconcileRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
			return
		}
	}

	res, err := h.reconcile(c, req.PaymentIntent, req.PaymentIntentClientSecret)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromResolution(res))
}

func (h *PaymentHandler) reconcile(c *gin.Context, intentID, clientSecret string) (*commands.Resolution, error) {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return nil, errs.Mark(errs.New("missing checkout session"), commands.ErrServiceUnavailable)
	}
	return h.reconciler.Reconcile(c.Request.Context(), commands.ReconcileEntry{
		SessionID:    sid,
		IntentID:     intentID,
		ClientSecret: clientSecret,
		Carrier:      cookie.NewPendingCarrier(c, h.cookie),
	})
}
