package middleware

import (
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/cookie"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxSessionIDKey = "checkout_session_id"

// CheckoutSession keys all checkout state by an opaque cookie, issuing one on
// the first request. The cookie is refreshed on every request.
func CheckoutSession(cfg config.CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := cookie.GetSessionID(c)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
		}
		cookie.SetSessionID(c, cfg, sid)
		c.Set(ctxSessionIDKey, sid)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxSessionIDKey)
	if !exists {
		return "", false
	}
	sid, ok := v.(string)
	return sid, ok && sid != ""
}
