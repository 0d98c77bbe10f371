package cookie

import (
	"net/http"
	"time"

	"tour-checkout/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookieName    = "access_token"
	SessionCookieName        = "checkout_sid"
	PendingPaymentCookieName = "pending_payment"
)

// sessionMaxAge bounds how long a checkout session survives between visits.
const sessionMaxAge = 24 * time.Hour

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}

func GetSessionID(c *gin.Context) string {
	sid, _ := c.Cookie(SessionCookieName)
	return sid
}

func SetSessionID(c *gin.Context, cfg config.CookieConfig, sessionID string) {
	set(c, cfg, SessionCookieName, sessionID, sessionMaxAge)
}

// PendingCarrier stores the sealed pending-payment token in a cookie. Writes
// are visible to later reads within the same request.
type PendingCarrier struct {
	c       *gin.Context
	cfg     config.CookieConfig
	value   string
	touched bool
}

func NewPendingCarrier(c *gin.Context, cfg config.CookieConfig) *PendingCarrier {
	return &PendingCarrier{c: c, cfg: cfg}
}

func (p *PendingCarrier) Load() (string, bool) {
	if p.touched {
		return p.value, p.value != ""
	}
	v, err := p.c.Cookie(PendingPaymentCookieName)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (p *PendingCarrier) Store(token string, maxAge time.Duration) {
	p.value, p.touched = token, true
	set(p.c, p.cfg, PendingPaymentCookieName, token, maxAge)
}

func (p *PendingCarrier) Clear() {
	p.value, p.touched = "", true
	set(p.c, p.cfg, PendingPaymentCookieName, "", -time.Second)
}

func set(c *gin.Context, cfg config.CookieConfig, name, value string, maxAge time.Duration) {
	c.SetSameSite(getSameSite(cfg.SameSite))
	c.SetCookie(
		name,
		value,
		int(maxAge.Seconds()),
		"/",
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

func getSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
