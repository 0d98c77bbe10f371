package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tour-checkout/internal/domain/user"
	"tour-checkout/internal/pkg/authctx"
	"tour-checkout/internal/pkg/cookie"
	"tour-checkout/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Access token required"},
			})
			c.Abort()
			return
		}

		userID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Invalid or expired token"},
			})
			c.Abort()
			return
		}

		authenticate(c, token, userID, role)
		c.Next()
	}
}

// OptionalAuth authenticates the request if a token is present, but does not
// abort on failure. Used by the browser return route, where the token is only
// forwarded to the booking service.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		userID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		authenticate(c, token, userID, role)
		c.Next()
	}
}

// authenticate also puts the raw token on the request context so outbound
// clients can forward it.
func authenticate(c *gin.Context, token string, userID uuid.UUID, role user.Role) {
	c.Set(ctxUserIDKey, userID)
	c.Set(ctxUserRoleKey, role)
	c.Set("jwt_claims", map[string]any{
		"user_id": userID.String(),
		"role":    string(role),
	})
	c.Request = c.Request.WithContext(authctx.WithBearer(c.Request.Context(), token))
}

func bearerToken(c *gin.Context) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}
