package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	ContextToken  = "token"
	ContextClaims = "claims"
	ContextUserID = "userID"
)

// TokenVerifier verifies a raw token string.
// Following Go convention: the interface is defined by the consumer (middleware).
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*Claims, error)
}

// RequireCredential returns a Gin middleware that only checks the Authorization
// header is present. The raw value is stored under ContextToken for
// VerifyCredential; it is not verified here.
func RequireCredential() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Presence, not content: an empty header still counts as supplied
		values, ok := c.Request.Header["Authorization"]
		if !ok || len(values) == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token is required"})
			return
		}

		// 2. Accept both "<token>" and "Bearer <token>"
		raw := strings.TrimSpace(values[0])
		raw = strings.TrimPrefix(raw, "Bearer ")

		c.Set(ContextToken, raw)
		c.Next()
	}
}

// VerifyCredential returns a Gin middleware that verifies the token stored by
// RequireCredential and exposes its claims to later handlers.
func VerifyCredential(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetString(ContextToken)

		claims, err := v.VerifyToken(tokenStr)
		if err != nil {
			slog.Warn("token verification failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token is not valid"})
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.ID)
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by VerifyCredential.
func ClaimsFromContext(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
