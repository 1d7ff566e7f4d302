package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vitashifa/backend/internal/types"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// SessionKey is the Gin context key holding the *types.UserSession.
const SessionKey = "session"

// AuthMiddleware creates a middleware that requires a valid bearer token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set(SessionKey, &types.UserSession{
			ID:          claims.UserID.String(),
			Email:       claims.Email,
			DisplayName: claims.DisplayName,
		})
		c.Next()
	}
}

// OptionalAuthMiddleware honors a bearer token when one is present but lets
// unauthenticated requests through with no session set. An invalid token is
// still rejected rather than silently downgraded to guest.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set(SessionKey, &types.UserSession{
			ID:          claims.UserID.String(),
			Email:       claims.Email,
			DisplayName: claims.DisplayName,
		})
		c.Next()
	}
}

// SessionFromContext returns the authenticated session, or nil for guests.
func SessionFromContext(c *gin.Context) *types.UserSession {
	val, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	session, ok := val.(*types.UserSession)
	if !ok {
		return nil
	}
	return session
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
