package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nick-Maximillien/autobooks-ai/internal/auth"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/server/respond"
)

const (
	identityKey = "identity"
	tokenKey    = "accessToken"
	userIDKey   = "userId"
)

// Auth validates the bearer token (with one transparent refresh via the
// X-Refresh-Token header) and stores the identity and raw token in context.
func Auth(validator *auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing auth header")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid token")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid token")
			return
		}

		refreshToken := strings.TrimSpace(c.GetHeader("X-Refresh-Token"))

		identity, effectiveToken, err := validator.Validate(c.Request.Context(), token, refreshToken)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "Token has expired.")
			default:
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid token.")
			}
			return
		}

		c.Set(identityKey, identity)
		c.Set(tokenKey, effectiveToken)
		c.Set(userIDKey, identity.UserID)
		c.Next()
	}
}

// IdentityFromContext fetches the identity set by the auth middleware.
func IdentityFromContext(c *gin.Context) auth.Identity {
	if c == nil {
		return auth.Identity{}
	}
	val, _ := c.Get(identityKey)
	if id, ok := val.(auth.Identity); ok {
		return id
	}
	return auth.Identity{}
}

// TokenFromContext fetches the raw bearer token set by the auth middleware.
// Downstream ledger calls reuse it verbatim.
func TokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(tokenKey)
	if token, ok := val.(string); ok {
		return token
	}
	return ""
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
