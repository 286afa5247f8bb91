package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"visadocs-backend/internal/shared/auth"
	"visadocs-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
)

// Auth resolves the caller identity from a bearer JWT or guest header and
// stores it in the request context. A request without any identity is allowed
// through with an empty user ID: read endpoints answer those with empty
// collections, write endpoints reject them via RequireUser.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if token == "" {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			claims, err := auth.VerifyJWT(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			c.Set(userIDKey, claims.Sub)
			if claims.Email != "" {
				c.Set(userEmailKey, claims.Email)
			}
			c.Next()
			return
		}

		if guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id")); guestID != "" {
			c.Set(userIDKey, "guest:"+guestID)
		}
		c.Next()
	}
}

// RequireUser returns the caller's user ID, rejecting the request with a 401
// when no identity is present. Callers must return immediately when ok is false.
func RequireUser(c *gin.Context) (string, bool) {
	userID := UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authenticated", nil)
		return "", false
	}
	return userID, true
}

// UserIDFromContext fetches the user ID set by the auth middleware. It returns
// an empty string for unauthenticated requests.
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
