package middleware

import (
	"net/http"

	"github.com/dfryer1193/markblog/shared/auth"
	"github.com/gin-gonic/gin"
)

const contextKeyAdmin = "is_admin"

// SessionVerifier validates an admin session token.
type SessionVerifier interface {
	Verify(token string) error
}

var _ SessionVerifier = (*auth.Authenticator)(nil)

// OptionalAuth marks the request as admin when it carries a valid session
// cookie, but never blocks it.
func OptionalAuth(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeyAdmin, hasValidSession(c, v))
		c.Next()
	}
}

// RequireAuth rejects requests without a valid session cookie with 401.
func RequireAuth(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasValidSession(c, v) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(contextKeyAdmin, true)
		c.Next()
	}
}

// IsAdmin reports whether OptionalAuth or RequireAuth accepted the session.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(contextKeyAdmin)
}

func hasValidSession(c *gin.Context, v SessionVerifier) bool {
	token, err := c.Cookie(auth.CookieName)
	if err != nil {
		return false
	}
	return v.Verify(token) == nil
}
