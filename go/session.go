package cartserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DefaultSessionCookie names the cookie carrying the browser session id.
	DefaultSessionCookie = "cart_session"

	sessionContextKey = "cart.session_id"
	sessionCookieAge  = 30 * 24 * 60 * 60
)

// SessionMiddleware resolves the session id from the cookie, issuing a fresh UUID
// when the cookie is missing or malformed.
func SessionMiddleware(cookieName string, secure bool) gin.HandlerFunc {
	if strings.TrimSpace(cookieName) == "" {
		cookieName = DefaultSessionCookie
	}
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id, sessionCookieAge, "/", "", secure, true)
		}
		c.Set(sessionContextKey, id)
		c.Next()
	}
}

// SessionID returns the session resolved by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

func clearSessionCookie(c *gin.Context, cookieName string, secure bool) {
	if strings.TrimSpace(cookieName) == "" {
		cookieName = DefaultSessionCookie
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", secure, true)
}
