package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/service/session"
)

// SessionCookie is the cookie carrying the session token for browsers.
const SessionCookie = "portal_session"

const sessionKey = "portal.session"

// Authenticate resolves the request's token to a session. Requests without
// a live session continue anonymously; the guards decide what they may see.
func Authenticate(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			c.Next()
			return
		}
		if s, err := sessions.Get(token); err == nil {
			c.Set(sessionKey, &s)
		}
		c.Next()
	}
}

// Guard aborts with 401 or 403 unless check admits the session.
func Guard(check func(*models.Session) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := check(currentSession(c)); err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(SessionCookie); err == nil {
		return token
	}
	return ""
}

func currentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*models.Session)
	return s
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", false, true)
}
