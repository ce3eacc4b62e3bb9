package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ViewSessionCookie names the anonymous session cookie used to
	// deduplicate post views
	ViewSessionCookie = "board_session"
	// ContextViewSession is the gin context key holding the session ID
	ContextViewSession = "view_session"

	viewSessionMaxAge = 60 * 60 * 24 * 365
)

// ViewSession ensures every client carries a stable anonymous session ID.
// The cookie is issued on first contact and echoed back on every request,
// for authenticated and anonymous visitors alike.
func ViewSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(ViewSessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(ViewSessionCookie, sessionID, viewSessionMaxAge, "/", "", false, true)
		}

		c.Set(ContextViewSession, sessionID)
		c.Next()
	}
}

// ViewSessionID extracts the session ID placed by ViewSession
func ViewSessionID(c *gin.Context) string {
	return c.GetString(ContextViewSession)
}
