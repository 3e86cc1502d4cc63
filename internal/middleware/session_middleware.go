package middleware

import (
	"net/http"
	"time"

	"restaurant_gateway/internal/session"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey          = "session"
	sessionDestroyedKey = "sessionDestroyed"
)

// SessionCookie describes the cookie that carries the session id.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware attaches the caller's session, creating one on first
// contact. It must run after AuthMiddleware so a change of signed-in user
// drops state that belonged to the previous one. The session is saved after
// the handler returns.
func SessionMiddleware(manager *session.Manager, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookie.Name)
		sess, created := manager.GetOrCreate(c.Request.Context(), id)
		if created {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cookie.Name,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(cookie.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cookie.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set("sessionID", sess.ID)
		c.Set(sessionKey, sess)

		if who := CurrentIdentity(c); who.Authenticated() {
			if sess.ObserveUser(who.UserID) {
				utils.LogDebug("Session changed hands, dropped user-scoped state", map[string]interface{}{"session_id": sess.ID, "user_id": who.UserID})
			}
		}

		c.Next()

		if c.GetBool(sessionDestroyedKey) {
			return
		}
		if err := manager.Persist(c.Request.Context(), sess); err != nil {
			utils.LogWarn(err, "Persisting session failed", map[string]interface{}{"session_id": sess.ID})
		}
	}
}

// CurrentSession returns the session attached by SessionMiddleware.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// EndSession tears the caller's session down and expires its cookie.
func EndSession(c *gin.Context, manager *session.Manager, cookieName string) error {
	sess := CurrentSession(c)
	c.Set(sessionDestroyedKey, true)
	http.SetCookie(c.Writer, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	if sess == nil {
		return nil
	}
	return manager.Destroy(c.Request.Context(), sess.ID)
}
