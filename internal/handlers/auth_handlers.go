package handlers

import (
	"net/http"

	"restaurant_gateway/internal/middleware"
	"restaurant_gateway/internal/session"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler ends sessions. Sign-in itself happens against the backend.
type AuthHandler struct {
	sessions   *session.Manager
	cookieName string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *session.Manager, cookieName string) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookieName: cookieName}
}

// LogoutUser tears down the caller's session, cart included.
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	who := middleware.CurrentIdentity(c)
	if err := middleware.EndSession(c, h.sessions, h.cookieName); err != nil {
		utils.LogWarn(err, "LogoutUser: session store cleanup failed", map[string]interface{}{"user_id": who.UserID})
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetCurrentUser returns the identity from the token.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	who := middleware.CurrentIdentity(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":  who.UserID,
		"username": who.Username,
		"role":     who.Role,
	})
}
