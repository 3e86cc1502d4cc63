package middleware

import (
	"net/http"
	"strings"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	identityKey  = "identity"
	authErrorKey = "authError"
)

// AuthMiddleware reads the backend-issued bearer token when one is sent.
// A valid token sets the caller's identity and forwards the token to the
// backend through the request context. Requests without a valid token carry
// on anonymously; RequireAuth decides whether that is allowed.
func AuthMiddleware(validator *utils.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Set(authErrorKey, "Invalid authorization header format. Use Bearer <token>")
			c.Next()
			return
		}

		tokenString := parts[1]
		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			utils.LogDebug("Ignoring invalid bearer token", map[string]interface{}{"path": c.FullPath(), "error": err.Error()})
			c.Set(authErrorKey, "Invalid or expired token: "+err.Error())
			c.Next()
			return
		}

		// Set user information in the context for downstream handlers
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("userRole", claims.Role)
		c.Set(identityKey, models.Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role, Token: tokenString})
		c.Request = c.Request.WithContext(repositories.WithBearerToken(c.Request.Context(), tokenString))

		c.Next()
	}
}

// RequireAuth rejects requests that AuthMiddleware could not identify.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c).Authenticated() {
			c.Next()
			return
		}
		msg := "Authorization header required"
		if reason := c.GetString(authErrorKey); reason != "" {
			msg = reason
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
		c.Abort()
	}
}

// RoleAuthMiddleware creates a Gin middleware for role-based authorization.
// It checks if the user role (from JWT claims) is one of the allowed roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("userRole")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "User role not found in token claims. Ensure AuthMiddleware runs first."})
			c.Abort()
			return
		}

		roleStr, ok := userRole.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User role in token is not a string"})
			c.Abort()
			return
		}

		allowed := false
		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource. Required roles: " + strings.Join(allowedRoles, ", ")})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentIdentity returns the caller set by AuthMiddleware, or an
// anonymous identity.
func CurrentIdentity(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if who, ok := v.(models.Identity); ok {
			return who
		}
	}
	return models.Identity{}
}
