package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/session"
	"restaurant_gateway/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newValidator(t *testing.T) *utils.TokenValidator {
	t.Helper()
	v, err := utils.NewTokenValidator("test-secret")
	require.NoError(t, err)
	return v
}

func signed(t *testing.T, v *utils.TokenValidator, userID int64, role string) string {
	t.Helper()
	token, err := v.SignToken(userID, "lan", role, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	v := newValidator(t)
	r := gin.New()
	r.GET("/me", AuthMiddleware(v), func(c *gin.Context) {
		who := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": who.UserID, "role": who.Role, "authenticated": who.Authenticated()})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, v, 5, models.RoleCustomer))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":5,"role":"customer","authenticated":true}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "public routes stay reachable with a bad token")
	assert.JSONEq(t, `{"user_id":0,"role":"","authenticated":false}`, w.Body.String())
}

func TestRequireAuthAndRoles(t *testing.T) {
	v := newValidator(t)
	r := gin.New()
	r.Use(AuthMiddleware(v))
	r.GET("/orders", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/staff", RequireAuth(), RoleAuthMiddleware(models.RoleStaff, models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"anonymous", "/orders", "", http.StatusUnauthorized},
		{"malformed header", "/orders", "Token abc", http.StatusUnauthorized},
		{"customer", "/orders", "Bearer " + signed(t, v, 5, models.RoleCustomer), http.StatusNoContent},
		{"customer on staff route", "/staff", "Bearer " + signed(t, v, 5, models.RoleCustomer), http.StatusForbidden},
		{"staff", "/staff", "Bearer " + signed(t, v, 2, "Staff"), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSessionMiddlewareIssuesAndReusesCookie(t *testing.T) {
	v := newValidator(t)
	manager := session.NewManager(nil, time.Hour, nil)
	cookie := SessionCookie{Name: "rg_session", TTL: time.Hour}

	r := gin.New()
	r.Use(AuthMiddleware(v), SessionMiddleware(manager, cookie))
	r.POST("/cart", func(c *gin.Context) {
		sess := CurrentSession(c)
		require.NoError(t, sess.Cart.Add(models.CartLine{ItemID: 1, Name: "Phở", UnitPrice: 100000}, 1))
		c.JSON(http.StatusOK, sess.Cart.View())
	})
	r.POST("/logout", func(c *gin.Context) {
		require.NoError(t, EndSession(c, manager, cookie.Name))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cart", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, manager.Len())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart", nil)
	req.AddCookie(cookies[0])
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"total_items":2`)
	assert.Empty(t, w.Result().Cookies(), "existing session keeps its cookie")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookies[0])
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, manager.Len())
}

func TestSessionMiddlewareDropsStateOnUserChange(t *testing.T) {
	v := newValidator(t)
	manager := session.NewManager(nil, time.Hour, nil)
	sess := manager.Create()
	sess.ObserveUser(5)
	sess.SetPaymentIntent(&models.PaymentIntent{OrderID: 42, Amount: 1000})

	r := gin.New()
	r.Use(AuthMiddleware(v), SessionMiddleware(manager, SessionCookie{Name: "rg_session", TTL: time.Hour}))
	r.GET("/intent", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"open": CurrentSession(c).PaymentIntent() != nil})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/intent", nil)
	req.AddCookie(&http.Cookie{Name: "rg_session", Value: sess.ID})
	req.Header.Set("Authorization", "Bearer "+signed(t, v, 6, models.RoleCustomer))
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"open":false}`, w.Body.String())
}
