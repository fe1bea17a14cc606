package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseguard/internal/infrastructure/auth"
	"licenseguard/internal/shared/authorization"
	"licenseguard/internal/shared/constants"
	"licenseguard/internal/shared/logger"
)

func newAuthEngine(svc *auth.JWTService) *gin.Engine {
	mw := NewAuthMiddleware(svc, "access_token", logger.NewNop())
	engine := gin.New()
	engine.GET("/me", mw.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":   c.GetString(constants.ContextKeyUserID),
			"tenant": c.GetString(constants.ContextKeyTenantID),
			"role":   c.GetString(constants.ContextKeyUserRole),
		})
	})
	return engine
}

func TestRequireAuth(t *testing.T) {
	svc := auth.NewJWTService("test-secret", "licenseguard", 5)
	token, err := svc.GenerateAccess("u-1", "t-1", authorization.RoleOwner)
	require.NoError(t, err)
	engine := newAuthEngine(svc)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":"u-1","tenant":"t-1","role":"owner"}`, w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewJWTService("other-secret", "licenseguard", 5)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		newAuthEngine(other).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
