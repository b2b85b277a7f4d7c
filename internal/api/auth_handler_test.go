package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nidhi-backend-go/internal/middleware"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAuthHandler(nil)
	router.POST("/api/auth/setToken", handler.SetToken)
	router.DELETE("/api/auth/signout", handler.SignOut)
	router.POST("/api/auth/verify-token", handler.VerifyToken)
	return router
}

func sessionCookie(t *testing.T, cookies []*http.Cookie) *http.Cookie {
	t.Helper()
	for _, cookie := range cookies {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", middleware.SessionCookieName)
	return nil
}

func TestAuthHandler_SetToken(t *testing.T) {
	t.Run("sets a 7-day HTTP-only session cookie", func(t *testing.T) {
		rec := postJSON(t, newAuthRouter(), "/api/auth/setToken", gin.H{"token": "firebase-id-token"})
		require.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookie(t, rec.Result().Cookies())
		assert.Equal(t, "firebase-id-token", cookie.Value)
		assert.Equal(t, 7*24*60*60, cookie.MaxAge)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		// Test mode is not release mode, so the Secure attribute is off.
		assert.False(t, cookie.Secure)

		var resp MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Token set successfully", resp.Message)
	})

	t.Run("missing token is a 400", func(t *testing.T) {
		rec := postJSON(t, newAuthRouter(), "/api/auth/setToken", gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Token missing", resp.Error)
	})
}

func TestAuthHandler_SignOut(t *testing.T) {
	t.Run("DELETE clears the session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/auth/signout", nil)
		rec := httptest.NewRecorder()
		newAuthRouter().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookie(t, rec.Result().Cookies())
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge, "cookie must be expired immediately")

		var resp MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Logged out successfully", resp.Message)
	})

	t.Run("POST is not a sign-out", func(t *testing.T) {
		rec := postJSON(t, newAuthRouter(), "/api/auth/signout", gin.H{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	t.Run("missing token is a 400", func(t *testing.T) {
		rec := postJSON(t, newAuthRouter(), "/api/auth/verify-token", gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no identity provider is a 503", func(t *testing.T) {
		// The router is built with a nil Firebase Auth client.
		rec := postJSON(t, newAuthRouter(), "/api/auth/verify-token", gin.H{"token": "anything"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
