package api

import (
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"nidhi-backend-go/internal/middleware"
	"nidhi-backend-go/internal/models"
)

// sessionCookieMaxAge is seven days, matching the token cookie the web client
// relies on between sign-ins.
const sessionCookieMaxAge = 7 * 24 * 60 * 60

// AuthHandler handles session-cookie management and token verification.
type AuthHandler struct {
	firebaseAuthClient *auth.Client
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(fbAuthClient *auth.Client) *AuthHandler {
	return &AuthHandler{firebaseAuthClient: fbAuthClient}
}

// secureCookies reports whether cookies should carry the Secure attribute.
// Release mode implies HTTPS in front of the service.
func secureCookies() bool {
	return gin.Mode() == gin.ReleaseMode
}

// SetToken handles POST /api/auth/setToken. It stores the client's Firebase
// ID token in an HTTP-only cookie with a 7-day expiry.
func (h *AuthHandler) SetToken(c *gin.Context) {
	var req models.SetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Token missing"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, req.Token, sessionCookieMaxAge, "/", "", secureCookies(), true)
	c.JSON(http.StatusOK, MessageResponse{Message: "Token set successfully"})
}

// SignOut handles DELETE /api/auth/signout. It clears the session cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", secureCookies(), true)
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// VerifyToken handles POST /api/auth/verify-token. It decodes and verifies
// the submitted Firebase ID token and returns the decoded claims.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req models.SetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Token missing"})
		return
	}

	if h.firebaseAuthClient == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Identity provider is not configured"})
		return
	}

	token, err := h.firebaseAuthClient.VerifyIDToken(c.Request.Context(), req.Token)
	if err != nil {
		log.Printf("VerifyToken: error verifying Firebase ID token: %v", err)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"decodedToken": token})
}
