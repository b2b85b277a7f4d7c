package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nidhi-backend-go/internal/core"
	"nidhi-backend-go/internal/models"
)

// OTPHandler handles one-time-passcode issuance and verification.
type OTPHandler struct {
	otpService core.OTPService
}

// NewOTPHandler creates a new OTPHandler.
func NewOTPHandler(os core.OTPService) *OTPHandler {
	return &OTPHandler{otpService: os}
}

// GenerateOTP handles POST /api/otp/generate-otp. Each call issues exactly
// one email; repeated calls overwrite the prior code with no cooldown.
func (h *OTPHandler) GenerateOTP(c *gin.Context) {
	var req models.GenerateOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email is required"})
		return
	}

	if err := h.otpService.Generate(c.Request.Context(), req.Email); err != nil {
		// Store and dispatch failures are both 500s but stay distinguishable
		// in the body, mirroring the two failure points of issuance.
		switch {
		case errors.Is(err, core.ErrMailDisabled):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "OTP email dispatch is not configured"})
		case errors.Is(err, core.ErrOTPStoreFailed):
			log.Printf("GenerateOTP: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store OTP"})
		case errors.Is(err, core.ErrOTPDispatchFailed):
			log.Printf("GenerateOTP: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to send OTP"})
		default:
			log.Printf("GenerateOTP: unexpected error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate OTP"})
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "OTP sent successfully"})
}

// VerifyOTP handles POST /api/otp/verify-otp.
// Statuses: 400 missing fields or wrong code, 404 no live record,
// 410 expired (record removed), 200 verified (record removed).
func (h *OTPHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email and OTP are required"})
		return
	}

	if err := h.otpService.Verify(c.Request.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, core.ErrOTPNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "OTP not found or expired"})
		case errors.Is(err, core.ErrOTPExpired):
			c.JSON(http.StatusGone, ErrorResponse{Error: "OTP expired"})
		case errors.Is(err, core.ErrOTPInvalid):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OTP"})
		default:
			log.Printf("VerifyOTP: unexpected error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to verify OTP"})
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "OTP verified successfully"})
}
