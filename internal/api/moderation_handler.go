package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nidhi-backend-go/internal/core"
	"nidhi-backend-go/internal/models"
)

// ModerationHandler handles campaign-proposal validation.
type ModerationHandler struct {
	moderationService core.ModerationService // nil when GEMINI_API_KEY is unset
}

// NewModerationHandler creates a new ModerationHandler.
func NewModerationHandler(ms core.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: ms}
}

// Validate handles POST /api/validate. The verdict comes from the model's
// leading token; the explanation is returned regardless of the verdict. Any
// model or transport error is a hard 500 with no retry.
func (h *ModerationHandler) Validate(c *gin.Context) {
	var req models.ValidateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required fields"})
		return
	}

	if h.moderationService == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Proposal moderation is not configured"})
		return
	}

	result, err := h.moderationService.Validate(c.Request.Context(), req.Title, req.Description, req.TargetAmount)
	if err != nil {
		log.Printf("Validate: proposal moderation failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Validation failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
