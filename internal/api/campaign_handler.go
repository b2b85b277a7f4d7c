package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nidhi-backend-go/internal/config"
	"nidhi-backend-go/internal/core"
	"nidhi-backend-go/internal/models"
)

// CampaignHandler handles campaign lifecycle and contribution endpoints.
type CampaignHandler struct {
	campaignService core.CampaignService
	appConfig       *config.Config
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(cs core.CampaignService, appConfig *config.Config) *CampaignHandler {
	return &CampaignHandler{campaignService: cs, appConfig: appConfig}
}

// mapCampaignErrorToStatus maps errors from core.CampaignService to HTTP
// status codes and an ErrorResponse body.
func mapCampaignErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrCampaignNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrCampaignNotFound.Error()})
	case errors.Is(err, core.ErrForbiddenAccess):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()})
	case errors.Is(err, core.ErrCampaignClosed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: core.ErrCampaignClosed.Error()})
	case errors.Is(err, core.ErrCounterMissing):
		// The client's createListing transaction has already confirmed on
		// chain; without a counter no store record can be written, so the
		// listing is orphaned. Surfaced explicitly rather than hidden.
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   core.ErrCounterMissing.Error(),
			Details: "the on-chain listing exists but no campaign record could be created",
		})
	case errors.Is(err, core.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidTarget.Error()})
	default:
		log.Printf("Internal Server Error in CampaignHandler: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred"})
	}
}

// campaignIDParam parses the :campaignId path parameter. Campaign IDs are the
// positive integers assigned by the counter.
func campaignIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("campaignId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Campaign ID must be a positive integer"})
		return 0, false
	}
	return id, true
}

// authenticatedUserID pulls the Firebase UID set by the auth middleware.
func authenticatedUserID(c *gin.Context) (string, bool) {
	rawUserID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return "", false
	}
	userID, ok := rawUserID.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid user ID in context"})
		return "", false
	}
	return userID, true
}

// CreateCampaign handles POST /api/campaigns.
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), userID, req)
	if err != nil {
		mapCampaignErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// ListCampaigns handles GET /api/campaigns.
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.campaignService.List(c.Request.Context())
	if err != nil {
		mapCampaignErrorToStatus(c, err)
		return
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	c.JSON(http.StatusOK, campaigns)
}

// ListMyCampaigns handles GET /api/campaigns/mine.
func (h *CampaignHandler) ListMyCampaigns(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	campaigns, err := h.campaignService.ListMine(c.Request.Context(), userID)
	if err != nil {
		mapCampaignErrorToStatus(c, err)
		return
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	c.JSON(http.StatusOK, campaigns)
}

// GetCampaign handles GET /api/campaigns/:campaignId.
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}
	campaign, err := h.campaignService.Get(c.Request.Context(), campaignID)
	if err != nil {
		mapCampaignErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// Contribute handles POST /api/campaigns/:campaignId/contributions. The
// wallet's fundListing transaction has already confirmed client-side; this
// applies the matching store mutation.
func (h *CampaignHandler) Contribute(c *gin.Context) {
	if _, ok := authenticatedUserID(c); !ok {
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	var req models.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	// Prefer the authenticated display name over the client-supplied one.
	displayName, _ := c.Get("userDisplayName")
	contributorName, _ := displayName.(string)

	contribution, err := h.campaignService.Contribute(c.Request.Context(), campaignID, contributorName, req)
	if err != nil {
		mapCampaignErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, contribution)
}

// ListContributions handles GET /api/campaigns/:campaignId/contributions.
func (h *CampaignHandler) ListContributions(c *gin.Context) {
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}
	contributions, err := h.campaignService.ListContributions(c.Request.Context(), campaignID)
	if err != nil {
		mapCampaignErrorToStatus(c, err)
		return
	}
	if contributions == nil {
		contributions = []*models.Contribution{}
	}
	c.JSON(http.StatusOK, contributions)
}

// StreamContributions handles GET /api/campaigns/:campaignId/contributions/stream.
// It mirrors the client-side snapshot subscription as server-sent events: the
// full contribution list is pushed on every change until the client
// disconnects.
func (h *CampaignHandler) StreamContributions(c *gin.Context) {
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	updates, err := h.campaignService.WatchContributions(ctx, campaignID)
	if err != nil {
		mapCampaignErrorToStatus(c, err)
		return
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case contributions, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("contributions", contributions)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// CloseCampaign handles POST /api/campaigns/:campaignId/close. The client
// performs OTP re-verification and the closeListing wallet call before
// invoking this; only the owner can flip the flag, and only once.
func (h *CampaignHandler) CloseCampaign(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	if err := h.campaignService.Close(c.Request.Context(), userID, campaignID); err != nil {
		mapCampaignErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Campaign closed successfully"})
}

// ContractInfo handles GET /api/contract. It serves the configured contract
// address; with no address configured the wallet-facing features degrade and
// this reports 404.
func (h *CampaignHandler) ContractInfo(c *gin.Context) {
	if h.appConfig == nil || h.appConfig.ContractAddress == "" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Contract address is not configured"})
		return
	}
	c.JSON(http.StatusOK, ContractInfoResponse{ContractAddress: h.appConfig.ContractAddress})
}
