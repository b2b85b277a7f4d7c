package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nidhi-backend-go/internal/config"
	"nidhi-backend-go/internal/core"
	"nidhi-backend-go/internal/db"
	"nidhi-backend-go/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (Logging, Recovery, CORS) are expected to be
// applied to the `router` instance before this function is called, typically
// in `main.go`. The moderation service may be nil when no Gemini API key is
// configured; the validate endpoint then answers 503.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	otpService core.OTPService,
	campaignService core.CampaignService,
	forumService core.ForumService,
	moderationService core.ModerationService,
) {
	// Firebase Auth client must be available after db.InitFirestore().
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized. AuthMiddleware cannot be created, and routes will not be set up.")
		panic("Firebase Auth client is nil during route setup. Ensure db.InitFirestore() was called and succeeded.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient)

	authHandler := NewAuthHandler(firebaseAuthClient)
	otpHandler := NewOTPHandler(otpService)
	moderationHandler := NewModerationHandler(moderationService)
	campaignHandler := NewCampaignHandler(campaignService, appConfig)
	forumHandler := NewForumHandler(forumService)

	api := router.Group("/api")
	{
		// --- OTP Endpoints (public; used during signup, before a Firebase
		// session exists) ---
		otpGroup := api.Group("/otp")
		{
			otpGroup.POST("/generate-otp", otpHandler.GenerateOTP)
			otpGroup.POST("/verify-otp", otpHandler.VerifyOTP)
		}

		// --- Session Cookie Endpoints ---
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/setToken", authHandler.SetToken)
			authGroup.DELETE("/signout", authHandler.SignOut)
			authGroup.POST("/verify-token", authHandler.VerifyToken)
		}

		// --- Proposal Moderation Endpoint ---
		// Public: moderation runs before the campaign exists on chain, and the
		// verdict leaks nothing beyond the caller's own proposal text.
		api.POST("/validate", moderationHandler.Validate)

		// --- Campaign Endpoints ---
		// Reads are public; every write requires a verified Firebase token.
		campaignsGroup := api.Group("/campaigns")
		{
			campaignsGroup.GET("", campaignHandler.ListCampaigns)
			campaignsGroup.POST("", authMW.VerifyToken(), campaignHandler.CreateCampaign)
			campaignsGroup.GET("/mine", authMW.VerifyToken(), campaignHandler.ListMyCampaigns)
			campaignsGroup.GET("/:campaignId", campaignHandler.GetCampaign)
			campaignsGroup.POST("/:campaignId/close", authMW.VerifyToken(), campaignHandler.CloseCampaign)

			campaignsGroup.POST("/:campaignId/contributions", authMW.VerifyToken(), campaignHandler.Contribute)
			campaignsGroup.GET("/:campaignId/contributions", campaignHandler.ListContributions)
			campaignsGroup.GET("/:campaignId/contributions/stream", campaignHandler.StreamContributions)

			campaignsGroup.GET("/:campaignId/comments", forumHandler.ListComments)
			campaignsGroup.GET("/:campaignId/comments/stream", forumHandler.StreamComments)
			campaignsGroup.POST("/:campaignId/comments", authMW.VerifyToken(), forumHandler.PostComment)
			campaignsGroup.POST("/:campaignId/comments/:commentId/replies", authMW.VerifyToken(), forumHandler.PostReply)
		}

		// --- Contract Discovery Endpoint ---
		api.GET("/contract", campaignHandler.ContractInfo)
	}

	// --- General Health Check Endpoint ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Nidhi backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api and /health.")
}
