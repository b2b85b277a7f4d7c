package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"nidhi-backend-go/internal/api"
	"nidhi-backend-go/internal/config"
	"nidhi-backend-go/internal/core"
	"nidhi-backend-go/internal/db"
	"nidhi-backend-go/internal/middleware"
	"nidhi-backend-go/pkg/cache"
	"nidhi-backend-go/pkg/mailer"
)

func main() {
	// --- 1. Load .env (optional; real deployments inject env directly) ---
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment.")
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 3. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 4. Initialize Firebase Admin SDK (Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}

	// --- 5. Initialize Repositories ---
	campaignRepo := db.NewFirestoreCampaignRepository(firestoreClient)
	contributionRepo := db.NewFirestoreContributionRepository(firestoreClient)
	commentRepo := db.NewFirestoreCommentRepository(firestoreClient)
	otpRepo := db.NewFirestoreOTPRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 6. Initialize optional collaborators (mail, cache, moderation) ---
	var otpMailer mailer.Mailer
	if appConfig.MailEnabled() {
		otpMailer, err = mailer.NewSMTPMailer(appConfig.SMTPHost, appConfig.SMTPPort, appConfig.EmailUser, appConfig.EmailPass)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize SMTP mailer", zap.Error(err))
		}
		zapLogger.Info("SMTP mailer initialized.", zap.String("host", appConfig.SMTPHost))
	} else {
		zapLogger.Warn("EMAIL_USER/EMAIL_PASS not set. OTP generation endpoint will answer 503.")
	}

	var listCache cache.Cache
	if appConfig.CacheEnabled() {
		listCache, err = cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			// The cache is a read accelerator only; start without it.
			zapLogger.Warn("Redis unreachable, campaign list cache disabled.", zap.Error(err))
			listCache = nil
		} else {
			zapLogger.Info("Redis campaign list cache enabled.", zap.String("addr", appConfig.RedisAddr))
		}
	}

	var moderationService core.ModerationService
	if appConfig.ModerationEnabled() {
		moderationService, err = core.NewModerationService(initCtx, appConfig.GeminiAPIKey, appConfig.GeminiModel)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Gemini moderation service", zap.Error(err))
		}
		zapLogger.Info("Gemini moderation service initialized.", zap.String("model", appConfig.GeminiModel))
	} else {
		zapLogger.Warn("GEMINI_API_KEY not set. Proposal validation endpoint will answer 503.")
	}

	// --- 7. Initialize Core Services ---
	otpService := core.NewOTPService(otpRepo, otpMailer)
	campaignService := core.NewCampaignService(campaignRepo, contributionRepo, listCache)
	forumService := core.NewForumService(commentRepo)
	zapLogger.Info("Core services initialized successfully.")

	// --- 8. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		zapLogger.Info("Gin mode set to 'release'.")
	} else {
		gin.SetMode(gin.DebugMode)
		zapLogger.Info("Gin mode set to 'debug'.")
	}
	router := gin.New()

	// --- 9. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 10. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		otpService,
		campaignService,
		forumService,
		moderationService,
	)

	// --- 11. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 12. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
