package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realty-marketing-platform/internal/ai"
	"realty-marketing-platform/internal/config"
	"realty-marketing-platform/internal/instagram"
	"realty-marketing-platform/internal/logger"
	"realty-marketing-platform/internal/queue"
	"realty-marketing-platform/internal/store"
	"realty-marketing-platform/internal/telemetry"
	"realty-marketing-platform/middleware"
	"realty-marketing-platform/routes"
	"realty-marketing-platform/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing is optional in development; a missing collector is not fatal
	shutdownTracer, err := telemetry.InitTracer("realty-marketing-platform")
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	} else {
		defer shutdownTracer()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics disabled", "error", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Redis backs the feed cache and the task queue; the site still serves
	// without it
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, feed caching disabled", "error", err)
		rdb = nil
	}

	translator, err := ai.NewGeminiTranslator(cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	defer translator.Close()

	stores := store.NewStores(mongoClient.Database(cfg.DBName))

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer asynqClient.Close()

	syncEngine := services.NewBilingualSyncEngine(translator)
	blogService := services.NewBlogService(stores.Blog, syncEngine, queue.NewEnqueuer(asynqClient))

	igClient := instagram.NewClient(
		cfg.InstagramAppID,
		cfg.InstagramAppSecret,
		cfg.InstagramRedirectURI,
		cfg.InstagramOAuthURL,
		cfg.InstagramGraphURL,
	)
	instagramService := services.NewInstagramService(
		igClient, stores.Tokens, stores.Clients, rdb, metrics,
		cfg.TokenRefreshWindowDays, cfg.FeedCacheTTLSeconds,
	)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(otelgin.Middleware("realty-marketing-platform"))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg)
	tenantMiddleware := middleware.NewTenantMiddleware(stores.Clients, cfg.FallbackTenantSlug)

	// Setup routes
	routes.SetupAuthRoutes(router, cfg)
	routes.SetupTenantRoutes(router, tenantMiddleware)
	routes.SetupBlogRoutes(router, blogService, authMiddleware, tenantMiddleware)
	routes.SetupInstagramRoutes(router, instagramService, authMiddleware)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
