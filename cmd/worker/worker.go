package main

import (
	"context"
	"log"
	"time"

	"realty-marketing-platform/internal/ai"
	"realty-marketing-platform/internal/config"
	"realty-marketing-platform/internal/instagram"
	"realty-marketing-platform/internal/logger"
	"realty-marketing-platform/internal/queue"
	"realty-marketing-platform/internal/sched"
	"realty-marketing-platform/internal/store"
	"realty-marketing-platform/services"

	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		mongoClient.Disconnect(context.Background())
	}()

	translator, err := ai.NewGeminiTranslator(cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	defer translator.Close()

	stores := store.NewStores(mongoClient.Database(cfg.DBName))

	syncEngine := services.NewBilingualSyncEngine(translator)
	blogService := services.NewBlogService(stores.Blog, syncEngine, nil)

	igClient := instagram.NewClient(
		cfg.InstagramAppID,
		cfg.InstagramAppSecret,
		cfg.InstagramRedirectURI,
		cfg.InstagramOAuthURL,
		cfg.InstagramGraphURL,
	)
	instagramService := services.NewInstagramService(
		igClient, stores.Tokens, stores.Clients, nil, nil,
		cfg.TokenRefreshWindowDays, cfg.FeedCacheTTLSeconds,
	)

	// Scheduled refresh sweep, same code path as the HTTP-triggered one
	scheduler := sched.NewScheduler()
	err = scheduler.ScheduleCron("instagram-token-refresh", cfg.TokenRefreshCron, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		report, err := instagramService.RefreshExpiringTokens(ctx)
		if err != nil {
			return err
		}
		logger.Info("Scheduled refresh sweep completed",
			"total", report.Total, "success", report.Success, "errors", report.Errors)
		return nil
	})
	if err != nil {
		log.Fatal("Failed to schedule token refresh:", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Redis options for Asynq
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// Create Asynq server
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(blogService)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskBlogTranslate, processor.HandleBlogTranslate)

	logger.Info("Starting worker", "redis", cfg.RedisURL, "refresh_cron", cfg.TokenRefreshCron)
	if err := server.Run(mux); err != nil {
		log.Fatal("Worker stopped:", err)
	}
}
