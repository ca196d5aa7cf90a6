package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI string
	DBName   string
	Port     string
	GinMode  string

	CORSOrigins []string

	// Gemini translation/formatting
	GeminiAPIKey string
	GeminiModel  string

	// Instagram Graph API
	InstagramAppID       string
	InstagramAppSecret   string
	InstagramRedirectURI string
	InstagramGraphURL    string
	InstagramOAuthURL    string

	// Tenant fallback when no domain matches the request host
	FallbackTenantSlug string

	// Admin session (single shared credential)
	AdminPasswordHash string
	SessionSecret     string
	SessionTTLHours   int

	// Redis (queue + feed cache)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Feed cache
	FeedCacheTTLSeconds int

	// Refresh sweep: days before expiry a token becomes eligible
	TokenRefreshWindowDays int
	TokenRefreshCron       string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/realty_marketing"),
		DBName:   getEnv("DB_NAME", "realty_marketing"),
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),

		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		InstagramAppID:       getEnv("INSTAGRAM_APP_ID", ""),
		InstagramAppSecret:   getEnv("INSTAGRAM_APP_SECRET", ""),
		InstagramRedirectURI: getEnv("INSTAGRAM_REDIRECT_URI", ""),
		InstagramGraphURL:    getEnv("INSTAGRAM_GRAPH_URL", "https://graph.instagram.com"),
		InstagramOAuthURL:    getEnv("INSTAGRAM_OAUTH_URL", "https://api.instagram.com"),

		FallbackTenantSlug: getEnv("FALLBACK_TENANT_SLUG", "grand-strand-realty"),

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTLHours:   getEnvInt("SESSION_TTL_HOURS", 24),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		FeedCacheTTLSeconds: getEnvInt("FEED_CACHE_TTL", 600),

		TokenRefreshWindowDays: getEnvInt("TOKEN_REFRESH_WINDOW_DAYS", 10),
		TokenRefreshCron:       getEnv("TOKEN_REFRESH_CRON", "0 4 * * *"),
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required - set it in .env file")
	}

	if cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required - set it in .env file")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
