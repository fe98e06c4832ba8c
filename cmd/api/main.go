package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/rankforge/analyzer/api"
	"github.com/rankforge/analyzer/cache"
	"github.com/rankforge/analyzer/db"
	"github.com/rankforge/analyzer/extract"
	"github.com/rankforge/analyzer/llmfilter"
	"github.com/rankforge/analyzer/serp"
	"github.com/rankforge/analyzer/storage"
)

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("analyzer service initializing", "version", "1.0.0")

	// Default values
	defaultPort := getEnv("PORT", "8080")
	defaultStoragePath := getEnv("STORAGE_BASE_PATH", "./storage")
	defaultSerpAPIKey := getEnv("SERP_API_KEY", "")
	defaultSerpBaseURL := getEnv("SERP_BASE_URL", "")
	defaultLocation := getEnv("SERP_LOCATION", "France")
	defaultLanguage := getEnv("SERP_LANGUAGE", "fr")
	defaultOllamaURL := getEnv("OLLAMA_URL", "")
	defaultOllamaModel := getEnv("OLLAMA_MODEL", "llama3.2")
	defaultRedisAddr := getEnv("REDIS_ADDR", "")
	defaultMaxResults := getEnv("MAX_RESULTS", "20")

	// Parse competitor page limit
	maxResults, err := strconv.Atoi(defaultMaxResults)
	if err != nil || maxResults < 1 {
		logger.Warn("invalid MAX_RESULTS value, using default",
			"provided", defaultMaxResults,
			"default", 20,
		)
		maxResults = 20
	}

	// Command-line flags (override environment variables)
	port := flag.String("port", defaultPort, "Server port")
	serpAPIKey := flag.String("serp-api-key", defaultSerpAPIKey, "Search results provider API key (empty serves demo analyses)")
	ollamaURL := flag.String("ollama-url", defaultOllamaURL, "Ollama base URL for keyword filtering (empty disables filtering)")
	ollamaModel := flag.String("ollama-model", defaultOllamaModel, "Ollama model for keyword filtering")
	redisAddr := flag.String("redis-addr", defaultRedisAddr, "Redis address for caching (empty uses in-memory cache)")
	disableCORS := flag.Bool("disable-cors", false, "Disable CORS")
	flag.Parse()

	// PostgreSQL database configuration (required)
	dbHost := getEnv("DB_HOST", "")
	if dbHost == "" {
		logger.Error("DB_HOST environment variable is required")
		os.Exit(1)
	}

	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "rankforge")
	dbPassword := getEnv("DB_PASSWORD", "rankforge_dev_pass")
	dbName := getEnv("DB_NAME", "rankforge")

	dbConfig := db.Config{
		DSN: fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort, dbUser, dbPassword, dbName),
	}
	logger.Info("using PostgreSQL database", "host", dbHost, "port", dbPort, "database", dbName)

	// Create server configuration
	config := api.Config{
		Addr:     ":" + *port,
		DBConfig: dbConfig,
		SerpConfig: serp.Config{
			APIKey:  *serpAPIKey,
			BaseURL: defaultSerpBaseURL,
		},
		ExtractConfig: extract.DefaultConfig(),
		CacheConfig: cache.Config{
			Addr:     *redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		FilterConfig: llmfilter.Config{
			BaseURL: *ollamaURL,
			Model:   *ollamaModel,
		},
		StorageConfig: storage.Config{
			BasePath: defaultStoragePath,
		},
		MaxResults:  maxResults,
		Location:    defaultLocation,
		Language:    defaultLanguage,
		CORSEnabled: !*disableCORS,
	}

	// S3-compatible object storage replaces the local archive when configured
	if s3Bucket := getEnv("S3_BUCKET", ""); s3Bucket != "" {
		config.S3Config = &storage.S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          s3Bucket,
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnv("S3_USE_PATH_STYLE", "") == "true",
		}
		logger.Info("using S3 content archive", "bucket", s3Bucket)
	}

	// Create server
	server, err := api.NewServer(context.Background(), config)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Start server in a goroutine
	go func() {
		logger.Info("analyzer service starting",
			"port", *port,
			"database_host", dbHost,
			"database_name", dbName,
			"storage_path", defaultStoragePath,
			"serp_provider", *serpAPIKey != "",
			"keyword_filter", *ollamaURL != "",
			"redis", *redisAddr != "",
			"max_results", maxResults,
		)

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
