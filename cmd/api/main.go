package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-intelligence/pkg/validator"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/handler"
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/ports"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/analytics"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/pipeline"
	pkgai "github.com/johnquangdev/meeting-intelligence/pkg/ai"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	"github.com/johnquangdev/meeting-intelligence/pkg/embedding"
	"github.com/johnquangdev/meeting-intelligence/pkg/redaction"
	"github.com/johnquangdev/meeting-intelligence/pkg/sentiment"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize embedder: remote embeddings by default, the local
	// deterministic embedder when EMBEDDING_MODEL=local. Query embeddings
	// are cached with a short TTL.
	log.Println("🧮 Initializing embedder...")
	var embedder ports.Embedder
	if cfg.OpenAI.EmbeddingModel == "local" || cfg.OpenAI.APIKey == "" {
		embedder = embedding.NewHashEmbedder(embedding.DefaultDimensions)
		log.Println("⚠️  Using local hash embeddings")
	} else {
		openaiEmbedder, err := pkgai.NewOpenAIEmbedder(&cfg.OpenAI)
		if err != nil {
			log.Fatalf("Failed to initialize OpenAI embedder: %v", err)
		}
		embedder = openaiEmbedder
		log.Printf("✅ Using OpenAI embeddings (%s)", cfg.OpenAI.EmbeddingModel)
	}
	embedder = cache.NewCachedEmbedder(embedder, time.Duration(cfg.Pipeline.EmbeddingCacheTTL)*time.Second)

	// Initialize tiered stores
	log.Println("🗄️  Initializing tiered stores...")
	stores := repository.NewTieredStores(redisClient, embedder, logger)

	// Initialize pipeline ports
	log.Println("🤖 Initializing pipeline ports...")
	var extractor ports.ExtractionPort
	if cfg.OpenAI.APIKey == "" {
		extractor = pkgai.NewDisabledExtractor()
		log.Println("⚠️  OPENAI_API_KEY not set; insight extraction is disabled")
	} else {
		openaiExtractor, err := pkgai.NewExtractor(&cfg.OpenAI, logger)
		if err != nil {
			log.Fatalf("Failed to initialize extractor: %v", err)
		}
		extractor = openaiExtractor
	}
	sentimentAnalyzer := sentiment.NewAnalyzer()
	redactor := redaction.NewRedactor()

	// Initialize pipeline service
	log.Println("⚙️  Initializing pipeline service...")
	pipelineService := pipeline.NewService(
		stores,
		extractor,
		sentimentAnalyzer,
		redactor,
		cfg.Pipeline.EnableRedaction,
		logger,
	)
	if !cfg.Pipeline.EnableRedaction {
		log.Println("⚠️  PII redaction is DISABLED for the sensitive tier")
	}

	// Initialize analytics service
	analyticsService := analytics.NewService(stores, logger)

	// Initialize optional upload archival
	var archiver *storage.Archiver
	if cfg.ArchivalEnabled() {
		log.Println("📁 Initializing upload archival...")
		archiver, err = storage.NewArchiver(&cfg.Storage, logger)
		if err != nil {
			log.Fatalf("Failed to initialize archiver: %v", err)
		}
		log.Printf("✅ Uploads archived to bucket %q", cfg.Storage.BucketName)
	} else {
		log.Println("📁 Upload archival disabled (no STORAGE_ENDPOINT)")
	}

	// Initialize meeting handler
	log.Println("🚀 Initializing meeting handler...")
	meetingHandler := handler.NewMeeting(pipelineService, analyticsService, archiver, redisClient, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, meetingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
