package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	openai "github.com/sashabaranov/go-openai"

	"cvboost/cv-analyzer/internal/config"
	"cvboost/cv-analyzer/internal/handlers"
	"cvboost/cv-analyzer/internal/ratelimit"
	"cvboost/cv-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	if cfg.OpenAI.APIKey == "" {
		log.Fatal("❌ OPENAI_API_KEY is required")
	}

	// Rate-limit store: in-memory by default, Postgres-backed when a
	// database is configured so replicas share one counter.
	var store ratelimit.Store
	if cfg.SharedStoreEnabled() {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		store = ratelimit.NewPostgresStore(db)
		log.Println("✅ Shared rate-limit store initialized")
	} else {
		store = ratelimit.NewMemoryStore()
		log.Println("✅ In-memory rate-limit store initialized")
	}

	limiter := ratelimit.NewLimiter(store, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	quotaMessage := fmt.Sprintf("Quota dépassé. Limite de %d analyses par semaine par IP.", cfg.RateLimit.MaxRequests)

	// Initialize services
	promptStore := services.NewPromptStore(cfg.Prompts.Dir)
	completionService := services.NewCompletionService(openai.NewClient(cfg.OpenAI.APIKey), cfg.OpenAI.Model)
	analyzerService := services.NewAnalyzerService(completionService, promptStore)
	tailorService := services.NewTailorService(completionService)
	extractorService := services.NewTextExtractorService()
	log.Println("✅ Services initialized successfully")

	// Warm the prompt cache so a missing template fails at startup, not on
	// the first user request.
	if _, err := promptStore.Load("cv-analysis"); err != nil {
		log.Fatalf("❌ Failed to load analysis prompt: %v", err)
	}
	log.Println("✅ Prompt templates loaded")

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService)
	parseHandler := handlers.NewParseHandler(extractorService)
	tailorHandler := handlers.NewTailorHandler(tailorService)
	statsHandler := handlers.NewStatsHandler(limiter, cfg.Admin.Key)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CV Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, x-admin-key",
	}))

	enforceQuota := cfg.Server.Env == "production"

	// Routes
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/analyze-cv",
		ratelimit.Middleware(limiter, enforceQuota, "", quotaMessage),
		analyzeHandler.HandleAnalyze)
	api.Post("/parse/pdf", parseHandler.HandleParsePDF)
	api.Post("/parse/docx", parseHandler.HandleParseDOCX)
	api.Post("/llm/suggest",
		ratelimit.Middleware(limiter, enforceQuota, "suggest", quotaMessage),
		tailorHandler.HandleSuggest)
	api.Post("/llm/letter",
		ratelimit.Middleware(limiter, enforceQuota, "letter", quotaMessage),
		tailorHandler.HandleLetter)
	api.Get("/rate-limit-stats", statsHandler.HandleStats)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/analyze-cv",
				"POST /api/parse/pdf",
				"POST /api/parse/docx",
				"POST /api/llm/suggest",
				"POST /api/llm/letter",
				"GET /api/rate-limit-stats",
			},
		})
	})

	// Expired quota windows are swept in the background instead of
	// piggybacking on request handling.
	stopSweeper := make(chan struct{})
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-stopSweeper:
				return
			case <-ticker.C:
				removed, err := limiter.Sweep()
				if err != nil {
					log.Printf("⚠️  Rate-limit sweep failed: %v", err)
					continue
				}
				if removed > 0 {
					log.Printf("🧹 Rate-limit sweep removed %d expired entries", removed)
				}
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		close(stopSweeper)
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
