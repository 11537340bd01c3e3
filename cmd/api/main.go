package main

import (
	"context"
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

	"careerlens/resume-assistant/internal/config"
	"careerlens/resume-assistant/internal/handlers"
	"careerlens/resume-assistant/internal/repositories"
	"careerlens/resume-assistant/internal/services"
)

func main() {
	// Load configuration (fails fast when GEMINI_API_KEY is missing)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Printf("✅ Config loaded successfully (variant: %s)\n", cfg.Server.Variant)

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	analyzer := services.NewAnalyzerService(pdfParser, geminiService)
	log.Println("✅ Analyzer service initialized")

	// Optional analysis history (Postgres)
	var analysisRepo repositories.AnalysisRepository
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		analysisRepo = repositories.NewAnalysisRepository(db)
		log.Println("✅ Analysis history enabled")
	} else {
		log.Println("ℹ️  DB_HOST not set, analysis history disabled")
	}

	// Optional similarity index (Qdrant)
	var indexService services.IndexService
	if cfg.Qdrant.Enabled {
		indexService, err = services.NewIndexService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			geminiService,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := indexService.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Similarity index enabled")
	} else {
		log.Println("ℹ️  QDRANT_URL not set, similarity index disabled")
	}

	// Background worker records completed analyses off the request path
	worker := services.NewWorker(analysisRepo, indexService, cfg.Worker.Concurrency)
	worker.Start(context.Background())

	// Initialize handlers
	devMode := cfg.IsDevelopment()
	atsHandler := handlers.NewATSHandler(storageService, analyzer, worker, devMode)
	coverLetterHandler := handlers.NewCoverLetterHandler(storageService, analyzer, worker, devMode)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Assistant API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		// Leave headroom above the file ceiling for the rest of the form
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigin,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Resume Assistant API is running")
	})

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/ats-check", atsHandler.HandleATSCheck)
	api.Post("/generate-cover-letter", coverLetterHandler.HandleGenerate)
	api.Post("/generate-cover-letter/text", coverLetterHandler.HandleGenerateFromText)

	// History routes are only mounted when their backends are configured
	if analysisRepo != nil || indexService != nil {
		historyHandler := handlers.NewHistoryHandler(analysisRepo, indexService)
		if indexService != nil {
			api.Get("/analyses/search", historyHandler.HandleSearch)
		}
		if analysisRepo != nil {
			api.Get("/analyses", historyHandler.HandleListRecent)
			api.Get("/analyses/:id", historyHandler.HandleGetAnalysis)
		}
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s (CORS origin: %s)\n", addr, cfg.Server.AllowedOrigin)

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
		"code":  code,
	})
}
