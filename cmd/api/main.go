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

	"talentai/resume-screener/internal/config"
	"talentai/resume-screener/internal/handlers"
	"talentai/resume-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize core services
	chunker := services.NewTextChunker()
	keywordExtractor := services.NewKeywordExtractor()
	pdfParser := services.NewPDFParserService()
	enrichmentService := services.NewEnrichmentService(geminiService, 2)
	chatStore := services.NewChatStore(cfg.Chat.TTL, cfg.Chat.MaxMessages)

	scorerService := services.NewScorerService(
		geminiService,
		chunker,
		keywordExtractor,
		cfg.Processing.ChunkSize,
	)

	answerService := services.NewAnswerService(
		geminiService,
		chunker,
		chatStore,
		cfg.Processing.QueryChunkSize,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize Handlers
	screenHandler := handlers.NewScreenHandler(
		pdfParser,
		enrichmentService,
		scorerService,
		cfg.Processing.MaxResumes,
		cfg.Processing.MaxFileSize,
	)
	askHandler := handlers.NewAskHandler(answerService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TalentAI Resume Screening API",
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Processing.MaxFileSize),
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
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "TalentAI Resume Screening API",
		})
	})

	// API endpoints
	api.Post("/screen", screenHandler.HandleScreen)
	api.Post("/search", screenHandler.HandleScreen)
	api.Post("/ask", askHandler.HandleAsk)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "TalentAI Resume Screening API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/screen",
				"POST /api/v1/search",
				"POST /api/v1/ask",
				"GET /api/v1/health",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
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
		"code":  code,
	})
}
