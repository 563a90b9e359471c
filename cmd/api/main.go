package main

import (
	"context"
	"errors"
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

	"alfredoptarigan/ai-interviewer/internal/auth"
	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/handlers"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	interviewCfg, err := config.LoadInterviewConfig(cfg.Interview.QuestionBankPath)
	if err != nil {
		log.Fatalf("❌ Failed to load interview config: %v", err)
	}

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	resultsRepo := repositories.NewTestResultRepository(db)
	log.Println("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, cfg.Gemini.Timeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	chain := services.NewModelChain(geminiService.Models(cfg.Gemini.Models)...)
	log.Printf("✅ Gemini AI initialized with %d candidate models\n", chain.Len())

	// Reference material is optional; interviews run without it.
	var retriever services.ContextRetriever
	if cfg.Qdrant.Enabled {
		qdrantService, err := initQdrant(cfg)
		if err != nil {
			log.Printf("⚠️  Qdrant unavailable, continuing without reference documents: %v\n", err)
		} else {
			defer qdrantService.Close()
			retriever = services.NewRAGRetriever(geminiService, qdrantService)
			log.Println("✅ Qdrant initialized successfully")
		}
	}

	questionGenerator := services.NewQuestionGenerator(chain, retriever, interviewCfg.FallbackQuestions)
	scoringService := services.NewScoringService(chain, retriever)

	sessionStore := services.NewSessionStore(cfg.Session.TTL, cfg.Session.SweepInterval, time.Now)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessionStore.Start(ctx)

	interviewService := services.NewInterviewService(sessionStore, questionGenerator, scoringService, resultsRepo, time.Now)
	exportService := services.NewExportService(resultsRepo)
	log.Println("✅ Services initialized successfully")

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	routes := handlers.Routes{
		Upload: handlers.NewUploadHandler(
			storageService,
			services.NewDocumentExtractor(),
			services.NewResumeParser(interviewCfg.SkillVocabulary),
			cfg.Storage.MaxFileSize,
		),
		Interview: handlers.NewInterviewHandler(interviewService),
		Result:    handlers.NewResultHandler(resultsRepo, exportService),
		JWT:       jwtService,
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "AI Interviewer API",
		// Question generation and scoring wait on the model chain.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * cfg.Gemini.Timeout,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
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

	handlers.RegisterRoutes(app, routes)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interviewer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resume/upload",
				"POST /api/v1/interview/start",
				"POST /api/v1/interview/answer",
				"GET /api/v1/interview/:id",
				"GET /api/v1/results",
				"GET /api/v1/results/export",
				"GET /api/v1/results/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		sessionStore.Stop()
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

func initQdrant(cfg *config.Config) (services.QdrantService, error) {
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := qdrantService.InitCollection(ctx); err != nil {
		qdrantService.Close()
		return nil, err
	}

	return qdrantService, nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.APIResponse{
		Success: false,
		Message: err.Error(),
	})
}
