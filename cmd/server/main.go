package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"caselens-backend/artifacts"
	"caselens-backend/handlers"
	"caselens-backend/retrieval"
	"caselens-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	ctx := context.Background()

	// Fetch and load model/data artifacts once; read-only afterwards
	store, err := artifacts.NewStoreFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize artifact store: %v", err)
	}

	cacheDir := os.Getenv("ARTIFACT_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = "./artifacts_cache"
	}

	loader, err := artifacts.NewLoader(store, cacheDir)
	if err != nil {
		log.Fatalf("Failed to initialize artifact loader: %v", err)
	}

	bundle, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load artifacts: %v", err)
	}

	// Initialize Gemini; a missing key disables AI features without failing
	generator, err := service.NewGeminiGenerator(ctx, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}

	// Initialize services
	engine := retrieval.NewEngine(bundle.Corpus, bundle.Encoder)

	var explainOpts []service.ExplainServiceOption
	if generator != nil {
		explainOpts = append(explainOpts, service.ExplainWithGenerator(generator))
	}
	explainService := service.NewExplainService(explainOpts...)

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(engine, bundle.Classifier, maxUploadBytes())
	chatHandler := handlers.NewChatHandler(explainService)

	// Setup Gin router
	r := gin.Default()
	r.Use(handlers.RequestID())
	r.LoadHTMLGlob("templates/*")

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	r.GET("/", analyzeHandler.Index)
	r.POST("/", analyzeHandler.Analyze)
	r.GET("/test-api", chatHandler.TestAPI)
	r.POST("/chat", chatHandler.Chat)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func maxUploadBytes() int64 {
	raw := os.Getenv("MAX_UPLOAD_BYTES")
	if raw == "" {
		return handlers.DefaultMaxUploadBytes
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid MAX_UPLOAD_BYTES %q, using default", raw)
		return handlers.DefaultMaxUploadBytes
	}
	return n
}
