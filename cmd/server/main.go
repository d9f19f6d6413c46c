package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/chinesepowered/appliedai/config"
	"github.com/chinesepowered/appliedai/handlers"
	"github.com/chinesepowered/appliedai/llm"
	"github.com/chinesepowered/appliedai/search"
	"github.com/chinesepowered/appliedai/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize Gemini client
	geminiClient, err := initGemini(cfg)
	if err != nil {
		log.Fatal("Failed to initialize Gemini:", err)
	}
	generator := llm.NewGeminiGenerator(geminiClient, cfg.Gemini.Model)

	// Initialize search providers
	searcher := search.NewSearcher(
		cfg.Search.ProviderTimeout,
		search.NewCourtListenerClient(cfg.Search.CourtListenerBaseURL, cfg.Search.CourtListenerToken),
		search.NewStatuteProvider(),
		search.NewDemoProvider(),
	)
	expander := search.NewQueryExpander(generator)

	// Initialize services
	researchService := service.NewResearchService(
		service.WithSearcher(searcher),
		service.WithQueryExpander(expander),
		service.WithGenerator(generator),
		service.WithMaxDepth(cfg.Search.MaxResearchDepth),
	)

	// Initialize handlers
	researchHandler := handlers.NewResearchHandler(researchService)

	// Setup Gin router
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.POST("/research", researchHandler.Research)
		api.POST("/search", researchHandler.Search)
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initGemini(cfg *config.Config) (*genai.Client, error) {
	if cfg.Gemini.APIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, err
	}

	log.Println("Gemini client initialized")
	return client, nil
}
