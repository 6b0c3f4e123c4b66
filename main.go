package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hussainashraf/sales-analytics-ai-application/ai"
	"github.com/hussainashraf/sales-analytics-ai-application/cache"
	"github.com/hussainashraf/sales-analytics-ai-application/config"
	"github.com/hussainashraf/sales-analytics-ai-application/db"
	_ "github.com/hussainashraf/sales-analytics-ai-application/docs" // Swagger docs
	"github.com/hussainashraf/sales-analytics-ai-application/documents"
	"github.com/hussainashraf/sales-analytics-ai-application/handlers"
	"github.com/hussainashraf/sales-analytics-ai-application/pipeline"
	"github.com/hussainashraf/sales-analytics-ai-application/service"
)

func main() {
	cfg := config.GetConfig()

	// Initialize reference store
	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Load reference docs (schema notes, sample queries) into the store
	refDocs, err := database.LoadReferenceDocsFromDir(cfg.ReferenceDir)
	if err == nil {
		for _, doc := range refDocs {
			database.StoreReferenceDoc(doc.Name, doc.Content)
		}
		log.Printf("Loaded %d reference docs into database", len(refDocs))
	}

	// Keep the store in sync with the reference directory
	go func() {
		if err := database.WatchReferenceDir(context.Background(), cfg.ReferenceDir); err != nil && err != context.Canceled {
			log.Printf("Warning: reference directory watcher stopped: %v", err)
		}
	}()

	// Initialize cache
	appCache := cache.New()

	// Initialize AI service
	aiService, err := ai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName, cfg.ImageModelName, appCache, database)
	if err != nil {
		log.Fatalf("Failed to initialize AI service: %v", err)
	}

	// Initialize Postgres execution gateway (optional)
	var sqlService *service.PostgresService
	if cfg.Postgres.Host != "" {
		sqlService, err = service.NewPostgresService(cfg.Postgres)
		if err != nil {
			log.Printf("Warning: Failed to initialize Postgres service: %v", err)
			log.Println("SQL execution will be unavailable")
			sqlService = nil
		} else {
			defer sqlService.Close()
			log.Println("Postgres service initialized successfully")
		}
	}

	// A typed nil must not end up inside the interface, or the
	// pipeline would call into a nil receiver.
	var executor pipeline.QueryExecutor
	if sqlService != nil {
		executor = sqlService
	}

	docLoader := documents.NewLoader(cfg.DocumentsDir, cfg.PurchaseOrder, cfg.ProformaInvoice)

	pl := pipeline.New(pipeline.Options{
		QueryGenerator:   aiService,
		AnswerGenerator:  aiService,
		ChartGenerator:   aiService,
		DocumentAnalyzer: aiService,
		Executor:         executor,
		DocumentLoader:   docLoader,
		StageTimeout:     cfg.StageTimeout,
		ChartTimeout:     cfg.ChartTimeout,
	})

	h := handlers.New(pl, sqlService)

	// Setup Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control"},
		AllowCredentials: true,
	}))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes
	r.GET("/", h.RootHandler)
	r.GET("/health", h.HealthHandler)
	r.POST("/chat", h.ChatHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
