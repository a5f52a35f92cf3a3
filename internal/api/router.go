package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/api/handler"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/api/middleware"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/config"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	ingestService *service.IngestService,
	queryService *service.QueryService,
	generationService *service.GenerationService,
	cfg *config.Config,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	askHandler := handler.NewAskHandler(generationService)
	ingestHandler := handler.NewIngestHandler(ingestService)
	queryHandler := handler.NewQueryHandler(queryService)

	// Health check and browser test page
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Robocombo GPT (OpenRouter) sunucusu çalışıyor")
	})
	r.GET("/health", healthHandler.Health)
	r.GET("/test", handler.TestPage)

	// Single-shot chat (no retrieval)
	r.POST("/ask", askHandler.Ask)
	r.GET("/models", askHandler.Models)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Ingestion is gated behind the shared secret when configured
		v1.POST("/ingest", middleware.IngestSecret(cfg.Ingest.Secret), ingestHandler.Ingest)

		// RAG query
		v1.POST("/query", queryHandler.Query)

		// Stats
		v1.GET("/stats", ingestHandler.Stats)
	}

	return r
}
