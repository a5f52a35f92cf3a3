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

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/api"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/config"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/feed"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/logger"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/service"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/vectorstore"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		LogFile:     cfg.Log.LogFile,
		ServiceName: "catalog-rag",
		MaxSize:     100,
		MaxBackups:  7,
		MaxAge:      30,
		Compress:    true,
	})
	logger.SetDefault(appLogger)
	defer logger.Sync()

	// Initialize the in-memory vector store (process lifetime only)
	store := vectorstore.New()

	// Initialize services
	embeddingService := service.NewEmbeddingService(&service.EmbeddingConfig{
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
		BatchSize:  cfg.Embedding.BatchSize,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
	})

	generationService := service.NewGenerationService(&service.GenerationConfig{
		APIKey:      cfg.OpenRouter.APIKey,
		BaseURL:     cfg.OpenRouter.BaseURL,
		Referer:     cfg.OpenRouter.Referer,
		AppName:     cfg.OpenRouter.AppName,
		Models:      cfg.OpenRouter.Models,
		MaxAttempts: cfg.OpenRouter.MaxAttempts,
		BaseDelay:   time.Duration(cfg.OpenRouter.BaseDelayMs) * time.Millisecond,
		Timeout:     time.Duration(cfg.OpenRouter.TimeoutSec) * time.Second,
	})

	fetcher := feed.NewFetcher(time.Duration(cfg.Ingest.DownloadTimeoutSec) * time.Second)

	ingestService := service.NewIngestService(fetcher, embeddingService, store, cfg.Ingest.DefaultLimit)
	queryService := service.NewQueryService(store, embeddingService, generationService, cfg.Search.TopK)

	// Setup router
	router := api.SetupRouter(ingestService, queryService, generationService, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
