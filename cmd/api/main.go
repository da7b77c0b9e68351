package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jwebster45206/foundermode/internal/config"
	"github.com/jwebster45206/foundermode/internal/handlers"
	"github.com/jwebster45206/foundermode/internal/logger"
	"github.com/jwebster45206/foundermode/internal/middleware"
	"github.com/jwebster45206/foundermode/internal/services"
	"github.com/jwebster45206/foundermode/internal/session"
	"github.com/jwebster45206/foundermode/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting FounderMode API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"oracle_provider", cfg.OracleProvider)

	var oracle services.Oracle
	switch cfg.OracleProvider {
	case config.ProviderGemini:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		gemini, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel,
			cfg.GeminiResearchModel, cfg.GeminiImageModel, cfg.GeminiVideoModel, log)
		cancel()
		if err != nil {
			log.Error("Failed to initialize Gemini oracle", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		oracle = gemini
		log.Info("Using Gemini oracle provider", "model", cfg.GeminiModel)
	case config.ProviderAnthropic:
		oracle = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel, log)
		log.Info("Using Anthropic oracle provider", "model", cfg.AnthropicModel)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	catalog, err := store.GetCardCatalog(storageCtx)
	if err != nil {
		log.Error("Failed to load card catalog", "error", err)
		os.Exit(1)
	}
	log.Info("Card catalog loaded", "cards", len(catalog))

	manager := session.NewManager(oracle, store, catalog, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	gameHandler := handlers.NewGameHandler(manager, log)
	mux.Handle("/v1/game", gameHandler)
	mux.Handle("/v1/game/", gameHandler)

	handler := middleware.RequestLogger(log, mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout deliberately unset: video generation holds
		// requests open while the remote operation is polled.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
