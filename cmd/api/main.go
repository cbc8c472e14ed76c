package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/config"
	"github.com/pageza/smartfridge-backend/internal/api"
	"github.com/pageza/smartfridge-backend/internal/database"
	"github.com/pageza/smartfridge-backend/internal/router"
	"github.com/pageza/smartfridge-backend/internal/server"
	"github.com/pageza/smartfridge-backend/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	db, err := database.New(cfg)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}

	// Redis is optional: the cache layer degrades to no-ops and parsed
	// recipe drafts are simply not persisted.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		sugar.Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	// Clients and services; availability probes run inside the constructors.
	llmService := service.NewLLMService(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMChatModel, redisClient, sugar)
	embedder := service.NewEmbeddingService(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMEmbeddingModel, cfg.LLMEmbeddingDim, sugar)
	sparse := service.NewSparseEmbedder()
	vectorIndex := service.NewVectorIndexService(cfg.QdrantHost, cfg.QdrantPort, cfg.LLMEmbeddingDim, sugar)
	cache := service.NewVectorCacheService(redisClient, cfg.CacheTTLSeconds, sugar)

	store := service.NewRecipeService(db, sugar)
	resolver := service.NewIngredientResolver(db, llmService, sugar)
	cook := service.NewCookabilityService(store, resolver, sugar)
	indexer := service.NewSearchIndexer(store, embedder, sparse, vectorIndex, sugar)
	hybrid := service.NewHybridSearchService(embedder, sparse, vectorIndex, cache, resolver, sugar)
	planner := service.NewSubstitutionService(store, resolver, llmService, sugar)

	engine := router.SetupRouter(
		api.NewRecipeHandler(store, cook, indexer, llmService, sugar),
		api.NewFridgeHandler(store, sugar),
		api.NewSearchHandler(hybrid, cook, indexer, vectorIndex, cache, embedder, sugar),
		api.NewIngredientHandler(resolver, sugar),
		api.NewSubstitutionHandler(planner, sugar),
	)

	srv := server.New(engine, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		sugar.Infow("starting server", "port", cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			sugar.Fatalw("server error", "error", err)
		}
	case sig := <-quit:
		sugar.Infow("received signal", "signal", sig.String())
	}

	sugar.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalw("server shutdown error", "error", err)
	}
	sugar.Info("server stopped")
}

func newLogger() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
