package main

import (
	"context"
	"log"

	"nutriai-worker/internal/config"
	"nutriai-worker/internal/database"
	"nutriai-worker/internal/llm"
	"nutriai-worker/internal/metrics"
	"nutriai-worker/internal/planner"
	"nutriai-worker/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	textGen, err := newTextGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.MetricsDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	generator := planner.NewGenerator(textGen, planner.Config{
		HorizonDays:       cfg.PlanHorizonDays,
		MaxAttempts:       cfg.MaxAttempts,
		FallbackOnFailure: cfg.FallbackOnFailure,
		CallTimeout:       cfg.ModelCallTimeout,
		Backoff:           cfg.RetryBackoff,
		LenientQuotes:     cfg.LenientQuotes,
	}, metrics.NewStore(db.SQL))

	srv := server.NewServer(cfg, generator)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}

func newTextGenerator(ctx context.Context, cfg *config.Config) (llm.TextGenerator, error) {
	if cfg.Provider == config.ProviderGemini {
		return llm.NewGeminiClient(ctx, cfg)
	}
	return llm.NewGroqClient(cfg), nil
}
