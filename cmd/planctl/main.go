package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"nutriai-worker/internal/config"
	"nutriai-worker/internal/database"
	"nutriai-worker/internal/llm"
	"nutriai-worker/internal/mealplan"
	"nutriai-worker/internal/metrics"
	"nutriai-worker/internal/planner"

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

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		genCmd := flag.NewFlagSet("generate", flag.ExitOnError)
		prefsPath := genCmd.String("prefs", "", "Path to a JSON file with user preferences")
		genCmd.Parse(os.Args[2:])

		if *prefsPath == "" {
			log.Fatal("generate requires -prefs <file>")
		}
		if err := runGenerate(ctx, cfg, *prefsPath); err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
	case "usage":
		usageCmd := flag.NewFlagSet("usage", flag.ExitOnError)
		days := usageCmd.Int("days", 7, "Show usage for the last N days")
		usageCmd.Parse(os.Args[2:])

		store, closeStore, err := openStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open metrics store: %v", err)
		}
		defer closeStore()

		rows, err := store.GetDailyUsage(*days)
		if err != nil {
			log.Fatalf("Usage query failed: %v", err)
		}
		for _, row := range rows {
			fmt.Printf("%s  attempts=%d succeeded=%d prompt_tokens=%d completion_tokens=%d\n",
				row.Date, row.Attempts, row.Succeeded, row.TotalPrompt, row.TotalCompletion)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		store, closeStore, err := openStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open metrics store: %v", err)
		}
		defer closeStore()

		affected, err := store.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, cfg *config.Config, prefsPath string) error {
	raw, err := os.ReadFile(prefsPath)
	if err != nil {
		return fmt.Errorf("failed to read preferences file: %w", err)
	}

	var prefs mealplan.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return fmt.Errorf("failed to parse preferences file: %w", err)
	}
	prefs.ApplyDefaults()
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	var textGen llm.TextGenerator
	if cfg.Provider == config.ProviderGemini {
		textGen, err = llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
	} else {
		textGen = llm.NewGroqClient(cfg)
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open metrics store: %w", err)
	}
	defer closeStore()

	generator := planner.NewGenerator(textGen, planner.Config{
		HorizonDays:       cfg.PlanHorizonDays,
		MaxAttempts:       cfg.MaxAttempts,
		FallbackOnFailure: cfg.FallbackOnFailure,
		CallTimeout:       cfg.ModelCallTimeout,
		Backoff:           cfg.RetryBackoff,
		LenientQuotes:     cfg.LenientQuotes,
	}, store)

	plan, err := generator.Generate(ctx, prefs)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func openStore(cfg *config.Config) (*metrics.Store, func(), error) {
	db, err := database.NewDB(cfg.MetricsDBPath)
	if err != nil {
		return nil, nil, err
	}
	return metrics.NewStore(db.SQL), func() { db.Close() }, nil
}

func printUsage() {
	fmt.Println("Usage: planctl <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate           Generate a meal plan from a preferences JSON file")
	fmt.Println("  usage              Show daily generation and token usage")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
