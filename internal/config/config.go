package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider identifies which LLM backend generates meal plans.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds the configuration for the worker.
type Config struct {
	// LLM backend
	Provider     string
	GeminiAPIKey string
	GroqAPIKey   string

	// Generation policy
	PlanHorizonDays   int
	MaxAttempts       int
	FallbackOnFailure bool
	ModelCallTimeout  time.Duration
	RequestTimeout    time.Duration
	RetryBackoff      time.Duration
	LenientQuotes     bool

	// HTTP server
	Port           string
	AllowedOrigins []string
	AuthSecret     string

	// Storage
	MetricsDBPath string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = ProviderGroq
	}
	if provider != ProviderGemini && provider != ProviderGroq {
		return nil, fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderGroq, provider)
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if provider == ProviderGemini && geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if provider == ProviderGroq && groqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}

	horizon, err := intFromEnv("PLAN_HORIZON_DAYS", 7)
	if err != nil {
		return nil, err
	}
	if horizon != 1 && horizon != 7 {
		return nil, fmt.Errorf("PLAN_HORIZON_DAYS must be 1 or 7, got %d", horizon)
	}

	maxAttempts, err := intFromEnv("MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("MAX_ATTEMPTS must be at least 1, got %d", maxAttempts)
	}

	callTimeout, err := durationFromEnv("MODEL_CALL_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := durationFromEnv("REQUEST_TIMEOUT", 3*time.Minute)
	if err != nil {
		return nil, err
	}
	retryBackoff, err := durationFromEnv("RETRY_BACKOFF", 2*time.Second)
	if err != nil {
		return nil, err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8420"
	}

	origins := []string{"http://localhost:3000", "http://localhost:4321"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	metricsDBPath := os.Getenv("METRICS_DB_PATH")
	if metricsDBPath == "" {
		metricsDBPath = "data/metrics.db"
	}

	return &Config{
		Provider:          provider,
		GeminiAPIKey:      geminiAPIKey,
		GroqAPIKey:        groqAPIKey,
		PlanHorizonDays:   horizon,
		MaxAttempts:       maxAttempts,
		FallbackOnFailure: os.Getenv("FALLBACK_ON_FAILURE") == "true",
		ModelCallTimeout:  callTimeout,
		RequestTimeout:    requestTimeout,
		RetryBackoff:      retryBackoff,
		LenientQuotes:     os.Getenv("LENIENT_QUOTE_REPAIR") == "true",
		Port:              port,
		AllowedOrigins:    origins,
		AuthSecret:        os.Getenv("WORKER_AUTH_SECRET"),
		MetricsDBPath:     metricsDBPath,
	}, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like \"30s\", got %q", key, raw)
	}
	return v, nil
}
