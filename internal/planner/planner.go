package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"nutriai-worker/internal/llm"
	"nutriai-worker/internal/mealplan"
	"nutriai-worker/internal/shared"

	"github.com/google/uuid"
)

// Attempt outcomes recorded per model call.
const (
	OutcomeOK         = "ok"
	OutcomeTransport  = "transport"
	OutcomeMalformed  = "malformed"
	OutcomeValidation = "validation"
)

// Config carries the deployment-time generation policy.
type Config struct {
	// HorizonDays is the number of days one plan covers (1 or 7).
	HorizonDays int
	// MaxAttempts bounds the retry loop around the model call.
	MaxAttempts int
	// FallbackOnFailure returns the static fallback plan instead of an error
	// once attempts are exhausted.
	FallbackOnFailure bool
	// CallTimeout bounds a single model call.
	CallTimeout time.Duration
	// Backoff is slept between attempts.
	Backoff time.Duration
	// LenientQuotes enables the permissive quote-normalization repair.
	LenientQuotes bool
}

// AttemptRecorder receives the outcome of every model attempt. A nil recorder
// disables recording.
type AttemptRecorder interface {
	RecordAttempt(requestID string, attempt int, outcome string, usage shared.TokenUsage, latency time.Duration) error
}

// Generator orchestrates meal plan generation: prompt build, model call,
// repair, normalize, validate, with sequential retries and a configurable
// terminal policy. Safe for concurrent use; all per-request state is local.
type Generator struct {
	textGen  llm.TextGenerator
	cfg      Config
	recorder AttemptRecorder
	decoder  mealplan.Decoder
}

// NewGenerator creates a new Generator instance.
func NewGenerator(textGen llm.TextGenerator, cfg Config, recorder AttemptRecorder) *Generator {
	return &Generator{
		textGen:  textGen,
		cfg:      cfg,
		recorder: recorder,
		decoder:  mealplan.Decoder{LenientQuotes: cfg.LenientQuotes},
	}
}

// Generate produces a validated meal plan for the given preferences. Every
// failure kind (transport, malformed response, validation) consumes one
// attempt; when attempts are exhausted it either returns the static fallback
// plan or the last attempt's error, per configuration.
func (g *Generator) Generate(ctx context.Context, prefs mealplan.Preferences) (*mealplan.MealPlan, error) {
	requestID := uuid.NewString()

	prompt, err := mealplan.BuildPrompt(prefs, g.cfg.HorizonDays)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if attempt > 1 && g.cfg.Backoff > 0 {
			select {
			case <-time.After(g.cfg.Backoff):
			case <-ctx.Done():
			}
		}
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		start := time.Now()
		plan, usage, err := g.attempt(ctx, prompt, prefs)
		g.record(requestID, attempt, outcomeOf(err), usage, time.Since(start))

		if err == nil {
			log.Printf("Generation %s succeeded on attempt %d/%d", requestID, attempt, g.cfg.MaxAttempts)
			return plan, nil
		}

		lastErr = err
		log.Printf("Generation %s attempt %d/%d failed: %v", requestID, attempt, g.cfg.MaxAttempts, err)
	}

	if g.cfg.FallbackOnFailure {
		log.Printf("Generation %s exhausted %d attempts, returning static fallback plan (last error: %v)",
			requestID, g.cfg.MaxAttempts, lastErr)
		return mealplan.FallbackPlan(), nil
	}

	return nil, fmt.Errorf("meal plan generation failed after %d attempts: %w", g.cfg.MaxAttempts, lastErr)
}

// attempt runs one pass of the pipeline: CALL_MODEL -> REPAIR -> NORMALIZE ->
// VALIDATE. The per-call timeout makes a hung model call count as a failed
// attempt rather than stalling the request.
func (g *Generator) attempt(ctx context.Context, prompt string, prefs mealplan.Preferences) (*mealplan.MealPlan, shared.TokenUsage, error) {
	callCtx := ctx
	if g.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.cfg.CallTimeout)
		defer cancel()
	}

	resp, err := g.textGen.GenerateContent(callCtx, prompt)
	if err != nil {
		return nil, resp.Usage, fmt.Errorf("model call failed: %w", err)
	}

	tree, err := g.decoder.Decode(resp.Content)
	if err != nil {
		return nil, resp.Usage, err
	}

	plan := mealplan.Normalize(tree)
	if err := mealplan.Validate(plan, prefs, g.cfg.HorizonDays); err != nil {
		return nil, resp.Usage, err
	}

	return plan, resp.Usage, nil
}

func (g *Generator) record(requestID string, attempt int, outcome string, usage shared.TokenUsage, latency time.Duration) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.RecordAttempt(requestID, attempt, outcome, usage, latency); err != nil {
		log.Printf("Warning: failed to record attempt metrics for %s: %v", requestID, err)
	}
}

func outcomeOf(err error) string {
	var malformed *mealplan.MalformedResponseError
	var invalid *mealplan.ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &malformed):
		return OutcomeMalformed
	case errors.As(err, &invalid):
		return OutcomeValidation
	default:
		return OutcomeTransport
	}
}
