package metrics

import (
	"database/sql"
	"time"

	"nutriai-worker/internal/shared"
)

// GenerationAttempt records metadata for a single model attempt.
type GenerationAttempt struct {
	RequestID        string
	Model            string
	Attempt          int
	Outcome          string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of generation metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves an attempt to the database.
func (s *Store) Record(a GenerationAttempt) error {
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO generation_attempts
			(request_id, model, attempt, outcome, prompt_tokens, completion_tokens, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.RequestID, a.Model, a.Attempt, a.Outcome,
		a.PromptTokens, a.CompletionTokens, a.LatencyMS, ts,
	)
	return err
}

// RecordAttempt implements the planner's attempt recorder.
func (s *Store) RecordAttempt(requestID string, attempt int, outcome string, usage shared.TokenUsage, latency time.Duration) error {
	return s.Record(GenerationAttempt{
		RequestID:        requestID,
		Model:            usage.Model,
		Attempt:          attempt,
		Outcome:          outcome,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
	})
}

// DailyUsage represents attempt and token totals for a single day.
type DailyUsage struct {
	Date            string
	Attempts        int
	Succeeded       int
	TotalPrompt     int
	TotalCompletion int
}

// GetDailyUsage retrieves usage for the last N days.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.Query(`
		SELECT date(created_at) AS day,
		       COUNT(*),
		       SUM(CASE WHEN outcome = 'ok' THEN 1 ELSE 0 END),
		       SUM(prompt_tokens),
		       SUM(completion_tokens)
		FROM generation_attempts
		WHERE created_at >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.Attempts, &u.Succeeded, &u.TotalPrompt, &u.TotalCompletion); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// Cleanup removes records older than N days and reports how many were deleted.
func (s *Store) Cleanup(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	res, err := s.db.Exec(`DELETE FROM generation_attempts WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
