package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nudge-backend/domain"
)

// PostgresSummaryRepository implements SummaryRepository on top of pgx.
//
// Summary attempts use a reserve-then-flip pattern: the attempt row is
// inserted as failed before the model call, and only a completed call flips
// it to succeeded together with the summary insert. A crash mid-call leaves
// honest history behind instead of a phantom success.
type PostgresSummaryRepository struct {
	pool   Pool
	logger *slog.Logger
}

func NewPostgresSummaryRepository(pool Pool, logger *slog.Logger) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{pool: pool, logger: logger}
}

// ReserveAttempt inserts the failed placeholder row and returns it. The
// attempt number is the next free slot for (item, model tier); a uniqueness
// collision with a concurrent request retries once.
func (r *PostgresSummaryRepository) ReserveAttempt(ctx context.Context, params ReserveAttemptParams) (*domain.SummaryAttempt, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	attempt, err := r.reserveAttemptTx(ctx, params)
	if isUniqueViolation(err) {
		r.logger.WarnContext(ctx, "summary attempt collision, retrying",
			"item_id", params.ItemID, "model_key", params.ModelKey)
		attempt, err = r.reserveAttemptTx(ctx, params)
	}
	return attempt, err
}

func (r *PostgresSummaryRepository) reserveAttemptTx(ctx context.Context, params ReserveAttemptParams) (*domain.SummaryAttempt, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var attemptNo int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(attempt_no), 0) + 1
		FROM summary_attempts
		WHERE item_id = $1 AND model_key = $2`,
		params.ItemID, params.ModelKey,
	).Scan(&attemptNo)
	if err != nil {
		return nil, fmt.Errorf("failed to compute attempt number: %w", err)
	}

	attempt := &domain.SummaryAttempt{
		ID:            uuid.New(),
		ItemID:        params.ItemID,
		AttemptNo:     attemptNo,
		ModelKey:      params.ModelKey,
		PromptVersion: params.PromptVersion,
		Status:        domain.SummaryAttemptFailed,
	}
	if params.Provider != "" {
		attempt.Provider = &params.Provider
	}
	if params.Model != "" {
		attempt.Model = &params.Model
	}

	detail := "in_progress"
	err = tx.QueryRow(ctx, `
		INSERT INTO summary_attempts
			(id, item_id, attempt_no, model_key, provider, model, prompt_version, started_at, status, error_detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), $8, $9)
		RETURNING started_at, created_at`,
		attempt.ID, attempt.ItemID, attempt.AttemptNo, attempt.ModelKey,
		attempt.Provider, attempt.Model, attempt.PromptVersion,
		attempt.Status, detail,
	).Scan(&attempt.StartedAt, &attempt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert summary attempt: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return attempt, nil
}

// CompleteAttempt stores the summary and flips the reserved attempt to
// succeeded in one transaction.
func (r *PostgresSummaryRepository) CompleteAttempt(ctx context.Context, params CompleteAttemptParams) (*domain.ItemSummary, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	summary := &domain.ItemSummary{
		ID:                 uuid.New(),
		ItemID:             params.ItemID,
		UserID:             params.UserID,
		ModelKey:           params.ModelKey,
		PromptVersion:      params.PromptVersion,
		InputCharsOriginal: params.InputCharsOriginal,
		InputCharsUsed:     params.InputCharsUsed,
		OutputWords:        params.OutputWords,
		SummaryText:        params.SummaryText,
	}
	if params.Provider != "" {
		summary.Provider = &params.Provider
	}
	if params.Model != "" {
		summary.Model = &params.Model
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO item_summaries
			(id, item_id, user_id, model_key, provider, model, prompt_version,
			 input_chars_original, input_chars_used, output_words, summary_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`,
		summary.ID, summary.ItemID, summary.UserID, summary.ModelKey,
		summary.Provider, summary.Model, summary.PromptVersion,
		summary.InputCharsOriginal, summary.InputCharsUsed,
		summary.OutputWords, summary.SummaryText,
	).Scan(&summary.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert summary: %w", err)
	}

	// A zero AttemptID means the reservation was skipped; the summary still
	// gets stored.
	if params.AttemptID != uuid.Nil {
		_, err = tx.Exec(ctx, `
			UPDATE summary_attempts
			SET status = $2, error_detail = NULL, finished_at = now(), latency_ms = $3
			WHERE id = $1`,
			params.AttemptID, domain.SummaryAttemptSucceeded, params.LatencyMS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to flip summary attempt: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "summary stored",
		"item_id", params.ItemID,
		"model_key", params.ModelKey,
		"output_words", params.OutputWords,
		"latency_ms", params.LatencyMS,
	)

	return summary, nil
}

// FailAttempt records why a reserved attempt stayed failed. Best effort; the
// placeholder row already tells the truth if this update is lost.
func (r *PostgresSummaryRepository) FailAttempt(ctx context.Context, attemptID uuid.UUID, detail string, latencyMS int64) error {
	if r.pool == nil {
		return fmt.Errorf("database connection not available")
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		UPDATE summary_attempts
		SET error_detail = $2, finished_at = now(), latency_ms = $3
		WHERE id = $1`,
		attemptID, detail, latencyMS,
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt failure: %w", err)
	}

	return nil
}
