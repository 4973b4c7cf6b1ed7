package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"nudge-backend/domain"
)

const itemColumns = `id, user_id, status, status_detail, source_type, requested_url, final_text_source, title, created_at, updated_at`

// PostgresItemRepository implements ItemRepository on top of pgx.
type PostgresItemRepository struct {
	pool   Pool
	logger *slog.Logger
}

func NewPostgresItemRepository(pool Pool, logger *slog.Logger) *PostgresItemRepository {
	return &PostgresItemRepository{pool: pool, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Status,
		&item.StatusDetail,
		&item.SourceType,
		&item.RequestedURL,
		&item.FinalTextSource,
		&item.Title,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts the item and its content row in one transaction. A
// pasted-only item is born succeeded with the paste as canonical text; a URL
// item is born queued, keeping any paste as a fallback for the worker.
func (r *PostgresItemRepository) CreateItem(ctx context.Context, params CreateItemParams) (*domain.Item, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	itemID := uuid.New()

	var (
		status          = domain.ItemStatusQueued
		statusDetail    *string
		sourceType      = domain.ItemSourceURL
		requestedURL    *string
		finalTextSource *domain.FinalTextSource
		canonicalText   *string
		pastedText      *string
	)

	if params.PastedText != "" {
		pastedText = &params.PastedText
	}

	pastePath := params.PastedText != "" && (params.URL == "" || params.PreferPastedText)
	if pastePath {
		sourceType = domain.ItemSourcePastedText
		status = domain.ItemStatusSucceeded
		src := domain.FinalTextUserPastedText
		finalTextSource = &src
		canonicalText = pastedText
	} else {
		requestedURL = &params.URL
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO items (id, user_id, status, status_detail, source_type, requested_url, final_text_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+itemColumns,
		itemID, params.UserID, status, statusDetail, sourceType, requestedURL, finalTextSource,
	)

	item, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO item_content (item_id, user_pasted_text, canonical_text)
		VALUES ($1, $2, $3)`,
		itemID, pastedText, canonicalText,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item content: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "item created",
		"item_id", item.ID,
		"source_type", item.SourceType,
		"status", item.Status,
	)

	return item, nil
}

// GetItem fetches one item scoped to its owner.
func (r *PostgresItemRepository) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Item, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// GetItemContent fetches the content row. Ownership is the caller's concern;
// handlers resolve the item first.
func (r *PostgresItemRepository) GetItemContent(ctx context.Context, itemID uuid.UUID) (*domain.ItemContent, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	var content domain.ItemContent
	err := r.pool.QueryRow(ctx, `
		SELECT item_id, user_pasted_text, extracted_text, canonical_text, updated_at
		FROM item_content
		WHERE item_id = $1`,
		itemID,
	).Scan(
		&content.ItemID,
		&content.UserPastedText,
		&content.ExtractedText,
		&content.CanonicalText,
		&content.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item content: %w", err)
	}

	return &content, nil
}

// ListItems returns one keyset page ordered by (created_at DESC, id DESC).
// It fetches limit+1 rows to decide whether a next cursor exists.
func (r *PostgresItemRepository) ListItems(ctx context.Context, params ListItemsParams) ([]domain.Item, *domain.Cursor, error) {
	if r.pool == nil {
		return nil, nil, fmt.Errorf("database connection not available")
	}

	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE user_id = $1`
	args := []any{params.UserID}

	if params.Cursor != nil {
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, params.Cursor.CreatedAt, params.Cursor.ID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args)+1)
	args = append(args, params.Limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0, params.Limit)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	var next *domain.Cursor
	if len(items) > params.Limit {
		items = items[:params.Limit]
		last := items[len(items)-1]
		next = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	return items, next, nil
}

// PatchItemText replaces the canonical text with a user paste and moves the
// item to succeeded. The item row is locked for the duration so a concurrent
// worker claim cannot interleave; processing and succeeded items reject the
// patch with a state conflict.
func (r *PostgresItemRepository) PatchItemText(ctx context.Context, userID, itemID uuid.UUID, pastedText string) (*domain.Item, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`,
		itemID, userID,
	)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to lock item: %w", err)
	}

	if item.Status != domain.ItemStatusNeedsUserText {
		return nil, fmt.Errorf("%w: status is %s", domain.ErrItemStateConflict, item.Status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE item_content
		SET user_pasted_text = $2, canonical_text = $2, updated_at = now()
		WHERE item_id = $1`,
		itemID, pastedText,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update item content: %w", err)
	}

	row = tx.QueryRow(ctx, `
		UPDATE items
		SET status = $2, status_detail = NULL, final_text_source = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns,
		itemID, domain.ItemStatusSucceeded, domain.FinalTextUserPastedText,
	)

	updated, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "item text pasted", "item_id", itemID, "chars", len(pastedText))

	return updated, nil
}

// ClaimQueuedBatch atomically moves up to limit queued items to processing,
// oldest first. SKIP LOCKED keeps concurrent workers from blocking on the
// same rows.
func (r *PostgresItemRepository) ClaimQueuedBatch(ctx context.Context, limit int) ([]domain.Item, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id
		FROM items
		WHERE status = $1 AND source_type = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3
		FOR UPDATE SKIP LOCKED`,
		domain.ItemStatusQueued, domain.ItemSourceURL, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to select queued items: %w", err)
	}

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queued items: %w", err)
	}

	if len(ids) == 0 {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil, nil
	}

	rows, err = tx.Query(ctx, `
		UPDATE items
		SET status = $1, status_detail = $2, updated_at = now()
		WHERE id = ANY($3)
		RETURNING `+itemColumns,
		domain.ItemStatusProcessing, "processing", ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim items: %w", err)
	}

	claimed := make([]domain.Item, 0, len(ids))
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan claimed item: %w", err)
		}
		claimed = append(claimed, *item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claimed items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "claimed queued items", "count", len(claimed))

	return claimed, nil
}

// RequeueStaleProcessing returns to the queue any item stuck in processing
// longer than olderThan, typically after a worker crash.
func (r *PostgresItemRepository) RequeueStaleProcessing(ctx context.Context, olderThan time.Duration) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("database connection not available")
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE items
		SET status = $1, status_detail = $2, updated_at = now()
		WHERE status = $3 AND updated_at < now() - $4::interval`,
		domain.ItemStatusQueued, "requeued after stale processing",
		domain.ItemStatusProcessing, olderThan.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue stale items: %w", err)
	}

	requeued := int(tag.RowsAffected())
	if requeued > 0 {
		r.logger.InfoContext(ctx, "requeued stale processing items", "count", requeued)
	}

	return requeued, nil
}

// GetItemForProcessing fetches an item without user scoping, for worker use.
func (r *PostgresItemRepository) GetItemForProcessing(ctx context.Context, itemID uuid.UUID) (*domain.Item, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1`,
		itemID,
	)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// RecordExtractionOutcome applies one processing verdict in a single
// transaction: append the attempt row, update content on success, and take
// the status edge. Two workers racing the same item can collide on
// the (item_id, attempt_no) uniqueness; the loser retries the whole
// transaction once and sees the item no longer processing.
func (r *PostgresItemRepository) RecordExtractionOutcome(ctx context.Context, outcome ExtractionOutcome) error {
	if r.pool == nil {
		return fmt.Errorf("database connection not available")
	}

	err := r.recordOutcomeTx(ctx, outcome)
	if isUniqueViolation(err) {
		r.logger.WarnContext(ctx, "attempt number collision, retrying", "item_id", outcome.ItemID)
		err = r.recordOutcomeTx(ctx, outcome)
	}
	return err
}

func (r *PostgresItemRepository) recordOutcomeTx(ctx context.Context, outcome ExtractionOutcome) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1
		FOR UPDATE`,
		outcome.ItemID,
	)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrItemNotFound
		}
		return fmt.Errorf("failed to lock item: %w", err)
	}

	if item.Status != domain.ItemStatusProcessing {
		return fmt.Errorf("%w: status is %s", domain.ErrItemStateConflict, item.Status)
	}

	var attemptNo int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(attempt_no), 0) + 1
		FROM extraction_attempts
		WHERE item_id = $1`,
		outcome.ItemID,
	).Scan(&attemptNo)
	if err != nil {
		return fmt.Errorf("failed to compute attempt number: %w", err)
	}

	var errorCode, errorDetail *string
	if outcome.ErrorCode != "" {
		errorCode = &outcome.ErrorCode
	}
	if outcome.ErrorDetail != "" {
		errorDetail = &outcome.ErrorDetail
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO extraction_attempts
			(id, item_id, attempt_no, started_at, finished_at, result, error_code, error_detail, http_status, final_url, content_length)
		VALUES ($1, $2, $3, $4, now(), $5, $6, $7, $8, $9, $10)`,
		uuid.New(), outcome.ItemID, attemptNo, outcome.StartedAt,
		outcome.Result, errorCode, errorDetail,
		outcome.HTTPStatus, outcome.FinalURL, outcome.ContentLength,
	)
	if err != nil {
		return fmt.Errorf("failed to insert extraction attempt: %w", err)
	}

	var finalTextSource *domain.FinalTextSource
	nextStatus := domain.ItemStatusNeedsUserText
	statusDetail := "We couldn't read this link. Please open it and paste the article text here."

	switch {
	case outcome.Result == domain.AttemptResultSuccess:
		src := domain.FinalTextExtractedFromURL
		finalTextSource = &src
		nextStatus = domain.ItemStatusSucceeded
		statusDetail = ""
		_, err = tx.Exec(ctx, `
			UPDATE item_content
			SET extracted_text = $2, canonical_text = $2, updated_at = now()
			WHERE item_id = $1`,
			outcome.ItemID, outcome.ExtractedText,
		)
		if err != nil {
			return fmt.Errorf("failed to store extracted text: %w", err)
		}
	case outcome.Retryable && attemptNo < outcome.MaxAttempts:
		nextStatus = domain.ItemStatusQueued
		statusDetail = "retrying: " + outcome.ErrorCode
	}

	var statusDetailArg *string
	if statusDetail != "" {
		statusDetailArg = &statusDetail
	}
	var title *string
	if outcome.Title != "" {
		title = &outcome.Title
	}

	_, err = tx.Exec(ctx, `
		UPDATE items
		SET status = $2,
		    status_detail = $3,
		    final_text_source = COALESCE($4, final_text_source),
		    title = COALESCE($5, title),
		    updated_at = now()
		WHERE id = $1`,
		outcome.ItemID, nextStatus, statusDetailArg, finalTextSource, title,
	)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "extraction outcome recorded",
		"item_id", outcome.ItemID,
		"attempt_no", attemptNo,
		"result", outcome.Result,
		"error_code", outcome.ErrorCode,
		"next_status", nextStatus,
	)

	return nil
}

// MarkItemFailed is the worker's last-resort edge for unexpected internal
// errors: it records an internal_error attempt and moves the item to the
// terminal failed status in one transaction.
func (r *PostgresItemRepository) MarkItemFailed(ctx context.Context, itemID uuid.UUID, detail string) error {
	if r.pool == nil {
		return fmt.Errorf("database connection not available")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var attemptNo int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(attempt_no), 0) + 1
		FROM extraction_attempts
		WHERE item_id = $1`,
		itemID,
	).Scan(&attemptNo)
	if err != nil {
		return fmt.Errorf("failed to compute attempt number: %w", err)
	}

	errorCode := domain.ErrCodeInternal
	_, err = tx.Exec(ctx, `
		INSERT INTO extraction_attempts
			(id, item_id, attempt_no, started_at, finished_at, result, error_code, error_detail)
		VALUES ($1, $2, $3, now(), now(), $4, $5, $6)`,
		uuid.New(), itemID, attemptNo, domain.AttemptResultError, errorCode, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to insert internal error attempt: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE items
		SET status = $2, status_detail = $3, updated_at = now()
		WHERE id = $1`,
		itemID, domain.ItemStatusFailed, "Internal error while processing.",
	)
	if err != nil {
		return fmt.Errorf("failed to mark item failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.ErrorContext(ctx, "item marked failed", "item_id", itemID, "detail", detail)

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
