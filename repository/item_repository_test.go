package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nudge-backend/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var itemColumnList = []string{
	"id", "user_id", "status", "status_detail", "source_type",
	"requested_url", "final_text_source", "title", "created_at", "updated_at",
}

func itemRow(item *domain.Item) *pgxmock.Rows {
	return pgxmock.NewRows(itemColumnList).AddRow(
		item.ID, item.UserID, item.Status, item.StatusDetail, item.SourceType,
		item.RequestedURL, item.FinalTextSource, item.Title, item.CreatedAt, item.UpdatedAt,
	)
}

func queuedURLItem(userID uuid.UUID, url string) *domain.Item {
	now := time.Now().UTC()
	return &domain.Item{
		ID:           uuid.New(),
		UserID:       userID,
		Status:       domain.ItemStatusQueued,
		SourceType:   domain.ItemSourceURL,
		RequestedURL: &url,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestGetItem(t *testing.T) {
	userID := uuid.New()

	t.Run("should return the item scoped to its owner", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		want := queuedURLItem(userID, "https://example.com/a")

		mockPool.ExpectQuery(`WHERE id = \$1 AND user_id = \$2`).
			WithArgs(want.ID, userID).
			WillReturnRows(itemRow(want))

		repo := NewPostgresItemRepository(mockPool, testLogger())
		got, err := repo.GetItem(context.Background(), userID, want.ID)
		require.NoError(t, err)

		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, domain.ItemStatusQueued, got.Status)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should map no rows to ErrItemNotFound", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		itemID := uuid.New()
		mockPool.ExpectQuery(`WHERE id = \$1 AND user_id = \$2`).
			WithArgs(itemID, userID).
			WillReturnError(pgx.ErrNoRows)

		repo := NewPostgresItemRepository(mockPool, testLogger())
		_, err = repo.GetItem(context.Background(), userID, itemID)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("should reject a nil pool", func(t *testing.T) {
		repo := NewPostgresItemRepository(nil, testLogger())
		_, err := repo.GetItem(context.Background(), userID, uuid.New())
		assert.Error(t, err)
	})
}

func TestCreateItem(t *testing.T) {
	userID := uuid.New()

	t.Run("should create a queued url item and keep the paste as fallback", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		url := "https://example.com/article"
		pasted := "fallback text"
		want := queuedURLItem(userID, url)

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`INSERT INTO items`).
			WithArgs(pgxmock.AnyArg(), userID, domain.ItemStatusQueued, (*string)(nil),
				domain.ItemSourceURL, &url, (*domain.FinalTextSource)(nil)).
			WillReturnRows(itemRow(want))
		mockPool.ExpectExec(`INSERT INTO item_content`).
			WithArgs(pgxmock.AnyArg(), &pasted, (*string)(nil)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		got, err := repo.CreateItem(context.Background(), CreateItemParams{
			UserID:     userID,
			URL:        url,
			PastedText: pasted,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.ItemStatusQueued, got.Status)
		assert.Equal(t, domain.ItemSourceURL, got.SourceType)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should create a succeeded pasted item when no url is given", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		pasted := "the full article text"
		src := domain.FinalTextUserPastedText
		now := time.Now().UTC()
		want := &domain.Item{
			ID:              uuid.New(),
			UserID:          userID,
			Status:          domain.ItemStatusSucceeded,
			SourceType:      domain.ItemSourcePastedText,
			FinalTextSource: &src,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`INSERT INTO items`).
			WithArgs(pgxmock.AnyArg(), userID, domain.ItemStatusSucceeded, (*string)(nil),
				domain.ItemSourcePastedText, (*string)(nil), &src).
			WillReturnRows(itemRow(want))
		mockPool.ExpectExec(`INSERT INTO item_content`).
			WithArgs(pgxmock.AnyArg(), &pasted, &pasted).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		got, err := repo.CreateItem(context.Background(), CreateItemParams{
			UserID:     userID,
			PastedText: pasted,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.ItemStatusSucceeded, got.Status)
		assert.Equal(t, domain.ItemSourcePastedText, got.SourceType)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should prefer the paste when both inputs arrive with the preference flag", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		pasted := "pasted wins"
		src := domain.FinalTextUserPastedText
		now := time.Now().UTC()
		want := &domain.Item{
			ID:              uuid.New(),
			UserID:          userID,
			Status:          domain.ItemStatusSucceeded,
			SourceType:      domain.ItemSourcePastedText,
			FinalTextSource: &src,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`INSERT INTO items`).
			WithArgs(pgxmock.AnyArg(), userID, domain.ItemStatusSucceeded, (*string)(nil),
				domain.ItemSourcePastedText, (*string)(nil), &src).
			WillReturnRows(itemRow(want))
		mockPool.ExpectExec(`INSERT INTO item_content`).
			WithArgs(pgxmock.AnyArg(), &pasted, &pasted).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		got, err := repo.CreateItem(context.Background(), CreateItemParams{
			UserID:           userID,
			URL:              "https://example.com/also-here",
			PastedText:       pasted,
			PreferPastedText: true,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ItemStatusSucceeded, got.Status)
	})
}

func TestListItems(t *testing.T) {
	userID := uuid.New()

	t.Run("should return a full page with a next cursor", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		first := queuedURLItem(userID, "https://example.com/1")
		second := queuedURLItem(userID, "https://example.com/2")
		third := queuedURLItem(userID, "https://example.com/3")

		rows := pgxmock.NewRows(itemColumnList)
		for _, item := range []*domain.Item{first, second, third} {
			rows.AddRow(
				item.ID, item.UserID, item.Status, item.StatusDetail, item.SourceType,
				item.RequestedURL, item.FinalTextSource, item.Title, item.CreatedAt, item.UpdatedAt,
			)
		}

		mockPool.ExpectQuery(`ORDER BY created_at DESC, id DESC LIMIT \$2`).
			WithArgs(userID, 3).
			WillReturnRows(rows)

		repo := NewPostgresItemRepository(mockPool, testLogger())
		items, next, err := repo.ListItems(context.Background(), ListItemsParams{UserID: userID, Limit: 2})
		require.NoError(t, err)

		assert.Len(t, items, 2)
		require.NotNil(t, next)
		assert.Equal(t, second.ID, next.ID)
		assert.True(t, next.CreatedAt.Equal(second.CreatedAt))
	})

	t.Run("should apply the keyset condition when a cursor is given", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		cursor := &domain.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}

		mockPool.ExpectQuery(`AND \(created_at, id\) < \(\$2, \$3\)`).
			WithArgs(userID, cursor.CreatedAt, cursor.ID, 21).
			WillReturnRows(pgxmock.NewRows(itemColumnList))

		repo := NewPostgresItemRepository(mockPool, testLogger())
		items, next, err := repo.ListItems(context.Background(), ListItemsParams{
			UserID: userID, Limit: 20, Cursor: cursor,
		})
		require.NoError(t, err)

		assert.Empty(t, items)
		assert.Nil(t, next)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPatchItemText(t *testing.T) {
	userID := uuid.New()

	t.Run("should replace canonical text and succeed the item", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		item := queuedURLItem(userID, "https://example.com/a")
		item.Status = domain.ItemStatusNeedsUserText

		updated := *item
		updated.Status = domain.ItemStatusSucceeded
		src := domain.FinalTextUserPastedText
		updated.FinalTextSource = &src

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`FOR UPDATE`).
			WithArgs(item.ID, userID).
			WillReturnRows(itemRow(item))
		mockPool.ExpectExec(`UPDATE item_content`).
			WithArgs(item.ID, "pasted body").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectQuery(`UPDATE items`).
			WithArgs(item.ID, domain.ItemStatusSucceeded, domain.FinalTextUserPastedText).
			WillReturnRows(itemRow(&updated))
		mockPool.ExpectCommit()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		got, err := repo.PatchItemText(context.Background(), userID, item.ID, "pasted body")
		require.NoError(t, err)

		assert.Equal(t, domain.ItemStatusSucceeded, got.Status)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should conflict for every status except needs_user_text", func(t *testing.T) {
		for _, status := range []domain.ItemStatus{
			domain.ItemStatusQueued,
			domain.ItemStatusProcessing,
			domain.ItemStatusSucceeded,
			domain.ItemStatusFailed,
		} {
			mockPool, err := pgxmock.NewPool()
			require.NoError(t, err)

			item := queuedURLItem(userID, "https://example.com/a")
			item.Status = status

			mockPool.ExpectBegin()
			mockPool.ExpectQuery(`FOR UPDATE`).
				WithArgs(item.ID, userID).
				WillReturnRows(itemRow(item))
			mockPool.ExpectRollback()

			repo := NewPostgresItemRepository(mockPool, testLogger())
			_, err = repo.PatchItemText(context.Background(), userID, item.ID, "pasted body")
			assert.ErrorIs(t, err, domain.ErrItemStateConflict, "status %s", status)

			mockPool.Close()
		}
	})

	t.Run("should map a missing item to ErrItemNotFound", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		itemID := uuid.New()

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`FOR UPDATE`).
			WithArgs(itemID, userID).
			WillReturnError(pgx.ErrNoRows)
		mockPool.ExpectRollback()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		_, err = repo.PatchItemText(context.Background(), userID, itemID, "pasted body")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestClaimQueuedBatch(t *testing.T) {
	t.Run("should return nil for an empty queue", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`FOR UPDATE SKIP LOCKED`).
			WithArgs(domain.ItemStatusQueued, domain.ItemSourceURL, 5).
			WillReturnRows(pgxmock.NewRows([]string{"id"}))
		mockPool.ExpectCommit()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		claimed, err := repo.ClaimQueuedBatch(context.Background(), 5)
		require.NoError(t, err)

		assert.Nil(t, claimed)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should move claimed items to processing", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		userID := uuid.New()
		item := queuedURLItem(userID, "https://example.com/a")
		claimedItem := *item
		claimedItem.Status = domain.ItemStatusProcessing

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`FOR UPDATE SKIP LOCKED`).
			WithArgs(domain.ItemStatusQueued, domain.ItemSourceURL, 5).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(item.ID))
		mockPool.ExpectQuery(`UPDATE items`).
			WithArgs(domain.ItemStatusProcessing, "processing", []uuid.UUID{item.ID}).
			WillReturnRows(itemRow(&claimedItem))
		mockPool.ExpectCommit()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		claimed, err := repo.ClaimQueuedBatch(context.Background(), 5)
		require.NoError(t, err)

		require.Len(t, claimed, 1)
		assert.Equal(t, domain.ItemStatusProcessing, claimed[0].Status)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestRequeueStaleProcessing(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectExec(`UPDATE items`).
		WithArgs(domain.ItemStatusQueued, "requeued after stale processing",
			domain.ItemStatusProcessing, "15m0s").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	repo := NewPostgresItemRepository(mockPool, testLogger())
	requeued, err := repo.RequeueStaleProcessing(context.Background(), 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 3, requeued)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRecordExtractionOutcome(t *testing.T) {
	userID := uuid.New()

	processingItem := func(url string) *domain.Item {
		item := queuedURLItem(userID, url)
		item.Status = domain.ItemStatusProcessing
		return item
	}

	t.Run("should store text and succeed the item on success", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		item := processingItem("https://example.com/a")
		finalURL := "https://example.com/a"
		status := 200
		length := 4096
		title := "Example Article"
		extracted := "the extracted text"
		src := domain.FinalTextExtractedFromURL

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`FOR UPDATE`).
			WithArgs(item.ID).
			WillReturnRows(itemRow(item))
		mockPool.ExpectQuery(`COALESCE\(MAX\(attempt_no\), 0\) \+ 1`).
			WithArgs(item.ID).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(1))
		mockPool.ExpectExec(`INSERT INTO extraction_attempts`).
			WithArgs(pgxmock.AnyArg(), item.ID, 1, pgxmock.AnyArg(),
				domain.AttemptResultSuccess, (*string)(nil), (*string)(nil),
				&status, &finalURL, &length).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectExec(`UPDATE item_content`).
			WithArgs(item.ID, extracted).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectExec(`UPDATE items`).
			WithArgs(item.ID, domain.ItemStatusSucceeded, (*string)(nil), &src, &title).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectCommit()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		err = repo.RecordExtractionOutcome(context.Background(), ExtractionOutcome{
			ItemID:        item.ID,
			Result:        domain.AttemptResultSuccess,
			HTTPStatus:    &status,
			FinalURL:      &finalURL,
			ContentLength: &length,
			ExtractedText: extracted,
			Title:         title,
			MaxAttempts:   2,
			StartedAt:     time.Now().UTC(),
		})
		require.NoError(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should requeue a retryable error below the attempt cap", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		item := processingItem("https://example.com/a")
		errorCode := "http_503"
		errorDetail := "Upstream returned HTTP 503."
		retryDetail := "retrying: http_503"
		status := 503

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`FOR UPDATE`).
			WithArgs(item.ID).
			WillReturnRows(itemRow(item))
		mockPool.ExpectQuery(`COALESCE\(MAX\(attempt_no\), 0\) \+ 1`).
			WithArgs(item.ID).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(1))
		mockPool.ExpectExec(`INSERT INTO extraction_attempts`).
			WithArgs(pgxmock.AnyArg(), item.ID, 1, pgxmock.AnyArg(),
				domain.AttemptResultError, &errorCode, &errorDetail,
				&status, (*string)(nil), (*int)(nil)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectExec(`UPDATE items`).
			WithArgs(item.ID, domain.ItemStatusQueued, &retryDetail,
				(*domain.FinalTextSource)(nil), (*string)(nil)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectCommit()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		err = repo.RecordExtractionOutcome(context.Background(), ExtractionOutcome{
			ItemID:      item.ID,
			Result:      domain.AttemptResultError,
			ErrorCode:   errorCode,
			ErrorDetail: errorDetail,
			HTTPStatus:  &status,
			Retryable:   true,
			MaxAttempts: 2,
			StartedAt:   time.Now().UTC(),
		})
		require.NoError(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should give up to needs_user_text once attempts are exhausted", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		item := processingItem("https://example.com/a")
		errorCode := "timeout"
		errorDetail := "context deadline exceeded"
		giveUp := "We couldn't read this link. Please open it and paste the article text here."

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`FOR UPDATE`).
			WithArgs(item.ID).
			WillReturnRows(itemRow(item))
		mockPool.ExpectQuery(`COALESCE\(MAX\(attempt_no\), 0\) \+ 1`).
			WithArgs(item.ID).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(2))
		mockPool.ExpectExec(`INSERT INTO extraction_attempts`).
			WithArgs(pgxmock.AnyArg(), item.ID, 2, pgxmock.AnyArg(),
				domain.AttemptResultError, &errorCode, &errorDetail,
				(*int)(nil), (*string)(nil), (*int)(nil)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectExec(`UPDATE items`).
			WithArgs(item.ID, domain.ItemStatusNeedsUserText, &giveUp,
				(*domain.FinalTextSource)(nil), (*string)(nil)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectCommit()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		err = repo.RecordExtractionOutcome(context.Background(), ExtractionOutcome{
			ItemID:      item.ID,
			Result:      domain.AttemptResultError,
			ErrorCode:   errorCode,
			ErrorDetail: errorDetail,
			Retryable:   true,
			MaxAttempts: 2,
			StartedAt:   time.Now().UTC(),
		})
		require.NoError(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should conflict when the item is no longer processing", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		item := queuedURLItem(userID, "https://example.com/a")

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`FOR UPDATE`).
			WithArgs(item.ID).
			WillReturnRows(itemRow(item))
		mockPool.ExpectRollback()

		repo := NewPostgresItemRepository(mockPool, testLogger())
		err = repo.RecordExtractionOutcome(context.Background(), ExtractionOutcome{
			ItemID:      item.ID,
			Result:      domain.AttemptResultError,
			ErrorCode:   "timeout",
			MaxAttempts: 2,
			StartedAt:   time.Now().UTC(),
		})
		assert.ErrorIs(t, err, domain.ErrItemStateConflict)
	})
}

func TestMarkItemFailed(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	itemID := uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`COALESCE\(MAX\(attempt_no\), 0\) \+ 1`).
		WithArgs(itemID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(1))
	mockPool.ExpectExec(`INSERT INTO extraction_attempts`).
		WithArgs(pgxmock.AnyArg(), itemID, 1, domain.AttemptResultError,
			domain.ErrCodeInternal, "panic: boom").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(`UPDATE items`).
		WithArgs(itemID, domain.ItemStatusFailed, "Internal error while processing.").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	repo := NewPostgresItemRepository(mockPool, testLogger())
	err = repo.MarkItemFailed(context.Background(), itemID, "panic: boom")
	require.NoError(t, err)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("plain error")))
}
