package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nudge-backend/domain"
)

func TestReserveAttempt(t *testing.T) {
	t.Run("should insert the failed placeholder with the next attempt number", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		itemID := uuid.New()
		provider := "ollama"
		model := "gemma3:4b"
		now := time.Now().UTC()

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`WHERE item_id = \$1 AND model_key = \$2`).
			WithArgs(itemID, domain.ModelKeyMid).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(3))
		mockPool.ExpectQuery(`INSERT INTO summary_attempts`).
			WithArgs(pgxmock.AnyArg(), itemID, 3, domain.ModelKeyMid,
				&provider, &model, "v0", domain.SummaryAttemptFailed, "in_progress").
			WillReturnRows(pgxmock.NewRows([]string{"started_at", "created_at"}).AddRow(now, now))
		mockPool.ExpectCommit()

		repo := NewPostgresSummaryRepository(mockPool, testLogger())
		attempt, err := repo.ReserveAttempt(context.Background(), ReserveAttemptParams{
			ItemID:        itemID,
			ModelKey:      domain.ModelKeyMid,
			Provider:      provider,
			Model:         model,
			PromptVersion: "v0",
		})
		require.NoError(t, err)

		assert.Equal(t, 3, attempt.AttemptNo)
		assert.Equal(t, domain.SummaryAttemptFailed, attempt.Status)
		assert.Equal(t, domain.ModelKeyMid, attempt.ModelKey)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should reject a nil pool", func(t *testing.T) {
		repo := NewPostgresSummaryRepository(nil, testLogger())
		_, err := repo.ReserveAttempt(context.Background(), ReserveAttemptParams{})
		assert.Error(t, err)
	})
}

func TestCompleteAttempt(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("should store the summary and flip the reserved attempt", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		attemptID := uuid.New()
		provider := "ollama"
		model := "gemma3:4b"
		now := time.Now().UTC()

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`INSERT INTO item_summaries`).
			WithArgs(pgxmock.AnyArg(), itemID, userID, domain.ModelKeyStrong,
				&provider, &model, "v0", 25000, 20000, 118, "the summary text").
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
		mockPool.ExpectExec(`UPDATE summary_attempts`).
			WithArgs(attemptID, domain.SummaryAttemptSucceeded, int64(812)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectCommit()

		repo := NewPostgresSummaryRepository(mockPool, testLogger())
		summary, err := repo.CompleteAttempt(context.Background(), CompleteAttemptParams{
			AttemptID:          attemptID,
			ItemID:             itemID,
			UserID:             userID,
			ModelKey:           domain.ModelKeyStrong,
			Provider:           provider,
			Model:              model,
			PromptVersion:      "v0",
			InputCharsOriginal: 25000,
			InputCharsUsed:     20000,
			OutputWords:        118,
			SummaryText:        "the summary text",
			LatencyMS:          812,
		})
		require.NoError(t, err)

		assert.Equal(t, "the summary text", summary.SummaryText)
		assert.Equal(t, 118, summary.OutputWords)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should skip the flip when the reservation was never made", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		now := time.Now().UTC()

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`INSERT INTO item_summaries`).
			WithArgs(pgxmock.AnyArg(), itemID, userID, domain.ModelKeyMid,
				(*string)(nil), (*string)(nil), "v0", 100, 100, 10, "short summary").
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
		mockPool.ExpectCommit()

		repo := NewPostgresSummaryRepository(mockPool, testLogger())
		_, err = repo.CompleteAttempt(context.Background(), CompleteAttemptParams{
			ItemID:             itemID,
			UserID:             userID,
			ModelKey:           domain.ModelKeyMid,
			PromptVersion:      "v0",
			InputCharsOriginal: 100,
			InputCharsUsed:     100,
			OutputWords:        10,
			SummaryText:        "short summary",
		})
		require.NoError(t, err)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestFailAttempt(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	attemptID := uuid.New()

	mockPool.ExpectExec(`UPDATE summary_attempts`).
		WithArgs(attemptID, "model call failed", int64(412)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewPostgresSummaryRepository(mockPool, testLogger())
	err = repo.FailAttempt(context.Background(), attemptID, "model call failed", 412)
	require.NoError(t, err)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
