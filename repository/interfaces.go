package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"nudge-backend/domain"
)

//go:generate mockgen -source=interfaces.go -destination=../test/mocks/repository_mocks.go -package=mocks

// Pool is the subset of pgxpool.Pool the repositories use. pgxmock satisfies
// the same interface, which keeps repository tests off a live database.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// CreateItemParams carries the validated input for item creation. Exactly one
// of URL and PastedText may be empty.
type CreateItemParams struct {
	UserID           uuid.UUID
	URL              string
	PastedText       string
	PreferPastedText bool
}

// ListItemsParams is a scoped keyset page request.
type ListItemsParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *domain.Cursor
}

// ExtractionOutcome is the worker's verdict on one processing pass, applied
// atomically: the attempt row, the content update, and the status edge land
// in a single transaction. The store decides the next status itself because
// the retry bound depends on the attempt number computed inside that
// transaction.
type ExtractionOutcome struct {
	ItemID        uuid.UUID
	Result        string // domain.AttemptResultSuccess or domain.AttemptResultError
	ErrorCode     string
	ErrorDetail   string
	HTTPStatus    *int
	FinalURL      *string
	ContentLength *int
	ExtractedText string
	Title         string
	Retryable     bool
	MaxAttempts   int
	StartedAt     time.Time
}

// ItemRepository persists items, their content, and extraction attempts.
type ItemRepository interface {
	CreateItem(ctx context.Context, params CreateItemParams) (*domain.Item, error)
	GetItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Item, error)
	GetItemContent(ctx context.Context, itemID uuid.UUID) (*domain.ItemContent, error)
	ListItems(ctx context.Context, params ListItemsParams) ([]domain.Item, *domain.Cursor, error)
	PatchItemText(ctx context.Context, userID, itemID uuid.UUID, pastedText string) (*domain.Item, error)

	ClaimQueuedBatch(ctx context.Context, limit int) ([]domain.Item, error)
	RequeueStaleProcessing(ctx context.Context, olderThan time.Duration) (int, error)
	GetItemForProcessing(ctx context.Context, itemID uuid.UUID) (*domain.Item, error)
	RecordExtractionOutcome(ctx context.Context, outcome ExtractionOutcome) error
	MarkItemFailed(ctx context.Context, itemID uuid.UUID, detail string) error
}

// ReserveAttemptParams opens a summary attempt as a failed placeholder row.
type ReserveAttemptParams struct {
	ItemID        uuid.UUID
	ModelKey      domain.ModelKey
	Provider      string
	Model         string
	PromptVersion string
}

// CompleteAttemptParams flips the reserved attempt and stores the summary.
type CompleteAttemptParams struct {
	AttemptID          uuid.UUID
	ItemID             uuid.UUID
	UserID             uuid.UUID
	ModelKey           domain.ModelKey
	Provider           string
	Model              string
	PromptVersion      string
	InputCharsOriginal int
	InputCharsUsed     int
	OutputWords        int
	SummaryText        string
	LatencyMS          int64
}

// SummaryRepository persists summary attempts and generated summaries.
type SummaryRepository interface {
	ReserveAttempt(ctx context.Context, params ReserveAttemptParams) (*domain.SummaryAttempt, error)
	CompleteAttempt(ctx context.Context, params CompleteAttemptParams) (*domain.ItemSummary, error)
	FailAttempt(ctx context.Context, attemptID uuid.UUID, detail string, latencyMS int64) error
}

// UserRepository creates user rows lazily from authenticated identifiers.
type UserRepository interface {
	EnsureUser(ctx context.Context, userID uuid.UUID) error
}
