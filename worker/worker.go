package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nudge-backend/config"
	"nudge-backend/domain"
	"nudge-backend/extractor"
	"nudge-backend/fetcher"
	"nudge-backend/repository"
)

// Fetcher is the network surface the worker needs; tests stub it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) fetcher.Result
}

// Extractor turns fetched HTML into readable text or an error code.
type Extractor interface {
	Extract(body []byte) (string, string)
}

// Worker drives queued URL items through fetch and extraction. One worker
// processes its claimed batch sequentially; parallelism comes from running
// multiple worker processes against the same queue.
type Worker struct {
	itemRepo  repository.ItemRepository
	fetcher   Fetcher
	extractor Extractor
	cfg       config.WorkerConfig
	logger    *slog.Logger
}

func New(
	itemRepo repository.ItemRepository,
	f Fetcher,
	e Extractor,
	cfg config.WorkerConfig,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		itemRepo:  itemRepo,
		fetcher:   f,
		extractor: e,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run polls until the context is cancelled. An empty queue sleeps the full
// poll interval; a productive batch yields briefly and claims again.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "worker started",
		"poll_interval", w.cfg.PollInterval,
		"batch_size", w.cfg.BatchSize,
		"max_attempts", w.cfg.MaxAttempts,
	)

	for {
		processed, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.ErrorContext(ctx, "worker batch failed", "error", err)
		}

		wait := w.cfg.PollInterval
		if processed > 0 {
			wait = 100 * time.Millisecond
		}

		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "worker stopped")
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// RunOnce performs one claim-and-process batch: stale recovery, claim, then
// sequential processing of the claimed items. Returns the number of items
// processed.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	requeued, err := w.itemRepo.RequeueStaleProcessing(ctx, w.cfg.StaleProcessing)
	if err != nil {
		return 0, fmt.Errorf("stale recovery failed: %w", err)
	}
	if requeued > 0 {
		w.logger.InfoContext(ctx, "stale items requeued", "count", requeued)
	}

	claimed, err := w.itemRepo.ClaimQueuedBatch(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claim failed: %w", err)
	}

	for _, item := range claimed {
		w.processItemSafe(ctx, item.ID)
	}

	return len(claimed), nil
}

// processItemSafe keeps a single bad item from taking down the loop: any
// error or panic becomes a terminal failed status on that item.
func (w *Worker) processItemSafe(ctx context.Context, itemID uuid.UUID) {
	defer func() {
		if rec := recover(); rec != nil {
			w.logger.ErrorContext(ctx, "panic while processing item", "item_id", itemID, "panic", rec)
			w.failItem(ctx, itemID, fmt.Sprintf("panic: %v", rec))
		}
	}()

	if err := w.processItem(ctx, itemID); err != nil {
		w.logger.ErrorContext(ctx, "internal error while processing item", "item_id", itemID, "error", err)
		w.failItem(ctx, itemID, err.Error())
	}
}

func (w *Worker) failItem(ctx context.Context, itemID uuid.UUID, detail string) {
	if err := w.itemRepo.MarkItemFailed(ctx, itemID, fetcher.ShortDetail(detail)); err != nil {
		w.logger.ErrorContext(ctx, "failed to persist internal error", "item_id", itemID, "error", err)
	}
}

func (w *Worker) processItem(ctx context.Context, itemID uuid.UUID) error {
	startedAt := time.Now().UTC()

	item, err := w.itemRepo.GetItemForProcessing(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			w.logger.WarnContext(ctx, "claimed item vanished, skipping", "item_id", itemID)
			return nil
		}
		return err
	}

	if item.SourceType != domain.ItemSourceURL {
		w.logger.InfoContext(ctx, "item is not a url submission, skipping",
			"item_id", itemID, "source_type", item.SourceType)
		return nil
	}

	// Another worker (or the stale sweep) may own the item by now.
	if item.Status != domain.ItemStatusProcessing {
		w.logger.InfoContext(ctx, "item no longer processing, skipping",
			"item_id", itemID, "status", item.Status)
		return nil
	}

	if item.RequestedURL == nil || *item.RequestedURL == "" {
		return w.recordOutcome(ctx, repository.ExtractionOutcome{
			ItemID:      itemID,
			Result:      domain.AttemptResultError,
			ErrorCode:   domain.ErrCodeMissingLink,
			ErrorDetail: "Missing link on item.",
			StartedAt:   startedAt,
		})
	}

	// Network and extraction run with no database locks held.
	res := w.fetcher.Fetch(ctx, *item.RequestedURL)

	outcome := repository.ExtractionOutcome{
		ItemID:     itemID,
		HTTPStatus: res.HTTPStatus,
		StartedAt:  startedAt,
	}
	if res.FinalURL != "" {
		outcome.FinalURL = &res.FinalURL
	}
	if res.Body != nil {
		length := len(res.Body)
		outcome.ContentLength = &length
	}

	if !res.OK {
		outcome.Result = domain.AttemptResultError
		outcome.ErrorCode = res.ErrorCode
		outcome.ErrorDetail = res.ErrorDetail
		outcome.Retryable = res.Retryable
		return w.recordOutcome(ctx, outcome)
	}

	text, errorCode := w.extractor.Extract(res.Body)
	if errorCode != "" {
		outcome.Result = domain.AttemptResultError
		outcome.ErrorCode = errorCode
		switch errorCode {
		case domain.ErrCodeTooShort:
			outcome.ErrorDetail = "We couldn't extract enough readable text from this page."
		default:
			outcome.ErrorDetail = "We couldn't extract readable text from this page."
		}
		return w.recordOutcome(ctx, outcome)
	}

	outcome.Result = domain.AttemptResultSuccess
	outcome.ExtractedText = text
	outcome.Title = extractor.ExtractTitle(res.Body)
	return w.recordOutcome(ctx, outcome)
}

func (w *Worker) recordOutcome(ctx context.Context, outcome repository.ExtractionOutcome) error {
	outcome.MaxAttempts = w.cfg.MaxAttempts
	outcome.ErrorDetail = fetcher.ShortDetail(outcome.ErrorDetail)

	err := w.itemRepo.RecordExtractionOutcome(ctx, outcome)
	if err == nil {
		return nil
	}
	// A state conflict means the stale sweep or another worker won the race;
	// that is an expected skip, not an internal failure.
	if errors.Is(err, domain.ErrItemStateConflict) || errors.Is(err, domain.ErrItemNotFound) {
		w.logger.WarnContext(ctx, "outcome discarded, item changed hands",
			"item_id", outcome.ItemID, "error", err)
		return nil
	}
	return err
}
