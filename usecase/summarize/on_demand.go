package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"nudge-backend/config"
	"nudge-backend/domain"
	"nudge-backend/llm"
	"nudge-backend/repository"
)

// Engine handles on-demand summary generation for succeeded items.
//
// The flow is synchronous: validate preconditions, truncate input, reserve an
// attempt row, call the model, persist the summary and flip the attempt. The
// reservation is written before the model call so a crash mid-call still
// leaves an honest failed attempt behind.
type Engine struct {
	itemRepo    repository.ItemRepository
	summaryRepo repository.SummaryRepository
	summarizer  llm.Summarizer
	summaryCfg  config.SummaryConfig
	llmCfg      config.LLMConfig
	logger      *slog.Logger
}

func NewEngine(
	itemRepo repository.ItemRepository,
	summaryRepo repository.SummaryRepository,
	summarizer llm.Summarizer,
	summaryCfg config.SummaryConfig,
	llmCfg config.LLMConfig,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		itemRepo:    itemRepo,
		summaryRepo: summaryRepo,
		summarizer:  summarizer,
		summaryCfg:  summaryCfg,
		llmCfg:      llmCfg,
		logger:      logger,
	}
}

// Summarize generates and persists a summary for the item, returning the
// normalized plain-text body. rawModelKey may be empty, selecting the
// configured default tier.
func (e *Engine) Summarize(ctx context.Context, userID, itemID uuid.UUID, rawModelKey string) (string, error) {
	key := e.llmCfg.DefaultModelKey
	if rawModelKey != "" {
		parsed, err := domain.ParseModelKey(rawModelKey)
		if err != nil {
			return "", err
		}
		key = parsed
	}

	item, err := e.itemRepo.GetItem(ctx, userID, itemID)
	if err != nil {
		return "", err
	}

	if item.Status != domain.ItemStatusSucceeded {
		return "", fmt.Errorf("%w: status is %s", domain.ErrItemStateConflict, item.Status)
	}

	content, err := e.itemRepo.GetItemContent(ctx, itemID)
	if err != nil {
		return "", err
	}
	if content.CanonicalText == nil || strings.TrimSpace(*content.CanonicalText) == "" {
		return "", domain.ErrCanonicalTextEmpty
	}

	canonical := *content.CanonicalText
	original := []rune(canonical)
	inputCharsOriginal := len(original)

	truncated := canonical
	if inputCharsOriginal > e.summaryCfg.MaxInputChars {
		truncated = string(original[:e.summaryCfg.MaxInputChars])
	}
	inputCharsUsed := len([]rune(truncated))

	tier := e.llmCfg.Tier(key)

	// Reserve the attempt number before calling the model. A failed
	// reservation is logged and skipped; the summary call still proceeds.
	attempt, err := e.summaryRepo.ReserveAttempt(ctx, repository.ReserveAttemptParams{
		ItemID:        itemID,
		ModelKey:      key,
		Provider:      tier.Provider,
		Model:         tier.Model,
		PromptVersion: e.summaryCfg.PromptVersion,
	})
	if err != nil {
		e.logger.WarnContext(ctx, "failed to reserve summary attempt, proceeding",
			"item_id", itemID, "model_key", key, "error", err)
		attempt = nil
	}

	start := time.Now()

	result, err := e.summarizer.Summarize(ctx, truncated, key, e.summaryCfg.PromptVersion)
	if err != nil {
		e.failAttempt(ctx, attempt, err, start)
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	normalized, outputWords := e.normalizeOutput(result.Text)

	params := repository.CompleteAttemptParams{
		ItemID:             itemID,
		UserID:             userID,
		ModelKey:           key,
		Provider:           result.Provider,
		Model:              result.Model,
		PromptVersion:      e.summaryCfg.PromptVersion,
		InputCharsOriginal: inputCharsOriginal,
		InputCharsUsed:     inputCharsUsed,
		OutputWords:        outputWords,
		SummaryText:        normalized,
		LatencyMS:          result.LatencyMS,
	}
	if attempt != nil {
		params.AttemptID = attempt.ID
	}

	if _, err := e.summaryRepo.CompleteAttempt(ctx, params); err != nil {
		e.failAttempt(ctx, attempt, err, start)
		return "", fmt.Errorf("failed to persist summary: %w", err)
	}

	e.logger.InfoContext(ctx, "summary completed",
		"item_id", itemID,
		"model_key", key,
		"input_chars_used", inputCharsUsed,
		"output_words", outputWords,
	)

	return normalized, nil
}

// normalizeOutput trims the model text and enforces the word cap by
// whitespace tokenization.
func (e *Engine) normalizeOutput(text string) (string, int) {
	trimmed := strings.TrimSpace(text)
	words := strings.Fields(trimmed)
	if len(words) <= e.summaryCfg.WordCap {
		// Under the cap; keep the model's own formatting.
		return trimmed, len(words)
	}
	words = words[:e.summaryCfg.WordCap]
	return strings.Join(words, " "), len(words)
}

func (e *Engine) failAttempt(ctx context.Context, attempt *domain.SummaryAttempt, cause error, start time.Time) {
	if attempt == nil {
		return
	}
	detail := shortDetail(cause.Error())
	if err := e.summaryRepo.FailAttempt(ctx, attempt.ID, detail, time.Since(start).Milliseconds()); err != nil {
		e.logger.ErrorContext(ctx, "failed to record summary attempt failure",
			"attempt_id", attempt.ID, "error", err)
	}
}

func shortDetail(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) <= 180 {
		return msg
	}
	return msg[:177] + "..."
}
