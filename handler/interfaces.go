package handler

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../test/mocks/handler_mocks.go -package=mocks

// SummaryService is the summary engine surface the handler depends on.
type SummaryService interface {
	Summarize(ctx context.Context, userID, itemID uuid.UUID, rawModelKey string) (string, error)
}

// Nudger triggers one worker batch. Used for the optional inline dev nudge.
type Nudger interface {
	RunOnce(ctx context.Context) (int, error)
}
