package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the lifecycle state of an item. Transitions are applied
// exclusively by repository operations so every edge is taken inside a
// single short transaction.
type ItemStatus string

const (
	ItemStatusQueued        ItemStatus = "queued"
	ItemStatusProcessing    ItemStatus = "processing"
	ItemStatusNeedsUserText ItemStatus = "needs_user_text"
	ItemStatusSucceeded     ItemStatus = "succeeded"
	ItemStatusFailed        ItemStatus = "failed"
)

// Terminal reports whether no further worker-driven transition may touch the item.
func (s ItemStatus) Terminal() bool {
	return s == ItemStatusSucceeded || s == ItemStatusFailed
}

// ItemSourceType records how the item entered the system. Immutable after creation.
type ItemSourceType string

const (
	ItemSourceURL        ItemSourceType = "url"
	ItemSourcePastedText ItemSourceType = "pasted_text"
)

// FinalTextSource records which path produced the canonical text.
type FinalTextSource string

const (
	FinalTextExtractedFromURL FinalTextSource = "extracted_from_url"
	FinalTextUserPastedText   FinalTextSource = "user_pasted_text"
)

// Item is the unit of ingestion: a submitted link or pasted article text.
type Item struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          ItemStatus
	StatusDetail    *string
	SourceType      ItemSourceType
	RequestedURL    *string
	FinalTextSource *FinalTextSource
	Title           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemContent is the 1:1 content row for an item. CanonicalText is the single
// authoritative input for downstream consumers.
type ItemContent struct {
	ItemID         uuid.UUID
	UserPastedText *string
	ExtractedText  *string
	CanonicalText  *string
	UpdatedAt      time.Time
}

// User owns items. Rows are created lazily the first time an identifier is seen.
type User struct {
	ID        uuid.UUID
	CreatedAt time.Time
}
