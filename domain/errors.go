package domain

import "errors"

// Sentinel errors checked with errors.Is across layers. The HTTP boundary
// translates them to status codes in middleware.
var (
	// ErrItemNotFound indicates the item does not exist or is not visible to the caller.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemStateConflict indicates the item's current status forbids the operation.
	ErrItemStateConflict = errors.New("item is not in a valid status for this operation")

	// ErrCanonicalTextEmpty indicates a succeeded item has no usable canonical text.
	ErrCanonicalTextEmpty = errors.New("item has no canonical text")

	// ErrInvalidCursor indicates a malformed pagination cursor.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrInvalidModelKey indicates an unknown summary model tier.
	ErrInvalidModelKey = errors.New("invalid model_key")
)
