package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cursor is the keyset-pagination position for item listings, ordered by
// (created_at DESC, id DESC). The wire format is "<RFC3339Nano>|<uuid>" and
// is opaque to clients.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode serializes the cursor for clients.
func (c Cursor) Encode() string {
	return c.CreatedAt.Format(time.RFC3339Nano) + "|" + c.ID.String()
}

// DecodeCursor parses a client-supplied cursor. Any malformed input maps to
// ErrInvalidCursor so the API can answer 400 without leaking parse details.
func DecodeCursor(raw string) (Cursor, error) {
	ts, id, found := strings.Cut(raw, "|")
	if !found {
		return Cursor{}, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: bad timestamp: %v", ErrInvalidCursor, err)
	}

	itemID, err := uuid.Parse(id)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: bad id: %v", ErrInvalidCursor, err)
	}

	return Cursor{CreatedAt: createdAt, ID: itemID}, nil
}
