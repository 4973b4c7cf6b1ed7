package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Extraction attempt results.
const (
	AttemptResultSuccess = "success"
	AttemptResultError   = "error"
)

// Extraction error codes persisted on attempts. Fetch codes for transient
// upstream conditions are retryable; extraction codes never are, because the
// page has already been retrieved.
const (
	ErrCodeInvalidURL       = "invalid_url"
	ErrCodeTimeout          = "timeout"
	ErrCodeConnectionError  = "connection_error"
	ErrCodeNonHTML          = "non_html"
	ErrCodeMaxBytesExceeded = "max_bytes_exceeded"
	ErrCodeUnexpectedFetch  = "unexpected_fetch_error"
	ErrCodeEmptyExtraction  = "empty_extraction"
	ErrCodeTooShort         = "too_short"
	ErrCodeMissingLink      = "missing_link"
	ErrCodeInternal         = "internal_error"
)

// ExtractionAttempt is one recorded try at turning a URL into readable text.
// Rows are append-only; terminal fields are set at insert time.
type ExtractionAttempt struct {
	ID            uuid.UUID
	ItemID        uuid.UUID
	AttemptNo     int
	StartedAt     time.Time
	FinishedAt    *time.Time
	Result        string
	ErrorCode     *string
	ErrorDetail   *string
	HTTPStatus    *int
	FinalURL      *string
	ContentLength *int
}

// ModelKey is the abstract cost/quality band the summary engine consults.
type ModelKey string

const (
	ModelKeyStrong ModelKey = "strong"
	ModelKeyMid    ModelKey = "mid"
	ModelKeyBudget ModelKey = "budget"
)

// ParseModelKey normalizes and validates a client-supplied model key.
func ParseModelKey(raw string) (ModelKey, error) {
	switch ModelKey(strings.ToLower(strings.TrimSpace(raw))) {
	case ModelKeyStrong:
		return ModelKeyStrong, nil
	case ModelKeyMid:
		return ModelKeyMid, nil
	case ModelKeyBudget:
		return ModelKeyBudget, nil
	default:
		return "", ErrInvalidModelKey
	}
}

// Summary attempt statuses.
const (
	SummaryAttemptSucceeded = "succeeded"
	SummaryAttemptFailed    = "failed"
)

// ItemSummary is one generated summary, kept as append-only history.
type ItemSummary struct {
	ID                 uuid.UUID
	ItemID             uuid.UUID
	UserID             uuid.UUID
	ModelKey           ModelKey
	Provider           *string
	Model              *string
	PromptVersion      string
	InputCharsOriginal int
	InputCharsUsed     int
	OutputWords        int
	SummaryText        string
	CreatedAt          time.Time
}

// SummaryAttempt records one try at generating a summary for (item, model tier).
// The only permitted mutation after insert is the flip from the failed
// placeholder to succeeded, performed by the summary engine on its own row.
type SummaryAttempt struct {
	ID            uuid.UUID
	ItemID        uuid.UUID
	AttemptNo     int
	ModelKey      ModelKey
	Provider      *string
	Model         *string
	PromptVersion string
	StartedAt     time.Time
	FinishedAt    *time.Time
	Status        string
	ErrorDetail   *string
	LatencyMS     *int64
	CreatedAt     time.Time
}
