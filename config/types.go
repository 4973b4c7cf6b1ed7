package config

import (
	"time"

	"github.com/google/uuid"

	"nudge-backend/domain"
)

// Config aggregates all service configuration blocks. It is built once at
// startup and treated as immutable; subcomponents receive the sections they
// need.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Auth    AuthConfig    `json:"auth"`
	Worker  WorkerConfig  `json:"worker"`
	Fetch   FetchConfig   `json:"fetch"`
	Extract ExtractConfig `json:"extract"`
	Summary SummaryConfig `json:"summary"`
	LLM     LLMConfig     `json:"llm"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"120s"` // Summary calls block the handler
}

type AuthConfig struct {
	// DevUserID is used when the X-User-Id header is absent (local/dev).
	DevUserID uuid.UUID `json:"dev_user_id" env:"DEV_USER_ID"`
	// InlineNudge fires a best-effort worker batch from the create handler.
	// Dev convenience only; correctness never depends on it.
	InlineNudge bool `json:"inline_nudge" env:"WORKER_INLINE_NUDGE" default:"false"`
}

type WorkerConfig struct {
	PollInterval    time.Duration `json:"poll_interval" env:"WORKER_POLL_SECONDS" default:"3s"`
	BatchSize       int           `json:"batch_size" env:"WORKER_BATCH_SIZE" default:"5"`
	MaxAttempts     int           `json:"max_attempts" env:"WORKER_MAX_ATTEMPTS" default:"2"`
	StaleProcessing time.Duration `json:"stale_processing" env:"WORKER_STALE_PROCESSING_MINUTES" default:"15m"`
}

type FetchConfig struct {
	ConnectTimeout time.Duration `json:"connect_timeout" env:"WORKER_HTTP_CONNECT_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `json:"read_timeout" env:"WORKER_HTTP_READ_TIMEOUT" default:"20s"`
	MaxBytes       int64         `json:"max_bytes" env:"WORKER_MAX_BYTES" default:"2000000"`
	UserAgent      string        `json:"user_agent" env:"WORKER_USER_AGENT" default:"NudgeBot/0.1"`
}

type ExtractConfig struct {
	MinChars int `json:"min_chars" env:"EXTRACT_MIN_CHARS" default:"600"`
	MaxChars int `json:"max_chars" env:"EXTRACT_MAX_CHARS" default:"200000"`
}

type SummaryConfig struct {
	MaxInputChars int    `json:"max_input_chars" env:"SUMMARY_MAX_INPUT_CHARS" default:"20000"`
	WordCap       int    `json:"word_cap" env:"SUMMARY_WORD_CAP" default:"120"`
	PromptVersion string `json:"prompt_version" env:"SUMMARY_PROMPT_VERSION" default:"v0"`
}

// TierConfig describes one LLM cost/quality band. An empty BaseURL selects
// the deterministic local generator.
type TierConfig struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	BaseURL  string        `json:"base_url"`
	APIKey   string        `json:"-"`
	Timeout  time.Duration `json:"timeout"`
}

type LLMConfig struct {
	DefaultModelKey domain.ModelKey `json:"default_model_key" env:"LLM_DEFAULT_MODEL_KEY" default:"mid"`
	Strong          TierConfig      `json:"strong"`
	Mid             TierConfig      `json:"mid"`
	Budget          TierConfig      `json:"budget"`
}

// Tier returns the configuration for a model key.
func (c LLMConfig) Tier(key domain.ModelKey) TierConfig {
	switch key {
	case domain.ModelKeyStrong:
		return c.Strong
	case domain.ModelKeyBudget:
		return c.Budget
	default:
		return c.Mid
	}
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    120 * time.Second,
		},
		Auth: AuthConfig{
			DevUserID:   uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			InlineNudge: false,
		},
		Worker: WorkerConfig{
			PollInterval:    3 * time.Second,
			BatchSize:       5,
			MaxAttempts:     2,
			StaleProcessing: 15 * time.Minute,
		},
		Fetch: FetchConfig{
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    20 * time.Second,
			MaxBytes:       2_000_000,
			UserAgent:      "NudgeBot/0.1",
		},
		Extract: ExtractConfig{
			MinChars: 600,
			MaxChars: 200_000,
		},
		Summary: SummaryConfig{
			MaxInputChars: 20_000,
			WordCap:       120,
			PromptVersion: "v0",
		},
		LLM: LLMConfig{
			DefaultModelKey: domain.ModelKeyMid,
			Strong:          TierConfig{Timeout: 120 * time.Second},
			Mid:             TierConfig{Timeout: 120 * time.Second},
			Budget:          TierConfig{Timeout: 120 * time.Second},
		},
	}
}
