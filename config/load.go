package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"nudge-backend/domain"
)

// LoadConfig builds the configuration from defaults and overrides provided
// via environment variables.
func LoadConfig() (*Config, error) {
	config := defaultConfig()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	if err := loadServerConfig(&config.Server); err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	if err := loadAuthConfig(&config.Auth); err != nil {
		return fmt.Errorf("failed to load auth config: %w", err)
	}

	if err := loadWorkerConfig(&config.Worker); err != nil {
		return fmt.Errorf("failed to load worker config: %w", err)
	}

	if err := loadFetchConfig(&config.Fetch); err != nil {
		return fmt.Errorf("failed to load fetch config: %w", err)
	}

	if err := loadExtractConfig(&config.Extract); err != nil {
		return fmt.Errorf("failed to load extract config: %w", err)
	}

	if err := loadSummaryConfig(&config.Summary); err != nil {
		return fmt.Errorf("failed to load summary config: %w", err)
	}

	if err := loadLLMConfig(&config.LLM); err != nil {
		return fmt.Errorf("failed to load LLM config: %w", err)
	}

	return nil
}

func loadServerConfig(cfg *ServerConfig) error {
	var err error

	if cfg.Port, err = parseIntEnv("SERVER_PORT", cfg.Port); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.ReadTimeout, err = parseDurationEnv("SERVER_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return err
	}
	if cfg.WriteTimeout, err = parseDurationEnv("SERVER_WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return err
	}

	return nil
}

func loadAuthConfig(cfg *AuthConfig) error {
	if raw := os.Getenv("DEV_USER_ID"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid DEV_USER_ID: %w", err)
		}
		cfg.DevUserID = id
	}
	cfg.InlineNudge = parseBoolEnv("WORKER_INLINE_NUDGE", cfg.InlineNudge)
	return nil
}

func loadWorkerConfig(cfg *WorkerConfig) error {
	var err error

	if cfg.PollInterval, err = parseSecondsEnv("WORKER_POLL_SECONDS", cfg.PollInterval); err != nil {
		return err
	}
	if cfg.BatchSize, err = parseIntEnv("WORKER_BATCH_SIZE", cfg.BatchSize); err != nil {
		return err
	}
	if cfg.MaxAttempts, err = parseIntEnv("WORKER_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return err
	}
	if cfg.StaleProcessing, err = parseMinutesEnv("WORKER_STALE_PROCESSING_MINUTES", cfg.StaleProcessing); err != nil {
		return err
	}

	return nil
}

func loadFetchConfig(cfg *FetchConfig) error {
	var err error

	if cfg.ConnectTimeout, err = parseSecondsEnv("WORKER_HTTP_CONNECT_TIMEOUT", cfg.ConnectTimeout); err != nil {
		return err
	}
	if cfg.ReadTimeout, err = parseSecondsEnv("WORKER_HTTP_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return err
	}
	if cfg.MaxBytes, err = parseInt64Env("WORKER_MAX_BYTES", cfg.MaxBytes); err != nil {
		return err
	}
	if ua := os.Getenv("WORKER_USER_AGENT"); ua != "" {
		cfg.UserAgent = ua
	}

	return nil
}

func loadExtractConfig(cfg *ExtractConfig) error {
	var err error

	if cfg.MinChars, err = parseIntEnv("EXTRACT_MIN_CHARS", cfg.MinChars); err != nil {
		return err
	}
	if cfg.MaxChars, err = parseIntEnv("EXTRACT_MAX_CHARS", cfg.MaxChars); err != nil {
		return err
	}

	return nil
}

func loadSummaryConfig(cfg *SummaryConfig) error {
	var err error

	if cfg.MaxInputChars, err = parseIntEnv("SUMMARY_MAX_INPUT_CHARS", cfg.MaxInputChars); err != nil {
		return err
	}
	if cfg.WordCap, err = parseIntEnv("SUMMARY_WORD_CAP", cfg.WordCap); err != nil {
		return err
	}
	if v := os.Getenv("SUMMARY_PROMPT_VERSION"); v != "" {
		cfg.PromptVersion = v
	}

	return nil
}

func loadLLMConfig(cfg *LLMConfig) error {
	if raw := os.Getenv("LLM_DEFAULT_MODEL_KEY"); raw != "" {
		key, err := domain.ParseModelKey(raw)
		if err != nil {
			return fmt.Errorf("invalid LLM_DEFAULT_MODEL_KEY %q: %w", raw, err)
		}
		cfg.DefaultModelKey = key
	}

	loadTierConfig("LLM_STRONG", &cfg.Strong)
	loadTierConfig("LLM_MID", &cfg.Mid)
	loadTierConfig("LLM_BUDGET", &cfg.Budget)

	return nil
}

func loadTierConfig(prefix string, cfg *TierConfig) {
	if v := os.Getenv(prefix + "_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv(prefix + "_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv(prefix + "_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(prefix + "_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if d, err := parseDurationEnv(prefix+"_TIMEOUT", cfg.Timeout); err == nil {
		cfg.Timeout = d
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Worker.BatchSize <= 0 {
		return fmt.Errorf("worker batch size must be positive: %d", config.Worker.BatchSize)
	}
	if config.Worker.MaxAttempts <= 0 {
		return fmt.Errorf("worker max attempts must be positive: %d", config.Worker.MaxAttempts)
	}
	if config.Fetch.MaxBytes <= 0 {
		return fmt.Errorf("fetch max bytes must be positive: %d", config.Fetch.MaxBytes)
	}
	if config.Extract.MinChars < 0 || config.Extract.MaxChars < config.Extract.MinChars {
		return fmt.Errorf("invalid extract char bounds: min=%d max=%d", config.Extract.MinChars, config.Extract.MaxChars)
	}
	if config.Summary.MaxInputChars <= 0 || config.Summary.WordCap <= 0 {
		return fmt.Errorf("invalid summary bounds: input=%d words=%d", config.Summary.MaxInputChars, config.Summary.WordCap)
	}
	// The stale threshold must exceed the worst-case fetch time, otherwise a
	// live worker races the stale sweep.
	if config.Worker.StaleProcessing <= config.Fetch.ConnectTimeout+config.Fetch.ReadTimeout {
		return fmt.Errorf("stale processing threshold %s must exceed fetch timeouts", config.Worker.StaleProcessing)
	}

	return nil
}

func parseIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return parsed, nil
}

func parseInt64Env(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(strings.ReplaceAll(value, "_", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return parsed, nil
}

// parseSecondsEnv reads a plain integer number of seconds, the unit the
// deployment surface uses for worker timeouts.
func parseSecondsEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return time.Duration(parsed) * time.Second, nil
}

func parseMinutesEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return time.Duration(parsed) * time.Minute, nil
}

func parseBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value == "true" || value == "1"
}
