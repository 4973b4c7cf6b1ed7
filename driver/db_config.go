package driver

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig carries everything needed to build a pgx connection string.
// Pool sizing defaults are deliberately small: the service targets serverless
// Postgres, where a couple of health-checked connections beat a large pool.
type DatabaseConfig struct {
	URL      string // full DSN; takes precedence over the discrete fields
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxConns        int
	MinConns        int
	MaxConnLifetime string
	MaxConnIdleTime string
}

// NewDatabaseConfig reads DB_* environment variables.
func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:             os.Getenv("DATABASE_URL"),
		Host:            getEnvOrDefault("DB_HOST", "localhost"),
		Port:            getEnvOrDefault("DB_PORT", "5432"),
		User:            getEnvOrDefault("DB_USER", "devuser"),
		Password:        getEnvOrDefault("DB_PASSWORD", "devpassword"),
		DBName:          getEnvOrDefault("DB_NAME", "nudge"),
		SSLMode:         os.Getenv("DB_SSL_MODE"),
		MaxConns:        getEnvAsIntOrDefault("DB_MAX_CONNS", 2),
		MinConns:        getEnvAsIntOrDefault("DB_MIN_CONNS", 0),
		MaxConnLifetime: getEnvOrDefault("DB_MAX_CONN_LIFETIME", "5m"),
		MaxConnIdleTime: getEnvOrDefault("DB_MAX_CONN_IDLE_TIME", "1m"),
	}
}

// BuildConnectionString produces the pgx DSN, applying the SSL-mode default:
// sslmode=require for any non-loopback host unless explicitly overridden.
func (dc *DatabaseConfig) BuildConnectionString() string {
	if dc.URL != "" {
		return withDefaultSSLMode(dc.URL)
	}

	sslMode := dc.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode(dc.Host)
	}

	conn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dc.Host, dc.Port, dc.User, dc.Password, dc.DBName, sslMode,
	)

	conn += fmt.Sprintf(
		" pool_max_conns=%d pool_min_conns=%d pool_max_conn_lifetime=%s pool_max_conn_idle_time=%s",
		dc.MaxConns, dc.MinConns, dc.MaxConnLifetime, dc.MaxConnIdleTime,
	)

	return conn
}

// withDefaultSSLMode appends sslmode=require to a URL-style DSN for
// non-loopback hosts, respecting an explicit sslmode if present.
func withDefaultSSLMode(dsn string) string {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}

	query := parsed.Query()
	if query.Get("sslmode") != "" {
		return dsn
	}

	if isLocalHost(parsed.Hostname()) {
		return dsn
	}

	query.Set("sslmode", "require")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func defaultSSLMode(host string) string {
	if isLocalHost(host) {
		return "prefer"
	}
	return "require"
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1" || strings.HasSuffix(host, ".local")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
