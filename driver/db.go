package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nudge-backend/retry"
)

// Init connects to Postgres and verifies the connection. The pool stays
// intentionally small; item and summary transactions are short, and the
// target deployment bills per connection-second.
func Init(ctx context.Context, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbConfig := NewDatabaseConfig()
	connString := dbConfig.BuildConnectionString()

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Serverless Postgres resumes from idle on the first connection, so the
	// initial ping gets a backoff schedule instead of a single shot.
	err = retry.Do(ctx, retry.StartupConfig(), logger, "database ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return pool.Ping(pingCtx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.InfoContext(ctx, "database connection established",
		"host", dbConfig.Host,
		"database", dbConfig.DBName,
		"max_conns", poolConfig.MaxConns,
	)

	return pool, nil
}
