package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// PostgresUserRepository implements UserRepository on top of pgx.
type PostgresUserRepository struct {
	pool   Pool
	logger *slog.Logger
}

func NewPostgresUserRepository(pool Pool, logger *slog.Logger) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool, logger: logger}
}

// EnsureUser creates the user row if it does not exist yet. Idempotent.
func (r *PostgresUserRepository) EnsureUser(ctx context.Context, userID uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("database connection not available")
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO users (id)
		VALUES ($1)
		ON CONFLICT (id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}

	if tag.RowsAffected() > 0 {
		r.logger.InfoContext(ctx, "user created", "user_id", userID)
	}

	return nil
}
