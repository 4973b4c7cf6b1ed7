package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"nudge-backend/config"
	"nudge-backend/repository"
)

const userIDContextKey = "user_id"

// UserAuth resolves the caller from the X-User-Id header. An absent header
// falls back to the configured development user; unknown ids are created
// lazily so the rest of the stack can rely on the user row existing.
func UserAuth(userRepo repository.UserRepository, cfg config.AuthConfig, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := cfg.DevUserID

			if raw := c.Request().Header.Get("X-User-Id"); raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "Invalid X-User-Id header")
				}
				userID = parsed
			}

			if err := userRepo.EnsureUser(c.Request().Context(), userID); err != nil {
				logger.ErrorContext(c.Request().Context(), "failed to ensure user", "user_id", userID, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Internal error")
			}

			c.Set(userIDContextKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id set by UserAuth.
func UserID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(userIDContextKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
