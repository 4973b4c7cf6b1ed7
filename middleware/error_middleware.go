package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"nudge-backend/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// CustomHTTPErrorHandler translates domain sentinel errors to HTTP status
// codes at the boundary. Handlers return structured errors; nothing below
// this layer knows about HTTP.
func CustomHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		status := http.StatusInternalServerError
		message := "An unexpected error occurred. Please try again later."

		var httpErr *echo.HTTPError

		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			status = http.StatusNotFound
			message = "Item not found"
		case errors.Is(err, domain.ErrItemStateConflict):
			status = http.StatusConflict
			message = "Item is not in a valid status for this operation"
		case errors.Is(err, domain.ErrCanonicalTextEmpty):
			status = http.StatusConflict
			message = "Item has no canonical text to summarize"
		case errors.Is(err, domain.ErrInvalidCursor):
			status = http.StatusBadRequest
			message = "Invalid cursor"
		case errors.Is(err, domain.ErrInvalidModelKey):
			status = http.StatusBadRequest
			message = "Invalid model_key"
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok && status < http.StatusInternalServerError {
				message = m
			}
		}

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		} else {
			logger.WarnContext(ctx, "request rejected",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}

		if writeErr := c.JSON(status, errorResponse{Error: message}); writeErr != nil {
			logger.ErrorContext(ctx, "failed to write error response", "error", writeErr)
		}
	}
}
