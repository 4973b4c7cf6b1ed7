package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"nudge-backend/config"
	"nudge-backend/domain"
	"nudge-backend/middleware"
	"nudge-backend/repository"
)

const (
	maxURLLength        = 4096
	maxPastedTextLength = 200_000
	defaultListLimit    = 20
	maxListLimit        = 100
)

// ItemHandler exposes the item lifecycle over HTTP.
type ItemHandler struct {
	itemRepo repository.ItemRepository
	summary  SummaryService
	nudger   Nudger
	authCfg  config.AuthConfig
	logger   *slog.Logger
}

func NewItemHandler(
	itemRepo repository.ItemRepository,
	summary SummaryService,
	nudger Nudger,
	authCfg config.AuthConfig,
	logger *slog.Logger,
) *ItemHandler {
	return &ItemHandler{
		itemRepo: itemRepo,
		summary:  summary,
		nudger:   nudger,
		authCfg:  authCfg,
		logger:   logger,
	}
}

// RegisterRoutes mounts the item endpoints on the given group.
func (h *ItemHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/items", h.CreateItem)
	g.GET("/items", h.ListItems)
	g.GET("/items/:id", h.GetItem)
	g.PATCH("/items/:id/text", h.PatchItemText)
	g.POST("/items/:id/summary", h.Summarize)
}

type createItemRequest struct {
	URL              string `json:"url"`
	PastedText       string `json:"pasted_text"`
	PreferPastedText bool   `json:"prefer_pasted_text"`
}

type createItemResponse struct {
	ID     uuid.UUID         `json:"id"`
	Status domain.ItemStatus `json:"status"`
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.URL == "" && req.PastedText == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Provide url or pasted_text")
	}
	if req.URL != "" && len(req.URL) > maxURLLength {
		return echo.NewHTTPError(http.StatusBadRequest, "url is too long")
	}
	if req.PastedText != "" && utf8.RuneCountInString(req.PastedText) > maxPastedTextLength {
		return echo.NewHTTPError(http.StatusBadRequest, "pasted_text is too long")
	}

	item, err := h.itemRepo.CreateItem(ctx, repository.CreateItemParams{
		UserID:           middleware.UserID(c),
		URL:              req.URL,
		PastedText:       req.PastedText,
		PreferPastedText: req.PreferPastedText,
	})
	if err != nil {
		return err
	}

	// Dev convenience: kick the worker once so a freshly queued item is
	// picked up without waiting for the poll interval. Correctness never
	// depends on this.
	if h.authCfg.InlineNudge && h.nudger != nil && item.Status == domain.ItemStatusQueued {
		go func() {
			nudgeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := h.nudger.RunOnce(nudgeCtx); err != nil {
				h.logger.WarnContext(nudgeCtx, "inline nudge failed", "error", err)
			}
		}()
	}

	return c.JSON(http.StatusOK, createItemResponse{ID: item.ID, Status: item.Status})
}

type listItemsResponse struct {
	Items      []itemResponse `json:"items"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

// ListItems handles GET /items with keyset pagination.
func (h *ItemHandler) ListItems(c echo.Context) error {
	ctx := c.Request().Context()

	limit := defaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxListLimit {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 100")
		}
		limit = parsed
	}

	var cursor *domain.Cursor
	if raw := c.QueryParam("cursor"); raw != "" {
		decoded, err := domain.DecodeCursor(raw)
		if err != nil {
			return err
		}
		cursor = &decoded
	}

	items, next, err := h.itemRepo.ListItems(ctx, repository.ListItemsParams{
		UserID: middleware.UserID(c),
		Limit:  limit,
		Cursor: cursor,
	})
	if err != nil {
		return err
	}

	resp := listItemsResponse{Items: make([]itemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, toItemResponse(&item))
	}
	if next != nil {
		encoded := next.Encode()
		resp.NextCursor = &encoded
	}

	return c.JSON(http.StatusOK, resp)
}

// GetItem handles GET /items/:id, optionally including content.
func (h *ItemHandler) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item id")
	}

	item, err := h.itemRepo.GetItem(ctx, middleware.UserID(c), itemID)
	if err != nil {
		return err
	}

	resp := itemDetailResponse{itemResponse: toItemResponse(item)}

	if includeContent, _ := strconv.ParseBool(c.QueryParam("include_content")); includeContent {
		content, err := h.itemRepo.GetItemContent(ctx, itemID)
		if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
			return err
		}
		if content != nil {
			resp.Content = &contentResponse{
				UserPastedText: content.UserPastedText,
				ExtractedText:  content.ExtractedText,
				CanonicalText:  content.CanonicalText,
			}
		}
	}

	return c.JSON(http.StatusOK, resp)
}

type patchItemTextRequest struct {
	PastedText string `json:"pasted_text"`
}

// PatchItemText handles PATCH /items/:id/text, the paste-recovery path.
func (h *ItemHandler) PatchItemText(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item id")
	}

	var req patchItemTextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.PastedText == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pasted_text is required")
	}
	if utf8.RuneCountInString(req.PastedText) > maxPastedTextLength {
		return echo.NewHTTPError(http.StatusBadRequest, "pasted_text is too long")
	}

	item, err := h.itemRepo.PatchItemText(ctx, middleware.UserID(c), itemID, req.PastedText)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, itemDetailResponse{itemResponse: toItemResponse(item)})
}

// Summarize handles POST /items/:id/summary, returning plain text.
func (h *ItemHandler) Summarize(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item id")
	}

	text, err := h.summary.Summarize(ctx, middleware.UserID(c), itemID, c.QueryParam("model_key"))
	if err != nil {
		return err
	}

	return c.String(http.StatusOK, text)
}

type itemResponse struct {
	ID              uuid.UUID               `json:"id"`
	Status          domain.ItemStatus       `json:"status"`
	StatusDetail    *string                 `json:"status_detail"`
	SourceType      domain.ItemSourceType   `json:"source_type"`
	RequestedURL    *string                 `json:"requested_url"`
	FinalTextSource *domain.FinalTextSource `json:"final_text_source"`
	Title           *string                 `json:"title"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

type contentResponse struct {
	UserPastedText *string `json:"user_pasted_text"`
	ExtractedText  *string `json:"extracted_text"`
	CanonicalText  *string `json:"canonical_text"`
}

type itemDetailResponse struct {
	itemResponse
	Content *contentResponse `json:"content,omitempty"`
}

func toItemResponse(item *domain.Item) itemResponse {
	return itemResponse{
		ID:              item.ID,
		Status:          item.Status,
		StatusDetail:    item.StatusDetail,
		SourceType:      item.SourceType,
		RequestedURL:    item.RequestedURL,
		FinalTextSource: item.FinalTextSource,
		Title:           item.Title,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

