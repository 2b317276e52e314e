package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"searchrelay/internal/models"
	"searchrelay/internal/validation"
)

// Recorder stores submitted queries.
type Recorder interface {
	RecordQuery(ctx context.Context, query string) error
}

// SearchHandler records submitted search queries.
type SearchHandler struct {
	store Recorder
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(store Recorder) *SearchHandler {
	return &SearchHandler{store: store}
}

// Save handles POST /search with a JSON body {"query": "..."}.
func (h *SearchHandler) Save(c fiber.Ctx) error {
	var body models.SearchRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "No query provided")
	}

	if err := h.store.RecordQuery(c.Context(), body.Query); err != nil {
		if errors.Is(err, validation.ErrEmptyQuery) {
			return jsonError(c, fiber.StatusBadRequest, "No query provided")
		}
		slog.Error("failed to save query", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "Failed to save query")
	}

	return c.JSON(models.MessageResponse{Message: "Query saved"})
}
