package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"searchrelay/internal/models"
)

// Suggester produces suggestions and enriched results for a raw query.
type Suggester interface {
	Suggest(ctx context.Context, raw string) models.SuggestResponse
}

// SuggestHandler serves autocomplete suggestions.
type SuggestHandler struct {
	pipeline Suggester
}

// NewSuggestHandler creates a new suggest handler.
func NewSuggestHandler(pipeline Suggester) *SuggestHandler {
	return &SuggestHandler{pipeline: pipeline}
}

// Suggest handles GET /suggest?q=...
func (h *SuggestHandler) Suggest(c fiber.Ctx) error {
	return c.JSON(h.pipeline.Suggest(c.Context(), c.Query("q")))
}
