package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// IndexHandler renders the search page.
type IndexHandler struct {
	title string
}

// NewIndexHandler creates a new index handler.
func NewIndexHandler(title string) *IndexHandler {
	return &IndexHandler{title: title}
}

// Show renders the search box that drives /search and /suggest.
func (h *IndexHandler) Show(c fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Title": h.title,
		"Query": c.Query("q"),
	})
}
