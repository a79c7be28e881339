package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/market/internal/service"
)

// CategoryHandler serves the category list.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List returns every category.
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return err
	}
	return OK(c, categories)
}

type healthResponse struct {
	Timestamp string `json:"timestamp"`
}

// Health reports liveness with the current server time.
func Health(c echo.Context) error {
	return OK(c, healthResponse{Timestamp: time.Now().UTC().Format(time.RFC3339)})
}
