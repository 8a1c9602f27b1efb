package rest

import (
	"context"
	"net/http"
	"time"

	"ecomStore/domain"

	"github.com/labstack/echo/v4"
)

type CategoryService interface {
	GetAllCategories(ctx context.Context) ([]domain.Category, error)
}

type CategoryHandler struct {
	categoryService CategoryService
	timeout         time.Duration
}

func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		timeout:         10 * time.Second,
	}
}

func (h *CategoryHandler) GetAllCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	categories, err := h.categoryService.GetAllCategories(ctx)
	if err != nil {
		return writeError(c, "Failed to find all categories", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}
